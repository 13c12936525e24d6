// Command migrate applies the lead_events schema migrations up or down.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	infraconfig "github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/config"
)

const migrationsSource = "file://migrations"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 || (args[0] != "up" && args[0] != "down") {
		return errors.New(`usage: migrate <up|down>`)
	}
	direction := args[0]

	cfg, err := config.Load(infraconfig.GetConfigPath("config.yml"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := migrate.New(migrationsSource, migrateURL(&cfg.Database))
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	fmt.Printf("Migration %s completed\n", direction)
	return nil
}

// migrateURL builds the postgres:// URL golang-migrate expects; the service
// itself connects with a keyword DSN instead.
func migrateURL(db *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.Database, db.SSLMode,
	)
}
