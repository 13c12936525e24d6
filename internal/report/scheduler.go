package report

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

// digestTimeout bounds one digest build-and-send run.
const digestTimeout = 2 * time.Minute

// Scheduler runs the monthly digest on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.ReportConfig
	src    StatsSource
	mailer Mailer
	log    logger.Logger
}

// NewScheduler creates a digest scheduler. Schedules are standard 5-field
// cron expressions evaluated in UTC.
func NewScheduler(
	cfg config.ReportConfig,
	src StatsSource,
	mailer Mailer,
	log logger.Logger,
) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
		cron.WithLocation(time.UTC),
	)

	return &Scheduler{cron: c, cfg: cfg, src: src, mailer: mailer, log: log}
}

// Start registers the digest job and starts the cron loop. Does nothing
// when the digest is disabled or has no recipients.
func (s *Scheduler) Start() error {
	if !s.cfg.DigestEnabled || len(s.cfg.DigestRecipients) == 0 {
		s.log.Info("Monthly digest disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.DigestSchedule, s.runDigest); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Monthly digest scheduled",
		logger.String("schedule", s.cfg.DigestSchedule),
		logger.Int("recipients", len(s.cfg.DigestRecipients)),
	)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SendTest builds and sends a digest over the last 30 days so the report
// can be previewed on demand.
func (s *Scheduler) SendTest(ctx context.Context) error {
	if len(s.cfg.DigestRecipients) == 0 {
		return ErrNoRecipients
	}

	data, err := BuildTestDigest(ctx, s.src, s.cfg, time.Now())
	if err != nil {
		return fmt.Errorf("build test digest: %w", err)
	}

	subject, body, err := RenderDigest(data)
	if err != nil {
		return fmt.Errorf("render test digest: %w", err)
	}
	return s.mailer.Send(s.cfg.DigestRecipients, subject, body)
}

// runDigest builds and sends the digest for the previous calendar month.
func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	data, err := BuildDigest(ctx, s.src, s.cfg, time.Now())
	if err != nil {
		s.log.Error("Failed to build monthly digest", logger.Error(err))
		return
	}

	subject, body, err := RenderDigest(data)
	if err != nil {
		s.log.Error("Failed to render monthly digest", logger.Error(err))
		return
	}

	if err := s.mailer.Send(s.cfg.DigestRecipients, subject, body); err != nil {
		s.log.Error("Failed to send monthly digest", logger.Error(err))
		return
	}

	s.log.Info("Sent monthly digest",
		logger.String("month", data.MonthLabel),
		logger.Int("total_leads", data.TotalLeads),
	)
}
