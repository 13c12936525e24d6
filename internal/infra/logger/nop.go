package logger

// nopLogger discards everything. Tests use it so components that require a
// Logger stay quiet.
type nopLogger struct{}

// NewNop returns a logger that discards all output.
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field) {}

func (nopLogger) Info(string, ...Field) {}

func (nopLogger) Warn(string, ...Field) {}

func (nopLogger) Error(string, ...Field) {}

// Fatal discards the message and does not exit.
func (nopLogger) Fatal(string, ...Field) {}

func (l nopLogger) With(...Field) Logger { return l }

func (nopLogger) Sync() error { return nil }
