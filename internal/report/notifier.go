package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

// ErrNoRecipients is returned by test sends when no recipient address is
// configured for the requested report.
var ErrNoRecipients = errors.New("no recipient email address configured")

// Notifier sends the instant new-lead email for recorded events.
type Notifier struct {
	cfg    config.ReportConfig
	mailer Mailer
	log    logger.Logger
}

// NewNotifier creates a notifier; it is a no-op when instant notifications
// are disabled or have no recipients.
func NewNotifier(cfg config.ReportConfig, mailer Mailer, log logger.Logger) *Notifier {
	return &Notifier{cfg: cfg, mailer: mailer, log: log}
}

// Enabled reports whether Notify would do anything.
func (n *Notifier) Enabled() bool {
	return n.cfg.InstantEnabled && len(n.cfg.InstantRecipients) > 0
}

// Notify renders and sends the notification for one event. Failures are
// logged; a lost email must not fail the recording request.
func (n *Notifier) Notify(event domain.LeadEvent) {
	if !n.Enabled() {
		return
	}

	subject, body, err := RenderInstant(n.cfg, event)
	if err != nil {
		n.log.Error("Failed to render lead notification", logger.Error(err))
		return
	}

	if err := n.mailer.Send(n.cfg.InstantRecipients, subject, body); err != nil {
		n.log.Error("Failed to send lead notification",
			logger.String("event_type", string(event.EventType)),
			logger.Error(err),
		)
		return
	}

	n.log.Info("Sent lead notification",
		logger.String("event_type", string(event.EventType)),
		logger.Int("recipients", len(n.cfg.InstantRecipients)),
	)
}

// SendTest sends a sample notification so recipients can verify delivery
// without waiting for a real lead.
func (n *Notifier) SendTest(now time.Time) error {
	if len(n.cfg.InstantRecipients) == 0 {
		return ErrNoRecipients
	}

	sample := domain.LeadEvent{
		EventTime:    now.UTC(),
		EventType:    domain.EventPhoneClick,
		EventLabel:   "555-123-4567 (Test)",
		TrafficType:  domain.TrafficDirect,
		DeviceType:   domain.DeviceDesktop,
		Source:       "google",
		Medium:       "cpc",
		Campaign:     "spring_sale",
		Term:         "test keyword",
		PageLocation: "/test-page/",
	}

	subject, body, err := RenderInstant(n.cfg, sample)
	if err != nil {
		return fmt.Errorf("render test notification: %w", err)
	}
	return n.mailer.Send(n.cfg.InstantRecipients, subject, body)
}
