package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

type fakeMailer struct {
	to      []string
	subject string
	body    string
	sends   int
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	m.to = to
	m.subject = subject
	m.body = body
	m.sends++
	return nil
}

func TestNotifySendsToRecipients(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := config.ReportConfig{
		SiteName:          "Example Plumbing",
		InstantEnabled:    true,
		InstantRecipients: []string{"owner@example.com"},
	}
	n := NewNotifier(cfg, mailer, logger.NewNop())

	n.Notify(domain.LeadEvent{
		EventTime:  time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		EventType:  domain.EventSMSClick,
		EventLabel: "5551234567",
	})

	require.Equal(t, 1, mailer.sends)
	assert.Equal(t, []string{"owner@example.com"}, mailer.to)
	assert.Contains(t, mailer.subject, "SMS Click")
}

func TestNotifyDisabledIsNoOp(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := config.ReportConfig{InstantRecipients: []string{"owner@example.com"}}
	n := NewNotifier(cfg, mailer, logger.NewNop())

	n.Notify(domain.LeadEvent{EventType: domain.EventPhoneClick})

	assert.Equal(t, 0, mailer.sends)
	assert.False(t, n.Enabled())
}

func TestSendTestUsesSampleLead(t *testing.T) {
	mailer := &fakeMailer{}
	cfg := config.ReportConfig{
		SiteName:          "Example Plumbing",
		InstantRecipients: []string{"owner@example.com"},
	}
	n := NewNotifier(cfg, mailer, logger.NewNop())

	err := n.SendTest(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, mailer.body, "555-123-4567 (Test)")
	assert.Contains(t, mailer.body, "spring_sale")
}

func TestSendTestWithoutRecipients(t *testing.T) {
	n := NewNotifier(config.ReportConfig{}, &fakeMailer{}, logger.NewNop())

	err := n.SendTest(time.Now())
	assert.ErrorIs(t, err, ErrNoRecipients)
}
