package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/report"
)

// DigestSender sends an on-demand preview of the monthly digest.
type DigestSender interface {
	SendTest(ctx context.Context) error
}

// LeadNotifier sends an on-demand sample of the instant lead notification.
type LeadNotifier interface {
	SendTest(now time.Time) error
}

// ReportsHandler triggers test sends of the report emails.
type ReportsHandler struct {
	digest   DigestSender
	notifier LeadNotifier
	logger   logger.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(digest DigestSender, notifier LeadNotifier, log logger.Logger) *ReportsHandler {
	return &ReportsHandler{digest: digest, notifier: notifier, logger: log}
}

// HandleTestDigest sends a last-30-days digest to the configured recipients.
func (h *ReportsHandler) HandleTestDigest(c *gin.Context) {
	h.respond(c, "test digest", h.digest.SendTest(c.Request.Context()))
}

// HandleTestNotification sends a sample lead notification to the configured
// recipients.
func (h *ReportsHandler) HandleTestNotification(c *gin.Context) {
	h.respond(c, "test notification", h.notifier.SendTest(time.Now()))
}

func (h *ReportsHandler) respond(c *gin.Context, op string, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, report.ErrNoRecipients):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipient email address is saved"})
	default:
		h.logger.Error("Report test send failed",
			logger.String("op", op),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send " + op})
	}
}
