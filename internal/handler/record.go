// Package handler holds the gin handlers for the event collector and the
// reporting API.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/nonce"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/report"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

// RecordHandler ingests tracked lead events.
type RecordHandler struct {
	signer   *nonce.Signer
	buffer   *storage.Buffer
	notifier *report.Notifier
	logger   logger.Logger
}

// NewRecordHandler creates a RecordHandler with the given dependencies.
func NewRecordHandler(
	signer *nonce.Signer,
	buffer *storage.Buffer,
	notifier *report.Notifier,
	log logger.Logger,
) *RecordHandler {
	return &RecordHandler{
		signer:   signer,
		buffer:   buffer,
		notifier: notifier,
		logger:   log,
	}
}

// HandleRecord validates the nonce, enqueues the event, and fires the
// instant notification.
func (h *RecordHandler) HandleRecord(c *gin.Context) {
	if c.PostForm(domain.FieldAction) != domain.ActionRecordEvent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err := h.signer.Verify(c.PostForm(domain.FieldNonce), time.Now()); err != nil {
		h.logger.Warn("Rejected event with bad nonce", logger.Error(err))
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid nonce"})
		return
	}

	event := domain.LeadEventFromForm(c.PostForm)
	if event.EventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing event type"})
		return
	}
	event.EventTime = time.Now().UTC()

	if !h.buffer.Send(event) {
		h.logger.Warn("Lead event buffer full, dropping event",
			logger.String("event_type", string(event.EventType)),
		)
	}

	if h.notifier != nil && h.notifier.Enabled() {
		go h.notifier.Notify(event)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
