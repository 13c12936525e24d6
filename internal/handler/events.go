package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

// Pagination limits for event listings.
const (
	defaultPage    = 1
	defaultPerPage = 25
	maxPerPage     = 100
)

// EventsResponse is the body of GET /api/v1/events.
type EventsResponse struct {
	Events  []domain.LeadEvent `json:"events"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// EventsHandler serves the paginated raw event listing.
type EventsHandler struct {
	store  StatsStore
	logger logger.Logger
}

// NewEventsHandler creates an EventsHandler over the given store.
func NewEventsHandler(store StatsStore, log logger.Logger) *EventsHandler {
	return &EventsHandler{store: store, logger: log}
}

// HandleEvents lists events one page at a time, newest first by default.
func (h *EventsHandler) HandleEvents(c *gin.Context) {
	page := intQuery(c, "page", defaultPage)
	if page < defaultPage {
		page = defaultPage
	}
	perPage := intQuery(c, "per_page", defaultPerPage)
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	params := storage.ListParams{
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
		OrderBy: c.DefaultQuery("sort", "event_time"),
		Desc:    c.DefaultQuery("order", "desc") != "asc",
	}

	events, total, err := h.store.ListEvents(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("Event listing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "events unavailable"})
		return
	}
	if events == nil {
		events = []domain.LeadEvent{}
	}

	c.JSON(http.StatusOK, EventsResponse{
		Events:  events,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
