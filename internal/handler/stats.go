package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/report"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

// StatsStore is the slice of the read-side store the API handlers use.
type StatsStore interface {
	EventTypeCounts(ctx context.Context, from, to time.Time) (map[domain.EventType]int, error)
	ListEvents(ctx context.Context, params storage.ListParams) ([]domain.LeadEvent, int, error)
}

// statTypes fixes the order of event types in stats responses.
var statTypes = []domain.EventType{
	domain.EventPhoneClick,
	domain.EventSMSClick,
	domain.EventEmailClick,
}

// TypeStat is one event type's period-over-period comparison.
type TypeStat struct {
	EventType     domain.EventType `json:"event_type"`
	Count         int              `json:"count"`
	PreviousCount int              `json:"previous_count"`
	ChangePercent float64          `json:"change_percent"`
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	PeriodDays    int        `json:"period_days"`
	From          time.Time  `json:"from"`
	To            time.Time  `json:"to"`
	Total         int        `json:"total"`
	PreviousTotal int        `json:"previous_total"`
	ChangePercent float64    `json:"change_percent"`
	ByType        []TypeStat `json:"by_type"`
}

// StatsHandler serves the period comparison dashboard numbers.
type StatsHandler struct {
	store  StatsStore
	logger logger.Logger
}

// NewStatsHandler creates a StatsHandler over the given store.
func NewStatsHandler(store StatsStore, log logger.Logger) *StatsHandler {
	return &StatsHandler{store: store, logger: log}
}

// HandleStats compares the requested period against the one before it.
func (h *StatsHandler) HandleStats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("period", "30"))
	if err != nil || !report.ValidPeriods[days] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be 1, 7, 30, or 90"})
		return
	}

	from, to := report.Window(days, time.Now())
	prevFrom, prevTo := report.PreviousWindow(from, days)

	counts, err := h.store.EventTypeCounts(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, "query current period", err)
		return
	}
	prevCounts, err := h.store.EventTypeCounts(c.Request.Context(), prevFrom, prevTo)
	if err != nil {
		h.fail(c, "query previous period", err)
		return
	}

	resp := StatsResponse{
		PeriodDays: days,
		From:       from,
		To:         to,
		ByType:     make([]TypeStat, 0, len(statTypes)),
	}
	for _, eventType := range statTypes {
		current, previous := counts[eventType], prevCounts[eventType]
		resp.Total += current
		resp.PreviousTotal += previous
		resp.ByType = append(resp.ByType, TypeStat{
			EventType:     eventType,
			Count:         current,
			PreviousCount: previous,
			ChangePercent: report.PercentChange(current, previous),
		})
	}
	resp.ChangePercent = report.PercentChange(resp.Total, resp.PreviousTotal)

	c.JSON(http.StatusOK, resp)
}

func (h *StatsHandler) fail(c *gin.Context, op string, err error) {
	h.logger.Error("Stats query failed",
		logger.String("op", op),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
}
