package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/handler"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

type fakeStatsStore struct {
	counts     map[domain.EventType]int
	prevCounts map[domain.EventType]int
	calls      int

	events     []domain.LeadEvent
	total      int
	lastParams storage.ListParams
}

func (f *fakeStatsStore) EventTypeCounts(
	_ context.Context, _, _ time.Time,
) (map[domain.EventType]int, error) {
	f.calls++
	if f.calls == 1 {
		return f.counts, nil
	}
	return f.prevCounts, nil
}

func (f *fakeStatsStore) ListEvents(
	_ context.Context, params storage.ListParams,
) ([]domain.LeadEvent, int, error) {
	f.lastParams = params
	return f.events, f.total, nil
}

func getStats(t *testing.T, store *fakeStatsStore, query string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/stats", handler.NewStatsHandler(store, logger.NewNop()).HandleStats)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats"+query, http.NoBody)
	r.ServeHTTP(w, req)
	return w
}

func TestHandleStats_PeriodComparison(t *testing.T) {
	store := &fakeStatsStore{
		counts: map[domain.EventType]int{
			domain.EventPhoneClick: 15,
			domain.EventSMSClick:   5,
		},
		prevCounts: map[domain.EventType]int{
			domain.EventPhoneClick: 10,
		},
	}

	w := getStats(t, store, "?period=7")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if resp.PeriodDays != 7 {
		t.Errorf("expected period 7, got %d", resp.PeriodDays)
	}
	if resp.Total != 20 || resp.PreviousTotal != 10 {
		t.Errorf("expected totals 20/10, got %d/%d", resp.Total, resp.PreviousTotal)
	}
	if resp.ChangePercent != 100 {
		t.Errorf("expected +100%% change, got %v", resp.ChangePercent)
	}

	if len(resp.ByType) != 3 {
		t.Fatalf("expected 3 type rows, got %d", len(resp.ByType))
	}
	phone := resp.ByType[0]
	if phone.EventType != domain.EventPhoneClick || phone.Count != 15 || phone.PreviousCount != 10 {
		t.Errorf("unexpected phone row: %+v", phone)
	}
	if phone.ChangePercent != 50 {
		t.Errorf("expected phone change +50%%, got %v", phone.ChangePercent)
	}

	// Growth from zero reports as a flat +100%.
	sms := resp.ByType[1]
	if sms.Count != 5 || sms.ChangePercent != 100 {
		t.Errorf("unexpected sms row: %+v", sms)
	}
}

func TestHandleStats_InvalidPeriod(t *testing.T) {
	for _, query := range []string{"?period=14", "?period=abc", "?period=-1"} {
		if w := getStats(t, &fakeStatsStore{}, query); w.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, w.Code)
		}
	}
}

func TestHandleStats_DefaultPeriod(t *testing.T) {
	store := &fakeStatsStore{}

	w := getStats(t, store, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp handler.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.PeriodDays != 30 {
		t.Errorf("expected default period 30, got %d", resp.PeriodDays)
	}
}
