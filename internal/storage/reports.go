package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

// eventColumns is the projection used when reading full event rows.
const eventColumns = "id, event_time, event_type, event_label, traffic_type, " +
	"device_type, utm_source, utm_medium, utm_campaign, utm_term, ad_id, " +
	"entry_url, submitting_url, page_location"

// sortableColumns whitelists the ORDER BY targets for event listings.
var sortableColumns = map[string]bool{
	"event_time":   true,
	"event_type":   true,
	"traffic_type": true,
	"device_type":  true,
	"utm_source":   true,
}

// ReportStore runs the read-side queries backing the stats API and the
// email reports.
type ReportStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewReportStore creates a read-side store over the given database handle.
func NewReportStore(db *sql.DB, log logger.Logger) *ReportStore {
	return &ReportStore{db: db, log: log}
}

// EventTypeCounts returns the number of events per type inside the window.
// Types with no events are absent from the map.
func (r *ReportStore) EventTypeCounts(
	ctx context.Context, from, to time.Time,
) (map[domain.EventType]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_type, COUNT(*) FROM lead_events
		 WHERE event_time BETWEEN $1 AND $2
		 GROUP BY event_type`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query event type counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.EventType]int)
	for rows.Next() {
		var (
			eventType domain.EventType
			count     int
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("scan event type count: %w", err)
		}
		counts[eventType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event type counts: %w", err)
	}

	return counts, nil
}

// SourceCount is one row of the top-sources breakdown.
type SourceCount struct {
	Source string `json:"utm_source"`
	Count  int    `json:"count"`
}

// TopSources returns the busiest non-empty traffic sources in the window,
// most events first.
func (r *ReportStore) TopSources(
	ctx context.Context, from, to time.Time, limit int,
) ([]SourceCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT utm_source, COUNT(*) AS total FROM lead_events
		 WHERE event_time BETWEEN $1 AND $2 AND utm_source != ''
		 GROUP BY utm_source
		 ORDER BY total DESC
		 LIMIT $3`,
		from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan top source: %w", err)
		}
		sources = append(sources, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top sources: %w", err)
	}

	return sources, nil
}

// PageCount is one row of the top-pages breakdown. PageLocation carries a
// representative full URL for the normalized submitting path.
type PageCount struct {
	SubmittingURL string `json:"submitting_url"`
	PageLocation  string `json:"page_location"`
	Count         int    `json:"count"`
}

// TopPages returns the pages generating the most events in the window,
// most events first.
func (r *ReportStore) TopPages(
	ctx context.Context, from, to time.Time, limit int,
) ([]PageCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT submitting_url, MAX(page_location) AS page_location,
		        COUNT(*) AS total
		 FROM lead_events
		 WHERE event_time BETWEEN $1 AND $2
		 GROUP BY submitting_url
		 ORDER BY total DESC
		 LIMIT $3`,
		from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []PageCount
	for rows.Next() {
		var pc PageCount
		if err := rows.Scan(&pc.SubmittingURL, &pc.PageLocation, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan top page: %w", err)
		}
		pages = append(pages, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top pages: %w", err)
	}

	return pages, nil
}

// MonthCount is one month of the lead-volume trend.
type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// MonthlyTrend returns per-month event counts for the given number of
// months ending at the month containing until, oldest first. Months with no
// events are absent.
func (r *ReportStore) MonthlyTrend(
	ctx context.Context, months int, until time.Time,
) ([]MonthCount, error) {
	u := until.UTC()
	end := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	start := end.AddDate(0, -months, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT date_trunc('month', event_time) AS month, COUNT(*)
		 FROM lead_events
		 WHERE event_time >= $1 AND event_time < $2
		 GROUP BY month
		 ORDER BY month ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query monthly trend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trend []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("scan monthly trend: %w", err)
		}
		trend = append(trend, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly trend: %w", err)
	}

	return trend, nil
}

// ListParams controls pagination and ordering of event listings.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// ListEvents returns one page of events plus the total row count. OrderBy
// must be a whitelisted column; anything else falls back to event_time.
func (r *ReportStore) ListEvents(
	ctx context.Context, params ListParams,
) ([]domain.LeadEvent, int, error) {
	orderBy := params.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "event_time"
	}
	direction := "ASC"
	if params.Desc {
		direction = "DESC"
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lead_events",
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(eventColumns)
	sb.WriteString(" FROM lead_events ORDER BY ")
	sb.WriteString(orderBy)
	sb.WriteString(" ")
	sb.WriteString(direction)
	sb.WriteString(" LIMIT $1 OFFSET $2")

	rows, err := r.db.QueryContext(ctx, sb.String(), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []domain.LeadEvent
	for rows.Next() {
		var ev domain.LeadEvent
		if err := rows.Scan(
			&ev.ID, &ev.EventTime, &ev.EventType, &ev.EventLabel,
			&ev.TrafficType, &ev.DeviceType,
			&ev.Source, &ev.Medium, &ev.Campaign, &ev.Term,
			&ev.AdID, &ev.EntryURL, &ev.SubmittingURL, &ev.PageLocation,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	return events, total, nil
}
