package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

const (
	topLimit    = 3
	trendMonths = 12
)

// StatsSource is the slice of the read-side store the report builders need.
type StatsSource interface {
	EventTypeCounts(ctx context.Context, from, to time.Time) (map[domain.EventType]int, error)
	TopSources(ctx context.Context, from, to time.Time, limit int) ([]storage.SourceCount, error)
	TopPages(ctx context.Context, from, to time.Time, limit int) ([]storage.PageCount, error)
	MonthlyTrend(ctx context.Context, months int, until time.Time) ([]storage.MonthCount, error)
}

// digestTypes fixes the display order of event types in the digest.
var digestTypes = []domain.EventType{
	domain.EventPhoneClick,
	domain.EventSMSClick,
	domain.EventEmailClick,
}

// eventIcons maps each event type to its digest bullet icon.
var eventIcons = map[domain.EventType]string{
	domain.EventPhoneClick: "📞",
	domain.EventSMSClick:   "💬",
	domain.EventEmailClick: "📧",
}

// TypeStat is one event-type line in the digest.
type TypeStat struct {
	Type  domain.EventType
	Title string
	Icon  string
	Count int
}

// TrendPoint is one month of the digest's lead-volume chart.
type TrendPoint struct {
	Label string
	Count int
}

// DigestData is everything the monthly digest template renders.
type DigestData struct {
	SiteName      string
	LogoURL       string
	MonthLabel    string
	TotalLeads    int
	PreviousTotal int
	ChangePercent float64
	ByType        []TypeStat
	TopSources    []storage.SourceCount
	TopPages      []storage.PageCount
	Trend         []TrendPoint
	// ShowTrend gates the chart: a single month of data is not a trend.
	ShowTrend bool
}

// BuildDigest assembles the digest for the calendar month before now:
// totals per event type, change against the month before that, top sources
// and pages, and the trailing twelve-month trend.
func BuildDigest(
	ctx context.Context,
	src StatsSource,
	cfg config.ReportConfig,
	now time.Time,
) (*DigestData, error) {
	u := now.UTC()
	thisMonth := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	digestMonth := thisMonth.AddDate(0, -1, 0)

	from, to := MonthWindow(digestMonth)
	label := digestMonth.Format("January 2006")
	return buildDigest(ctx, src, cfg, from, to, digestMonth, label)
}

// BuildTestDigest assembles a digest over the last 30 days so recipients
// can preview the report without waiting for month end.
func BuildTestDigest(
	ctx context.Context,
	src StatsSource,
	cfg config.ReportConfig,
	now time.Time,
) (*DigestData, error) {
	to := now.UTC()
	day := to.AddDate(0, 0, -29)
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return buildDigest(ctx, src, cfg, from, to, to, "Test Report (Last 30 Days)")
}

func buildDigest(
	ctx context.Context,
	src StatsSource,
	cfg config.ReportConfig,
	from, to, trendUntil time.Time,
	label string,
) (*DigestData, error) {
	prevFrom := from.AddDate(0, -1, 0)
	prevTo := to.AddDate(0, -1, 0)

	counts, err := src.EventTypeCounts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("digest counts: %w", err)
	}
	prevCounts, err := src.EventTypeCounts(ctx, prevFrom, prevTo)
	if err != nil {
		return nil, fmt.Errorf("digest previous counts: %w", err)
	}

	var total, prevTotal int
	byType := make([]TypeStat, 0, len(digestTypes))
	for _, eventType := range digestTypes {
		count := counts[eventType]
		total += count
		prevTotal += prevCounts[eventType]
		byType = append(byType, TypeStat{
			Type:  eventType,
			Title: eventType.Title(),
			Icon:  eventIcons[eventType],
			Count: count,
		})
	}

	sources, err := src.TopSources(ctx, from, to, topLimit)
	if err != nil {
		return nil, fmt.Errorf("digest top sources: %w", err)
	}
	pages, err := src.TopPages(ctx, from, to, topLimit)
	if err != nil {
		return nil, fmt.Errorf("digest top pages: %w", err)
	}

	months, err := src.MonthlyTrend(ctx, trendMonths, trendUntil)
	if err != nil {
		return nil, fmt.Errorf("digest trend: %w", err)
	}
	trend, monthsWithData := padTrend(months, trendUntil)

	return &DigestData{
		SiteName:      cfg.SiteName,
		LogoURL:       cfg.LogoURL,
		MonthLabel:    label,
		TotalLeads:    total,
		PreviousTotal: prevTotal,
		ChangePercent: PercentChange(total, prevTotal),
		ByType:        byType,
		TopSources:    sources,
		TopPages:      pages,
		Trend:         trend,
		ShowTrend:     monthsWithData > 1,
	}, nil
}

// padTrend expands the store's sparse month counts into a full
// trendMonths-long series ending at the month containing until, filling
// quiet months with zero so the chart always shows the whole year. It also
// reports how many months actually had events.
func padTrend(months []storage.MonthCount, until time.Time) ([]TrendPoint, int) {
	byMonth := make(map[time.Time]int, len(months))
	for _, mc := range months {
		m := mc.Month.UTC()
		byMonth[time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)] = mc.Count
	}

	u := until.UTC()
	last := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)

	trend := make([]TrendPoint, 0, trendMonths)
	withData := 0
	for i := trendMonths - 1; i >= 0; i-- {
		month := last.AddDate(0, -i, 0)
		count := byMonth[month]
		if count > 0 {
			withData++
		}
		trend = append(trend, TrendPoint{
			Label: month.Format("Jan 2006"),
			Count: count,
		})
	}
	return trend, withData
}
