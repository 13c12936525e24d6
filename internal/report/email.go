package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/config"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
)

const digestHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933; max-width: 640px; margin: 0 auto;">
  {{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.SiteName}}" style="max-height: 48px; margin: 16px 0;">{{end}}
  <h1 style="font-size: 20px;">{{.SiteName}}: Lead Report for {{.MonthLabel}}</h1>

  <p style="font-size: 32px; margin: 8px 0;">{{.TotalLeads}} leads</p>
  <p style="color: {{if lt .ChangePercent 0.0}}#b91c1c{{else}}#15803d{{end}};">
    {{printf "%+.1f%%" .ChangePercent}} vs. previous month ({{.PreviousTotal}} leads)
  </p>

  <h2 style="font-size: 16px;">By type</h2>
  <ul style="list-style: none; padding: 0;">
    {{range .ByType}}<li style="padding: 4px 0;">{{.Icon}} {{.Title}}: <strong>{{.Count}}</strong></li>
    {{end}}
  </ul>

  {{if .TopSources}}
  <h2 style="font-size: 16px;">Top sources</h2>
  <ol>
    {{range .TopSources}}<li>{{.Source}} ({{.Count}})</li>
    {{end}}
  </ol>
  {{end}}

  {{if .TopPages}}
  <h2 style="font-size: 16px;">Top pages</h2>
  <ol>
    {{range .TopPages}}<li><a href="{{.PageLocation}}">{{.SubmittingURL}}</a> ({{.Count}})</li>
    {{end}}
  </ol>
  {{end}}

  {{if .ShowTrend}}
  <h2 style="font-size: 16px;">Twelve-month trend</h2>
  <table style="border-collapse: collapse;">
    {{range .Trend}}<tr>
      <td style="padding: 2px 8px 2px 0; white-space: nowrap;">{{.Label}}</td>
      <td style="padding: 2px 0;"><span style="display: inline-block; background: #2563eb; height: 10px; width: {{barWidth .Count}}px;"></span> {{.Count}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  <p style="color: #50575e; border-top: 1px solid #e5e7eb; padding-top: 16px;">
    {{if ge .TotalLeads .PreviousTotal}}Great work! Let&#39;s keep building on this momentum.{{else}}Let&#39;s focus on improving these numbers for next month&#39;s report.{{end}}
  </p>
</body>
</html>`

const instantHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933; max-width: 640px; margin: 0 auto;">
  {{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.SiteName}}" style="max-height: 48px; margin: 16px 0;">{{end}}
  <h1 style="font-size: 20px;">{{.Icon}} New {{.Title}}</h1>
  <table style="border-collapse: collapse;">
    {{range .Fields}}<tr>
      <td style="padding: 4px 12px 4px 0; color: #6b7280; white-space: nowrap;">{{.Label}}</td>
      <td style="padding: 4px 0;">{{.Value}}</td>
    </tr>
    {{end}}
  </table>
</body>
</html>`

// maxBarWidth caps the trend bar length in pixels.
const maxBarWidth = 200

var digestTmpl = template.Must(
	template.New("digest").Funcs(template.FuncMap{
		"barWidth": func(count int) int { return count },
	}).Parse(digestHTML),
)

var instantTmpl = template.Must(template.New("instant").Parse(instantHTML))

// RenderDigest renders the monthly digest email. Trend bars are scaled so
// the busiest month fills the chart.
func RenderDigest(data *DigestData) (subject, body string, err error) {
	max := 0
	for _, point := range data.Trend {
		if point.Count > max {
			max = point.Count
		}
	}

	tmpl := template.Must(digestTmpl.Clone()).Funcs(template.FuncMap{
		"barWidth": func(count int) int {
			if max == 0 {
				return 0
			}
			return count * maxBarWidth / max
		},
	})

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render digest: %w", err)
	}

	subject = fmt.Sprintf("[%s] Monthly Lead Report: %s", data.SiteName, data.MonthLabel)
	return subject, sb.String(), nil
}

// FieldRow is one labeled line of the instant notification.
type FieldRow struct {
	Label string
	Value string
}

// instantData feeds the instant notification template.
type instantData struct {
	SiteName string
	LogoURL  string
	Title    string
	Icon     string
	Fields   []FieldRow
}

// RenderInstant renders the new-lead notification for one event. Empty
// attribution fields are left out rather than shown blank.
func RenderInstant(cfg config.ReportConfig, event domain.LeadEvent) (subject, body string, err error) {
	rows := []FieldRow{
		{Label: "Time", Value: event.EventTime.UTC().Format(time.RFC1123)},
		{Label: "Contact", Value: event.EventLabel},
		{Label: "Traffic type", Value: string(event.TrafficType)},
		{Label: "Device", Value: string(event.DeviceType)},
		{Label: "Source", Value: event.Source},
		{Label: "Medium", Value: event.Medium},
		{Label: "Campaign", Value: event.Campaign},
		{Label: "Term", Value: event.Term},
		{Label: "Ad ID", Value: event.AdID},
		{Label: "Entry URL", Value: event.EntryURL},
		{Label: "Page", Value: event.PageLocation},
	}

	fields := make([]FieldRow, 0, len(rows))
	for _, row := range rows {
		if row.Value != "" {
			fields = append(fields, row)
		}
	}

	data := instantData{
		SiteName: cfg.SiteName,
		LogoURL:  cfg.LogoURL,
		Title:    event.EventType.Title(),
		Icon:     eventIcons[event.EventType],
		Fields:   fields,
	}

	var sb strings.Builder
	if err := instantTmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render notification: %w", err)
	}

	subject = fmt.Sprintf("[%s] New Lead: %s", cfg.SiteName, data.Title)
	return subject, sb.String(), nil
}
