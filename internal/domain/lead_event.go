// Package domain defines the lead event model shared by the tracker core,
// the ingestion handlers, and the reporting pipeline.
package domain

import "time"

// EventType identifies the kind of contact action a visitor took.
type EventType string

const (
	// EventPhoneClick is a click on a tel: link.
	EventPhoneClick EventType = "phone_click"
	// EventSMSClick is a click on an sms: link.
	EventSMSClick EventType = "sms_click"
	// EventEmailClick is a click on a mailto: link or an element carrying
	// an explicit email marker attribute.
	EventEmailClick EventType = "email_click"
)

// DeviceType classifies the visitor's device from the user-agent string.
type DeviceType string

const (
	// DeviceMobile matches user agents containing "Mobi" or "Android".
	DeviceMobile DeviceType = "Mobile"
	// DeviceDesktop is everything else.
	DeviceDesktop DeviceType = "Desktop"
)

// TrafficType classifies how the visitor arrived, evaluated fresh on every
// page view (unlike source/medium, which stick to the first touch).
type TrafficType string

const (
	// TrafficPaid covers paid mediums (cpc, paid, ppc) and ad-click visits.
	TrafficPaid TrafficType = "Paid"
	// TrafficSocial covers visits referred by a social network.
	TrafficSocial TrafficType = "Social"
	// TrafficReferral covers visits with any other non-empty referrer.
	TrafficReferral TrafficType = "Referral"
	// TrafficDirect covers visits with no referrer and no paid signal.
	TrafficDirect TrafficType = "Direct"
)

// LeadEvent is one tracked visitor interaction together with the attribution
// snapshot that was resolved for the page view it happened on. EventTime and
// ID are assigned server-side; everything else comes from the client.
type LeadEvent struct {
	ID            int64       `json:"id,omitempty"`
	EventTime     time.Time   `json:"event_time"`
	EventType     EventType   `json:"event_type"`
	EventLabel    string      `json:"event_label"`
	TrafficType   TrafficType `json:"traffic_type"`
	DeviceType    DeviceType  `json:"device_type"`
	Source        string      `json:"utm_source"`
	Medium        string      `json:"utm_medium"`
	Campaign      string      `json:"utm_campaign"`
	Term          string      `json:"utm_term"`
	AdID          string      `json:"ad_id"`
	EntryURL      string      `json:"entry_url"`
	SubmittingURL string      `json:"submitting_url"`
	PageLocation  string      `json:"page_location"`
}

// Title returns the event type as a human-readable heading,
// e.g. "phone_click" becomes "Phone Click".
func (t EventType) Title() string {
	out := make([]byte, 0, len(t))
	upper := true
	for i := 0; i < len(t); i++ {
		c := t[i]
		switch {
		case c == '_':
			out = append(out, ' ')
			upper = true
		case upper && 'a' <= c && c <= 'z':
			out = append(out, c-'a'+'A')
			upper = false
		default:
			out = append(out, c)
			upper = false
		}
	}
	return string(out)
}
