package domain

import "net/url"

// Form field names for the collector wire format. The tracker encodes these
// into the POST body and the record handler reads them back; both sides share
// this package so the two cannot drift.
const (
	FieldAction        = "action"
	FieldNonce         = "nonce"
	FieldEventType     = "eventType"
	FieldEventLabel    = "eventLabel"
	FieldSource        = "utm_source"
	FieldMedium        = "utm_medium"
	FieldCampaign      = "utm_campaign"
	FieldTerm          = "utm_term"
	FieldAdID          = "ad_id"
	FieldEntryURL      = "entryUrl"
	FieldSubmittingURL = "submittingUrl"
	FieldDeviceType    = "deviceType"
	FieldTrafficType   = "trafficType"
	FieldPageLocation  = "pageLocation"
)

// ActionRecordEvent is the fixed discriminator value the collector expects
// in the "action" field of every event submission.
const ActionRecordEvent = "record_event"

// FormValues encodes the client-supplied fields of the event as a
// form-encoded body. Action and nonce are added by the delivery channel,
// EventTime and ID only exist server-side.
func (e LeadEvent) FormValues() url.Values {
	v := url.Values{}
	v.Set(FieldEventType, string(e.EventType))
	v.Set(FieldEventLabel, e.EventLabel)
	v.Set(FieldSource, e.Source)
	v.Set(FieldMedium, e.Medium)
	v.Set(FieldCampaign, e.Campaign)
	v.Set(FieldTerm, e.Term)
	v.Set(FieldAdID, e.AdID)
	v.Set(FieldEntryURL, e.EntryURL)
	v.Set(FieldSubmittingURL, e.SubmittingURL)
	v.Set(FieldDeviceType, string(e.DeviceType))
	v.Set(FieldTrafficType, string(e.TrafficType))
	v.Set(FieldPageLocation, e.PageLocation)
	return v
}

// LeadEventFromForm decodes an event from submitted form fields.
// get should return the first value for a field name, or "" if absent.
func LeadEventFromForm(get func(string) string) LeadEvent {
	return LeadEvent{
		EventType:     EventType(get(FieldEventType)),
		EventLabel:    get(FieldEventLabel),
		Source:        get(FieldSource),
		Medium:        get(FieldMedium),
		Campaign:      get(FieldCampaign),
		Term:          get(FieldTerm),
		AdID:          get(FieldAdID),
		EntryURL:      get(FieldEntryURL),
		SubmittingURL: get(FieldSubmittingURL),
		DeviceType:    DeviceType(get(FieldDeviceType)),
		TrafficType:   TrafficType(get(FieldTrafficType)),
		PageLocation:  get(FieldPageLocation),
	}
}
