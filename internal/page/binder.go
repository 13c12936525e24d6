package page

import (
	"strings"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/attribution"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
)

// Contact-action URL schemes recognized on anchor elements.
const (
	schemeTel    = "tel:"
	schemeSMS    = "sms:"
	schemeMailto = "mailto:"
)

// emailMarkerAttr marks a non-anchor element as an email action; its value
// is used as the event label.
const emailMarkerAttr = "data-email"

// Target is a contact-action element with its derived event identity.
type Target struct {
	Element *Element
	Type    domain.EventType
	Label   string
}

// CollectTargets enumerates the elements that qualify for click tracking:
// anchors whose href starts with tel:, sms:, or mailto:, plus any element
// carrying the email marker attribute. The scheme is stripped from the
// label; the marker attribute value is used verbatim.
func CollectTargets(elements []*Element) []Target {
	var targets []Target
	for _, el := range elements {
		if t, ok := classifyTarget(el); ok {
			targets = append(targets, t)
		}
	}
	return targets
}

func classifyTarget(el *Element) (Target, bool) {
	href, _ := el.Attr("href")
	if el.Tag == "a" {
		switch {
		case strings.HasPrefix(href, schemeTel):
			return Target{el, domain.EventPhoneClick, strings.TrimPrefix(href, schemeTel)}, true
		case strings.HasPrefix(href, schemeSMS):
			return Target{el, domain.EventSMSClick, strings.TrimPrefix(href, schemeSMS)}, true
		case strings.HasPrefix(href, schemeMailto):
			return Target{el, domain.EventEmailClick, strings.TrimPrefix(href, schemeMailto)}, true
		}
	}
	if marker, ok := el.Attr(emailMarkerAttr); ok {
		return Target{el, domain.EventEmailClick, marker}, true
	}
	return Target{}, false
}

// Binding is an attached click handler for one target. Click simulates the
// capturing-phase listener firing; it dispatches the tracked event and never
// interferes with the element's default action.
type Binding struct {
	Target Target
	fire   func()
}

// Click fires the bound handler.
func (b Binding) Click() {
	b.fire()
}

// Bind attaches a handler to each target. Every handler closes over the
// attribution snapshot resolved at page-ready, so all clicks on this view
// carry identical attribution regardless of when they happen.
func Bind(
	targets []Target,
	res attribution.Resolution,
	dispatch func(domain.LeadEvent),
) []Binding {
	bindings := make([]Binding, 0, len(targets))
	for _, target := range targets {
		event := domain.LeadEvent{
			EventType:     target.Type,
			EventLabel:    target.Label,
			TrafficType:   res.TrafficType,
			DeviceType:    res.DeviceType,
			Source:        res.Source,
			Medium:        res.Medium,
			Campaign:      res.Campaign,
			Term:          res.Term,
			AdID:          res.AdID,
			EntryURL:      res.EntryURL,
			SubmittingURL: res.SubmittingURL,
			PageLocation:  res.PageLocation,
		}
		bindings = append(bindings, Binding{
			Target: target,
			fire:   func() { dispatch(event) },
		})
	}
	return bindings
}
