// Package attribution derives the single source-of-truth marketing
// attribution for a browser session. The first page view of a session
// freezes source, medium, campaign, term, ad ids, and the entry path into
// the session store; every later page view reads those values back instead
// of recomputing them, so the whole session is credited to its first touch.
package attribution

import (
	"net/url"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
)

// Session store keys written during first-touch capture.
const (
	keyTracked  = "tracked"
	keyEntryURL = "entry_url"
	keySource   = "utm_source"
	keyMedium   = "utm_medium"
	keyCampaign = "utm_campaign"
	keyTerm     = "utm_term"
)

// Default source/medium derived for social referrals when no UTM tag is set.
const (
	socialSource = "facebook"
	socialMedium = "social"
	// referralMedium marks non-social referred visits without a UTM medium.
	referralMedium = "referral"
)

// PageView is everything the resolver needs to know about the current page.
type PageView struct {
	// Path is the page path, e.g. "/contact". Not yet normalized.
	Path string
	// FullURL is the complete page URL including query string.
	FullURL string
	// Query holds the parsed query parameters. Duplicate keys resolve to
	// their first value.
	Query url.Values
	// Referrer is the document referrer, or "" for direct visits.
	Referrer string
	// UserAgent is the browser user-agent string.
	UserAgent string
}

// Resolution is the fully resolved attribution snapshot for one page view.
// Source and Medium carry the per-view fallback values (stored UTM if any,
// otherwise derived from the current referrer); these are what gets
// transmitted with every event. Campaign, Term, AdID, and EntryURL are
// sticky to the session's first touch. DeviceType and TrafficType are
// recomputed from the current view's signals.
type Resolution struct {
	Source        string
	Medium        string
	Campaign      string
	Term          string
	AdID          string
	EntryURL      string
	SubmittingURL string
	DeviceType    domain.DeviceType
	TrafficType   domain.TrafficType
	PageLocation  string
}

// Resolver computes first-touch attribution against a session store.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver bound to the given session store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve runs the attribution state machine for one page view: capture
// first-touch values if this is the session's first view, then resolve the
// per-view snapshot. Safe to call multiple times on identical page state;
// the second call reads what the first one wrote.
func (r *Resolver) Resolve(view PageView) Resolution {
	adVisit := IsAdVisit(view.Query)
	social := IsSocialReferrer(view.Referrer)

	if !r.store.Has(keyTracked) {
		r.captureFirstTouch(view, social)
	}

	source := firstNonEmpty(r.store.Get(keySource), view.Query.Get(keySource))
	medium := firstNonEmpty(r.store.Get(keyMedium), view.Query.Get(keyMedium))
	campaign := firstNonEmpty(r.store.Get(keyCampaign), view.Query.Get(keyCampaign))
	term := firstNonEmpty(r.store.Get(keyTerm), view.Query.Get(keyTerm))

	// The transmitted source/medium fall back to current-view derivation
	// when both the stored and query UTM values are empty. This can diverge
	// from the sticky session values on later views; the divergence is
	// intentional (see DESIGN.md).
	if source == "" {
		source = deriveSource(view, social)
	}
	if medium == "" {
		medium = deriveMedium(view, social)
	}

	entry := r.store.Get(keyEntryURL)
	if entry == "" {
		entry = view.Path
	}

	return Resolution{
		Source:        source,
		Medium:        medium,
		Campaign:      campaign,
		Term:          term,
		AdID:          r.resolveAdID(view.Query),
		EntryURL:      NormalizePath(entry),
		SubmittingURL: NormalizePath(view.Path),
		DeviceType:    ClassifyDevice(view.UserAgent),
		TrafficType: ClassifyTraffic(
			firstNonEmpty(r.store.Get(keyMedium), view.Query.Get(keyMedium)),
			adVisit, social, view.Referrer,
		),
		PageLocation: view.FullURL,
	}
}

// captureFirstTouch freezes the session's attribution from the current page.
// Runs exactly once per session; the tracked marker guards re-entry.
func (r *Resolver) captureFirstTouch(view PageView, social bool) {
	r.store.Set(keyTracked, "true")
	r.store.Set(keyEntryURL, view.Path)

	source := view.Query.Get(keySource)
	if source == "" {
		source = deriveSource(view, social)
	}
	r.store.Set(keySource, source)

	medium := view.Query.Get(keyMedium)
	if medium == "" {
		medium = deriveMedium(view, social)
	}
	r.store.Set(keyMedium, medium)

	r.store.Set(keyCampaign, view.Query.Get(keyCampaign))
	r.store.Set(keyTerm, view.Query.Get(keyTerm))

	// Every ad click-id present on the landing page is stored verbatim
	// under its own key, even if its value is empty.
	for _, key := range adParamKeys {
		if _, ok := view.Query[key]; ok {
			r.store.Set(key, view.Query.Get(key))
		}
	}
}

// resolveAdID returns the first non-empty ad click-id, scanning keys in
// priority order and preferring the current query over the session store.
func (r *Resolver) resolveAdID(query url.Values) string {
	for _, key := range adParamKeys {
		if v := firstNonEmpty(query.Get(key), r.store.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// deriveSource derives a source from referrer signals when no UTM source is
// available: social referrals default to "facebook", other referrals to the
// referrer hostname, direct visits stay empty.
func deriveSource(view PageView, social bool) string {
	if social {
		return socialSource
	}
	if view.Referrer != "" {
		return referrerHost(view.Referrer)
	}
	return ""
}

// deriveMedium is the medium counterpart of deriveSource.
func deriveMedium(view PageView, social bool) string {
	if social {
		return socialMedium
	}
	if view.Referrer != "" {
		return referralMedium
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
