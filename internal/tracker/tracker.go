// Package tracker is the page-ready orchestrator: given a rendered page it
// resolves attribution once, arms click handlers on every contact target,
// prefills hidden form fields, and routes fired events to the delivery
// channel.
package tracker

import (
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/attribution"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/delivery"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/page"
)

// Tracker wires the attribution resolver to a session store and a delivery
// channel. One Tracker serves one visitor session.
type Tracker struct {
	resolver *attribution.Resolver
	channel  *delivery.Channel
	log      logger.Logger
}

// New creates a tracker over the given session store and delivery channel.
func New(store attribution.Store, channel *delivery.Channel, log logger.Logger) *Tracker {
	return &Tracker{
		resolver: attribution.NewResolver(store),
		channel:  channel,
		log:      log,
	}
}

// Session is the armed state of one page view: the attribution snapshot all
// its events will carry, plus the click bindings attached to the page's
// contact targets.
type Session struct {
	Resolution attribution.Resolution
	Bindings   []page.Binding
}

// OnPageReady runs the per-view pipeline: resolve attribution, bind click
// handlers, prefill attribution form fields. Every binding closes over the
// snapshot resolved here, so late clicks on a long-lived page still report
// the view they happened on.
func (t *Tracker) OnPageReady(p *page.Page) *Session {
	view := attribution.PageView{
		Path:      p.Location.Path,
		FullURL:   p.Location.String(),
		Query:     p.Location.Query(),
		Referrer:  p.Referrer,
		UserAgent: p.UserAgent,
	}

	res := t.resolver.Resolve(view)

	targets := page.CollectTargets(p.Elements)
	bindings := page.Bind(targets, res, t.dispatch)

	page.Prefill(view.Query, p.Elements)

	t.log.Debug("Page armed for tracking",
		logger.String("page", res.SubmittingURL),
		logger.String("traffic_type", string(res.TrafficType)),
		logger.Int("targets", len(targets)),
	)

	return &Session{Resolution: res, Bindings: bindings}
}

// Close flushes any events still queued in the delivery channel.
func (t *Tracker) Close() {
	t.channel.Close()
}

func (t *Tracker) dispatch(event domain.LeadEvent) {
	t.channel.Dispatch(event)
}
