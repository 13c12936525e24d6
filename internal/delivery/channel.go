package delivery

import (
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

// Config carries the collector coordinates injected at page render time.
// Either field being empty leaves the channel unconfigured.
type Config struct {
	Endpoint string
	Nonce    string
}

// Channel packages resolved events into the collector wire format and hands
// them to a transport. An unconfigured channel drops events with a
// diagnostic log instead of failing.
type Channel struct {
	transport Transport
	beacon    *Beacon
	nonce     string
	log       logger.Logger
}

// NewChannel builds the default channel: a beacon transport with keep-alive
// fallback. Returns an unconfigured no-op channel when the endpoint or
// nonce is missing.
func NewChannel(cfg Config, log logger.Logger) *Channel {
	if cfg.Endpoint == "" || cfg.Nonce == "" {
		log.Debug("Delivery channel unconfigured, events will be dropped")
		return &Channel{log: log}
	}

	beacon := NewBeacon(cfg.Endpoint, log)
	return &Channel{
		transport: WithFallback(beacon, NewKeepAlive(cfg.Endpoint, log), log),
		beacon:    beacon,
		nonce:     cfg.Nonce,
		log:       log,
	}
}

// NewChannelWithTransport builds a channel over a caller-supplied transport.
func NewChannelWithTransport(t Transport, nonce string, log logger.Logger) *Channel {
	return &Channel{transport: t, nonce: nonce, log: log}
}

// Dispatch encodes the event, adds the action discriminator and nonce, and
// sends it. Delivery failures are logged, never returned: a tracked click
// must not disturb the interaction that produced it.
func (c *Channel) Dispatch(event domain.LeadEvent) {
	if c.transport == nil {
		c.log.Debug("Dropping event, delivery channel unconfigured",
			logger.String("event_type", string(event.EventType)),
		)
		return
	}

	payload := event.FormValues()
	payload.Set(domain.FieldAction, domain.ActionRecordEvent)
	payload.Set(domain.FieldNonce, c.nonce)

	if err := c.transport.Send(payload); err != nil {
		c.log.Warn("Event delivery failed",
			logger.String("event_type", string(event.EventType)),
			logger.Error(err),
		)
	}
}

// Close flushes the beacon queue when the channel owns one.
func (c *Channel) Close() {
	if c.beacon != nil {
		c.beacon.Close()
	}
}
