// Package delivery sends packaged tracked events to the collector endpoint
// with best-effort, fire-and-forget semantics. The preferred transport is a
// durable one-shot beacon whose background sender outlives the page view
// that handed it the payload; when the beacon cannot accept a payload the
// channel falls back to a keep-alive POST. Failures are logged locally and
// never retried or surfaced.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

// Transport delivers one encoded event payload to the collector.
type Transport interface {
	Send(payload url.Values) error
}

// ErrBeaconRejected is returned when the beacon queue cannot accept a
// payload (full or already closed). Callers fall back, never block.
var ErrBeaconRejected = errors.New("beacon queue rejected payload")

// Beacon transport defaults.
const (
	defaultQueueCapacity = 64
	sendTimeout          = 10 * time.Second
)

// Beacon is the durable one-shot transport: Send enqueues without blocking
// and a background sender posts payloads until Close drains the queue, so a
// payload accepted just before the initiating page unloads still goes out.
type Beacon struct {
	endpoint string
	client   *http.Client
	queue    chan url.Values
	closed   chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	log      logger.Logger
}

// NewBeacon creates a beacon posting to the given endpoint and starts its
// background sender.
func NewBeacon(endpoint string, log logger.Logger) *Beacon {
	b := &Beacon{
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		queue:    make(chan url.Values, defaultQueueCapacity),
		closed:   make(chan struct{}),
		log:      log,
	}
	b.wg.Add(1)
	go b.sendLoop()
	return b
}

// Send enqueues the payload without blocking. Returns ErrBeaconRejected if
// the queue is full or the beacon has been closed.
func (b *Beacon) Send(payload url.Values) error {
	select {
	case <-b.closed:
		return ErrBeaconRejected
	default:
	}

	select {
	case b.queue <- payload:
		return nil
	default:
		return ErrBeaconRejected
	}
}

// Close stops accepting payloads, flushes everything already queued, and
// waits for the sender to finish. Safe to call multiple times.
func (b *Beacon) Close() {
	b.once.Do(func() {
		close(b.closed)
	})
	b.wg.Wait()
}

// sendLoop posts queued payloads one at a time. Transmission failures are
// logged and dropped; delivery is best-effort by contract.
func (b *Beacon) sendLoop() {
	defer b.wg.Done()

	for {
		select {
		case payload := <-b.queue:
			b.post(payload)
		case <-b.closed:
			b.drain()
			return
		}
	}
}

// drain posts every payload still queued at close time.
func (b *Beacon) drain() {
	for {
		select {
		case payload := <-b.queue:
			b.post(payload)
		default:
			return
		}
	}
}

func (b *Beacon) post(payload url.Values) {
	if err := postForm(b.client, b.endpoint, payload, false); err != nil {
		b.log.Warn("Beacon transmission failed", logger.Error(err))
	}
}

// KeepAlive is the fallback transport: a keep-alive-flagged POST fired on
// its own goroutine so the caller never waits on the network. It carries no
// cookies; authentication is the nonce inside the payload.
type KeepAlive struct {
	endpoint string
	client   *http.Client
	log      logger.Logger
}

// NewKeepAlive creates a keep-alive transport posting to the given endpoint.
func NewKeepAlive(endpoint string, log logger.Logger) *KeepAlive {
	return &KeepAlive{
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		log:      log,
	}
}

// Send fires the POST in the background and returns immediately. Like the
// browser primitive it mirrors, the outcome is unobservable to the caller;
// failures are only logged.
func (k *KeepAlive) Send(payload url.Values) error {
	go func() {
		if err := postForm(k.client, k.endpoint, payload, true); err != nil {
			k.log.Warn("Keep-alive transmission failed", logger.Error(err))
		}
	}()
	return nil
}

// WithFallback returns a transport that tries primary first and hands the
// payload to fallback when primary rejects it synchronously.
func WithFallback(primary, fallback Transport, log logger.Logger) Transport {
	return &fallbackTransport{primary: primary, fallback: fallback, log: log}
}

type fallbackTransport struct {
	primary  Transport
	fallback Transport
	log      logger.Logger
}

func (f *fallbackTransport) Send(payload url.Values) error {
	if err := f.primary.Send(payload); err != nil {
		f.log.Debug("Primary transport rejected payload, falling back",
			logger.Error(err),
		)
		return f.fallback.Send(payload)
	}
	return nil
}

// postForm performs one form-encoded POST and treats any non-2xx status as
// a delivery failure.
func postForm(client *http.Client, endpoint string, payload url.Values, keepAlive bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()),
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if keepAlive {
		req.Header.Set("Connection", "keep-alive")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}
