package delivery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

func TestBeaconDeliversQueuedPayloads(t *testing.T) {
	received := make(chan url.Values, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		received <- r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewBeacon(srv.URL, logger.NewNop())

	payload := url.Values{}
	payload.Set("eventType", "phone_click")
	payload.Set("eventLabel", "5551234567")
	if err := b.Send(payload); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	b.Close()

	select {
	case got := <-received:
		if got.Get("eventType") != "phone_click" {
			t.Errorf("expected eventType phone_click, got %q", got.Get("eventType"))
		}
		if got.Get("eventLabel") != "5551234567" {
			t.Errorf("expected eventLabel 5551234567, got %q", got.Get("eventLabel"))
		}
	default:
		t.Fatal("expected payload to be delivered before Close returned")
	}
}

func TestBeaconRejectsAfterClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewBeacon(srv.URL, logger.NewNop())
	b.Close()

	if err := b.Send(url.Values{}); !errors.Is(err, ErrBeaconRejected) {
		t.Errorf("expected ErrBeaconRejected after close, got %v", err)
	}
}

func TestBeaconRejectsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewBeacon(srv.URL, logger.NewNop())
	defer b.Close()
	defer close(release)

	// One payload can be in flight while the queue backs up behind it, so
	// capacity+2 sends must overflow.
	var rejected bool
	for i := 0; i < defaultQueueCapacity+2; i++ {
		if errors.Is(b.Send(url.Values{}), ErrBeaconRejected) {
			rejected = true
			break
		}
	}
	if !rejected {
		t.Error("expected a send to be rejected once the queue filled")
	}
}

func TestKeepAliveSendsInBackground(t *testing.T) {
	received := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Header.Get("Connection") != "keep-alive" {
			t.Errorf("expected keep-alive connection header, got %q", r.Header.Get("Connection"))
		}
		received <- r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	k := NewKeepAlive(srv.URL, logger.NewNop())

	payload := url.Values{}
	payload.Set("action", "record_event")
	if err := k.Send(payload); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case got := <-received:
		if got.Get("action") != "record_event" {
			t.Errorf("expected action record_event, got %q", got.Get("action"))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for keep-alive delivery")
	}
}

type stubTransport struct {
	err  error
	sent []url.Values
}

func (s *stubTransport) Send(payload url.Values) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, payload)
	return nil
}

func TestWithFallbackPrefersPrimary(t *testing.T) {
	primary := &stubTransport{}
	fallback := &stubTransport{}
	tr := WithFallback(primary, fallback, logger.NewNop())

	if err := tr.Send(url.Values{"a": {"1"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(primary.sent) != 1 {
		t.Errorf("expected primary to receive the payload, got %d sends", len(primary.sent))
	}
	if len(fallback.sent) != 0 {
		t.Errorf("expected fallback to stay idle, got %d sends", len(fallback.sent))
	}
}

func TestWithFallbackFallsBackOnRejection(t *testing.T) {
	primary := &stubTransport{err: ErrBeaconRejected}
	fallback := &stubTransport{}
	tr := WithFallback(primary, fallback, logger.NewNop())

	if err := tr.Send(url.Values{"a": {"1"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(fallback.sent) != 1 {
		t.Errorf("expected fallback to receive the payload, got %d sends", len(fallback.sent))
	}
}
