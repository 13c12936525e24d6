package storage_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/storage"
)

func newTestEvent(t *testing.T) domain.LeadEvent {
	t.Helper()

	return domain.LeadEvent{
		EventTime:     time.Now(),
		EventType:     domain.EventPhoneClick,
		EventLabel:    "5551234567",
		TrafficType:   domain.TrafficPaid,
		DeviceType:    domain.DeviceDesktop,
		Source:        "google",
		Medium:        "cpc",
		Campaign:      "spring",
		Term:          "plumber near me",
		AdID:          "abc123",
		EntryURL:      "https://example.com/?gclid=abc123",
		SubmittingURL: "/contact/",
		PageLocation:  "https://example.com/contact",
	}
}

func TestBuffer_Send(t *testing.T) {
	t.Helper()

	buf := storage.NewBuffer(10)
	defer buf.Close()

	event := newTestEvent(t)
	ok := buf.Send(event)

	if !ok {
		t.Fatal("expected Send to succeed on non-full buffer")
	}
}

func TestBuffer_SendFull(t *testing.T) {
	t.Helper()

	buf := storage.NewBuffer(1)
	defer buf.Close()

	event := newTestEvent(t)

	// Fill the buffer.
	ok := buf.Send(event)
	if !ok {
		t.Fatal("expected first Send to succeed")
	}

	// Second send should fail (non-blocking).
	ok = buf.Send(event)
	if ok {
		t.Fatal("expected Send to return false when buffer is full")
	}
}

func TestStore_FlushOnStop(t *testing.T) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO lead_events").
		WillReturnResult(sqlmock.NewResult(1, 2))

	buf := storage.NewBuffer(10)
	store := storage.NewStore(db, buf, logger.NewNop(), time.Minute, 100)
	store.Start()

	if !buf.Send(newTestEvent(t)) {
		t.Fatal("expected Send to succeed")
	}
	if !buf.Send(newTestEvent(t)) {
		t.Fatal("expected Send to succeed")
	}

	// Stop drains the buffer and flushes the pending batch.
	store.Stop()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_FlushOnThreshold(t *testing.T) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO lead_events").
		WillReturnResult(sqlmock.NewResult(1, 2))

	buf := storage.NewBuffer(10)
	store := storage.NewStore(db, buf, logger.NewNop(), time.Hour, 2)
	store.Start()

	buf.Send(newTestEvent(t))
	buf.Send(newTestEvent(t))

	// The ticker never fires in this test; only the threshold can flush.
	deadline := time.After(2 * time.Second)
	for mock.ExpectationsWereMet() != nil {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for threshold flush")
		case <-time.After(10 * time.Millisecond):
		}
	}

	store.Stop()
}
