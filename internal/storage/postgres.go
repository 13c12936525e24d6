// Package storage persists lead events in PostgreSQL. The write side
// buffers events in a channel and batch-inserts them; the read side serves
// the stats, listing, and report queries.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/infra/logger"
)

const (
	// columnsPerRow is the number of columns inserted per lead event row.
	columnsPerRow = 13

	// insertBatchSize caps the rows per INSERT statement.
	insertBatchSize = 50

	// flushTimeout bounds one flush operation.
	flushTimeout = 5 * time.Second
)

// Buffer decouples request handlers from the database: Send never blocks,
// so a slow insert cannot stall event recording.
type Buffer struct {
	events chan domain.LeadEvent
	closed chan struct{}
	once   sync.Once
}

// NewBuffer creates a buffer holding up to capacity pending events.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		events: make(chan domain.LeadEvent, capacity),
		closed: make(chan struct{}),
	}
}

// Send enqueues an event without blocking. Returns false when the buffer
// is full; the caller decides whether a dropped event is worth a log line.
func (b *Buffer) Send(event domain.LeadEvent) bool {
	select {
	case b.events <- event:
		return true
	default:
		return false
	}
}

// Len reports the number of pending events.
func (b *Buffer) Len() int {
	return len(b.events)
}

// Close stops the buffer. Safe to call more than once.
func (b *Buffer) Close() {
	b.once.Do(func() {
		close(b.closed)
	})
}

// Store drains a Buffer into the lead_events table.
type Store struct {
	db             *sql.DB
	buffer         *Buffer
	log            logger.Logger
	flushInterval  time.Duration
	flushThreshold int
	wg             sync.WaitGroup
}

// NewStore creates a Store that batch-inserts events read from buffer.
func NewStore(
	db *sql.DB,
	buffer *Buffer,
	log logger.Logger,
	flushInterval time.Duration,
	flushThreshold int,
) *Store {
	return &Store{
		db:             db,
		buffer:         buffer,
		log:            log,
		flushInterval:  flushInterval,
		flushThreshold: flushThreshold,
	}
}

// Start launches the flush goroutine.
func (s *Store) Start() {
	s.wg.Add(1)
	go s.flushLoop()
}

// Stop closes the buffer and waits until everything pending is flushed.
func (s *Store) Stop() {
	s.buffer.Close()
	s.wg.Wait()
}

// flushLoop accumulates events and flushes when the batch reaches
// flushThreshold, when the interval ticker fires, or on close.
func (s *Store) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.LeadEvent, 0, s.flushThreshold)

	for {
		select {
		case event := <-s.buffer.events:
			batch = append(batch, event)
			if len(batch) >= s.flushThreshold {
				s.flush(batch)
				batch = make([]domain.LeadEvent, 0, s.flushThreshold)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = make([]domain.LeadEvent, 0, s.flushThreshold)
			}

		case <-s.buffer.closed:
			// Pull whatever is still queued before the final flush.
			for {
				select {
				case event := <-s.buffer.events:
					batch = append(batch, event)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *Store) flush(batch []domain.LeadEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for start := 0; start < len(batch); start += insertBatchSize {
		end := min(start+insertBatchSize, len(batch))
		if err := s.insertChunk(ctx, batch[start:end]); err != nil {
			s.log.Error("Failed to insert lead events",
				logger.Error(err),
				logger.Int("batch_size", end-start),
			)
		}
	}

	s.log.Debug("Flushed lead events", logger.Int("total", len(batch)))
}

// insertChunk executes one multi-row INSERT for up to insertBatchSize events.
func (s *Store) insertChunk(ctx context.Context, events []domain.LeadEvent) error {
	if len(events) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO lead_events (event_time, event_type, event_label, " +
		"traffic_type, device_type, utm_source, utm_medium, utm_campaign, utm_term, " +
		"ad_id, entry_url, submitting_url, page_location) VALUES ")

	args := make([]any, 0, len(events)*columnsPerRow)
	for i, ev := range events {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePlaceholders(&sb, i)
		args = append(args,
			ev.EventTime, ev.EventType, ev.EventLabel,
			ev.TrafficType, ev.DeviceType,
			ev.Source, ev.Medium, ev.Campaign, ev.Term,
			ev.AdID, ev.EntryURL, ev.SubmittingURL, ev.PageLocation,
		)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("exec batch insert: %w", err)
	}
	return nil
}

// writePlaceholders appends one ($n, ..., $n+12) tuple for the given row.
func writePlaceholders(sb *strings.Builder, row int) {
	base := row * columnsPerRow
	sb.WriteByte('(')
	for col := 1; col <= columnsPerRow; col++ {
		if col > 1 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "$%d", base+col)
	}
	sb.WriteByte(')')
}
