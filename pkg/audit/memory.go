package audit

import (
	"context"
	"slices"
	"sync"
)

// MemorySink is an in-memory append-only sink for tests.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
	closed bool
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write implements Sink.
func (s *MemorySink) Write(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.events = append(s.events, event)
	return nil
}

// Close implements Sink.
func (s *MemorySink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Events returns a snapshot of everything written so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// NoopSink discards every event. Used when auditing is disabled.
type NoopSink struct{}

func (NoopSink) Write(ctx context.Context, event Event) error { return nil }
func (NoopSink) Close(ctx context.Context) error              { return nil }
