package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// AsyncOptions tunes the fire-and-forget buffer in front of a sink.
type AsyncOptions struct {
	BufferSize   int           // queued events before new ones are dropped
	WriteTimeout time.Duration // per-event timeout against the wrapped sink
	Logger       *slog.Logger
}

// AsyncSink decouples the guarded request from audit I/O. Write queues the
// event and returns immediately; a background worker drains the queue into
// the wrapped sink. When the buffer is full the event is dropped and
// counted - losing an audit record is preferable to stalling a request on
// a slow audit backend.
type AsyncSink struct {
	sink    Sink
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64
	closed  atomic.Bool
	timeout time.Duration
	log     *slog.Logger
}

// NewAsyncSink wraps sink with a bounded asynchronous buffer.
func NewAsyncSink(sink Sink, opts AsyncOptions) *AsyncSink {
	if sink == nil {
		panic("audit: sink cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1024
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	as := &AsyncSink{
		sink:    sink,
		events:  make(chan Event, opts.BufferSize),
		done:    make(chan struct{}),
		timeout: opts.WriteTimeout,
		log:     opts.Logger,
	}

	as.wg.Add(1)
	go as.worker()

	return as
}

// Write queues the event without blocking. It never returns an error for a
// full buffer; the drop is counted and visible via Dropped.
func (as *AsyncSink) Write(ctx context.Context, event Event) error {
	if as.closed.Load() {
		return ErrSinkClosed
	}

	select {
	case as.events <- event:
		return nil
	default:
		as.dropped.Add(1)
		return nil
	}
}

// Dropped reports how many events were discarded due to a full buffer.
func (as *AsyncSink) Dropped() int64 {
	return as.dropped.Load()
}

// Close stops accepting events, drains the buffer into the wrapped sink,
// and closes it. Respects ctx for the drain.
func (as *AsyncSink) Close(ctx context.Context) error {
	if !as.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(as.done)

	finished := make(chan struct{})
	go func() {
		as.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		return ctx.Err()
	}

	return as.sink.Close(ctx)
}

func (as *AsyncSink) worker() {
	defer as.wg.Done()

	for {
		select {
		case event := <-as.events:
			as.flush(event)
		case <-as.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case event := <-as.events:
					as.flush(event)
				default:
					return
				}
			}
		}
	}
}

// flush writes one event with its own timeout, detached from any request
// context that may already be gone.
func (as *AsyncSink) flush(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), as.timeout)
	defer cancel()

	if err := as.sink.Write(ctx, event); err != nil {
		as.log.WarnContext(ctx, "audit write failed",
			"error", err,
			"event_id", event.ID,
			"outcome", event.Outcome,
		)
	}
}
