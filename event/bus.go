package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/staffing/ctxutil"
	"github.com/ncobase/staffing/logging/logger"
)

// ErrBufferFull is returned by Publish when the queue has no room.
var ErrBufferFull = errors.New("event buffer full")

// EventHandler defines the event handler function type.
type EventHandler func(ctx context.Context, event *Event) error

// Bus is a buffered event queue drained by a fixed pool of workers.
// Handlers for one event run sequentially on the worker that picked it up.
type Bus struct {
	handlers map[EventType][]EventHandler
	buffer   chan *Event
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logger.Logger
}

// NewBus creates a new event bus.
func NewBus(bufferSize int, logger *logger.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Bus{
		handlers: make(map[EventType][]EventHandler),
		buffer:   make(chan *Event, bufferSize),
		logger:   logger,
	}
}

// Subscribe subscribes a handler to an event type.
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug(context.Background(), "Event handler subscribed", "event_type", eventType)
}

// Publish enqueues an event without blocking. The caller's trace id travels
// with the event.
func (b *Bus) Publish(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string)
		}
		event.Metadata[ctxutil.TraceIDKey] = traceID
	}

	select {
	case b.buffer <- event:
		b.logger.Debug(ctx, "Event published", "type", event.Type, "id", event.ID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

// Start starts the event bus workers. They exit when ctx is cancelled,
// after draining what is already queued.
func (b *Bus) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		b.wg.Add(1)
		go b.worker(ctx, i)
	}
	b.logger.Info(ctx, "Event bus started", "workers", numWorkers)
}

// Wait blocks until every worker has stopped.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) worker(ctx context.Context, id int) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			b.drain()
			b.logger.Debug(context.Background(), "Event worker stopped", "worker_id", id)
			return
		case event := <-b.buffer:
			b.dispatch(event)
		}
	}
}

func (b *Bus) drain() {
	for {
		select {
		case event := <-b.buffer:
			b.dispatch(event)
		default:
			return
		}
	}
}

// dispatch runs every handler subscribed to the event's type and to all
// events. Handler failures are logged and do not stop the others.
func (b *Bus) dispatch(event *Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers[event.Type])+len(b.handlers[EventTypeAll]))
	handlers = append(handlers, b.handlers[event.Type]...)
	handlers = append(handlers, b.handlers[EventTypeAll]...)
	b.mu.RUnlock()

	ctx := context.Background()
	if traceID := event.Metadata[ctxutil.TraceIDKey]; traceID != "" {
		ctx = ctxutil.SetTraceID(ctx, traceID)
	}

	if len(handlers) == 0 {
		b.logger.Debug(ctx, "No handlers for event", "type", event.Type)
		return
	}

	for _, h := range handlers {
		if err := b.safeCall(ctx, h, event); err != nil {
			b.logger.Error(ctx, "Event handler failed",
				"type", event.Type,
				"id", event.ID,
				"error", err)
		}
	}
}

func (b *Bus) safeCall(ctx context.Context, h EventHandler, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("event handler panicked")
			b.logger.Error(ctx, "Event handler panic", "type", event.Type, "panic", r)
		}
	}()
	return h(ctx, event)
}

// GetStats returns event bus statistics.
func (b *Bus) GetStats() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := make(map[string]int)
	total := 0
	for eventType, handlers := range b.handlers {
		subscribers[string(eventType)] = len(handlers)
		total += len(handlers)
	}

	return map[string]any{
		"buffer_size":    cap(b.buffer),
		"buffer_used":    len(b.buffer),
		"total_handlers": total,
		"subscribers":    subscribers,
	}
}
