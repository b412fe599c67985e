package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously to handlers registered in
// the same process.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers:  make(map[string][]eventbus.HandlerFunc),
		logger:    logger.With("bus", "memory"),
		published: make([]events.Event, 0),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all registered handlers for its type.
// Handler failures and panics are logged and never returned.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		dispatch(ctx, b.logger, handler, event)
	}
	return nil
}

// ClearPublished clears the list of published events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = make([]events.Event, 0)
}

// Published returns a copy of every event emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event{}, b.published...)
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

type queued struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus queues events and dispatches them on background
// goroutines so emitters never wait on slow handlers.
type MemoryAsyncEventBus struct {
	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	eventCh  chan queued
	log      *slog.Logger
}

// NewWithMemoryAsync creates a new asynchronous in-memory event bus.
func NewWithMemoryAsync(logger *slog.Logger) *MemoryAsyncEventBus {
	b := &MemoryAsyncEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		eventCh:  make(chan queued, 100),
		log:      logger.With("bus", "memory-async"),
	}
	go b.process()
	return b
}

func (b *MemoryAsyncEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// Emit enqueues the event. The request context is detached so handlers keep
// running after the emitting request has finished.
func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.eventCh <- queued{ctx: context.WithoutCancel(ctx), event: event}
	return nil
}

func (b *MemoryAsyncEventBus) process() {
	for w := range b.eventCh {
		go func(w queued) {
			b.mu.RLock()
			handlers := append([]eventbus.HandlerFunc{}, b.handlers[w.event.Type()]...)
			b.mu.RUnlock()
			for _, handler := range handlers {
				dispatch(w.ctx, b.log, handler, w.event)
			}
		}(w)
	}
}

var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)

func dispatch(ctx context.Context, logger *slog.Logger, handler eventbus.HandlerFunc, event events.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered in event handler", "type", event.Type(), "panic", r)
		}
	}()
	if err := handler(ctx, event); err != nil {
		logger.Error("failed to process event", "type", event.Type(), "error", err)
	}
}
