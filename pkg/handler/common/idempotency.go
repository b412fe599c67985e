package common

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event.
type KeyExtractor func(events.Event) string

// EventIDKey uses the event's own id as key. Events without one yield "".
func EventIDKey(e events.Event) string {
	if identified, ok := e.(interface{ EventID() string }); ok {
		return identified.EventID()
	}
	return ""
}

// IdempotencyTracker tracks processed events by key.
type IdempotencyTracker struct {
	processed sync.Map
	inflight  singleflight.Group
}

func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Store marks a key as processed.
func (t *IdempotencyTracker) Store(key string) {
	t.processed.Store(key, struct{}{})
}

// Delete removes a key from the tracker.
func (t *IdempotencyTracker) Delete(key string) {
	t.processed.Delete(key)
}

// Seen reports whether key was processed successfully.
func (t *IdempotencyTracker) Seen(key string) bool {
	_, ok := t.processed.Load(key)
	return ok
}

// WithIdempotency wraps a handler so that an event redelivered by the bus is
// handled once. Keys are only recorded after the handler succeeds, so a failed
// delivery can be retried.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e events.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)

		if tracker.Seen(key) {
			log.Info("🔁 [SKIP] Event already processed")
			return nil
		}

		// Concurrent deliveries of one key wait for the in-flight attempt and
		// share its result.
		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if tracker.Seen(key) {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			tracker.Store(key)
			return nil, nil
		})
		return err
	}
}
