package eventbus

import (
	"context"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
)

// HandlerFunc handles a single event. Returned errors are logged by the bus
// and never reach the emitter.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event events.Event) error
}
