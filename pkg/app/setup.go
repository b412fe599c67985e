// Package app assembles the services and registers the post-commit event
// handlers on the bus.
package app

import (
	"log/slog"

	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/handler/notification"
	"github.com/amirasaad/pointmarket/pkg/notifier"
)

// Dependencies contains all the dependencies needed by the SetupBus function
type Dependencies struct {
	Bus    eventbus.Bus
	Sender notifier.Sender
	Logger *slog.Logger
}

// SetupBus registers all event handlers with the provided event Bus.
// Handlers run after the originating transaction has committed; their
// failures never affect the operation that emitted the event.
func SetupBus(deps Dependencies) {
	if deps.Bus == nil || deps.Sender == nil {
		return
	}
	notification.Register(deps.Bus, deps.Sender, deps.Logger)
}

func (a *App) setupEventBus() {
	SetupBus(Dependencies{
		Bus:    a.Deps.EventBus,
		Sender: a.Deps.Sender,
		Logger: a.Deps.Logger,
	})
}
