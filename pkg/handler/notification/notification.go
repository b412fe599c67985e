// Package notification turns committed marketplace events into messages for
// account holders and the shared activity log.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/handler/common"
	"github.com/amirasaad/pointmarket/pkg/notifier"
)

// Render builds the messages for one event. Unknown events yield nil.
func Render(e events.Event) []notifier.Message {
	switch evt := e.(type) {
	case *events.ListingPurchased:
		return []notifier.Message{
			direct(evt, evt.Meta, evt.SellerID, fmt.Sprintf(
				"Your listing #%d %q was bought by %s for %d points. New balance: %d.",
				evt.ListingID, evt.Name, evt.BuyerID, evt.Price, evt.SellerBalance)),
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s bought listing #%d %q from %s for %d points.",
				evt.BuyerID, evt.ListingID, evt.Name, evt.SellerID, evt.Price)),
		}
	case *events.PointsCredited:
		return []notifier.Message{
			direct(evt, evt.Meta, evt.AccountID, fmt.Sprintf(
				"%d points were added to your account. New balance: %d.", evt.Amount, evt.NewBalance)),
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s added %d points to %s.", evt.ActorID, evt.Amount, evt.AccountID)),
		}
	case *events.PointsDebited:
		return []notifier.Message{
			direct(evt, evt.Meta, evt.AccountID, fmt.Sprintf(
				"%d points were removed from your account. New balance: %d.", evt.Amount, evt.NewBalance)),
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s removed %d points from %s.", evt.ActorID, evt.Amount, evt.AccountID)),
		}
	case *events.PointsTransferred:
		return []notifier.Message{
			direct(evt, evt.Meta, evt.ToID, fmt.Sprintf(
				"%s sent you %d points. New balance: %d.", evt.FromID, evt.Amount, evt.ToBalance)),
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s transferred %d points to %s.", evt.FromID, evt.Amount, evt.ToID)),
		}
	case *events.DailyRewardClaimed:
		return []notifier.Message{
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s claimed the daily reward of %d points.", evt.AccountID, evt.Granted)),
		}
	case *events.ListingCreated:
		return []notifier.Message{
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s listed #%d %q for %d points.", evt.SellerID, evt.ListingID, evt.Name, evt.Price)),
		}
	case *events.ListingUpdated:
		return []notifier.Message{
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s edited listing #%d %q, price %d points.", evt.EditorID, evt.ListingID, evt.Name, evt.Price)),
		}
	case *events.ListingDeleted:
		msgs := []notifier.Message{
			activity(evt, evt.Meta, fmt.Sprintf(
				"%s deleted listing #%d %q.", evt.EditorID, evt.ListingID, evt.Name)),
		}
		if evt.EditorID != evt.SellerID {
			msgs = append(msgs, direct(evt, evt.Meta, evt.SellerID, fmt.Sprintf(
				"Your listing #%d %q was removed by an administrator.", evt.ListingID, evt.Name)))
		}
		return msgs
	}
	return nil
}

func direct(e events.Event, m events.Meta, recipient, text string) notifier.Message {
	return notifier.Message{
		Channel:   notifier.ChannelDirect,
		Recipient: recipient,
		Event:     e.Type(),
		EventID:   m.EventID(),
		Text:      text,
	}
}

func activity(e events.Event, m events.Meta, text string) notifier.Message {
	return notifier.Message{
		Channel: notifier.ChannelLog,
		Event:   e.Type(),
		EventID: m.EventID(),
		Text:    text,
	}
}

// Handle renders the event and hands every message to sender. Send failures
// are logged and swallowed: the mutation behind the event is already
// committed.
func Handle(sender notifier.Sender, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		log := logger.With(
			"handler", "notification.Handle",
			"event_type", e.Type(),
		)
		msgs := Render(e)
		if len(msgs) == 0 {
			log.Warn("Skipping unexpected event type", "event", e)
			return nil
		}
		for _, msg := range msgs {
			if err := sender.Send(ctx, msg); err != nil {
				log.Warn("notification failed", "error", err, "recipient", msg.Recipient)
				continue
			}
			log.Debug("notification sent", "channel", msg.Channel, "recipient", msg.Recipient)
		}
		return nil
	}
}

// Register subscribes the notification handler to every event type.
func Register(bus eventbus.Bus, sender notifier.Sender, logger *slog.Logger) {
	tracker := common.NewIdempotencyTracker()
	handler := common.WithIdempotency(
		Handle(sender, logger),
		tracker,
		common.EventIDKey,
		"notification",
		logger,
	)
	for _, t := range []events.EventType{
		events.EventTypePointsCredited,
		events.EventTypePointsDebited,
		events.EventTypePointsTransferred,
		events.EventTypeDailyRewardClaimed,
		events.EventTypeListingCreated,
		events.EventTypeListingUpdated,
		events.EventTypeListingDeleted,
		events.EventTypeListingPurchased,
	} {
		bus.Register(t.String(), handler)
	}
}
