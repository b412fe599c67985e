// Package notifier defines the outbound channel used to tell people about
// committed marketplace activity.
package notifier

import "context"

// Channel is the audience of a message.
type Channel string

const (
	// ChannelDirect targets a single account holder.
	ChannelDirect Channel = "direct"
	// ChannelLog targets the shared activity log.
	ChannelLog Channel = "log"
)

// Message is one rendered notification.
type Message struct {
	Channel   Channel `json:"channel"`
	Recipient string  `json:"recipient,omitempty"`
	Event     string  `json:"event"`
	EventID   string  `json:"event_id"`
	Text      string  `json:"text"`
}

// Sender delivers messages. Delivery is best effort: callers log failures and
// move on.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
