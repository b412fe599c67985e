package events

// EventType represents the type of an event in the system.
type EventType string

const (
	// Ledger events
	EventTypePointsCredited     EventType = "Points.Credited"
	EventTypePointsDebited      EventType = "Points.Debited"
	EventTypePointsTransferred  EventType = "Points.Transferred"
	EventTypeDailyRewardClaimed EventType = "DailyReward.Claimed"

	// Listing events
	EventTypeListingCreated   EventType = "Listing.Created"
	EventTypeListingUpdated   EventType = "Listing.Updated"
	EventTypeListingDeleted   EventType = "Listing.Deleted"
	EventTypeListingPurchased EventType = "Listing.Purchased"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}
