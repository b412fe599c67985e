package events

// EventTypes maps every event type to a constructor, used to decode events
// received from an out-of-process bus.
var EventTypes = map[string]func() Event{
	EventTypePointsCredited.String():     func() Event { return &PointsCredited{} },
	EventTypePointsDebited.String():      func() Event { return &PointsDebited{} },
	EventTypePointsTransferred.String():  func() Event { return &PointsTransferred{} },
	EventTypeDailyRewardClaimed.String(): func() Event { return &DailyRewardClaimed{} },
	EventTypeListingCreated.String():     func() Event { return &ListingCreated{} },
	EventTypeListingUpdated.String():     func() Event { return &ListingUpdated{} },
	EventTypeListingDeleted.String():     func() Event { return &ListingDeleted{} },
	EventTypeListingPurchased.String():   func() Event { return &ListingPurchased{} },
}
