package account

import (
	"errors"
	"fmt"
	"time"
)

// ErrAlreadyClaimedToday is returned when the daily reward was already taken on the current calendar day.
var ErrAlreadyClaimedToday = errors.New("daily reward already claimed today")

// DayLayout formats the calendar day a claim belongs to.
const DayLayout = "2006-01-02"

// DailyClaim records when an account last took its daily reward.
// The zero value means the account never claimed.
type DailyClaim struct {
	at  time.Time
	set bool
}

// NeverClaimed returns a DailyClaim with no recorded claim.
func NeverClaimed() DailyClaim {
	return DailyClaim{}
}

// ClaimedAt returns a DailyClaim recorded at t.
func ClaimedAt(t time.Time) DailyClaim {
	return DailyClaim{at: t, set: true}
}

// At returns the claim time and whether a claim was ever recorded.
func (c DailyClaim) At() (time.Time, bool) {
	return c.at, c.set
}

// Day returns the calendar day of the claim in loc, or "" if never claimed.
func (c DailyClaim) Day(loc *time.Location) string {
	if !c.set {
		return ""
	}
	return c.at.In(loc).Format(DayLayout)
}

// AlreadyClaimedError tells the caller when the next claim becomes possible.
type AlreadyClaimedError struct {
	NextEligible time.Time
	Remaining    time.Duration
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("daily reward already claimed, next claim in %s", e.Remaining.Truncate(time.Second))
}

func (e *AlreadyClaimedError) Unwrap() error {
	return ErrAlreadyClaimedToday
}

// CanClaim reports whether an account whose last claim is last may claim at now.
// Days are compared as calendar dates in loc.
func CanClaim(last DailyClaim, now time.Time, loc *time.Location) error {
	if last.Day(loc) != now.In(loc).Format(DayLayout) {
		return nil
	}
	next := NextMidnight(now, loc)
	return &AlreadyClaimedError{NextEligible: next, Remaining: next.Sub(now)}
}

// NextMidnight returns the start of the calendar day following now in loc.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}
