package dto

import "time"

// AccountRead is a read-optimized DTO for account queries and rankings.
type AccountRead struct {
	ID          string
	Points      int64
	LastClaimAt *time.Time // nil when the account never claimed a daily reward
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
