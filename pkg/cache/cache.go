package cache

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/pkg/dto"
)

// Invalidator drops derived state after a committed mutation.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// LeaderboardCache stores computed leaderboard pages keyed by page size.
// A miss is reported as ok == false with a nil error.
//
// Every Invalidate starts a new generation. A page computed under an older
// generation is never stored, so a read racing a mutation cannot cache rows
// from before the mutation.
type LeaderboardCache interface {
	Get(ctx context.Context, limit int) (entries []dto.LeaderboardEntry, ok bool, err error)
	// Generation returns the current generation. Capture it before reading
	// the rows that will be passed to Set.
	Generation(ctx context.Context) (uint64, error)
	// Set stores entries computed under gen. It is a no-op when gen is no
	// longer current.
	Set(ctx context.Context, limit int, gen uint64, entries []dto.LeaderboardEntry, ttl time.Duration) error
	// Invalidate drops every cached page and starts a new generation.
	Invalidator
}
