// Package leaderboard ranks accounts by balance.
package leaderboard

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/dto"
	"github.com/amirasaad/pointmarket/pkg/repository"
	"golang.org/x/sync/singleflight"
)

// MaxLimit bounds a single leaderboard page.
const MaxLimit = 100

// Entry is one ranked account.
type Entry = dto.LeaderboardEntry

// Service serves leaderboard pages through a read-through cache.
type Service struct {
	uow    repository.UnitOfWork
	board  cache.LeaderboardCache
	cfg    *config.Leaderboard
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a leaderboard Service. board may be nil to disable caching.
func New(
	uow repository.UnitOfWork,
	board cache.LeaderboardCache,
	cfg *config.Leaderboard,
	logger *slog.Logger,
) *Service {
	if cfg == nil {
		cfg = &config.Leaderboard{Limit: 10}
	}
	return &Service{
		uow:    uow,
		board:  board,
		cfg:    cfg,
		logger: logger.With("service", "leaderboard"),
	}
}

// Top returns up to limit accounts ordered by points descending, ties
// broken by account id ascending. A non-positive limit uses the default.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.cfg.Limit
	}
	limit = min(limit, MaxLimit)

	if s.board != nil {
		entries, ok, err := s.board.Get(ctx, limit)
		if err != nil {
			s.logger.Warn("leaderboard cache read failed", "error", err)
		} else if ok {
			return entries, nil
		}
	}

	// concurrent misses for the same page share one query
	v, err, _ := s.group.Do(strconv.Itoa(limit), func() (any, error) {
		return s.load(ctx, limit)
	})
	if err != nil {
		s.logger.Error("Top failed", "limit", limit, "error", err)
		return nil, err
	}
	return v.([]Entry), nil
}

func (s *Service) load(ctx context.Context, limit int) ([]Entry, error) {
	gen, cacheable := s.generation(ctx)
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	rows, err := repo.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, Entry{Rank: i + 1, AccountID: r.ID, Points: r.Points})
	}
	if cacheable {
		if err := s.board.Set(ctx, limit, gen, entries, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

// generation reports the cache generation to store a fresh page under, and
// whether the page should be stored at all.
func (s *Service) generation(ctx context.Context) (uint64, bool) {
	if s.board == nil || s.cfg.CacheTTL <= 0 {
		return 0, false
	}
	gen, err := s.board.Generation(ctx)
	if err != nil {
		s.logger.Warn("leaderboard cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

// Invalidate drops cached pages after a committed mutation. Reads already in
// flight keep their result but no longer share it with new callers.
func (s *Service) Invalidate(ctx context.Context) error {
	for limit := 0; limit <= MaxLimit; limit++ {
		s.group.Forget(strconv.Itoa(limit))
	}
	if s.board == nil {
		return nil
	}
	return s.board.Invalidate(ctx)
}

var _ cache.Invalidator = (*Service)(nil)
