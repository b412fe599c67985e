package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/dto"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboardCache implements cache.LeaderboardCache on Redis so that
// several server processes share one view of the leaderboard.
type RedisLeaderboardCache struct {
	client *redis.Client
	prefix string
	genKey string
	logger *slog.Logger
}

// setIfCurrent writes a page only while the generation it was computed
// under is still current, so the check and the write are one atomic step.
var setIfCurrent = redis.NewScript(`
if (redis.call("GET", KEYS[1]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// NewRedisLeaderboardCache creates a cache from a Redis URL.
func NewRedisLeaderboardCache(url, prefix string, logger *slog.Logger) (*RedisLeaderboardCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisLeaderboardCacheWithOptions(opt, prefix, logger), nil
}

// NewRedisLeaderboardCacheWithOptions creates a cache from redis.Options.
func NewRedisLeaderboardCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{
		client: redis.NewClient(opt),
		prefix: prefix + "leaderboard:page:",
		genKey: prefix + "leaderboard:gen",
		logger: logger,
	}
}

func (r *RedisLeaderboardCache) key(limit int) string {
	return r.prefix + strconv.Itoa(limit)
}

func (r *RedisLeaderboardCache) Get(ctx context.Context, limit int) ([]dto.LeaderboardEntry, bool, error) {
	val, err := r.client.Get(ctx, r.key(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "limit", limit)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "limit", limit, "error", err)
		return nil, false, err
	}
	var rows []dto.LeaderboardEntry
	if err := json.Unmarshal(val, &rows); err != nil {
		r.logger.Error("Redis cache unmarshal error", "limit", limit, "error", err)
		return nil, false, err
	}
	r.logger.Debug("Redis cache hit", "limit", limit, "rows", len(rows))
	return rows, true, nil
}

// Generation reads the shared generation counter. A missing key is generation 0.
func (r *RedisLeaderboardCache) Generation(ctx context.Context) (uint64, error) {
	gen, err := r.client.Get(ctx, r.genKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Redis cache generation error", "error", err)
		return 0, err
	}
	return gen, nil
}

func (r *RedisLeaderboardCache) Set(
	ctx context.Context,
	limit int,
	gen uint64,
	rows []dto.LeaderboardEntry,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	stored, err := setIfCurrent.Run(ctx, r.client,
		[]string{r.genKey, r.key(limit)},
		strconv.FormatUint(gen, 10), data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		r.logger.Error("Redis cache set error", "limit", limit, "error", err)
		return err
	}
	if stored == 0 {
		r.logger.Debug("Redis cache set skipped, generation changed", "limit", limit, "generation", gen)
	}
	return nil
}

// Invalidate bumps the generation, then deletes every cached page under the prefix.
func (r *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.genKey).Err(); err != nil {
		r.logger.Error("Redis cache generation bump error", "error", err)
		return err
	}
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Redis cache scan error", "error", err)
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "error", err)
		return err
	}
	r.logger.Debug("Redis cache invalidated", "keys", len(keys))
	return nil
}

// Close releases the underlying client.
func (r *RedisLeaderboardCache) Close() error {
	return r.client.Close()
}

var _ cache.LeaderboardCache = (*RedisLeaderboardCache)(nil)
