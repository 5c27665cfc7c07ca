package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// LeaderboardCache keeps computed leaderboards in redis. Failures are logged
// and treated as misses so the database stays the source of truth.
type LeaderboardCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewLeaderboardCache creates a redis-backed leaderboard cache
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		prefix: "casino:leaderboard:",
		ttl:    ttl,
	}
}

func (c *LeaderboardCache) key(metric entities.LeaderboardMetric, limit int) string {
	return fmt.Sprintf("%s%s:%d", c.prefix, metric, limit)
}

func (c *LeaderboardCache) Get(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, c.key(metric, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.WithError(err).Warn("Leaderboard cache read failed")
		return nil, false
	}

	var entries []entities.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.WithError(err).Warn("Leaderboard cache entry is corrupt")
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, metric entities.LeaderboardMetric, limit int, entries []entities.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		log.WithError(err).Warn("Failed to encode leaderboard for cache")
		return
	}
	if err := c.client.Set(ctx, c.key(metric, limit), raw, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("Leaderboard cache write failed")
	}
}

// Invalidate drops every cached leaderboard
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.WithError(err).Warn("Leaderboard cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.WithError(err).Warn("Leaderboard cache invalidation failed")
	}
}

// NoopLeaderboardCache never stores anything. Used when REDIS_URL is empty.
type NoopLeaderboardCache struct{}

func (NoopLeaderboardCache) Get(context.Context, entities.LeaderboardMetric, int) ([]entities.LeaderboardEntry, bool) {
	return nil, false
}

func (NoopLeaderboardCache) Set(context.Context, entities.LeaderboardMetric, int, []entities.LeaderboardEntry) {
}

func (NoopLeaderboardCache) Invalidate(context.Context) {}
