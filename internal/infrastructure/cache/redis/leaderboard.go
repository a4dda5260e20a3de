package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gfit/internal/domain/challenge"

	"github.com/go-redis/redis/v8"
)

const leaderboardKeyPrefix = "gfit:leaderboard:"

type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(opts Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// LeaderboardCache рейтинг семей по челленджу. Запись живет ttl
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func (c *LeaderboardCache) Get(ctx context.Context, challengeID int) ([]challenge.LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, key(challengeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entries []challenge.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// битая запись считается промахом
		_ = c.client.Del(ctx, key(challengeID)).Err()
		return nil, false, nil
	}
	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, challengeID int, entries []challenge.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, key(challengeID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, challengeID int) error {
	if err := c.client.Del(ctx, key(challengeID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func key(challengeID int) string {
	return leaderboardKeyPrefix + strconv.Itoa(challengeID)
}
