package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
)

const keyPrefix = "persongraph:hobby:"

// NewRedisClient builds a go-redis client and verifies it with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisHobbyCache caches hobby read results as JSON with a fixed TTL.
// Redis failures are logged and treated as misses.
type RedisHobbyCache struct {
	Client *redis.Client
	TTL    time.Duration
	Log    *logger.Logger
}

func NewRedisHobbyCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisHobbyCache {
	return &RedisHobbyCache{Client: client, TTL: ttl, Log: log}
}

func (c *RedisHobbyCache) GetHobbies(ctx context.Context, key string) ([]models.Hobby, bool) {
	raw, err := c.Client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.Log.Warn("hobby cache read failed", "key", key, "error", err)
		return nil, false
	}
	var hobbies []models.Hobby
	if err := json.Unmarshal(raw, &hobbies); err != nil {
		c.Log.Warn("hobby cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return hobbies, true
}

func (c *RedisHobbyCache) SetHobbies(ctx context.Context, key string, hobbies []models.Hobby) {
	if hobbies == nil {
		hobbies = []models.Hobby{}
	}
	raw, err := json.Marshal(hobbies)
	if err != nil {
		c.Log.Warn("hobby cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.Client.Set(ctx, keyPrefix+key, raw, c.TTL).Err(); err != nil {
		c.Log.Warn("hobby cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached hobby entry. Called after the catalogue is reseeded.
func (c *RedisHobbyCache) Invalidate(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan hobby cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.Client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to delete hobby cache keys: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
