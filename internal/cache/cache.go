// Package cache fronts expensive search queries with a short-lived redis
// layer. Cache failures are soft: callers fall through to the database.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Service struct {
	client *redis.Client
}

func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// InvalidateSearches drops every cached search result. Called after each
// scrape run so new availability is immediately visible.
func (s *Service) InvalidateSearches(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, "search:*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan search keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Delete(ctx, keys...)
}

// SearchCacheKey derives a stable key from the canonical JSON form of a
// search query.
func SearchCacheKey(query interface{}) string {
	data, err := json.Marshal(query)
	if err != nil {
		return "search:invalid"
	}
	sum := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(sum[:16])
}
