package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type redisStore struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedis returns a Store backed by Redis. All backend failures are
// logged at warn level and reported to callers as cache misses.
func NewRedis(client *redis.Client, log *logrus.Logger) Store {
	return &redisStore{client: client, log: log}
}

func (s *redisStore) Get(ctx context.Context, key string, dest any) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache decode failed")
		return false
	}
	return true
}

func (s *redisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (s *redisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache delete failed")
	}
}

func (s *redisStore) DeletePattern(ctx context.Context, pattern string) {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.WithError(err).WithField("pattern", pattern).Warn("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.WithError(err).WithField("pattern", pattern).Warn("cache pattern delete failed")
	}
}
