package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"golang.org/x/sync/singleflight"
)

// Store caches JSON-encoded values of one type in Redis under a key prefix.
// A Redis failure degrades to calling the loader directly.
type Store[V any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	flight singleflight.Group
	logger *logging.Logger
}

func NewStore[V any](client *goredis.Client, prefix string, ttl time.Duration, logger *logging.Logger) *Store[V] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store[V]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	fullKey := s.prefix + key

	if value, ok := s.get(ctx, fullKey); ok {
		return value, nil
	}

	v, err, _ := s.flight.Do(fullKey, func() (any, error) {
		if value, ok := s.get(ctx, fullKey); ok {
			return value, nil
		}

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.set(ctx, fullKey, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

func (s *Store[V]) Delete(ctx context.Context, key string) {
	fullKey := s.prefix + key
	s.flight.Forget(fullKey)
	if err := s.client.Del(ctx, fullKey).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache delete failed", "key", fullKey, "error", err)
	}
}

func (s *Store[V]) get(ctx context.Context, fullKey string) (V, bool) {
	var zero V

	raw, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.WarnContext(ctx, "redis cache read failed", "key", fullKey, "error", err)
		}
		return zero, false
	}

	var value V
	if err := sonic.Unmarshal(raw, &value); err != nil {
		s.logger.WarnContext(ctx, "redis cache decode failed", "key", fullKey, "error", err)
		return zero, false
	}
	return value, true
}

func (s *Store[V]) set(ctx context.Context, fullKey string, value V) {
	raw, err := sonic.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "redis cache encode failed", "key", fullKey, "error", err)
		return
	}
	if err := s.client.Set(ctx, fullKey, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache write failed", "key", fullKey, "error", err)
	}
}
