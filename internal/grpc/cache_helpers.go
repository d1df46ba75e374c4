package grpc

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/lhci-compare/pkg/cache"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
)

// CacheOptions controls a single FindAndCache lookup.
type CacheOptions[T any] struct {
	TTL    time.Duration
	Logger *zap.Logger
	// Incomplete marks a cached value that may change later. Such hits are
	// served and refreshed in the background.
	Incomplete func(T) bool
}

// addTTLJitter adds up to ±15s random jitter to TTL to avoid mass expiration.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Intn(30)-15)*time.Second
}

func store[T any](c Cacher, key string, value T, ttl time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttl = addTTLJitter(ttl)
	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("cache populated", zap.String("key", key), zap.Duration("ttl", ttl))
}

func refreshInBackground[T any](c Cacher, sf *singleflight.Group, key string, opts CacheOptions[T], fn FetchFunc[T]) {
	go func() {
		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				opts.Logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			store(c, key, value, opts.TTL, opts.Logger)
			return value, nil
		})
	}()
}

// FindAndCache is a read-through cache lookup. Concurrent misses for the same
// key share one fetch; the fetched value is written back asynchronously.
// A nil cache fetches directly.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	opts CacheOptions[T],
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if c == nil {
		return fn(ctx)
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		opts.Logger.Debug("cache hit", zap.String("key", key))
		if opts.Incomplete != nil && opts.Incomplete(cached) {
			refreshInBackground(c, sf, key, opts, fn)
		}
		return cached, nil
	case cache.IsMiss(err):
		opts.Logger.Debug("cache miss", zap.String("key", key))
	default:
		opts.Logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		go store(c, key, value, opts.TTL, opts.Logger)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		opts.Logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		opts.Logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return value, nil
}
