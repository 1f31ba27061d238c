package viacep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a cached response body stays valid.
const DefaultCacheTTL = 24 * time.Hour

// ErrCacheMiss is returned by Store.Get when key is absent.
var ErrCacheMiss = errors.New("viacep: cache miss")

// Store keeps raw response bodies keyed by request URL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore uses client with keys namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

// CacheOptions configures a CachingTransport.
type CacheOptions struct {
	TTL     time.Duration // DefaultCacheTTL when zero
	Logger  *slog.Logger
	Metrics *Metrics
}

// CachingTransport serves bodies from a Store and fills it from the next
// Transport on a miss. Store failures are logged and bypassed.
type CachingTransport struct {
	next    Transport
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

func NewCachingTransport(next Transport, store Store, opts CacheOptions) *CachingTransport {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &CachingTransport{
		next:    next,
		store:   store,
		ttl:     opts.TTL,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

func (t *CachingTransport) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	data, err := t.store.Get(ctx, url)
	switch {
	case err == nil:
		t.metrics.observeCache(true)
		return io.NopCloser(bytes.NewReader(data)), nil
	case !errors.Is(err, ErrCacheMiss):
		t.logger.WarnContext(ctx, "cache read failed", "url", url, "error", err)
	}
	t.metrics.observeCache(false)

	body, err := t.next.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err = io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Only well-formed JSON is kept; a maintenance page or truncated body
	// must not outlive the request that fetched it.
	if !sonic.Valid(data) {
		t.logger.WarnContext(ctx, "not caching malformed response", "url", url, "size", len(data))
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	if err := t.store.Set(ctx, url, data, t.ttl); err != nil {
		t.logger.WarnContext(ctx, "cache write failed", "url", url, "error", err)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
