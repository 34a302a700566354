// Package cache stores deterministic classifier outputs in Valkey so
// repeated texts skip model inference. Risk levels and full responses are
// never cached; they are recomputed on every request.
package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const cacheRetries = 3

// Options configures the Valkey connection.
type Options struct {
	Addr     string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// Cache is a thin JSON get/set wrapper over a Valkey client. A nil *Cache is
// valid and disables caching, so callers never need to branch on whether a
// cache was configured.
type Cache struct {
	client valkey.Client
	ttl    time.Duration
}

// New connects to Valkey and verifies the connection with a ping.
func New(opts Options) (*Cache, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Addr},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("cache: create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping valkey: %w", err)
	}

	slog.Info("[Cache] Successfully connected to valkey",
		slog.String("addr", opts.Addr),
		slog.Duration("ttl", opts.TTL))

	return &Cache{client: client, ttl: opts.TTL}, nil
}

// Key derives the cache key for one classifier invocation. The backend name
// is part of the key so switching backends never serves stale shapes.
func Key(backend, text string) string {
	hash := sha256.Sum256([]byte(backend + ":" + text))
	return "classify:" + backend + ":" + hex.EncodeToString(hash[:])
}

// Get unmarshals the cached value for key into out. The boolean reports
// whether a usable entry existed; cache errors are logged, never propagated.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	res := c.doWithRetry(ctx, func() valkey.Completed {
		return c.client.B().Get().Key(key).Build()
	})
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[Cache] Get failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return false
	}

	raw, err := res.AsBytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("[Cache] Failed to unmarshal cached value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// Set stores value under key with the configured TTL. Failures are logged
// and swallowed: the cache is an optimization, never a dependency.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("[Cache] Failed to marshal value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}

	res := c.doWithRetry(ctx, func() valkey.Completed {
		return c.client.B().Set().Key(key).Value(string(raw)).Ex(c.ttl).Build()
	})
	if err := res.Error(); err != nil {
		slog.Warn("[Cache] Set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Close releases the underlying client. Safe on a nil Cache.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// doWithRetry runs a command, retrying on connection errors. The client
// recycles completed commands after Do, so build constructs a fresh command
// for every attempt.
func (c *Cache) doWithRetry(ctx context.Context, build func() valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < cacheRetries; i++ {
		result = c.client.Do(ctx, build())
		if !retryable(result.Error()) {
			break
		}

		slog.Warn("[Cache] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

// retryable reports whether an attempt should be repeated: only transient
// connection errors qualify, never a miss or a command error.
func retryable(err error) bool {
	if err == nil || valkey.IsValkeyNil(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
