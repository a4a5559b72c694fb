// feed.go provides a Valkey-backed cache for the public post feed.
// Listing responses are stored as the serialized JSON envelope keyed by the
// request's normalized query string, so repeated feed reads skip the wide
// join entirely. Every post mutation clears the namespace.
package cache

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feed responses.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL is how long a feed page stays cached. Short on
	// purpose: the cache absorbs bursts, not staleness.
	DefaultFeedTTL = 60 * time.Second
)

// FeedCache manages cached post listings in Valkey. All operations degrade
// silently: a cache failure means the caller falls through to the database.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Key normalizes a request query into a stable cache key: parameters are
// sorted so equivalent requests share an entry regardless of order.
func Key(query url.Values) string {
	if len(query) == 0 {
		return "_all"
	}
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		values := append([]string(nil), query[name]...)
		sort.Strings(values)
		for j, v := range values {
			if j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// Get retrieves a cached feed response. Returns nil, false on miss.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("feed cache hit", "key", key)
	return val, true
}

// Set stores a serialized feed response with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, payload []byte) {
	if err := fc.client.Set(ctx, feedKeyPrefix+key, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached feed page by scanning for the prefix.
// Called on every post mutation; any filter combination could be stale.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}
