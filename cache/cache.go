// Package cache stores materialized query results keyed by statement text and
// bind values. Reads opt in per call with WithTTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Forever keeps an entry until it is deleted.
const Forever time.Duration = -1

// Cache is a byte store. Get returns nil, nil on a miss. A ttl of zero or less
// stores without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

type ttlKey struct{}

// WithTTL marks reads made with ctx as cacheable for ttl. Forever disables
// expiry; zero turns caching off again.
func WithTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, ttlKey{}, ttl)
}

// TTLFrom returns the ttl set by WithTTL. ok is false when caching is off.
func TTLFrom(ctx context.Context) (ttl time.Duration, ok bool) {
	ttl, _ = ctx.Value(ttlKey{}).(time.Duration)
	if ttl == 0 {
		return 0, false
	}
	if ttl < 0 {
		return 0, true
	}
	return ttl, true
}

// TablePrefix is the prefix shared by every key of table.
func TablePrefix(table string) string {
	return "oramap:" + table + ":"
}

// Key derives the cache key of a statement over table.
func Key(table, sql string, args []any) string {
	h := sha256.New()
	h.Write([]byte(sql))
	for _, a := range args {
		fmt.Fprintf(h, "\x00%T:%v", a, a)
	}
	return TablePrefix(table) + hex.EncodeToString(h.Sum(nil))
}
