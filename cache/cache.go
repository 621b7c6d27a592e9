// Package cache holds rendered pages for a fixed time. Entries are never
// touched by writes to the underlying data; they expire or get cleared.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops one key.
	Invalidate(ctx context.Context, key string) error
	// Clear drops every entry this cache owns.
	Clear(ctx context.Context) error
}
