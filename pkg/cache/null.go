package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every break runs the algorithm.
type NullCache struct {
	// Reason says why caching is off, e.g. "--no-cache".
	Reason string
}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a null cache that remembers why caching is off.
func Disabled(reason string) *NullCache {
	return &NullCache{Reason: reason}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

// String describes the cache for logs and the cache commands.
func (c *NullCache) String() string {
	if c.Reason == "" {
		return "disabled"
	}
	return "disabled (" + c.Reason + ")"
}

var _ Cache = (*NullCache)(nil)
