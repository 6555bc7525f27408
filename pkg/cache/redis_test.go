package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache("redis://"+mr.Addr(), "test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "parts:1", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:parts:1") {
		t.Fatal("key should be stored under the prefix")
	}
	if ttl := mr.TTL("test:parts:1"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	data, hit, err := c.Get(ctx, "parts:1")
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, hit %v, err %v", data, hit, err)
	}

	if err := c.Delete(ctx, "parts:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "parts:1"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired key should be a miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other:keep", "1"); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d keys, want 3", n)
	}
	if !mr.Exists("other:keep") {
		t.Error("Clear should only remove keys under the prefix")
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	c, mr := newTestRedis(t)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("Get should fail when the server is gone")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open(\"\"): %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open(\"\") = %T, want *NullCache", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, "file://"+dir)
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	fc, ok := c.(*FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("Open(file) = %T %v", c, c)
	}

	mr := miniredis.RunT(t)
	c, err = Open(ctx, "redis://"+mr.Addr()+"/0?prefix=lb:")
	if err != nil {
		t.Fatalf("Open(redis): %v", err)
	}
	defer c.Close()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("lb:k") {
		t.Error("prefix parameter should apply to stored keys")
	}

	if _, err := Open(ctx, "s3://bucket"); err == nil {
		t.Error("Open should reject unknown schemes")
	}
}
