package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Break hooks
	b := NoopBreakHooks{}
	b.OnBreakStart(ctx, "sequence", 120)
	b.OnBreakComplete(ctx, "sequence", 4, time.Millisecond, nil)
	b.OnOverflow(ctx, "text", 2)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "parts")
	c.OnCacheMiss(ctx, "text")
	c.OnCacheSet(ctx, "parts", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/break")
	h.OnResponse(ctx, "POST", "/v1/break", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Break().(NoopBreakHooks); !ok {
		t.Error("Break() should return NoopBreakHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customBreak := &testBreakHooks{}
	SetBreakHooks(customBreak)
	if Break() != customBreak {
		t.Error("SetBreakHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Break().(NoopBreakHooks); !ok {
		t.Error("Reset() should restore NoopBreakHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBreakHooks{}
	SetBreakHooks(custom)

	// Setting nil should be ignored
	SetBreakHooks(nil)

	if Break() != custom {
		t.Error("SetBreakHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testBreakHooks struct{ NoopBreakHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
