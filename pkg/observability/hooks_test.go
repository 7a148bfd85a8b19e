package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Emitter hooks
	e := NoopEmitterHooks{}
	e.OnRenderStart(ctx, "timing", 0)
	e.OnRenderComplete(ctx, "timing", 0, time.Second, nil)
	e.OnConvertStart(ctx, "timing", 0)
	e.OnConvertComplete(ctx, "timing", 0, time.Second, nil)
	e.OnSegmentSkipped(ctx, "timing", 2)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Emitter().(NoopEmitterHooks); !ok {
		t.Error("Emitter() should return NoopEmitterHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customEmitter := &testEmitterHooks{}
	SetEmitterHooks(customEmitter)
	if Emitter() != customEmitter {
		t.Error("SetEmitterHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Emitter().(NoopEmitterHooks); !ok {
		t.Error("Reset() should restore NoopEmitterHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEmitterHooks{}
	SetEmitterHooks(custom)

	// Setting nil should be ignored
	SetEmitterHooks(nil)

	if Emitter() != custom {
		t.Error("SetEmitterHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testEmitterHooks struct{ NoopEmitterHooks }
type testCacheHooks struct{ NoopCacheHooks }
