package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Reflow hooks
	r := NoopReflowHooks{}
	r.OnDragStart("row", "a", 2)
	r.OnDragStop("row", "a", 0)
	r.OnReorder("row", "a", 2, 0)
	r.OnAnimate("row", 3)
	r.OnSettle("row", 5, time.Second)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Reflow().(NoopReflowHooks); !ok {
		t.Error("Reflow() should return NoopReflowHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customReflow := &testReflowHooks{}
	SetReflowHooks(customReflow)
	if Reflow() != customReflow {
		t.Error("SetReflowHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Reflow().(NoopReflowHooks); !ok {
		t.Error("Reset() should restore NoopReflowHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testReflowHooks{}
	SetReflowHooks(custom)

	// Setting nil should be ignored
	SetReflowHooks(nil)

	if Reflow() != custom {
		t.Error("SetReflowHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testReflowHooks struct{ NoopReflowHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
