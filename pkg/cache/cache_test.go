package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("empty cache hit")
	}
	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry hit")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("not bson"), 0644)

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry = %v, %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, "keep", []byte("a"), time.Hour)
	c.Set(ctx, "stale", []byte("b"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	n, err := c.Clear(true)
	if err != nil || n != 1 {
		t.Fatalf("Clear(expired) = %d, %v; want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("live entry cleared")
	}

	n, err = c.Clear(false)
	if err != nil || n != 1 {
		t.Fatalf("Clear(all) = %d, %v; want 1", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d leftover entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("abc", LayoutKeyOpts{Ticks: 10})
	lk2 := k.LayoutKey("abc", LayoutKeyOpts{Ticks: 20})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %s", lk1)
	}

	rk1 := k.RenderKey("abc", RenderKeyOpts{Format: "svg"})
	rk2 := k.RenderKey("abc", RenderKeyOpts{Format: "svg", Targets: true})
	if rk1 == rk2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if rk1 != k.RenderKey("abc", RenderKeyOpts{Format: "svg"}) {
		t.Error("RenderKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "preview:")
	key := scoped.RenderKey("abc", RenderKeyOpts{Format: "svg"})
	if !strings.HasPrefix(key, "preview:render:") {
		t.Errorf("ScopedKeyer RenderKey should be prefixed: %s", key)
	}

	if key != NewScopedKeyer(nil, "preview:").RenderKey("abc", RenderKeyOpts{Format: "svg"}) {
		t.Error("nil inner keyer should behave like DefaultKeyer")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent", 1, permanent, 1, permanent},
		{"recovers", 1, Retryable(ErrUnavailable), 2, nil},
		{"exhausted", 5, Retryable(ErrUnavailable), 3, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{URL: "http://nope"}); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

func TestNewRedisCacheCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
