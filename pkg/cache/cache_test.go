package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk1 := k.ReportKey("bp1", ReportKeyOpts{InserterCapacityBonus: 0})
	rk2 := k.ReportKey("bp1", ReportKeyOpts{InserterCapacityBonus: 2})
	if rk1 == rk2 {
		t.Error("different ReportKeyOpts should produce different keys")
	}
	if rk1 != k.ReportKey("bp1", ReportKeyOpts{}) {
		t.Error("ReportKey should be deterministic")
	}
	if rk1[:7] != "report:" {
		t.Errorf("ReportKey prefix unexpected: %s", rk1)
	}

	ak1 := k.ArtifactKey("r1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("r1", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if ak1 == k.ArtifactKey("r1", ArtifactKeyOpts{Format: "svg", Detailed: true}) {
		t.Error("Detailed should change the artifact key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "team:1:")

	want := "team:1:" + inner.ReportKey("bp", ReportKeyOpts{})
	if got := scoped.ReportKey("bp", ReportKeyOpts{}); got != want {
		t.Errorf("ScopedKeyer ReportKey = %s, want %s", got, want)
	}
	want = "team:1:" + inner.ArtifactKey("r", ArtifactKeyOpts{Format: "svg"})
	if got := scoped.ArtifactKey("r", ArtifactKeyOpts{Format: "svg"}); got != want {
		t.Errorf("ScopedKeyer ArtifactKey = %s, want %s", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().ReportKey("bp", ReportKeyOpts{})
	if got := scoped.ReportKey("bp", ReportKeyOpts{}); got != want {
		t.Errorf("unexpected key with nil inner: %s", got)
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
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	defer func(d time.Duration) { backoff = d }(backoff)
	backoff = time.Millisecond
	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	errPermanent := errors.New("permanent")
	err := RetryWithBackoff(ctx, func() error { calls++; return errPermanent })
	if err != errPermanent || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("should return context error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("missing key: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("report"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "report" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(time.Hour)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("bad")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared entry should miss")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}
	defer c.Close()

	buf := []byte("one")
	_ = c.Set(ctx, "1", buf, 0)
	buf[0] = 'X'
	data, hit, _ := c.Get(ctx, "1")
	if !hit || string(data) != "one" {
		t.Errorf("Get = %q, %v; Set should copy data", data, hit)
	}

	_ = c.Set(ctx, "2", []byte("two"), 0)
	_, _, _ = c.Get(ctx, "1")
	_ = c.Set(ctx, "3", []byte("three"), 0)
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "2"); hit {
		t.Error("least recently used entry should be evicted")
	}

	_ = c.Delete(ctx, "3")
	if _, hit, _ := c.Get(ctx, "3"); hit {
		t.Error("deleted entry should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(0)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Second)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("fresh entry should hit")
	}
	now = now.Add(2 * time.Second)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed, Len = %d", c.Len())
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://not-redis", "ff:")
	if err == nil {
		t.Fatal("expected error for non-redis URL")
	}
}
