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

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if key := k.SceneKey("abc"); key != "scene:abc" {
		t.Errorf("SceneKey unexpected: %s", key)
	}

	// FrameKey should include options in hash
	fk1 := k.FrameKey("hash123", FrameKeyOpts{Closeness: 0.5, WingCount: 8})
	fk2 := k.FrameKey("hash123", FrameKeyOpts{Closeness: 0.6, WingCount: 8})
	if fk1 == fk2 {
		t.Error("Different FrameKeyOpts should produce different keys")
	}
	if fk1 != k.FrameKey("hash123", FrameKeyOpts{Closeness: 0.5, WingCount: 8}) {
		t.Error("FrameKey should be deterministic")
	}
	if !strings.HasPrefix(fk1, "frame:") {
		t.Errorf("FrameKey should be prefixed: %s", fk1)
	}

	// Snapshot hash matters too
	if fk1 == k.FrameKey("hash456", FrameKeyOpts{Closeness: 0.5, WingCount: 8}) {
		t.Error("Different snapshots should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Kind: "skeleton", Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Kind: "skeleton", Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	if key := scoped.SceneKey("s1"); key != "staging:scene:s1" {
		t.Errorf("ScopedKeyer SceneKey unexpected: %s", key)
	}

	frameKey := scoped.FrameKey("hash", FrameKeyOpts{})
	if frameKey != "staging:"+inner.FrameKey("hash", FrameKeyOpts{}) {
		t.Errorf("ScopedKeyer FrameKey should be prefixed: %s", frameKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SceneKey("key")
	if key != "prefix:scene:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "frame:1"); err != nil || hit {
		t.Fatalf("empty cache Get = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "frame:1", []byte(`{"contours":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "frame:1")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"contours":[]}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "frame:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "frame:1"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "frame:1"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should hit")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	if IsRetryable(classify(errors.New("WRONGTYPE"))) {
		t.Error("command errors should not be retryable")
	}
	err := classify(timeoutErr{})
	if !IsRetryable(err) {
		t.Error("network errors should be retryable")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("network errors should wrap ErrNetwork")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestFileCacheForeignEntryMisses(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "frame:a", []byte("a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// An entry written for another key at this key's path must not be served.
	if err := os.Rename(c.path("frame:a"), mustMkdir(t, c.path("frame:b"))); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, hit, err := c.Get(ctx, "frame:b"); err != nil || hit {
		t.Errorf("foreign entry Get = hit %v, err %v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("frame:b")); !os.IsNotExist(err) {
		t.Error("foreign entry should be removed")
	}
}

func TestFileCacheCorruptEntryMisses(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	p := mustMkdir(t, c.path("frame:x"))
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "frame:x"); err != nil || hit {
		t.Errorf("corrupt entry Get = hit %v, err %v, want miss", hit, err)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	for key, ttl := range map[string]time.Duration{
		"frame:old":     time.Minute,
		"frame:fresh":   time.Hour,
		"scene:forever": 0,
	} {
		if err := c.Set(ctx, key, []byte(key), ttl); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}
	junk := filepath.Join(c.Dir(), "ab", ".tmp-123")
	if err := os.WriteFile(mustMkdir(t, junk), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(10 * time.Minute) }
	removed, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune removed %d files, want 2", removed)
	}
	for key, want := range map[string]bool{"frame:old": false, "frame:fresh": true, "scene:forever": true} {
		if _, hit, _ := c.Get(ctx, key); hit != want {
			t.Errorf("after Prune Get(%s) hit = %v, want %v", key, hit, want)
		}
	}
}

func TestHashKeySeparatesInputAndOptions(t *testing.T) {
	a := hashKey("frame", "ab", FrameKeyOpts{WingCount: 1})
	b := hashKey("frame", "a", FrameKeyOpts{WingCount: 1})
	if a == b {
		t.Error("different input hashes should give different keys")
	}
	if !strings.HasPrefix(a, "frame:") || len(a) != len("frame:")+64 {
		t.Errorf("hashKey = %q, want frame:<sha256>", a)
	}
}

func mustMkdir(t *testing.T, p string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}
