package cache

import (
	"context"
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

	if hashKey("catalog", "ab", "c") == hashKey("catalog", "a", "bc") {
		t.Error("hashKey should separate its parts")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HTTPKey
	httpKey := k.HTTPKey("webstatus", "features")
	if httpKey != "http:webstatus:features" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// CatalogKey should depend on the endpoint
	ck1 := k.CatalogKey("https://api.webstatus.dev/v1/features")
	ck2 := k.CatalogKey("http://localhost:9999/v1/features")
	if ck1 == ck2 {
		t.Error("Different endpoints should produce different catalog keys")
	}
	if !strings.HasPrefix(ck1, "catalog:") {
		t.Errorf("CatalogKey should be namespaced: %s", ck1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	// All keys should be prefixed
	httpKey := scoped.HTTPKey("webstatus", "features")
	if httpKey != "staging:http:webstatus:features" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	catalogKey := scoped.CatalogKey("https://api.webstatus.dev/v1/features")
	if !strings.HasPrefix(catalogKey, "staging:catalog:") {
		t.Errorf("ScopedKeyer CatalogKey should be prefixed: %s", catalogKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("test", "key")
	if key != "prefix:http:test:key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
