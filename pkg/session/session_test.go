package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/baseline/pkg/detect"
	"github.com/matzehuels/baseline/pkg/feature"
)

func newTestStore(ttl time.Duration) (*MemoryStore, *time.Time) {
	d := detect.New(nil, detect.WithLogger(log.New(io.Discard)))
	store := NewMemoryStore(d, ttl)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !ValidID(sess.ID) {
		t.Errorf("session id %q is not a uuid", sess.ID)
	}
	if sess.Detect == nil {
		t.Fatal("session has no detection cache")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != sess {
		t.Error("Get() returned a different session")
	}
}

func TestGetUnknown(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	if _, err := store.Get(context.Background(), NewID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()

	a, _ := store.Create(ctx)
	b, _ := store.Create(ctx)
	if a.ID == b.ID {
		t.Fatal("session ids collide")
	}

	a.Detect.DetectWithCache(ctx, "a ?? b", feature.LanguageJavaScript)
	if _, ok := b.Detect.Cached(); ok {
		t.Error("detection in one session leaked into another")
	}
}

func TestIdleExpiry(t *testing.T) {
	store, now := newTestStore(time.Minute)
	ctx := context.Background()

	sess, _ := store.Create(ctx)

	*now = now.Add(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() before expiry error: %v", err)
	}

	// The access above extended the session.
	*now = now.Add(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() after extension error: %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
	if store.size() != 0 {
		t.Errorf("expired session still stored")
	}
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx := context.Background()

	sess, _ := store.Create(ctx)
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}

func TestCleanup(t *testing.T) {
	store, now := newTestStore(time.Minute)
	ctx := context.Background()

	store.Create(ctx)
	store.Create(ctx)
	*now = now.Add(30 * time.Second)
	fresh, _ := store.Create(ctx)
	*now = now.Add(45 * time.Second)

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Cleanup() removed %d, want 2", n)
	}
	if _, err := store.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
}

func TestRunCleanupStops(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, store, time.Millisecond, log.New(io.Discard))
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestValidID(t *testing.T) {
	if ValidID("not-a-uuid") {
		t.Error("ValidID accepted garbage")
	}
	if !ValidID(NewID()) {
		t.Error("ValidID rejected a fresh id")
	}
}
