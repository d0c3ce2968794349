// Package session tracks editor sessions for the HTTP API.
//
// Each editor that talks to the server opens a session and receives an id.
// The session owns that editor's single-entry detection cache, so that
// keystrokes from one editor never evict another editor's result. Sessions
// expire after an idle TTL; every access extends them.
//
// Sessions hold live in-process caches and are never persisted.
//
//	store := session.NewMemoryStore(detector, session.DefaultTTL)
//	sess, err := store.Create(ctx)
//	...
//	sess, err = store.Get(ctx, id)
//	features := sess.Detect.DetectWithCache(ctx, source, lang)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/baseline/pkg/detect"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its idle TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default idle timeout.
const DefaultTTL = 30 * time.Minute

// Session is one editor's state.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Detect is the editor's single-entry detection cache.
	Detect *detect.Session `json:"-"`
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is the interface for session storage.
type Store interface {
	// Create opens a new session.
	Create(ctx context.Context) (*Session, error)

	// Get returns a session and extends its expiry.
	// Returns ErrNotFound for unknown ids and ErrExpired for expired ones.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete ends a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many it removed.
	Cleanup(ctx context.Context) (int, error)
}

// NewID returns a random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
