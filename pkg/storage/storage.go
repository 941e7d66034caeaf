package storage

import (
	"context"
	"time"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

// Store defines the persistence contract for player contexts. The engine
// treats the store as the sole source of truth and makes no assumption about
// the underlying storage technology.
type Store interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// SaveContext persists a player context keyed by its session id
	SaveContext(ctx context.Context, pc *state.PlayerContext) error

	// LoadContext retrieves a player context by session id.
	// Returns nil if the session doesn't exist
	LoadContext(ctx context.Context, sessionID string) (*state.PlayerContext, error)

	// DeleteContext removes a player context by session id
	DeleteContext(ctx context.Context, sessionID string) error

	// ListActiveSince returns session ids updated at or after the given time
	ListActiveSince(ctx context.Context, since time.Time) ([]string, error)

	// ListOlderThan returns session ids last updated before the given time
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
