package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/rpg-context/internal/services"
	"github.com/jwebster45206/rpg-context/pkg/prompts"
	"github.com/jwebster45206/rpg-context/pkg/state"
	"github.com/jwebster45206/rpg-context/pkg/storage"
)

const (
	// CacheTTL is the default lifetime of a cached context snapshot.
	CacheTTL = 30 * time.Minute

	// ActiveWindow defines how recently a session must have been updated to
	// count as active.
	ActiveWindow = time.Hour

	cacheKeyPrefix = "context:"
)

// Manager owns all reads and writes of player contexts. Every mutation follows
// the same sequence: lock the session, load the current state from the store,
// apply a pure transformation, persist, and invalidate the cached snapshot.
// The store is the source of truth; the cache only serves reads.
type Manager struct {
	store    storage.Store
	cache    services.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
	locks    sync.Map // session id -> *sync.Mutex, never evicted
}

// NewManager creates a context manager backed by the given store and cache.
// Zero cacheTTL falls back to the default.
func NewManager(store storage.Store, cache services.Cache, cacheTTL time.Duration, logger *slog.Logger) *Manager {
	if cacheTTL <= 0 {
		cacheTTL = CacheTTL
	}
	return &Manager{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// lockSession serializes mutations per session within this process. The store
// holds one value per session, so interleaved read-modify-write cycles would
// otherwise lose updates.
func (m *Manager) lockSession(sessionID string) func() {
	mu, _ := m.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// CreateSession initializes a player context for a new play session and
// persists it. The session id is server-assigned.
func (m *Manager) CreateSession(ctx context.Context, playerID, playerName string) (*state.PlayerContext, state.Event, error) {
	sessionID := uuid.New().String()
	pc, err := state.NewPlayerContext(playerID, sessionID, playerName, m.now())
	if err != nil {
		return nil, nil, err
	}

	if err := m.store.SaveContext(ctx, pc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	m.logger.Info("Session created", "session_id", sessionID, "player_id", playerID)
	return pc, state.SessionCreated{
		SessionID:  sessionID,
		PlayerID:   playerID,
		PlayerName: playerName,
	}, nil
}

// GetContext returns the player context for a session, serving from the cache
// when a fresh snapshot exists. Cache failures degrade to store reads.
func (m *Manager) GetContext(ctx context.Context, sessionID string) (*state.PlayerContext, error) {
	key := cacheKeyPrefix + sessionID
	if cached, err := m.cache.Get(ctx, key); err != nil {
		m.logger.Warn("Cache read failed", "session_id", sessionID, "error", err)
	} else if cached != "" {
		var pc state.PlayerContext
		if err := json.Unmarshal([]byte(cached), &pc); err == nil {
			return &pc, nil
		}
		m.logger.Warn("Discarding unreadable cache entry", "session_id", sessionID)
	}

	pc, err := m.store.LoadContext(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if pc == nil {
		return nil, ErrSessionNotFound
	}

	if data, err := json.Marshal(pc); err == nil {
		if err := m.cache.Set(ctx, key, string(data), m.cacheTTL); err != nil {
			m.logger.Warn("Cache write failed", "session_id", sessionID, "error", err)
		}
	}
	return pc, nil
}

// update runs one locked read-modify-write cycle against the store and
// invalidates the cached snapshot on success. A nil event from the callback
// means nothing changed; the store and cache are left untouched.
func (m *Manager) update(ctx context.Context, sessionID string, fn func(pc state.PlayerContext) (state.PlayerContext, state.Event, error)) (*state.PlayerContext, state.Event, error) {
	unlock := m.lockSession(sessionID)
	defer unlock()

	pc, err := m.store.LoadContext(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if pc == nil {
		return nil, nil, ErrSessionNotFound
	}

	next, event, err := fn(*pc)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return &next, nil, nil
	}

	if err := m.store.SaveContext(ctx, &next); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := m.cache.Del(ctx, cacheKeyPrefix+sessionID); err != nil {
		// Stale cache entries expire on their own; the write already succeeded.
		m.logger.Warn("Cache invalidation failed", "session_id", sessionID, "error", err)
	}
	return &next, event, nil
}

// RecordAction appends a player action to the session history. The action is
// attributed to the player's current location.
func (m *Manager) RecordAction(ctx context.Context, sessionID string, actionType state.ActionType, command, target, outcome string, consequences []string) (*state.PlayerContext, state.Event, error) {
	return m.update(ctx, sessionID, func(pc state.PlayerContext) (state.PlayerContext, state.Event, error) {
		now := m.now()
		action, err := state.NewActionEvent(actionType, command, target, pc.Location.Current, outcome, consequences, now)
		if err != nil {
			return state.PlayerContext{}, nil, err
		}
		next := pc.WithAction(action, now)
		return next, state.ActionRecorded{SessionID: sessionID, Action: action}, nil
	})
}

// UpdateLocation moves the player to a new location. Moving to the current
// location is a no-op and returns the unchanged context with a nil event.
func (m *Manager) UpdateLocation(ctx context.Context, sessionID, newLocation string) (*state.PlayerContext, state.Event, error) {
	return m.update(ctx, sessionID, func(pc state.PlayerContext) (state.PlayerContext, state.Event, error) {
		if pc.Location.Current == newLocation {
			return pc, nil, nil
		}

		now := m.now()
		from := pc.Location.Current
		loc, err := pc.Location.MoveTo(newLocation, now)
		if err != nil {
			return state.PlayerContext{}, nil, err
		}
		next := pc.WithLocation(loc, true, now)
		return next, state.LocationChanged{SessionID: sessionID, From: from, To: newLocation}, nil
	})
}

// UpdateNPCRelationship records an interaction with an NPC, creating the
// relationship on first contact. New relationships are placed at the player's
// current location.
func (m *Manager) UpdateNPCRelationship(ctx context.Context, sessionID, npcID, npcName string, dispositionChange int, facts []string) (*state.PlayerContext, state.Event, error) {
	return m.update(ctx, sessionID, func(pc state.PlayerContext) (state.PlayerContext, state.Event, error) {
		now := m.now()

		rel, known := pc.NPCRelationships[npcID]
		if known {
			rel = rel.AfterInteraction(dispositionChange, facts, now)
		} else {
			var err error
			rel, err = state.FirstMeeting(npcID, npcName, dispositionChange, facts, pc.Location.Current, now)
			if err != nil {
				return state.PlayerContext{}, nil, err
			}
		}

		next := pc.WithNPC(rel, !known, now)
		return next, state.NPCInteraction{
			SessionID:         sessionID,
			NPCID:             npcID,
			DispositionChange: dispositionChange,
			FirstMeeting:      !known,
		}, nil
	})
}

// UpdateCharacterHealth applies a health delta, clamped to the character's
// valid range.
func (m *Manager) UpdateCharacterHealth(ctx context.Context, sessionID string, delta int) (*state.PlayerContext, state.Event, error) {
	return m.update(ctx, sessionID, func(pc state.PlayerContext) (state.PlayerContext, state.Event, error) {
		next := pc.WithCharacter(pc.Character.WithHealthChange(delta), m.now())
		return next, state.HealthChanged{
			SessionID: sessionID,
			Delta:     delta,
			NewValue:  next.Character.Health.Current,
		}, nil
	})
}

// UpdateReputation applies a reputation delta, clamped into [-100,100].
func (m *Manager) UpdateReputation(ctx context.Context, sessionID string, delta int) (*state.PlayerContext, state.Event, error) {
	return m.update(ctx, sessionID, func(pc state.PlayerContext) (state.PlayerContext, state.Event, error) {
		next := pc.WithCharacter(pc.Character.WithReputationChange(delta), m.now())
		return next, state.ReputationChanged{
			SessionID: sessionID,
			Delta:     delta,
			NewValue:  next.Character.Reputation,
		}, nil
	})
}

// GetRecentActions returns up to n of the most recent actions, oldest first.
func (m *Manager) GetRecentActions(ctx context.Context, sessionID string, n int) ([]state.ActionEvent, error) {
	pc, err := m.GetContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return pc.RecentActions(n), nil
}

// GeneratePrompt renders the narrator prompt from the session's current state.
func (m *Manager) GeneratePrompt(ctx context.Context, sessionID string) (string, error) {
	pc, err := m.GetContext(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return prompts.BuildPrompt(pc, m.now())
}

// GetSummary returns the structured context summary for a session.
func (m *Manager) GetSummary(ctx context.Context, sessionID string) (*prompts.ContextSummary, error) {
	pc, err := m.GetContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return prompts.BuildSummary(pc, m.now()), nil
}

// DeleteSession removes a session from the store and cache.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := m.lockSession(sessionID)
	defer unlock()

	pc, err := m.store.LoadContext(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if pc == nil {
		return ErrSessionNotFound
	}

	if err := m.store.DeleteContext(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := m.cache.Del(ctx, cacheKeyPrefix+sessionID); err != nil {
		m.logger.Warn("Cache invalidation failed", "session_id", sessionID, "error", err)
	}
	m.logger.Info("Session deleted", "session_id", sessionID)
	return nil
}

// ListActiveSessions returns ids of sessions updated within the active window.
func (m *Manager) ListActiveSessions(ctx context.Context) ([]string, error) {
	ids, err := m.store.ListActiveSince(ctx, m.now().Add(-ActiveWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return ids, nil
}

// CleanupExpiredSessions deletes sessions whose last update is older than
// maxAge and returns the number removed. Individual delete failures are
// logged and skipped so one bad entry does not stall the sweep.
func (m *Manager) CleanupExpiredSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := m.now().Add(-maxAge)
	ids, err := m.store.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	removed := 0
	for _, id := range ids {
		if m.removeExpired(ctx, id, cutoff) {
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info("Expired sessions removed", "count", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// removeExpired deletes one expired session under its session lock. The lock
// keeps the delete from landing inside another writer's load-save cycle, and
// the age is re-checked once held: a mutation that was waiting on the store
// when the sweep listed the session may have refreshed it.
func (m *Manager) removeExpired(ctx context.Context, sessionID string, cutoff time.Time) bool {
	unlock := m.lockSession(sessionID)
	defer unlock()

	pc, err := m.store.LoadContext(ctx, sessionID)
	if err != nil {
		m.logger.Warn("Failed to check expired session", "session_id", sessionID, "error", err)
		return false
	}
	if pc == nil {
		return false
	}
	if !pc.LastUpdate.Before(cutoff) {
		return false
	}

	if err := m.store.DeleteContext(ctx, sessionID); err != nil {
		m.logger.Warn("Failed to remove expired session", "session_id", sessionID, "error", err)
		return false
	}
	if err := m.cache.Del(ctx, cacheKeyPrefix+sessionID); err != nil {
		m.logger.Warn("Cache invalidation failed", "session_id", sessionID, "error", err)
	}
	return true
}
