package state

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// MaxActions bounds the per-session action history. The oldest entries are
// dropped first when the cap is exceeded.
const MaxActions = 50

// PlayerContext is the aggregate for one play session: character vitals,
// location history, NPC relationships, and a bounded log of actions. It is
// the unit of persistence and the sole input to prompt synthesis.
//
// Update methods return a new value rather than mutating in place; shared
// slices and maps are cloned on write.
type PlayerContext struct {
	PlayerID         string                     `json:"player_id"`
	SessionID        string                     `json:"session_id"`
	StartTime        time.Time                  `json:"start_time"`
	LastUpdate       time.Time                  `json:"last_update"`
	Character        CharacterState             `json:"character"`
	Location         LocationState              `json:"location"`
	Actions          []ActionEvent              `json:"actions,omitempty"`
	NPCRelationships map[string]NPCRelationship `json:"npc_relationships,omitempty"`
	SessionStats     SessionMetrics             `json:"session_stats"`
}

// NewPlayerContext creates the aggregate for a fresh session: default
// character, starting location, empty history.
func NewPlayerContext(playerID, sessionID, playerName string, now time.Time) (*PlayerContext, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, NewValidationError("player_id", "cannot be blank")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, NewValidationError("session_id", "cannot be blank")
	}

	character, err := NewCharacter(playerName)
	if err != nil {
		return nil, err
	}

	return &PlayerContext{
		PlayerID:         playerID,
		SessionID:        sessionID,
		StartTime:        now,
		LastUpdate:       now,
		Character:        character,
		Location:         NewLocationState(now),
		NPCRelationships: make(map[string]NPCRelationship),
	}, nil
}

// WithAction appends an action, bumps the per-class counters, and enforces
// the history cap by dropping the oldest entries.
func (pc PlayerContext) WithAction(action ActionEvent, now time.Time) PlayerContext {
	actions := append(slices.Clone(pc.Actions), action)
	if len(actions) > MaxActions {
		actions = actions[len(actions)-MaxActions:]
	}
	pc.Actions = actions
	pc.SessionStats = pc.SessionStats.IncrementAction(action.Type)
	pc.LastUpdate = now
	return pc
}

// WithLocation replaces the location state. moved indicates arrival at a
// location different from the previous current, which counts toward the
// locations-visited metric.
func (pc PlayerContext) WithLocation(location LocationState, moved bool, now time.Time) PlayerContext {
	pc.Location = location
	if moved {
		pc.SessionStats = pc.SessionStats.IncrementLocation()
	}
	pc.LastUpdate = now
	return pc
}

// WithNPC stores an NPC relationship keyed by NPC id. firstMeeting counts
// toward the npcs-interacted metric.
func (pc PlayerContext) WithNPC(rel NPCRelationship, firstMeeting bool, now time.Time) PlayerContext {
	relationships := maps.Clone(pc.NPCRelationships)
	if relationships == nil {
		relationships = make(map[string]NPCRelationship)
	}
	relationships[rel.NPCID] = rel
	pc.NPCRelationships = relationships
	if firstMeeting {
		pc.SessionStats = pc.SessionStats.IncrementNPCInteraction()
	}
	pc.LastUpdate = now
	return pc
}

// WithCharacter replaces the character state.
func (pc PlayerContext) WithCharacter(character CharacterState, now time.Time) PlayerContext {
	pc.Character = character
	pc.LastUpdate = now
	return pc
}

// RecentActions returns up to n of the most recent actions in chronological
// order (oldest first).
func (pc PlayerContext) RecentActions(n int) []ActionEvent {
	if n <= 0 || len(pc.Actions) == 0 {
		return nil
	}
	if n > len(pc.Actions) {
		n = len(pc.Actions)
	}
	return slices.Clone(pc.Actions[len(pc.Actions)-n:])
}

// NPCsAt returns the NPC relationships whose recorded location matches loc,
// sorted by NPC id for deterministic rendering.
func (pc PlayerContext) NPCsAt(loc string) []NPCRelationship {
	var npcs []NPCRelationship
	for _, rel := range pc.NPCRelationships {
		if rel.Location == loc {
			npcs = append(npcs, rel)
		}
	}
	slices.SortFunc(npcs, func(a, b NPCRelationship) int {
		return strings.Compare(a.NPCID, b.NPCID)
	})
	return npcs
}

// SessionDuration is the elapsed time between session start and last update.
func (pc PlayerContext) SessionDuration() time.Duration {
	return pc.LastUpdate.Sub(pc.StartTime)
}
