package state

// Event describes the state change produced by one engine operation. Each
// mutating operation returns its event alongside the new context; the caller
// decides whether to forward it to telemetry or other subscribers. There is
// no global event bus.
type Event interface {
	EventType() string
}

type SessionCreated struct {
	SessionID  string `json:"session_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (SessionCreated) EventType() string { return "session_created" }

type ActionRecorded struct {
	SessionID string      `json:"session_id"`
	Action    ActionEvent `json:"action"`
}

func (ActionRecorded) EventType() string { return "action_recorded" }

type LocationChanged struct {
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

func (LocationChanged) EventType() string { return "location_changed" }

type NPCInteraction struct {
	SessionID         string `json:"session_id"`
	NPCID             string `json:"npc_id"`
	DispositionChange int    `json:"disposition_change"`
	FirstMeeting      bool   `json:"first_meeting"`
}

func (NPCInteraction) EventType() string { return "npc_interaction" }

type HealthChanged struct {
	SessionID string `json:"session_id"`
	Delta     int    `json:"delta"`
	NewValue  int    `json:"new_value"`
}

func (HealthChanged) EventType() string { return "health_changed" }

type ReputationChanged struct {
	SessionID string `json:"session_id"`
	Delta     int    `json:"delta"`
	NewValue  int    `json:"new_value"`
}

func (ReputationChanged) EventType() string { return "reputation_changed" }
