package state

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies a player action for session metrics and AI context.
type ActionType string

const (
	ActionMove    ActionType = "move"
	ActionTalk    ActionType = "talk"
	ActionAttack  ActionType = "attack"
	ActionExamine ActionType = "examine"
	ActionUse     ActionType = "use"
	ActionCast    ActionType = "cast"
	ActionTrade   ActionType = "trade"
	ActionRest    ActionType = "rest"
	ActionUnknown ActionType = "unknown"
)

// ParseActionType maps a raw string to one of the closed action types.
// Unrecognized input maps to ActionUnknown rather than failing.
func ParseActionType(s string) ActionType {
	switch ActionType(strings.ToLower(strings.TrimSpace(s))) {
	case ActionMove:
		return ActionMove
	case ActionTalk:
		return ActionTalk
	case ActionAttack:
		return ActionAttack
	case ActionExamine:
		return ActionExamine
	case ActionUse:
		return ActionUse
	case ActionCast:
		return ActionCast
	case ActionTrade:
		return ActionTrade
	case ActionRest:
		return ActionRest
	default:
		return ActionUnknown
	}
}

// ActionEvent is a single player action with its narrative outcome.
// Events are created once and never modified afterward.
type ActionEvent struct {
	ID           string            `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	Type         ActionType        `json:"type"`
	Command      string            `json:"command"`
	Target       string            `json:"target,omitempty"`
	Location     string            `json:"location"`
	Outcome      string            `json:"outcome"`
	Consequences []string          `json:"consequences,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// NewActionEvent creates an action event with a server-assigned id and timestamp.
func NewActionEvent(actionType ActionType, command, target, location, outcome string, consequences []string, now time.Time) (ActionEvent, error) {
	if strings.TrimSpace(command) == "" {
		return ActionEvent{}, NewValidationError("command", "cannot be blank")
	}
	if strings.TrimSpace(location) == "" {
		return ActionEvent{}, NewValidationError("location", "cannot be blank")
	}
	if strings.TrimSpace(outcome) == "" {
		return ActionEvent{}, NewValidationError("outcome", "cannot be blank")
	}

	return ActionEvent{
		ID:           uuid.New().String(),
		Timestamp:    now,
		Type:         actionType,
		Command:      command,
		Target:       target,
		Location:     location,
		Outcome:      outcome,
		Consequences: consequences,
	}, nil
}

// IsSuccessful reports whether a consequence tag marks the action as a success.
// Consequence tags are free text; "success" and "victory" are the markers the
// narrator layer emits by convention.
func (a ActionEvent) IsSuccessful() bool {
	for _, c := range a.Consequences {
		if strings.Contains(c, "success") || strings.Contains(c, "victory") {
			return true
		}
	}
	return false
}

// IsCombat reports whether the action involved combat, either by type or by
// the free-text "combat" consequence tag.
func (a ActionEvent) IsCombat() bool {
	if a.Type == ActionAttack {
		return true
	}
	for _, c := range a.Consequences {
		if strings.Contains(c, "combat") {
			return true
		}
	}
	return false
}
