package state

import "strings"

const (
	DefaultMaxHealth      = 20
	DefaultAttributeScore = 10
)

// HealthStatus tracks current and maximum health.
type HealthStatus struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// NewHealthStatus validates the health invariants: max positive, current in [0,max].
func NewHealthStatus(current, maxHealth int) (HealthStatus, error) {
	if maxHealth <= 0 {
		return HealthStatus{}, NewValidationError("health_max", "must be positive")
	}
	if current < 0 || current > maxHealth {
		return HealthStatus{}, NewValidationError("health_current", "must be between 0 and max")
	}
	return HealthStatus{Current: current, Max: maxHealth}, nil
}

// WithChange applies a health delta, clamped into [0,max].
func (h HealthStatus) WithChange(delta int) HealthStatus {
	h.Current = max(0, min(h.Max, h.Current+delta))
	return h
}

// IsAlive reports whether the character has any health remaining. There is no
// death state machine; callers interpret zero health as incapacitation.
func (h HealthStatus) IsAlive() bool {
	return h.Current > 0
}

// Ratio returns current health as a fraction of max.
func (h HealthStatus) Ratio() float64 {
	return float64(h.Current) / float64(h.Max)
}

// EquipmentItem is a worn or wielded item.
type EquipmentItem struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Type  string         `json:"type"` // weapon, armor, accessory
	Slot  string         `json:"slot,omitempty"`
	Stats map[string]int `json:"stats,omitempty"`
}

func (e EquipmentItem) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return NewValidationError("equipment_id", "cannot be blank")
	}
	if strings.TrimSpace(e.Name) == "" {
		return NewValidationError("equipment_name", "cannot be blank")
	}
	return nil
}

// InventoryItem is a carried item.
type InventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Quantity int    `json:"quantity"`
	Value    int    `json:"value"`
}

func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return NewValidationError("inventory_id", "cannot be blank")
	}
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("inventory_name", "cannot be blank")
	}
	if i.Quantity < 0 {
		return NewValidationError("inventory_quantity", "cannot be negative")
	}
	if i.Value < 0 {
		return NewValidationError("inventory_value", "cannot be negative")
	}
	return nil
}

// CharacterState is the player character's vitals, gear and attributes.
type CharacterState struct {
	Name       string          `json:"name"`
	Health     HealthStatus    `json:"health"`
	Equipment  []EquipmentItem `json:"equipment,omitempty"`
	Inventory  []InventoryItem `json:"inventory,omitempty"`
	Reputation int             `json:"reputation"` // -100 to 100
	Attributes map[string]int  `json:"attributes,omitempty"`
}

// NewCharacter creates a fresh character with default health, neutral
// reputation, and baseline attributes.
func NewCharacter(name string) (CharacterState, error) {
	if strings.TrimSpace(name) == "" {
		return CharacterState{}, NewValidationError("character_name", "cannot be blank")
	}

	return CharacterState{
		Name:   name,
		Health: HealthStatus{Current: DefaultMaxHealth, Max: DefaultMaxHealth},
		Attributes: map[string]int{
			"strength":     DefaultAttributeScore,
			"dexterity":    DefaultAttributeScore,
			"intelligence": DefaultAttributeScore,
			"charisma":     DefaultAttributeScore,
		},
	}, nil
}

// WithHealthChange applies a clamped health delta.
func (c CharacterState) WithHealthChange(delta int) CharacterState {
	c.Health = c.Health.WithChange(delta)
	return c
}

// WithReputationChange applies a reputation delta, clamped into [-100,100].
func (c CharacterState) WithReputationChange(delta int) CharacterState {
	c.Reputation = max(-100, min(100, c.Reputation+delta))
	return c
}

// Mood returns the character's current mood.
func (c CharacterState) Mood() string {
	return PlayerMood(c.Health.Ratio(), c.Reputation)
}

// PlayerMood derives a mood label from the health ratio and reputation.
// The order of checks is significant: first match wins.
func PlayerMood(healthRatio float64, reputation int) string {
	switch {
	case healthRatio > 0.8 && reputation > 25:
		return "confident"
	case healthRatio < 0.3:
		return "desperate"
	case reputation < -25:
		return "troubled"
	default:
		return "focused"
	}
}

// ReputationDescription maps a reputation in [-100,100] to a standing label.
func ReputationDescription(reputation int) string {
	switch {
	case reputation >= 75:
		return "Legendary Hero"
	case reputation >= 50:
		return "Renowned"
	case reputation >= 25:
		return "Respected"
	case reputation >= 0:
		return "Neutral"
	case reputation >= -25:
		return "Disliked"
	case reputation >= -50:
		return "Despised"
	case reputation >= -75:
		return "Notorious"
	default:
		return "Villain"
	}
}
