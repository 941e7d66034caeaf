package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCharacter(t *testing.T) {
	c, err := NewCharacter("Aria")
	require.NoError(t, err)

	assert.Equal(t, "Aria", c.Name)
	assert.Equal(t, DefaultMaxHealth, c.Health.Current)
	assert.Equal(t, DefaultMaxHealth, c.Health.Max)
	assert.Equal(t, 0, c.Reputation)
	for _, attr := range []string{"strength", "dexterity", "intelligence", "charisma"} {
		assert.Equal(t, DefaultAttributeScore, c.Attributes[attr], attr)
	}
}

func TestNewCharacter_BlankName(t *testing.T) {
	_, err := NewCharacter("  ")
	assert.Error(t, err)
}

func TestHealthStatus_WithChange(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{"damage", 20, -5, 15},
		{"heal", 10, 5, 15},
		{"clamp at zero", 5, -50, 0},
		{"clamp at max", 18, 50, 20},
		{"no change", 12, 0, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HealthStatus{Current: tt.current, Max: 20}
			got := h.WithChange(tt.delta)
			assert.Equal(t, tt.want, got.Current)
			assert.Equal(t, 20, got.Max)
		})
	}
}

func TestHealthStatus_IsAlive(t *testing.T) {
	assert.True(t, HealthStatus{Current: 1, Max: 20}.IsAlive())
	assert.False(t, HealthStatus{Current: 0, Max: 20}.IsAlive())
}

func TestNewHealthStatus_Validation(t *testing.T) {
	_, err := NewHealthStatus(10, 0)
	assert.Error(t, err)

	_, err = NewHealthStatus(-1, 20)
	assert.Error(t, err)

	_, err = NewHealthStatus(21, 20)
	assert.Error(t, err)

	h, err := NewHealthStatus(20, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, h.Current)
}

func TestWithReputationChange(t *testing.T) {
	c, err := NewCharacter("Aria")
	require.NoError(t, err)

	c = c.WithReputationChange(30)
	assert.Equal(t, 30, c.Reputation)

	c = c.WithReputationChange(90)
	assert.Equal(t, 100, c.Reputation)

	c = c.WithReputationChange(-250)
	assert.Equal(t, -100, c.Reputation)
}

func TestPlayerMood(t *testing.T) {
	tests := []struct {
		name        string
		healthRatio float64
		reputation  int
		want        string
	}{
		{"healthy and famous", 1.0, 30, "confident"},
		{"healthy but unknown", 1.0, 0, "focused"},
		{"barely above confident threshold", 0.81, 26, "confident"},
		{"at health threshold", 0.8, 30, "focused"},
		{"low health", 0.2, 30, "desperate"},
		{"low health and bad reputation", 0.1, -50, "desperate"},
		{"bad reputation", 0.5, -30, "troubled"},
		{"reputation at troubled threshold", 0.5, -25, "focused"},
		{"middle of the road", 0.5, 10, "focused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlayerMood(tt.healthRatio, tt.reputation))
		})
	}
}

func TestReputationDescription(t *testing.T) {
	tests := []struct {
		reputation int
		want       string
	}{
		{100, "Legendary Hero"},
		{75, "Legendary Hero"},
		{74, "Renowned"},
		{50, "Renowned"},
		{49, "Respected"},
		{25, "Respected"},
		{24, "Neutral"},
		{0, "Neutral"},
		{-1, "Disliked"},
		{-25, "Disliked"},
		{-26, "Despised"},
		{-50, "Despised"},
		{-51, "Notorious"},
		{-75, "Notorious"},
		{-76, "Villain"},
		{-100, "Villain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReputationDescription(tt.reputation), "reputation %d", tt.reputation)
	}
}

func TestEquipmentItem_Validate(t *testing.T) {
	assert.NoError(t, EquipmentItem{ID: "sword_1", Name: "Iron Sword", Type: "weapon"}.Validate())
	assert.Error(t, EquipmentItem{Name: "Iron Sword"}.Validate())
	assert.Error(t, EquipmentItem{ID: "sword_1"}.Validate())
}

func TestInventoryItem_Validate(t *testing.T) {
	assert.NoError(t, InventoryItem{ID: "potion_1", Name: "Healing Potion", Quantity: 3, Value: 10}.Validate())
	assert.Error(t, InventoryItem{Name: "Healing Potion"}.Validate())
	assert.Error(t, InventoryItem{ID: "potion_1", Name: "Healing Potion", Quantity: -1}.Validate())
	assert.Error(t, InventoryItem{ID: "potion_1", Name: "Healing Potion", Value: -5}.Validate())
}
