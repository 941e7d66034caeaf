package prompts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

func newTestContext(t *testing.T, now time.Time) *state.PlayerContext {
	t.Helper()
	pc, err := state.NewPlayerContext("player-1", "session-1", "Aria", now)
	require.NoError(t, err)
	return pc
}

func TestBuild_EmptySession(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := newTestContext(t, start)

	prompt, err := New().
		WithContext(pc).
		WithNow(start).
		Build()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, PromptHeader+"\n\n"), "prompt should open with the header")
	assert.Contains(t, prompt, "- Location: starting_village\n")
	assert.Contains(t, prompt, "- Player Health: 20/20\n")
	assert.Contains(t, prompt, "- Player Reputation: 0 (Neutral)\n")
	assert.Contains(t, prompt, "- Session Duration: 0 minutes\n")
	assert.Contains(t, prompt, "- Player Mood: focused\n")
	assert.Contains(t, prompt, NoRecentActions)
	assert.Contains(t, prompt, NoActiveNPCs)
	assert.True(t, strings.HasSuffix(prompt, "Current situation requires your response as Game Master."))
	assert.NotContains(t, prompt, "previously:")
}

func TestBuild_RequiresContext(t *testing.T) {
	_, err := New().Build()
	assert.Error(t, err)
}

func TestBuild_FullSession(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := *newTestContext(t, start)

	// move to the forest at +5m
	moveTime := start.Add(5 * time.Minute)
	loc, err := pc.Location.MoveTo("dark_forest", moveTime)
	require.NoError(t, err)
	pc = pc.WithLocation(loc, true, moveTime)

	// act at +10m
	actionTime := start.Add(10 * time.Minute)
	action, err := state.NewActionEvent(state.ActionExamine, "examine the ruins", "", "dark_forest", "You find old carvings", nil, actionTime)
	require.NoError(t, err)
	pc = pc.WithAction(action, actionTime)

	// meet an NPC at +15m
	npcTime := start.Add(15 * time.Minute)
	rel, err := state.FirstMeeting("hermit", "Old Hermit", 30, []string{"lives alone", "distrusts the village"}, "dark_forest", npcTime)
	require.NoError(t, err)
	pc = pc.WithNPC(rel, true, npcTime)

	now := start.Add(30 * time.Minute)
	prompt, err := BuildPrompt(&pc, now)
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Location: dark_forest (previously: starting_village)\n")
	assert.Contains(t, prompt, "- Session Duration: 15 minutes\n")
	assert.Contains(t, prompt, "- 20 min ago: examine the ruins (examine) -> You find old carvings\n")
	assert.Contains(t, prompt, "- Old Hermit (hermit): helpful mood, Friend relationship (last seen 15 min ago)\n")
	assert.Contains(t, prompt, "  - Knows: lives alone, distrusts the village\n")
	assert.NotContains(t, prompt, NoRecentActions)
	assert.NotContains(t, prompt, NoActiveNPCs)
}

func TestBuild_ActionLimit(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := *newTestContext(t, start)

	for i := 0; i < 15; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)
		action, err := state.NewActionEvent(state.ActionMove, "step "+string(rune('a'+i)), "", pc.Location.Current, "You move on", nil, ts)
		require.NoError(t, err)
		pc = pc.WithAction(action, ts)
	}

	prompt, err := New().
		WithContext(&pc).
		WithActionLimit(3).
		WithNow(start.Add(time.Hour)).
		Build()
	require.NoError(t, err)

	assert.NotContains(t, prompt, "step a")
	assert.Contains(t, prompt, "step m")
	assert.Contains(t, prompt, "step n")
	assert.Contains(t, prompt, "step o")
}

func TestBuild_OnlyNPCsAtCurrentLocation(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := *newTestContext(t, start)

	here, err := state.FirstMeeting("guard", "Town Guard", 0, nil, state.StartingLocation, start)
	require.NoError(t, err)
	away, err := state.FirstMeeting("hermit", "Old Hermit", 0, nil, "dark_forest", start)
	require.NoError(t, err)
	pc = pc.WithNPC(here, true, start)
	pc = pc.WithNPC(away, true, start)

	prompt, err := BuildPrompt(&pc, start)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Town Guard")
	assert.NotContains(t, prompt, "Old Hermit")
}

func TestBuild_Deterministic(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := newTestContext(t, start)
	now := start.Add(time.Minute)

	a, err := BuildPrompt(pc, now)
	require.NoError(t, err)
	b, err := BuildPrompt(pc, now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
