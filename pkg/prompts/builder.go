package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

// Builder constructs narrator prompts from a player context snapshot using a
// fluent interface. Building is pure formatting over already-loaded data:
// no storage or network access, and deterministic given identical inputs
// and "now".
type Builder struct {
	pc          *state.PlayerContext
	actionLimit int
	now         time.Time
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		actionLimit: DefaultActionLimit,
	}
}

// WithContext sets the player context snapshot to render.
func (b *Builder) WithContext(pc *state.PlayerContext) *Builder {
	b.pc = pc
	return b
}

// WithActionLimit sets the recent-action window size.
func (b *Builder) WithActionLimit(limit int) *Builder {
	b.actionLimit = limit
	return b
}

// WithNow fixes the reference time used for "minutes ago" rendering.
// Defaults to time.Now at build time.
func (b *Builder) WithNow(now time.Time) *Builder {
	b.now = now
	return b
}

// Build renders the prompt. Sections appear in fixed order: header, current
// game state, player mood, recent actions, NPCs in the player's location,
// and the closing GM instruction block. Missing optional data renders as
// sensible defaults rather than failing.
func (b *Builder) Build() (string, error) {
	if b.pc == nil {
		return "", fmt.Errorf("player context is required")
	}

	now := b.now
	if now.IsZero() {
		now = time.Now()
	}

	var sb strings.Builder
	sb.WriteString(PromptHeader + "\n\n")

	b.writeGameState(&sb)
	b.writeRecentActions(&sb, now)
	b.writeActiveNPCs(&sb, now)

	sb.WriteString("\n" + GMInstructions)
	return sb.String(), nil
}

func (b *Builder) writeGameState(sb *strings.Builder) {
	pc := b.pc

	sb.WriteString("CURRENT GAME STATE:\n")
	sb.WriteString("- Location: " + pc.Location.Current)
	if pc.Location.Previous != "" {
		sb.WriteString(" (previously: " + pc.Location.Previous + ")")
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "- Player Health: %d/%d\n", pc.Character.Health.Current, pc.Character.Health.Max)
	fmt.Fprintf(sb, "- Player Reputation: %d (%s)\n", pc.Character.Reputation, state.ReputationDescription(pc.Character.Reputation))
	fmt.Fprintf(sb, "- Session Duration: %d minutes\n", int(pc.SessionDuration().Minutes()))
	fmt.Fprintf(sb, "- Player Mood: %s\n\n", pc.Character.Mood())
}

func (b *Builder) writeRecentActions(sb *strings.Builder, now time.Time) {
	sb.WriteString("RECENT PLAYER ACTIONS:\n")

	actions := b.pc.RecentActions(b.actionLimit)
	if len(actions) == 0 {
		sb.WriteString(NoRecentActions + "\n")
		return
	}
	for _, a := range actions {
		minutesAgo := int(now.Sub(a.Timestamp).Minutes())
		fmt.Fprintf(sb, "- %d min ago: %s (%s) -> %s\n", minutesAgo, a.Command, a.Type, a.Outcome)
	}
}

func (b *Builder) writeActiveNPCs(sb *strings.Builder, now time.Time) {
	sb.WriteString("\nACTIVE NPCS IN AREA:\n")

	npcs := b.pc.NPCsAt(b.pc.Location.Current)
	if len(npcs) == 0 {
		sb.WriteString(NoActiveNPCs + "\n")
		return
	}
	for _, npc := range npcs {
		lastSeen := int(now.Sub(npc.LastInteraction).Minutes())
		fmt.Fprintf(sb, "- %s (%s): %s mood, %s relationship (last seen %d min ago)\n",
			npc.Name, npc.NPCID, npc.Mood, state.RelationshipLevel(npc.Disposition), lastSeen)
		if len(npc.KnownFacts) > 0 {
			fmt.Fprintf(sb, "  - Knows: %s\n", strings.Join(npc.KnownFacts, ", "))
		}
	}
}

// BuildPrompt is a convenience function for the common case.
func BuildPrompt(pc *state.PlayerContext, now time.Time) (string, error) {
	return New().
		WithContext(pc).
		WithNow(now).
		Build()
}
