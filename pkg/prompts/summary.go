package prompts

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

var titleCaser = cases.Title(language.English)

// NPCContextInfo describes one NPC sharing the player's location, shaped for
// API responses.
type NPCContextInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Disposition  int      `json:"disposition"`
	Mood         string   `json:"mood"`
	KnownFacts   []string `json:"known_facts,omitempty"`
	LastSeen     string   `json:"last_seen"`
	Location     string   `json:"location"`
	Relationship string   `json:"relationship"`
}

// ContextSummary is a compact, API-facing view of a session: the same data
// the narrator prompt renders, structured instead of formatted.
type ContextSummary struct {
	CurrentLocation  string           `json:"current_location"`
	PreviousLocation string           `json:"previous_location,omitempty"`
	PlayerHealth     string           `json:"player_health"`
	PlayerReputation int              `json:"player_reputation"`
	SessionDuration  float64          `json:"session_duration_minutes"`
	PlayerMood       string           `json:"player_mood"`
	RecentFocus      string           `json:"recent_focus"`
	RecentActions    []string         `json:"recent_actions"`
	ActiveNPCs       []NPCContextInfo `json:"active_npcs,omitempty"`
	WorldState       map[string]any   `json:"world_state"`
}

// BuildSummary derives a context summary from a player context snapshot.
func BuildSummary(pc *state.PlayerContext, now time.Time) *ContextSummary {
	recent := make([]string, 0, SummaryActionLimit)
	for _, a := range pc.RecentActions(SummaryActionLimit) {
		minutesAgo := int(now.Sub(a.Timestamp).Minutes())
		recent = append(recent, fmt.Sprintf("%d min ago: %s (%s) -> %s", minutesAgo, a.Command, a.Type, a.Outcome))
	}
	if len(recent) == 0 {
		recent = append(recent, "No recent actions")
	}

	var npcs []NPCContextInfo
	for _, rel := range pc.NPCsAt(pc.Location.Current) {
		lastSeen := int(now.Sub(rel.LastInteraction).Minutes())
		npcs = append(npcs, NPCContextInfo{
			ID:           rel.NPCID,
			Name:         rel.Name,
			Disposition:  rel.Disposition,
			Mood:         string(rel.Mood),
			KnownFacts:   rel.KnownFacts,
			LastSeen:     fmt.Sprintf("%d min ago", lastSeen),
			Location:     rel.Location,
			Relationship: state.RelationshipLevel(rel.Disposition),
		})
	}

	stats := pc.SessionStats
	return &ContextSummary{
		CurrentLocation:  pc.Location.Current,
		PreviousLocation: pc.Location.Previous,
		PlayerHealth:     fmt.Sprintf("%d/%d", pc.Character.Health.Current, pc.Character.Health.Max),
		PlayerReputation: pc.Character.Reputation,
		SessionDuration:  pc.SessionDuration().Minutes(),
		PlayerMood:       pc.Character.Mood(),
		RecentFocus:      titleCaser.String(string(stats.BehaviorType())),
		RecentActions:    recent,
		ActiveNPCs:       npcs,
		WorldState: map[string]any{
			"locations_visited":  stats.LocationsVisited,
			"total_actions":      stats.TotalActions,
			"npcs_interacted":    stats.NPCsInteracted,
			"combat_experienced": stats.CombatActions > 0,
			"social_active":      stats.SocialActions > 0,
		},
	}
}
