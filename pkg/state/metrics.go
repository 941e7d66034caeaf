package state

// BehaviorType classifies the player's style of play from the action mix.
type BehaviorType string

const (
	BehaviorWarrior  BehaviorType = "warrior"
	BehaviorDiplomat BehaviorType = "diplomat"
	BehaviorExplorer BehaviorType = "explorer"
	BehaviorBalanced BehaviorType = "balanced"
)

// SessionMetrics accumulates per-session counters. Counts only ever grow;
// derived views (distribution, behavior type) are computed on demand and
// never stored.
type SessionMetrics struct {
	TotalActions       int     `json:"total_actions"`
	CombatActions      int     `json:"combat_actions"`
	SocialActions      int     `json:"social_actions"`
	ExploreActions     int     `json:"explore_actions"`
	SessionTimeMinutes float64 `json:"session_time_minutes"`
	LocationsVisited   int     `json:"locations_visited"`
	NPCsInteracted     int     `json:"npcs_interacted"`
}

// IncrementAction bumps the total and the counter for the action's class.
// Attack counts as combat, talk as social, examine and move as exploration;
// other types count toward the total only.
func (m SessionMetrics) IncrementAction(actionType ActionType) SessionMetrics {
	m.TotalActions++
	switch actionType {
	case ActionAttack:
		m.CombatActions++
	case ActionTalk:
		m.SocialActions++
	case ActionExamine, ActionMove:
		m.ExploreActions++
	}
	return m
}

// IncrementLocation records a move to a not-currently-occupied location.
func (m SessionMetrics) IncrementLocation() SessionMetrics {
	m.LocationsVisited++
	return m
}

// IncrementNPCInteraction records a first meeting with an NPC.
func (m SessionMetrics) IncrementNPCInteraction() SessionMetrics {
	m.NPCsInteracted++
	return m
}

// WithSessionTime sets the elapsed session time in minutes.
func (m SessionMetrics) WithSessionTime(minutes float64) SessionMetrics {
	m.SessionTimeMinutes = minutes
	return m
}

// ActionDistribution is the percentage split of recorded actions by class.
type ActionDistribution struct {
	CombatPercent  float64 `json:"combat_percent"`
	SocialPercent  float64 `json:"social_percent"`
	ExplorePercent float64 `json:"explore_percent"`
	OtherPercent   float64 `json:"other_percent"`
}

// Distribution computes the action split. All percentages are zero when no
// actions have been recorded.
func (m SessionMetrics) Distribution() ActionDistribution {
	if m.TotalActions == 0 {
		return ActionDistribution{}
	}

	combat := float64(m.CombatActions) / float64(m.TotalActions) * 100
	social := float64(m.SocialActions) / float64(m.TotalActions) * 100
	explore := float64(m.ExploreActions) / float64(m.TotalActions) * 100
	return ActionDistribution{
		CombatPercent:  combat,
		SocialPercent:  social,
		ExplorePercent: explore,
		OtherPercent:   100 - combat - social - explore,
	}
}

// BehaviorType classifies the player from the action distribution. A class
// must hold a strict majority; otherwise the player is balanced.
func (m SessionMetrics) BehaviorType() BehaviorType {
	d := m.Distribution()
	switch {
	case d.CombatPercent > 50:
		return BehaviorWarrior
	case d.SocialPercent > 50:
		return BehaviorDiplomat
	case d.ExplorePercent > 50:
		return BehaviorExplorer
	default:
		return BehaviorBalanced
	}
}
