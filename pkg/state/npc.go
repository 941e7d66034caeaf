package state

import (
	"slices"
	"strings"
	"time"
)

// NPCMood is a categorical label derived from disposition. It is recomputed on
// every interaction and cached on the relationship for prompt rendering.
type NPCMood string

const (
	MoodEcstatic   NPCMood = "ecstatic"
	MoodJoyful     NPCMood = "joyful"
	MoodFriendly   NPCMood = "friendly"
	MoodHelpful    NPCMood = "helpful"
	MoodNeutral    NPCMood = "neutral"
	MoodSuspicious NPCMood = "suspicious"
	MoodUnfriendly NPCMood = "unfriendly"
	MoodHostile    NPCMood = "hostile"
	MoodEnraged    NPCMood = "enraged"
)

// MoodFromDisposition maps a disposition in [-100,100] to a mood label.
// Buckets are half-open and evaluated highest-first.
func MoodFromDisposition(disposition int) NPCMood {
	switch {
	case disposition >= 80:
		return MoodEcstatic
	case disposition >= 60:
		return MoodJoyful
	case disposition >= 40:
		return MoodFriendly
	case disposition >= 20:
		return MoodHelpful
	case disposition >= -20:
		return MoodNeutral
	case disposition >= -40:
		return MoodSuspicious
	case disposition >= -60:
		return MoodUnfriendly
	case disposition >= -80:
		return MoodHostile
	default:
		return MoodEnraged
	}
}

// RelationshipLevel maps a disposition in [-100,100] to a relationship label.
func RelationshipLevel(disposition int) string {
	switch {
	case disposition >= 75:
		return "Best Friend"
	case disposition >= 50:
		return "Close Friend"
	case disposition >= 25:
		return "Friend"
	case disposition >= 10:
		return "Ally"
	case disposition >= -10:
		return "Neutral"
	case disposition >= -25:
		return "Unfriendly"
	case disposition >= -50:
		return "Hostile"
	case disposition >= -75:
		return "Enemy"
	default:
		return "Nemesis"
	}
}

// NPCRelationship tracks the player's standing with one NPC within a session.
type NPCRelationship struct {
	NPCID            string    `json:"npc_id"`
	Name             string    `json:"name"`
	Disposition      int       `json:"disposition"` // -100 to 100
	FirstMet         time.Time `json:"first_met"`
	LastInteraction  time.Time `json:"last_interaction"`
	InteractionCount int       `json:"interaction_count"`
	KnownFacts       []string  `json:"known_facts,omitempty"`
	Mood             NPCMood   `json:"mood"`
	Location         string    `json:"location,omitempty"`
	Notes            []string  `json:"notes,omitempty"`
}

// FirstMeeting creates the relationship record for the first interaction with
// an NPC. Disposition starts from neutral and applies the initial change.
func FirstMeeting(npcID, name string, dispositionChange int, facts []string, location string, now time.Time) (NPCRelationship, error) {
	if strings.TrimSpace(npcID) == "" {
		return NPCRelationship{}, NewValidationError("npc_id", "cannot be blank")
	}
	if strings.TrimSpace(name) == "" {
		return NPCRelationship{}, NewValidationError("npc_name", "cannot be blank")
	}

	disposition := clampDisposition(dispositionChange)
	return NPCRelationship{
		NPCID:            npcID,
		Name:             name,
		Disposition:      disposition,
		FirstMet:         now,
		LastInteraction:  now,
		InteractionCount: 1,
		KnownFacts:       dedupeFacts(nil, facts),
		Mood:             MoodFromDisposition(disposition),
		Location:         location,
	}, nil
}

// AfterInteraction returns the relationship after another interaction. The
// disposition is clamped, the mood recomputed, and new facts unioned in
// without duplicates.
func (n NPCRelationship) AfterInteraction(dispositionChange int, newFacts []string, now time.Time) NPCRelationship {
	n.Disposition = clampDisposition(n.Disposition + dispositionChange)
	n.LastInteraction = now
	n.InteractionCount++
	n.Mood = MoodFromDisposition(n.Disposition)
	n.KnownFacts = dedupeFacts(n.KnownFacts, newFacts)
	return n
}

func clampDisposition(d int) int {
	return max(-100, min(100, d))
}

func dedupeFacts(existing, incoming []string) []string {
	facts := slices.Clone(existing)
	for _, f := range incoming {
		if !slices.Contains(facts, f) {
			facts = append(facts, f)
		}
	}
	return facts
}
