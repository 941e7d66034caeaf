package state

import (
	"slices"
	"strings"
	"time"
)

// StartingLocation is where every new session begins.
const StartingLocation = "starting_village"

// LocationVisit is a contiguous span of time the player spent at one location.
// A visit is opened with no exit time when the player moves away, and completed
// via WithExit.
type LocationVisit struct {
	Location        string     `json:"location"`
	EntryTime       time.Time  `json:"entry_time"`
	ExitTime        *time.Time `json:"exit_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

// WithExit completes the visit, deriving its duration from the entry time.
func (v LocationVisit) WithExit(exitTime time.Time) (LocationVisit, error) {
	if exitTime.Before(v.EntryTime) {
		return LocationVisit{}, NewValidationError("exit_time", "cannot be before entry time")
	}
	v.ExitTime = &exitTime
	v.DurationMinutes = int(exitTime.Sub(v.EntryTime).Minutes())
	return v, nil
}

// LocationState tracks player movement and location history.
type LocationState struct {
	Current               string          `json:"current"`
	Previous              string          `json:"previous,omitempty"`
	VisitCount            int             `json:"visit_count"`
	FirstVisit            time.Time       `json:"first_visit"`
	TimeInLocationMinutes int             `json:"time_in_location_minutes"`
	LocationHistory       []LocationVisit `json:"location_history,omitempty"`
}

// NewLocationState places the player at the starting location.
func NewLocationState(now time.Time) LocationState {
	return LocationState{
		Current:    StartingLocation,
		VisitCount: 1,
		FirstVisit: now,
	}
}

// MoveTo returns the state after moving to newLocation. The outgoing location
// is appended to history as an open visit, and time in location resets.
//
// The visit counter increments only when newLocation matches the pre-move
// current location; Manager.UpdateLocation treats that case as a no-op and
// never reaches this branch, but direct callers can. Kept as-is until the
// intended same-location semantics are confirmed.
func (l LocationState) MoveTo(newLocation string, now time.Time) (LocationState, error) {
	if strings.TrimSpace(newLocation) == "" {
		return LocationState{}, NewValidationError("location", "cannot be blank")
	}

	history := append(slices.Clone(l.LocationHistory), LocationVisit{
		Location:  l.Current,
		EntryTime: now,
	})

	next := LocationState{
		Current:         newLocation,
		Previous:        l.Current,
		LocationHistory: history,
	}
	if l.Current == newLocation {
		next.VisitCount = l.VisitCount + 1
		next.FirstVisit = l.FirstVisit
	} else {
		next.VisitCount = 1
		next.FirstVisit = now
	}
	return next, nil
}
