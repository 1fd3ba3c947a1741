// README: Matching result types, route provider contract, and error taxonomy.
package matching

import (
	"context"
	"errors"

	"covoit/internal/maps"
	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

// RouteProvider is the routing capability consumed by the matching core.
// Implemented by maps.RouteService; tests substitute deterministic fakes.
type RouteProvider interface {
	DirectRoute(ctx context.Context, origin, destination types.Point) (maps.Route, error)
	DetourRoute(ctx context.Context, origin, destination, pickup, dropoff types.Point) (maps.Route, error)
}

var (
	// ErrScheduleNotEnabled means the weekday is disabled for one or
	// both parties. Scoped to one candidate pair.
	ErrScheduleNotEnabled = errors.New("schedule not enabled")
	// ErrInvalidTime means a required clock value is missing or
	// unparseable for the selected day.
	ErrInvalidTime = errors.New("invalid schedule time")
	// ErrRouteFailed means the route provider errored or timed out.
	ErrRouteFailed = errors.New("route calculation failed")
	// ErrInvalidDuration means the provider returned an unusable
	// travel duration.
	ErrInvalidDuration = errors.New("invalid route duration")
)

// DetourResult is the outcome of one (driver, passenger) detour query.
// It is recomputed on every pool update and never persisted.
type DetourResult struct {
	DriverDetourMinutes    int
	PassengerDetourMinutes int
	AdjustedTime           string
	Route                  []types.Point
	Compatible             bool
}

// ScoredCandidate is one ranked entry in a match list.
type ScoredCandidate struct {
	Profile       profile.Profile `json:"profile"`
	DetourMinutes int             `json:"detour_minutes"`
	Score         int             `json:"score"`
	AdjustedTime  string          `json:"adjusted_time"`
}

// MatchSet is the published output of one matching computation: ranked
// candidates for the querying user as driver and as passenger.
type MatchSet struct {
	SelfID           types.ID           `json:"self_id"`
	Seq              uint64             `json:"seq"`
	Day              schedule.Day       `json:"day"`
	TimeOfDay        schedule.TimeOfDay `json:"time_of_day"`
	DriverMatches    []ScoredCandidate  `json:"driver_matches"`
	PassengerMatches []ScoredCandidate  `json:"passenger_matches"`
}
