package matching

import (
	"context"
	"sync"

	"covoit/internal/maps"
	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

// prof builds a minimal profile for sorting/scoring tests.
func prof(id string) profile.Profile {
	return profile.Profile{ID: types.ID(id)}
}

// workDay is a shorthand for an enabled schedule entry.
func workDay(arrival, departure string) schedule.WorkDay {
	return schedule.WorkDay{Enabled: true, ArrivalTime: arrival, DepartureTime: departure}
}

// commuter builds a profile with the same schedule Monday through
// Friday. Home points are offset so each commuter is distinguishable by
// coordinates in route fakes.
func commuter(id string, home, work types.Point, arrival, departure string) profile.Profile {
	day := workDay(arrival, departure)
	return profile.Profile{
		ID:   types.ID(id),
		Home: home,
		Work: work,
		Schedule: schedule.Weekly{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

// fakeRoutes is a deterministic RouteProvider test double.
type fakeRoutes struct {
	mu     sync.Mutex
	direct func(ctx context.Context, origin, destination types.Point) (maps.Route, error)
	detour func(ctx context.Context, origin, destination, pickup, dropoff types.Point) (maps.Route, error)

	directCalls int
	detourCalls int
}

func (f *fakeRoutes) DirectRoute(ctx context.Context, origin, destination types.Point) (maps.Route, error) {
	f.mu.Lock()
	f.directCalls++
	f.mu.Unlock()
	return f.direct(ctx, origin, destination)
}

func (f *fakeRoutes) DetourRoute(ctx context.Context, origin, destination, pickup, dropoff types.Point) (maps.Route, error) {
	f.mu.Lock()
	f.detourCalls++
	f.mu.Unlock()
	return f.detour(ctx, origin, destination, pickup, dropoff)
}

func minutes(n int) maps.Route {
	return maps.Route{DurationMinutes: n, DistanceKm: float64(n)}
}

// durationsByOrigin builds a fake whose direct durations are keyed by
// the origin point and whose combined duration is fixed.
func durationsByOrigin(directs map[types.Point]int, combined int) *fakeRoutes {
	return &fakeRoutes{
		direct: func(_ context.Context, origin, _ types.Point) (maps.Route, error) {
			return minutes(directs[origin]), nil
		},
		detour: func(_ context.Context, _, _, _, _ types.Point) (maps.Route, error) {
			return minutes(combined), nil
		},
	}
}

// recordingPublisher captures every published match set in order.
type recordingPublisher struct {
	mu   sync.Mutex
	sets []*MatchSet
}

func (r *recordingPublisher) SetLatest(_ context.Context, set *MatchSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, set)
	return nil
}

func (r *recordingPublisher) published() []*MatchSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*MatchSet, len(r.sets))
	copy(out, r.sets)
	return out
}

// channelSource adapts a plain channel to the PoolSource interface.
type channelSource struct {
	ch  chan profile.Snapshot
	err error
}

func (s *channelSource) Subscribe(_ context.Context, _ schedule.Day) (<-chan profile.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}
