package matching

import (
	"testing"

	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

var (
	downtown = types.Point{Lat: 45.5017, Lng: -73.5673}
	plateau  = types.Point{Lat: 45.5230, Lng: -73.5800}
	campus   = types.Point{Lat: 45.4945, Lng: -73.5780}
)

func TestScore_Symmetry(t *testing.T) {
	a := commuter("a", downtown, campus, "09:00", "17:00")
	b := commuter("b", plateau, campus, "09:15", "17:30")
	c := commuter("c", types.Point{Lat: 46.8, Lng: -71.2}, types.Point{Lat: 46.81, Lng: -71.21}, "07:00", "15:00")

	pairs := [][2]profile.Profile{{a, b}, {a, c}, {b, c}}
	for _, p := range pairs {
		if s1, s2 := Score(p[0], p[1]), Score(p[1], p[0]); s1 != s2 {
			t.Errorf("Score(%s,%s) = %d but Score(%s,%s) = %d", p[0].ID, p[1].ID, s1, p[1].ID, p[0].ID, s2)
		}
	}
}

func TestScore_IdenticalProfiles(t *testing.T) {
	a := commuter("a", downtown, campus, "09:00", "17:00")
	b := commuter("b", downtown, campus, "09:00", "17:00")
	// Five overlapping days and zero distance:
	// round((5*50 + 100*50)/100) = round(52.5) = 53.
	if got := Score(a, b); got != 53 {
		t.Errorf("Score(identical) = %d, want 53", got)
	}
}

func TestScore_NoScheduleOverlap(t *testing.T) {
	a := profile.Profile{
		ID: "a", Home: downtown, Work: campus,
		Schedule: schedule.Weekly{Monday: workDay("09:00", "17:00")},
	}
	b := profile.Profile{
		ID: "b", Home: downtown, Work: campus,
		Schedule: schedule.Weekly{Tuesday: workDay("09:00", "17:00")},
	}
	// Zero schedule days, colocated: round((0 + 100*50)/100) = 50.
	if got := Score(a, b); got != 50 {
		t.Errorf("Score(disjoint days) = %d, want 50", got)
	}
}

func TestScheduleScore_Tolerance(t *testing.T) {
	base := profile.Profile{Schedule: schedule.Weekly{Monday: workDay("09:00", "17:00")}}
	tests := []struct {
		name      string
		arrival   string
		departure string
		want      int
	}{
		{"exact match", "09:00", "17:00", 1},
		{"30 minutes apart counts", "09:30", "17:30", 1},
		{"31 minute arrival gap does not", "09:31", "17:00", 0},
		{"31 minute departure gap does not", "09:00", "17:31", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := profile.Profile{Schedule: schedule.Weekly{Monday: workDay(tt.arrival, tt.departure)}}
			if got := scheduleScore(base, other); got != tt.want {
				t.Errorf("scheduleScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocationScore_FarApartFloorsAtZero(t *testing.T) {
	a := commuter("a", types.Point{Lat: 45.5, Lng: -73.6}, types.Point{Lat: 45.5, Lng: -73.6}, "09:00", "17:00")
	b := commuter("b", types.Point{Lat: 48.8, Lng: 2.35}, types.Point{Lat: 48.8, Lng: 2.35}, "09:00", "17:00")
	if got := locationScore(a, b); got != 0 {
		t.Errorf("locationScore across an ocean = %f, want 0", got)
	}
}
