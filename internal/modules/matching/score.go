// README: Pair compatibility scoring from schedule overlap and location proximity.
package matching

import (
	"math"

	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
)

// scheduleToleranceMinutes is how far apart two users' target times may
// be for a day to still count as overlapping.
const scheduleToleranceMinutes = 30

// Score combines weekly-schedule overlap and home/work proximity into a
// single compatibility score. Both sub-scores are symmetric in their
// arguments, so Score(a, b) == Score(b, a).
func Score(a, b profile.Profile) int {
	return int(math.Round((float64(scheduleScore(a, b))*50 + locationScore(a, b)*50) / 100))
}

// scheduleScore counts the weekdays (0–6) where both users commute and
// their arrival and departure targets are within tolerance of each other.
func scheduleScore(a, b profile.Profile) int {
	score := 0
	for _, day := range schedule.Days() {
		da := a.Schedule.At(day)
		db := b.Schedule.At(day)
		if !da.Enabled || !db.Enabled {
			continue
		}
		arrivalDiff := absInt(schedule.ParseClock(da.ArrivalTime) - schedule.ParseClock(db.ArrivalTime))
		departureDiff := absInt(schedule.ParseClock(da.DepartureTime) - schedule.ParseClock(db.DepartureTime))
		if arrivalDiff <= scheduleToleranceMinutes && departureDiff <= scheduleToleranceMinutes {
			score++
		}
	}
	return score
}

// locationScore maps the average of home-to-home and work-to-work
// distances onto a 0–100 scale, where colocated pairs score 100 and
// anything 100 km apart or more scores 0.
func locationScore(a, b profile.Profile) float64 {
	homeDistance := haversineKm(a.Home, b.Home)
	workDistance := haversineKm(a.Work, b.Work)
	return math.Max(0, 100-(homeDistance+workDistance)/2)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
