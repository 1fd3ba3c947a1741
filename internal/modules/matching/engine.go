// README: Matching engine: evaluates a pool snapshot into ranked driver and passenger lists.
package matching

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
)

// Engine orchestrates detour calculation and scoring over a candidate
// pool. A single candidate's failure never aborts the batch; the engine
// always returns the matches it could compute.
type Engine struct {
	calc    *Calculator
	workers int
	logger  *slog.Logger
}

// NewEngine builds an Engine. workers bounds how many candidates are
// evaluated concurrently (each evaluation fans out into three route
// lookups, so outbound calls are capped at 3*workers).
func NewEngine(calc *Calculator, workers int, logger *slog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{calc: calc, workers: workers, logger: logger}
}

// ComputeMatches evaluates every candidate in pool against self for the
// given weekday and commute direction. maxDetourMinutes caps the detour
// self accepts as a driver; each candidate's own MaxDetourMinutes (nil
// meaning no limit) caps the passenger-side list. Both lists come back
// sorted by score descending, ties keeping pool encounter order.
func (e *Engine) ComputeMatches(ctx context.Context, self profile.Profile, pool []profile.Profile, day schedule.Day, tod schedule.TimeOfDay, maxDetourMinutes int) (*MatchSet, error) {
	results := make([]*DetourResult, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, candidate := range pool {
		if candidate.ID == self.ID || !candidate.Schedule.EnabledOn(day) {
			continue
		}
		g.Go(func() error {
			res, err := e.calc.PlanDetour(gctx, self, candidate, day, tod)
			if err != nil {
				// Degrade to "no match for this candidate".
				e.logger.Debug("candidate skipped",
					"self", self.ID, "candidate", candidate.ID,
					"day", day.String(), "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := &MatchSet{SelfID: self.ID, Day: day, TimeOfDay: tod}
	for i, candidate := range pool {
		res := results[i]
		if res == nil {
			continue
		}
		if res.DriverDetourMinutes <= maxDetourMinutes {
			set.DriverMatches = append(set.DriverMatches, ScoredCandidate{
				Profile:       candidate,
				DetourMinutes: res.DriverDetourMinutes,
				Score:         Score(self, candidate),
				AdjustedTime:  res.AdjustedTime,
			})
		}
		if candidate.MaxDetourMinutes == nil || res.PassengerDetourMinutes <= *candidate.MaxDetourMinutes {
			set.PassengerMatches = append(set.PassengerMatches, ScoredCandidate{
				Profile:       candidate,
				DetourMinutes: res.PassengerDetourMinutes,
				Score:         Score(candidate, self),
				AdjustedTime:  res.AdjustedTime,
			})
		}
	}

	sortByScoreDesc(set.DriverMatches, func(c ScoredCandidate) int { return c.Score })
	sortByScoreDesc(set.PassengerMatches, func(c ScoredCandidate) int { return c.Score })
	return set, nil
}
