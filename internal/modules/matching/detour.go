// README: Detour calculator: three concurrent route queries per pair, then time adjustment.
package matching

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"covoit/internal/maps"
	"covoit/internal/modules/profile"
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

// Calculator answers whether one driver can plausibly carry one
// passenger on a given weekday and commute direction, and at what cost
// in detour minutes for each side.
type Calculator struct {
	routes  RouteProvider
	timeout time.Duration
}

// NewCalculator wires a Calculator to a route provider. timeout bounds
// each individual route lookup.
func NewCalculator(routes RouteProvider, timeout time.Duration) *Calculator {
	return &Calculator{routes: routes, timeout: timeout}
}

// PlanDetour computes the combined-trip impact for a (driver, passenger)
// pair. It does not retry failed lookups; the engine treats any error as
// a per-candidate skip.
func (c *Calculator) PlanDetour(ctx context.Context, driver, passenger profile.Profile, day schedule.Day, tod schedule.TimeOfDay) (*DetourResult, error) {
	driverDay := driver.Schedule.At(day)
	passengerDay := passenger.Schedule.At(day)
	if !driverDay.Enabled || !passengerDay.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotEnabled, day)
	}

	baseTime := driverDay.ArrivalTime
	desiredTime := passengerDay.ArrivalTime
	if tod == schedule.Evening {
		baseTime = driverDay.DepartureTime
		desiredTime = passengerDay.DepartureTime
	}
	if baseTime == "" || desiredTime == "" {
		return nil, fmt.Errorf("%w: missing %s time on %s", ErrInvalidTime, tod, day)
	}

	// Morning runs home to work; evening runs work to home.
	driverOrigin, driverDest := driver.Home, driver.Work
	passengerPickup, passengerDropoff := passenger.Home, passenger.Work
	if tod == schedule.Evening {
		driverOrigin, driverDest = driver.Work, driver.Home
		passengerPickup, passengerDropoff = passenger.Work, passenger.Home
	}

	var driverDirect, passengerDirect, combined maps.Route
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		driverDirect, err = c.direct(gctx, driverOrigin, driverDest)
		return err
	})
	g.Go(func() error {
		var err error
		passengerDirect, err = c.direct(gctx, passengerPickup, passengerDropoff)
		return err
	})
	g.Go(func() error {
		var err error
		combined, err = c.detour(gctx, driverOrigin, driverDest, passengerPickup, passengerDropoff)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range []maps.Route{driverDirect, passengerDirect, combined} {
		if r.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, r.DurationMinutes)
		}
	}

	// Detours can come out negative when provider rounding makes the
	// combined trip look shorter; they pass through unmodified and
	// trivially satisfy any threshold downstream.
	driverDetour := combined.DurationMinutes - driverDirect.DurationMinutes
	passengerDetour := combined.DurationMinutes - passengerDirect.DurationMinutes

	adjusted := schedule.AdjustedTime(baseTime, driverDetour, tod)
	return &DetourResult{
		DriverDetourMinutes:    driverDetour,
		PassengerDetourMinutes: passengerDetour,
		AdjustedTime:           adjusted,
		Route:                  combined.Path,
		Compatible:             schedule.WindowCompatible(desiredTime, adjusted, tod),
	}, nil
}

func (c *Calculator) direct(ctx context.Context, origin, dest types.Point) (maps.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	r, err := c.routes.DirectRoute(ctx, origin, dest)
	if err != nil {
		return maps.Route{}, fmt.Errorf("%w: %v", ErrRouteFailed, err)
	}
	return r, nil
}

func (c *Calculator) detour(ctx context.Context, origin, dest, pickup, dropoff types.Point) (maps.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	r, err := c.routes.DetourRoute(ctx, origin, dest, pickup, dropoff)
	if err != nil {
		return maps.Route{}, fmt.Errorf("%w: %v", ErrRouteFailed, err)
	}
	return r, nil
}
