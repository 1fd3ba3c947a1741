// README: Route provider adapter over the Google Maps Directions API.
package maps

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"googlemaps.github.io/maps"

	"covoit/internal/types"
)

// Route is the provider-neutral result of a directions query.
type Route struct {
	DistanceKm      float64
	DurationMinutes int
	Path            []types.Point
}

// RouteService handles interactions with the Google Maps API.
type RouteService struct {
	client *maps.Client
	cache  *routeCache
}

// NewRouteService creates a RouteService with the given API key. Routes
// are cached in memory for cacheTTL; commute endpoints are fixed points,
// so a route stays valid on the timescale of one matching session.
func NewRouteService(apiKey string, cacheTTL time.Duration) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, cache: newRouteCache(cacheTTL)}, nil
}

// DirectRoute returns the driving route from origin to destination.
func (s *RouteService) DirectRoute(ctx context.Context, origin, destination types.Point) (Route, error) {
	return s.route(ctx, origin, destination, nil)
}

// DetourRoute returns the combined driving route from the driver's
// origin to the driver's destination passing through the passenger's
// pickup and dropoff. Waypoint order between pickup and dropoff is
// provider-optimized for shortest total path; it is not guaranteed to
// visit pickup before dropoff.
func (s *RouteService) DetourRoute(ctx context.Context, origin, destination, pickup, dropoff types.Point) (Route, error) {
	return s.route(ctx, origin, destination, []types.Point{pickup, dropoff})
}

func (s *RouteService) route(ctx context.Context, origin, destination types.Point, waypoints []types.Point) (Route, error) {
	key := cacheKey(origin, destination, waypoints)
	if r, ok := s.cache.get(key); ok {
		return r, nil
	}

	req := &maps.DirectionsRequest{
		Origin:      formatPoint(origin),
		Destination: formatPoint(destination),
		Mode:        maps.TravelModeDriving,
	}
	for _, w := range waypoints {
		req.Waypoints = append(req.Waypoints, formatPoint(w))
	}
	if len(req.Waypoints) > 0 {
		req.Optimize = true
	}

	var routes []maps.Route
	err := retry.Do(
		func() error {
			var err error
			routes, _, err = s.client.Directions(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, fmt.Errorf("no route found")
	}

	r := sumLegs(routes[0])
	s.cache.set(key, r)
	return r, nil
}

// sumLegs totals distance and duration across all legs and decodes the
// overview polyline into the path.
func sumLegs(route maps.Route) Route {
	var meters int
	var duration time.Duration
	for _, leg := range route.Legs {
		meters += leg.Distance.Meters
		duration += leg.Duration
	}

	var path []types.Point
	if pts, err := route.OverviewPolyline.Decode(); err == nil {
		path = make([]types.Point, len(pts))
		for i, p := range pts {
			path[i] = types.Point{Lat: p.Lat, Lng: p.Lng}
		}
	}

	return Route{
		DistanceKm:      float64(meters) / 1000.0,
		DurationMinutes: int(duration.Round(time.Minute) / time.Minute),
		Path:            path,
	}
}

func formatPoint(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
