// README: Shared value types used across modules.
package types

import (
	"errors"
	"fmt"
)

// ID identifies a user profile.
type ID string

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Validate rejects coordinates outside the WGS84 range. Profiles must
// pass validation at ingestion; the matching core assumes valid points.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinates)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}
