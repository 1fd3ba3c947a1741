// README: Commuter profile aggregate; owned by the profile store, read-only to matching.
package profile

import (
	"covoit/internal/modules/schedule"
	"covoit/internal/types"
)

type Profile struct {
	ID          types.ID        `json:"id"`
	Name        string          `json:"name"`
	HomeAddress string          `json:"home_address"`
	WorkAddress string          `json:"work_address"`
	Home        types.Point     `json:"home_coords"`
	Work        types.Point     `json:"work_coords"`
	Schedule    schedule.Weekly `json:"schedule"`
	HasLicense  bool            `json:"has_license"`
	HasCar      bool            `json:"has_car"`
	// MaxDetourMinutes caps the detour this user accepts as a driver.
	// nil means no limit.
	MaxDetourMinutes *int `json:"max_detour_minutes,omitempty"`
}

// Validate checks the invariants enforced at the ingestion boundary.
// Coordinates must be in range before a profile reaches the engine.
func (p Profile) Validate() error {
	if err := p.Home.Validate(); err != nil {
		return err
	}
	return p.Work.Validate()
}

// Snapshot is a complete point-in-time candidate pool for one weekday.
// Seq increases monotonically within a subscription so that consumers
// can discard results of superseded computations.
type Snapshot struct {
	Seq      uint64
	Day      schedule.Day
	Profiles []Profile
}
