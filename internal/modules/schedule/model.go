// README: Weekly commute schedule model (Monday through Saturday).
package schedule

import "fmt"

// Day is a commuting weekday. Sunday is not part of the model.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func (d Day) String() string {
	if d < Monday || d > Saturday {
		return "unknown"
	}
	return dayNames[d]
}

// Days returns the six weekdays in order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// ParseDay maps a lowercase day name to its Day value.
func ParseDay(s string) (Day, error) {
	for i, name := range dayNames {
		if s == name {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// TimeOfDay selects the commute direction: morning is home to work,
// evening is work to home.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// ParseTimeOfDay maps a section name to its TimeOfDay value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(s) {
	case Morning, Evening:
		return TimeOfDay(s), nil
	}
	return "", fmt.Errorf("unknown time of day %q", s)
}

// WorkDay holds one day's commute targets. Times are "HH:MM" clock
// strings; an empty string means unset.
type WorkDay struct {
	Enabled       bool   `json:"enabled"`
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
}

// Weekly is the ordered Monday–Saturday schedule.
type Weekly struct {
	Monday    WorkDay `json:"monday"`
	Tuesday   WorkDay `json:"tuesday"`
	Wednesday WorkDay `json:"wednesday"`
	Thursday  WorkDay `json:"thursday"`
	Friday    WorkDay `json:"friday"`
	Saturday  WorkDay `json:"saturday"`
}

// At returns the entry for the given day.
func (w Weekly) At(d Day) WorkDay {
	switch d {
	case Monday:
		return w.Monday
	case Tuesday:
		return w.Tuesday
	case Wednesday:
		return w.Wednesday
	case Thursday:
		return w.Thursday
	case Friday:
		return w.Friday
	case Saturday:
		return w.Saturday
	}
	return WorkDay{}
}

// EnabledOn reports whether the user commutes on the given day.
func (w Weekly) EnabledOn(d Day) bool {
	return w.At(d).Enabled
}
