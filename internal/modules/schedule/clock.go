// README: Clock-string arithmetic: parsing, formatting, detour adjustment, window checks.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const maxClockMinutes = 24*60 - 1

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Missing or non-numeric parts count as 0, so invalid input parses to 0
// rather than erroring. Callers treat 0 as "unset" when validity matters.
func ParseClock(s string) int {
	if s == "" {
		return 0
	}
	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	return hours*60 + minutes
}

// FormatClock renders minutes since midnight as "HH:MM", clamping the
// input to the 00:00–23:59 range.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > maxClockMinutes {
		minutes = maxClockMinutes
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AdjustedTime applies detour minutes to a baseline clock time. In the
// morning the detour delays arrival; in the evening it moves the
// departure earlier. A base time that parses to 0 is returned unchanged
// as a failure-safe fallback.
func AdjustedTime(base string, detourMinutes int, tod TimeOfDay) string {
	baseMinutes := ParseClock(base)
	if baseMinutes == 0 {
		return base
	}
	if tod == Morning {
		return FormatClock(baseMinutes + detourMinutes)
	}
	return FormatClock(baseMinutes - detourMinutes)
}

// WindowCompatible reports whether an adjusted time falls within the
// tolerance window around the desired time. Mornings accept arriving up
// to 30 minutes early or 10 late; evenings accept leaving up to 10
// minutes early or 30 late. Either time parsing to 0 is incompatible.
func WindowCompatible(desired, adjusted string, tod TimeOfDay) bool {
	d := ParseClock(desired)
	a := ParseClock(adjusted)
	if d == 0 || a == 0 {
		return false
	}
	diff := a - d
	if tod == Morning {
		return diff >= -30 && diff <= 10
	}
	return diff >= -10 && diff <= 30
}
