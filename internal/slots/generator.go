// Package slots derives canonical bookable times from operating hours.
package slots

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

// StepMinutes is the fixed distance between canonical slot starts.
const StepMinutes = 30

// The daily break window excluded from canonical generation.
const (
	breakStart = 12*60 + 30 // 12:30
	breakEnd   = 13*60 + 30 // 13:30
)

// Generate returns the canonical slot times between open (inclusive) and
// close (exclusive) in HH:MM form. Slots inside the 12:30-13:30 break are
// skipped; a step landing inside the break resets the cursor to 13:30
// instead of resuming the cadence from within it. Returns nil when either
// bound is missing, malformed, or open >= close.
func Generate(open, close string) []string {
	openMins, err := ParseClock(open)
	if err != nil {
		return nil
	}
	closeMins, err := ParseClock(close)
	if err != nil {
		return nil
	}
	if openMins >= closeMins {
		return nil
	}

	var times []string
	for cur := openMins; cur < closeMins; {
		if !inBreak(cur) {
			times = append(times, FormatClock(cur))
		}
		cur += StepMinutes
		if inBreak(cur) {
			cur = breakEnd
		}
	}
	return times
}

func inBreak(mins int) bool {
	return mins >= breakStart && mins < breakEnd
}

// ParseClock parses an HH:MM time-of-day into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: time %q", models.ErrInvalidInput, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", models.ErrInvalidInput, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", models.ErrInvalidInput, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", models.ErrInvalidInput, s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as zero-padded HH:MM. The
// zero padding keeps lexicographic order equal to chronological order,
// which the availability merge relies on.
func FormatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateHours checks an open/close pair for use as operating hours.
func ValidateHours(open, close string) error {
	openMins, err := ParseClock(open)
	if err != nil {
		return err
	}
	closeMins, err := ParseClock(close)
	if err != nil {
		return err
	}
	if openMins >= closeMins {
		return fmt.Errorf("%w: open %s must be before close %s", models.ErrInvalidInput, open, close)
	}
	return nil
}
