package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every minute offset handled by the engine.
const MinutesPerDay = 24 * 60

// ErrInvalidTime indicates a time-of-day string is not in HH:MM form.
var ErrInvalidTime = errors.New("scheduler: invalid time of day")

// Day is the canonical weekday key attached to schedule entries.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
	// Unknown collects unrecognised day strings. It only ever matches itself.
	Unknown Day = "Unknown"
)

// dayPrefixes is checked in order; the three letter prefix covers the longer
// spellings ("tues", "thur", "thurs").
var dayPrefixes = []struct {
	prefix string
	day    Day
}{
	{"mon", Monday},
	{"tue", Tuesday},
	{"wed", Wednesday},
	{"thu", Thursday},
	{"fri", Friday},
	{"sat", Saturday},
	{"sun", Sunday},
}

// ParseTime converts an HH:MM string into minutes since midnight.
//
// The hour may be written with one or two digits (0-23); the minute must be
// exactly two digits (00-59). Surrounding whitespace is ignored.
func ParseTime(s string) (int, error) {
	value := strings.TrimSpace(s)
	hourPart, minutePart, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if len(hourPart) < 1 || len(hourPart) > 2 || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if !allDigits(hourPart) || !allDigits(minutePart) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hour, _ := strconv.Atoi(hourPart)
	minute, _ := strconv.Atoi(minutePart)
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour*60 + minute, nil
}

// FormatMinute renders a minute offset as HH:MM.
func FormatMinute(minute int) string {
	if minute < 0 {
		minute = 0
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// NormalizeDay maps a free-form day string onto the canonical Day key using a
// case-insensitive prefix match. Anything unrecognised becomes Unknown.
func NormalizeDay(s string) Day {
	value := strings.ToLower(strings.TrimSpace(s))
	for _, candidate := range dayPrefixes {
		if strings.HasPrefix(value, candidate.prefix) {
			return candidate.day
		}
	}
	return Unknown
}

// DayOrder returns the presentation sort key for a day: Monday=1 through
// Sunday=7, Unknown (or anything else) 99.
func DayOrder(d Day) int {
	switch d {
	case Monday:
		return 1
	case Tuesday:
		return 2
	case Wednesday:
		return 3
	case Thursday:
		return 4
	case Friday:
		return 5
	case Saturday:
		return 6
	case Sunday:
		return 7
	default:
		return 99
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
