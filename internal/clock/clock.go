// Package clock provides a wall-clock time-of-day value type.
//
// Times are stored as minutes since midnight and only converted to and
// from "HH:MM" strings at the edges of the program.
package clock

import (
	"errors"
	"fmt"
)

// MinutesPerDay is the number of minutes in a single day.
const MinutesPerDay = 24 * 60

// Validation errors.
var (
	ErrInvalidTime = errors.New("time must be in HH:MM format (00:00-23:59)")
	ErrOutOfRange  = errors.New("minutes must be within a single day")
)

// Time is a time of day in minutes since midnight, in [0, 1440).
type Time int

// Parse converts "HH:MM" to a Time.
// Returns ErrInvalidTime for anything that is not a zero-padded 24-hour time.
func Parse(s string) (Time, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if !isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Time(hours*60 + mins), nil
}

// MustParse is like Parse but panics on malformed input.
// Intended for constants and tests.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes converts minutes since midnight to a Time.
func FromMinutes(m int) (Time, error) {
	if m < 0 || m >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, m)
	}
	return Time(m), nil
}

// Minutes returns minutes since midnight.
func (t Time) Minutes() int {
	return int(t)
}

// Hour returns the time as a fractional hour, e.g. 09:30 is 9.5.
func (t Time) Hour() float64 {
	return float64(t) / 60
}

// Add returns t shifted by the given number of minutes.
// The result is not clamped; use Valid to check it.
func (t Time) Add(minutes int) Time {
	return t + Time(minutes)
}

// Sub returns the number of minutes between u and t.
func (t Time) Sub(u Time) int {
	return int(t - u)
}

// Valid reports whether t falls within a single day.
func (t Time) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String formats the time as zero-padded "HH:MM".
func (t Time) String() string {
	m := int(t)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MarshalText implements encoding.TextMarshaler.
func (t Time) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Time) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ToMinutes converts "HH:MM" to minutes since midnight.
func ToMinutes(s string) (int, error) {
	t, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return t.Minutes(), nil
}

// Format converts minutes since midnight to "HH:MM".
func Format(m int) (string, error) {
	t, err := FromMinutes(m)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Overlap returns the overlapping minutes between [s1, e1) and [s2, e2).
func Overlap(s1, e1, s2, e2 Time) int {
	start := max(s1, s2)
	end := min(e1, e2)
	if end <= start {
		return 0
	}
	return end.Sub(start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
