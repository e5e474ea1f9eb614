package energy

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/pacer/internal/clock"
)

// Pattern is a user's self-reported daily rhythm.
type Pattern struct {
	PeakStart clock.Time `json:"peak_start"`
	PeakEnd   clock.Time `json:"peak_end"`
	DipStart  clock.Time `json:"dip_start"`
	DipEnd    clock.Time `json:"dip_end"`
}

// ParsePattern builds a Pattern from four "HH:MM" strings.
func ParsePattern(peakStart, peakEnd, dipStart, dipEnd string) (Pattern, error) {
	var p Pattern
	fields := []struct {
		name  string
		value string
		dest  *clock.Time
	}{
		{"peak_start", peakStart, &p.PeakStart},
		{"peak_end", peakEnd, &p.PeakEnd},
		{"dip_start", dipStart, &p.DipStart},
		{"dip_end", dipEnd, &p.DipEnd},
	}
	for _, f := range fields {
		t, err := clock.Parse(f.value)
		if err != nil {
			return Pattern{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dest = t
	}
	return p, nil
}

// Overlapping reports whether the peak and dip windows share any minutes.
func (p Pattern) Overlapping() bool {
	return clock.Overlap(p.PeakStart, p.PeakEnd, p.DipStart, p.DipEnd) > 0
}

// DefaultDaytimeStart and DefaultDaytimeEnd bound the Medium baseline.
var (
	DefaultDaytimeStart = clock.MustParse("06:00")
	DefaultDaytimeEnd   = clock.MustParse("20:00")
)

// Curve classifies times of day against a Pattern.
// Outside peak and dip, times inside the daytime window are Medium
// and everything else is Recharge.
type Curve struct {
	Pattern      Pattern
	DaytimeStart clock.Time
	DaytimeEnd   clock.Time
}

// NewCurve returns a Curve with the default 06:00-20:00 daytime window.
func NewCurve(p Pattern) Curve {
	return Curve{
		Pattern:      p,
		DaytimeStart: DefaultDaytimeStart,
		DaytimeEnd:   DefaultDaytimeEnd,
	}
}

// Validate checks window ordering.
func (c Curve) Validate() error {
	if c.Pattern.PeakStart >= c.Pattern.PeakEnd {
		return errors.New("peak_start must be before peak_end")
	}
	if c.Pattern.DipStart >= c.Pattern.DipEnd {
		return errors.New("dip_start must be before dip_end")
	}
	if c.DaytimeStart >= c.DaytimeEnd {
		return errors.New("daytime_start must be before daytime_end")
	}
	return nil
}

// Classify returns the expected tier at t.
// Peak is checked before dip, so overlapping minutes classify as High.
func (c Curve) Classify(t clock.Time) Tier {
	return c.classify(float64(t.Minutes()))
}

// ClassifyHour classifies a fractional hour in [0, 24), e.g. 14.5 for 14:30.
func (c Curve) ClassifyHour(hour float64) Tier {
	return c.classify(hour * 60)
}

func (c Curve) classify(minute float64) Tier {
	switch {
	case within(minute, c.Pattern.PeakStart, c.Pattern.PeakEnd):
		return High
	case within(minute, c.Pattern.DipStart, c.Pattern.DipEnd):
		return Low
	case within(minute, c.DaytimeStart, c.DaytimeEnd):
		return Medium
	default:
		return Recharge
	}
}

func within(minute float64, start, end clock.Time) bool {
	return minute >= float64(start.Minutes()) && minute < float64(end.Minutes())
}
