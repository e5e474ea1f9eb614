package dateutil

import (
	"errors"
	"testing"
	"time"
)

// Thursday
var ref = time.Date(2026, 1, 8, 14, 30, 0, 0, time.UTC)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "2026-01-08"},
		{name: "today", input: "Today", want: "2026-01-08"},
		{name: "tomorrow", input: "tomorrow", want: "2026-01-09"},
		{name: "yesterday", input: "yesterday", want: "2026-01-07"},
		{name: "weekday later this week", input: "saturday", want: "2026-01-10"},
		{name: "same weekday is next week", input: "thursday", want: "2026-01-15"},
		{name: "next prefix", input: "next-monday", want: "2026-01-12"},
		{name: "last weekday", input: "last-monday", want: "2026-01-05"},
		{name: "last same weekday", input: "last-thursday", want: "2026-01-01"},
		{name: "absolute past", input: "2025-12-24", want: "2025-12-24"},
		{name: "absolute future", input: "2026-02-01", want: "2026-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input, ref)
			if err != nil {
				t.Fatalf("ParseDay(%q) unexpected error: %v", tt.input, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 {
				t.Errorf("ParseDay(%q) not truncated: %v", tt.input, got)
			}
		})
	}
}

func TestParseDay_Errors(t *testing.T) {
	for _, input := range []string{"soon", "2026-13-01", "last-funday", "01/02/2026"} {
		if _, err := ParseDay(input, ref); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseDay(%q) error = %v, want ErrInvalidDateFormat", input, err)
		}
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("yesterday", "tomorrow", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	days := r.Days()
	if len(days) != 3 {
		t.Fatalf("Days() = %d, want 3", len(days))
	}
	if days[1].Format("2006-01-02") != "2026-01-08" {
		t.Errorf("middle day = %s", days[1].Format("2006-01-02"))
	}

	single, err := NewDateRange("2026-01-05", "", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !single.Start.Equal(single.End) {
		t.Errorf("expected single-day range, got %v - %v", single.Start, single.End)
	}

	if _, err := NewDateRange("tomorrow", "yesterday", ref); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Errorf("error = %v, want ErrEndDateBeforeStart", err)
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		wantMonday string
		wantSunday string
	}{
		{name: "thursday", input: ref, wantMonday: "2026-01-05", wantSunday: "2026-01-11"},
		{name: "monday", input: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), wantMonday: "2026-01-05", wantSunday: "2026-01-11"},
		{name: "sunday", input: time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC), wantMonday: "2026-01-05", wantSunday: "2026-01-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon, sun := WeekRange(tt.input)
			if mon.Format("2006-01-02") != tt.wantMonday {
				t.Errorf("monday = %s, want %s", mon.Format("2006-01-02"), tt.wantMonday)
			}
			if sun.Format("2006-01-02") != tt.wantSunday {
				t.Errorf("sunday = %s, want %s", sun.Format("2006-01-02"), tt.wantSunday)
			}
		})
	}
}

func TestTruncateToDay(t *testing.T) {
	got := TruncateToDay(ref)
	want := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("TruncateToDay = %v, want %v", got, want)
	}
}
