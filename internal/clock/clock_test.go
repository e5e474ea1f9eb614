package clock

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "8am", input: "08:00", want: 480},
		{name: "with minutes", input: "09:30", want: 570},
		{name: "5pm", input: "17:00", want: 1020},
		{name: "11:59pm", input: "23:59", want: 1439},
		{name: "short hour", input: "9:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "wrong separator", input: "10.30", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidTime", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got.Minutes() != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got.Minutes(), tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		want    string
		wantErr bool
	}{
		{name: "midnight", input: 0, want: "00:00"},
		{name: "zero pads", input: 65, want: "01:05"},
		{name: "5pm", input: 1020, want: "17:00"},
		{name: "last minute", input: 1439, want: "23:59"},
		{name: "negative", input: -1, wantErr: true},
		{name: "rollover", input: 1440, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("Format(%d) error = %v, want ErrOutOfRange", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format(%d) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		s, err := Format(m)
		if err != nil {
			t.Fatalf("Format(%d): %v", m, err)
		}
		back, err := ToMinutes(s)
		if err != nil {
			t.Fatalf("ToMinutes(%q): %v", s, err)
		}
		if back != m {
			t.Fatalf("round trip %d -> %q -> %d", m, s, back)
		}
		again, _ := Format(back)
		if again != s {
			t.Fatalf("round trip %q -> %d -> %q", s, back, again)
		}
	}
}

func TestHour(t *testing.T) {
	if got := MustParse("11:30").Hour(); got != 11.5 {
		t.Errorf("Hour() = %v, want 11.5", got)
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       int
	}{
		{name: "disjoint", start1: "08:00", end1: "09:00", start2: "10:00", end2: "11:00", want: 0},
		{name: "adjacent", start1: "08:00", end1: "09:00", start2: "09:00", end2: "10:00", want: 0},
		{name: "partial", start1: "08:30", end1: "10:00", start2: "09:00", end2: "11:30", want: 60},
		{name: "contained", start1: "09:15", end1: "09:45", start2: "09:00", end2: "11:30", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(MustParse(tt.start1), MustParse(tt.end1), MustParse(tt.start2), MustParse(tt.end2))
			if got != tt.want {
				t.Errorf("Overlap() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Start Time `json:"start"`
	}

	data, err := json.Marshal(wrapper{Start: MustParse("08:05")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"start":"08:05"}` {
		t.Errorf("marshal = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"start":"14:40"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Start != MustParse("14:40") {
		t.Errorf("unmarshal = %s, want 14:40", w.Start)
	}

	if err := json.Unmarshal([]byte(`{"start":"2pm"}`), &w); err == nil {
		t.Error("expected error for malformed time")
	}
}
