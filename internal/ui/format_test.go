package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/plan"
	"github.com/javiermolinar/pacer/internal/task"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"w1", "w1"},
		{"12345678", "12345678"},
		{"0f8fad5b-d9cb-469f-a165-70867728950e", "0f8fad5b"},
	}
	for _, tc := range tests {
		if got := shortID(tc.in); got != tc.want {
			t.Errorf("shortID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("a rather long block label", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncate should end with an ellipsis, got %q", got)
	}
	if len([]rune(got)) > 10 {
		t.Errorf("truncate(…, 10) = %q is wider than 10", got)
	}
}

func TestEnergyBar(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	EnergyBar(&buf, map[energy.Tier]int{energy.High: 90, energy.Low: 30}, 20)
	out := buf.String()

	if !strings.Contains(out, "1h30m  75%") {
		t.Errorf("high row missing share:\n%s", out)
	}
	if !strings.Contains(out, "30m  25%") {
		t.Errorf("low row missing share:\n%s", out)
	}

	buf.Reset()
	EnergyBar(&buf, map[energy.Tier]int{}, 20)
	if !strings.Contains(buf.String(), "nothing scheduled") {
		t.Errorf("empty distribution = %q", buf.String())
	}
}

func TestRenderSchedule(t *testing.T) {
	DisableColor()

	p, err := energy.ParsePattern("09:00", "11:30", "14:00", "15:30")
	if err != nil {
		t.Fatalf("ParsePattern: %v", err)
	}
	blocks := []task.Block{
		{ID: "long-block", Start: clock.MustParse("09:00"), End: clock.MustParse("10:30"), Label: "Write", Energy: energy.High},
		{ID: "buf", Start: clock.MustParse("10:30"), End: clock.MustParse("10:40"), Label: "Buffer", Energy: energy.Recharge, IsBreak: true},
		{ID: "dip", Start: clock.MustParse("14:00"), End: clock.MustParse("14:30"), Label: "Design", Energy: energy.High},
	}
	ann := plan.Annotate(blocks, energy.NewCurve(p), plan.AnnotateOptions{BufferMinutes: 10, LongBlockMinutes: 60})

	out := RenderSchedule(blocks, ann, 80)
	for _, want := range []string{"long-blo", "09:00-10:30", "break @ 09:45", "Buffer", "⚠"} {
		if !strings.Contains(out, want) {
			t.Errorf("schedule missing %q:\n%s", want, out)
		}
	}
}

func TestPrintInsightWrapped(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	PrintInsightWrapped(&buf, "# Summary\n```\nignored\n```\n- first point\n1. numbered", 40)
	out := buf.String()

	if strings.Contains(out, "ignored") {
		t.Errorf("code block not stripped:\n%s", out)
	}
	for _, want := range []string{"  Summary", "    • first point", "  1. numbered"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestIsNumberedItem(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1. one", true},
		{"12. twelve", true},
		{"0. zero", false},
		{"a. letter", false},
		{"1.", false},
	}
	for _, tc := range tests {
		if got := isNumberedItem(tc.in); got != tc.want {
			t.Errorf("isNumberedItem(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
