package plan

import (
	"math"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/task"
)

// Current returns the block running right now.
func (d *Day) Current() (task.Block, bool) {
	return d.CurrentAt(d.nowMinute())
}

// CurrentAt returns the block whose [start, end) contains t.
func (d *Day) CurrentAt(t clock.Time) (task.Block, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.blocks {
		if b.Contains(t) {
			return b, true
		}
	}
	return task.Block{}, false
}

// Next returns the next block to start.
func (d *Day) Next() (task.Block, bool) {
	return d.NextAt(d.nowMinute())
}

// NextAt returns the earliest block starting after t.
func (d *Day) NextAt(t clock.Time) (task.Block, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var (
		next  task.Block
		found bool
	)
	for _, b := range d.blocks {
		if b.Start > t && (!found || b.Start < next.Start) {
			next, found = b, true
		}
	}
	return next, found
}

// EnergyDistribution returns total block minutes per tier.
// Every tier is present in the result, zero if unused.
func (d *Day) EnergyDistribution() map[energy.Tier]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Distribution(d.blocks)
}

// Distribution sums block minutes per tier.
func Distribution(blocks []task.Block) map[energy.Tier]int {
	dist := make(map[energy.Tier]int, len(energy.Tiers))
	for _, t := range energy.Tiers {
		dist[t] = 0
	}
	for _, b := range blocks {
		dist[b.Energy] += b.Duration()
	}
	return dist
}

// Mismatch is a work block placed at a significantly wrong energy level.
type Mismatch struct {
	Block    task.Block
	Expected energy.Tier
}

// Mismatches lists work blocks whose tier is two or more ranks away from
// what the curve predicts at the block's start.
func (d *Day) Mismatches() []Mismatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	return FindMismatches(d.blocks, d.curve)
}

// FindMismatches is the pure form of Day.Mismatches.
func FindMismatches(blocks []task.Block, curve energy.Curve) []Mismatch {
	var out []Mismatch
	for _, b := range blocks {
		if b.IsBreak {
			continue
		}
		expected := curve.Classify(b.Start)
		if energy.IsSignificantMismatch(b.Energy, expected) {
			out = append(out, Mismatch{Block: b, Expected: expected})
		}
	}
	return out
}

// Annotation is derived presentation state for a work block.
type Annotation struct {
	Block     task.Block
	Expected  energy.Tier
	Alignment energy.Alignment
	// SuggestedBreak is the block mid-point, set for blocks longer than the
	// long-block threshold.
	SuggestedBreak    clock.Time
	HasSuggestedBreak bool
	// MissingBuffer is set when the previous block is also work and the gap
	// between them is shorter than the buffer.
	MissingBuffer bool
}

// AnnotateOptions tunes the derived flags.
type AnnotateOptions struct {
	BufferMinutes    int
	LongBlockMinutes int
}

// Annotate derives alignment and warning flags for each work block.
func (d *Day) Annotate() []Annotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Annotate(d.blocks, d.curve, AnnotateOptions{
		BufferMinutes:    d.sched.BufferMinutes(),
		LongBlockMinutes: d.longBlock,
	})
}

// Annotate is the pure form of Day.Annotate. Breaks get no annotation.
func Annotate(blocks []task.Block, curve energy.Curve, opts AnnotateOptions) []Annotation {
	var out []Annotation
	for i, b := range blocks {
		if b.IsBreak {
			continue
		}
		expected := curve.Classify(b.Start)
		a := Annotation{
			Block:     b,
			Expected:  expected,
			Alignment: energy.Align(b.Energy, expected),
		}
		if dur := b.Duration(); dur > opts.LongBlockMinutes {
			a.SuggestedBreak = b.Start.Add(int(math.Round(float64(dur) / 2)))
			a.HasSuggestedBreak = true
		}
		if i > 0 {
			prev := blocks[i-1]
			if !prev.IsBreak && b.Start.Sub(prev.End) < opts.BufferMinutes {
				a.MissingBuffer = true
			}
		}
		out = append(out, a)
	}
	return out
}
