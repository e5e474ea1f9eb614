// Package summary aggregates stored day plans into energy balance reports.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/plan"
	"github.com/javiermolinar/pacer/internal/task"
)

// DayBalance is the energy breakdown of one stored day.
type DayBalance struct {
	Date       time.Time
	Blocks     []task.Block
	Minutes    map[energy.Tier]int
	Mismatches int
	// PeakLeakage is work minutes inside the peak window spent on low or recharge items.
	PeakLeakage int
}

// Total returns the scheduled minutes of the day, breaks included.
func (d DayBalance) Total() int {
	return total(d.Minutes)
}

// Balance aggregates day balances over a date range.
type Balance struct {
	Start       time.Time
	End         time.Time
	Days        []DayBalance
	Minutes     map[energy.Tier]int
	Mismatches  int
	PeakLeakage int
	Insight     string
}

// Total returns the scheduled minutes across all days.
func (b *Balance) Total() int {
	return total(b.Minutes)
}

// Percent returns the share of scheduled minutes spent at tier, 0-100.
func (b *Balance) Percent(tier energy.Tier) float64 {
	sum := b.Total()
	if sum == 0 {
		return 0
	}
	return float64(b.Minutes[tier]) * 100 / float64(sum)
}

// Reviewer produces a short narrative for a balance report.
type Reviewer interface {
	Review(ctx context.Context, b *Balance) (string, error)
}

// Summarize builds a Balance from snapshots. Snapshots outside [from, to] are ignored.
func Summarize(snaps []*task.Snapshot, curve energy.Curve, from, to time.Time) *Balance {
	from, to = dateutil.TruncateToDay(from), dateutil.TruncateToDay(to)
	b := &Balance{
		Start:   from,
		End:     to,
		Minutes: plan.Distribution(nil),
	}

	for _, snap := range snaps {
		day := dateutil.TruncateToDay(snap.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		db := summarizeDay(snap, curve)
		b.Days = append(b.Days, db)
		for tier, m := range db.Minutes {
			b.Minutes[tier] += m
		}
		b.Mismatches += db.Mismatches
		b.PeakLeakage += db.PeakLeakage
	}
	return b
}

func summarizeDay(snap *task.Snapshot, curve energy.Curve) DayBalance {
	db := DayBalance{
		Date:       dateutil.TruncateToDay(snap.Date),
		Blocks:     snap.Blocks,
		Minutes:    plan.Distribution(snap.Blocks),
		Mismatches: len(plan.FindMismatches(snap.Blocks, curve)),
	}
	p := curve.Pattern
	for _, blk := range snap.Blocks {
		if blk.IsBreak || energy.Rank(blk.Energy) > energy.Rank(energy.Low) {
			continue
		}
		db.PeakLeakage += clock.Overlap(blk.Start, blk.End, p.PeakStart, p.PeakEnd)
	}
	return db
}

// EnergyBalance loads the stored days in [from, to] and summarizes them.
func EnergyBalance(ctx context.Context, repo task.Repository, curve energy.Curve, from, to time.Time) (*Balance, error) {
	snaps, err := repo.ListDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching days: %w", err)
	}
	return Summarize(snaps, curve, from, to), nil
}

// WeekOptions configures Week.
type WeekOptions struct {
	// WeekStart is any day in the requested week; zero means this week.
	WeekStart time.Time
	// Reviewer adds an insight when set and the week has scheduled time.
	Reviewer Reviewer
}

// Week summarizes the Monday-Sunday week containing opts.WeekStart.
func Week(ctx context.Context, repo task.Repository, curve energy.Curve, opts WeekOptions) (*Balance, error) {
	ref := opts.WeekStart
	if ref.IsZero() {
		ref = time.Now()
	}
	start, end := dateutil.WeekRange(ref)

	b, err := EnergyBalance(ctx, repo, curve, start, end)
	if err != nil {
		return nil, err
	}

	if opts.Reviewer != nil && b.Total() > 0 {
		insight, err := opts.Reviewer.Review(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("reviewing week: %w", err)
		}
		b.Insight = insight
	}
	return b, nil
}

func total(m map[energy.Tier]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}
