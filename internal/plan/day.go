// Package plan holds the authoritative in-memory plan for a single day.
//
// A Day is owned by its caller (one per user session). All mutations are
// serialized on the Day's mutex and run to completion before any query sees
// the new state.
package plan

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/logger"
	"github.com/javiermolinar/pacer/internal/scheduler"
	"github.com/javiermolinar/pacer/internal/task"
)

// Domain errors.
var (
	ErrUnknownBlock  = errors.New("block not found")
	ErrInvalidOrder  = errors.New("reorder must list every block exactly once")
	ErrDuplicateItem = errors.New("work item already in backlog")
)

// DefaultLongBlockMinutes is the length above which a block gets a
// suggested mid-point break.
const DefaultLongBlockMinutes = 60

// Options configures a Day.
type Options struct {
	Scheduler *scheduler.Scheduler
	Curve     energy.Curve
	// Now returns the wall clock; defaults to time.Now.
	Now func() time.Time
	// LongBlockMinutes defaults to DefaultLongBlockMinutes.
	LongBlockMinutes int
}

func (o Options) withDefaults() Options {
	if o.Scheduler == nil {
		o.Scheduler = scheduler.New(scheduler.DefaultConfig())
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.LongBlockMinutes <= 0 {
		o.LongBlockMinutes = DefaultLongBlockMinutes
	}
	return o
}

// Day holds today's blocks and the backlog of unscheduled work items.
type Day struct {
	mu        sync.Mutex
	date      time.Time
	blocks    []task.Block
	backlog   []task.WorkItem
	curve     energy.Curve
	sched     *scheduler.Scheduler
	now       func() time.Time
	longBlock int
}

// NewDay creates an empty Day for the given date.
func NewDay(date time.Time, opts Options) *Day {
	opts = opts.withDefaults()
	return &Day{
		date:      dateutil.TruncateToDay(date),
		curve:     opts.Curve,
		sched:     opts.Scheduler,
		now:       opts.Now,
		longBlock: opts.LongBlockMinutes,
	}
}

// NewDayFromSnapshot creates a Day hydrated from storage.
func NewDayFromSnapshot(snap *task.Snapshot, opts Options) *Day {
	d := NewDay(snap.Date, opts)
	d.blocks = slices.Clone(snap.Blocks)
	d.backlog = slices.Clone(snap.Backlog)
	return d
}

// Date returns the calendar day this plan belongs to.
func (d *Day) Date() time.Time {
	return d.date
}

// Blocks returns a copy of the committed blocks in stored order.
func (d *Day) Blocks() []task.Block {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.blocks)
}

// Backlog returns a copy of the items still waiting for a slot.
func (d *Day) Backlog() []task.WorkItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.backlog)
}

// Snapshot returns the persisted form of the day.
func (d *Day) Snapshot() *task.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &task.Snapshot{
		Date:    d.date,
		Blocks:  slices.Clone(d.blocks),
		Backlog: slices.Clone(d.backlog),
	}
}

// Curve returns the energy curve used for classification.
func (d *Day) Curve() energy.Curve {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.curve
}

// Pattern returns the current energy pattern.
func (d *Day) Pattern() energy.Pattern {
	return d.Curve().Pattern
}

// SetPattern swaps the user's energy pattern. Queries pick it up on the next read.
func (d *Day) SetPattern(p energy.Pattern) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.curve.Pattern = p
}

// ReplaceBlocks replaces all blocks. The caller's ordering is authoritative.
func (d *Day) ReplaceBlocks(blocks []task.Block) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocks = slices.Clone(blocks)
	logger.Debug("blocks replaced", "date", d.dateKey(), "count", len(blocks))
}

// ReplaceBacklog replaces the backlog with a fresh snapshot from the task
// collaborator. Items are taken as given; placement skips any that fail
// validation and leaves them in the backlog.
func (d *Day) ReplaceBacklog(items []task.WorkItem) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backlog = slices.Clone(items)
	logger.Debug("backlog replaced", "date", d.dateKey(), "count", len(items))
}

// AddToBacklog appends a single validated item.
func (d *Day) AddToBacklog(item task.WorkItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.backlogIndex(item.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}
	d.backlog = append(d.backlog, item)
	return nil
}

// RemoveBlock deletes a block by id.
func (d *Day) RemoveBlock(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.IndexFunc(d.blocks, func(b task.Block) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	d.blocks = slices.Delete(d.blocks, i, i+1)
	return nil
}

// ReorderBlocks rearranges blocks to match ids, which must be a permutation
// of the current block ids. Times are left as they are; manual order is a
// presentation concern and is not renormalized.
func (d *Day) ReorderBlocks(ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(ids) != len(d.blocks) {
		return fmt.Errorf("%w: got %d ids for %d blocks", ErrInvalidOrder, len(ids), len(d.blocks))
	}
	byID := make(map[string]task.Block, len(d.blocks))
	for _, b := range d.blocks {
		byID[b.ID] = b
	}
	reordered := make([]task.Block, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %s", ErrInvalidOrder, id)
		}
		delete(byID, id)
		reordered = append(reordered, b)
	}
	d.blocks = reordered
	return nil
}

// QuickAdd places one backlog item right after the last block, preceded by a
// buffer when the last block is work. It is all or nothing: on
// scheduler.ErrNoRoom, or when the item fails validation, neither blocks nor
// backlog change. An id that is not in the backlog is a no-op and returns no
// blocks.
func (d *Day) QuickAdd(itemID string) ([]task.Block, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.backlogIndex(itemID)
	if i < 0 {
		logger.Debug("quick add ignored, item not in backlog", "item", itemID)
		return nil, nil
	}
	item := d.backlog[i]

	placed, err := d.sched.PlaceOne(d.blocks, item)
	if err != nil {
		logger.Info("quick add aborted", "item", item.ID, "err", err)
		return nil, err
	}

	d.blocks = append(d.blocks, placed...)
	d.backlog = slices.Delete(d.backlog, i, i+1)
	logger.Debug("quick add placed", "item", item.ID, "blocks", len(placed))
	return slices.Clone(placed), nil
}

// AvailableMinutes returns the minutes left between the last block and day end.
func (d *Day) AvailableMinutes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sched.AvailableMinutes(d.blocks)
}

// SmartSchedule places as much of the backlog as fits in one pass, matching
// items to the energy curve. Items that do not fit, or that fail validation,
// stay in the backlog.
func (d *Day) SmartSchedule() scheduler.Batch {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.backlog) == 0 {
		return scheduler.Batch{}
	}

	batch := d.sched.PlaceAll(d.blocks, d.backlog, d.curve)
	d.blocks = append(d.blocks, batch.Blocks...)
	d.backlog = slices.Clone(batch.Unplaced)
	logger.Debug("smart schedule", "date", d.dateKey(), "result", batch.String())
	return batch
}

// Remaining reports which backlog items are still unscheduled.
func (d *Day) Remaining() []task.WorkItem {
	return d.Backlog()
}

func (d *Day) backlogIndex(id string) int {
	return slices.IndexFunc(d.backlog, func(w task.WorkItem) bool { return w.ID == id })
}

func (d *Day) dateKey() string {
	return d.date.Format("2006-01-02")
}

// nowMinute returns the current minute of the day.
func (d *Day) nowMinute() clock.Time {
	n := d.now()
	return clock.Time(n.Hour()*60 + n.Minute())
}
