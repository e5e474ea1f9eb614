// Package scheduler provides energy-aware placement of work items into a day.
//
// Everything here is pure: functions take the current blocks and backlog
// and return what should be appended. Committing the result is the caller's job.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/task"
)

// ErrNoRoom is returned when an item cannot finish before the end of the day.
var ErrNoRoom = errors.New("no room left today")

// BufferLabel is the label given to transition buffers.
const BufferLabel = "Buffer"

// Defaults used when a Config leaves a field unset.
var (
	DefaultDayStart = clock.MustParse("08:00")
	DefaultDayEnd   = clock.MustParse("17:00")
)

// DefaultBufferMinutes is the transition gap inserted between work blocks.
const DefaultBufferMinutes = 10

// Config holds the schedulable window and buffer length.
type Config struct {
	DayStart      clock.Time
	DayEnd        clock.Time
	BufferMinutes int
	// NewID generates ids for blocks the scheduler creates. Defaults to UUIDs.
	NewID func() string
}

// DefaultConfig returns the 08:00-17:00 window with 10 minute buffers.
func DefaultConfig() Config {
	return Config{
		DayStart:      DefaultDayStart,
		DayEnd:        DefaultDayEnd,
		BufferMinutes: DefaultBufferMinutes,
	}
}

// Scheduler places work items after the last committed block.
type Scheduler struct {
	dayStart clock.Time
	dayEnd   clock.Time
	buffer   int
	newID    func() string
}

// New creates a new Scheduler with the given configuration.
func New(cfg Config) *Scheduler {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Scheduler{
		dayStart: cfg.DayStart,
		dayEnd:   cfg.DayEnd,
		buffer:   max(cfg.BufferMinutes, 0),
		newID:    newID,
	}
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() clock.Time {
	return s.dayStart
}

// DayEnd returns the configured hard end of day.
func (s *Scheduler) DayEnd() clock.Time {
	return s.dayEnd
}

// BufferMinutes returns the configured transition buffer length.
func (s *Scheduler) BufferMinutes() int {
	return s.buffer
}

// Cursor returns where the next placement starts: the end of the last
// block, or the day start when there are no blocks yet.
func (s *Scheduler) Cursor(blocks []task.Block) clock.Time {
	if len(blocks) == 0 {
		return s.dayStart
	}
	return blocks[len(blocks)-1].End
}

// AvailableMinutes returns the minutes left between the cursor and day end.
func (s *Scheduler) AvailableMinutes(blocks []task.Block) int {
	return max(s.dayEnd.Sub(s.Cursor(blocks)), 0)
}

// needsLeadingBuffer reports whether the first new block must be preceded
// by a buffer. Breaks are never double-buffered.
func needsLeadingBuffer(blocks []task.Block) bool {
	return len(blocks) > 0 && !blocks[len(blocks)-1].IsBreak
}

// PlaceOne computes the blocks for quick-adding a single item: an optional
// buffer followed by the work block. It never partially places; when the
// item does not fit before day end it returns ErrNoRoom and no blocks.
// Items that fail validation are rejected the same way, with their error.
func (s *Scheduler) PlaceOne(blocks []task.Block, item task.WorkItem) ([]task.Block, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	cursor := s.Cursor(blocks)
	withBuffer := needsLeadingBuffer(blocks) && s.buffer > 0

	start := cursor
	if withBuffer {
		start = cursor.Add(s.buffer)
	}
	if room := s.dayEnd.Sub(start); item.EstimatedMinutes > room {
		return nil, fmt.Errorf("%w: %q needs %dm, only %dm left before %s",
			ErrNoRoom, item.Title, item.EstimatedMinutes, max(room, 0), s.dayEnd)
	}

	placed := make([]task.Block, 0, 2)
	if withBuffer {
		placed = append(placed, s.bufferBlock(cursor))
	}
	placed = append(placed, s.workBlock(start, item))
	return placed, nil
}

// Batch is the outcome of placing a whole backlog.
type Batch struct {
	// Blocks are the new buffers and work blocks, in placement order.
	Blocks []task.Block
	// Placed holds the items that received a work block, in placement order.
	Placed []task.WorkItem
	// Unplaced holds the items that did not fit, in original backlog order.
	Unplaced []task.WorkItem
}

// Total returns the number of items considered.
func (b Batch) Total() int {
	return len(b.Placed) + len(b.Unplaced)
}

// String reports "N of M items scheduled".
func (b Batch) String() string {
	return fmt.Sprintf("%d of %d items scheduled", len(b.Placed), b.Total())
}

// PlaceAll places as much of the backlog as fits, ordering items so each
// slot gets the closest energy match available (see Order). Unlike
// PlaceOne it commits whatever prefix fits. Items that fail validation are
// never placed and come back in Unplaced.
func (s *Scheduler) PlaceAll(blocks []task.Block, backlog []task.WorkItem, curve energy.Curve) Batch {
	if len(backlog) == 0 {
		return Batch{}
	}

	start := s.Cursor(blocks)
	if start >= s.dayEnd {
		return Batch{Unplaced: append([]task.WorkItem(nil), backlog...)}
	}

	ordered := s.order(start, backlog, curve)

	var batch Batch
	placed := make(map[int]bool, len(ordered))
	cursor := start
	leading := needsLeadingBuffer(blocks)
	for i, o := range ordered {
		withBuffer := (i > 0 || leading) && s.buffer > 0
		need := o.item.EstimatedMinutes
		if withBuffer {
			need += s.buffer
		}
		if need > s.dayEnd.Sub(cursor) {
			break
		}
		if withBuffer {
			batch.Blocks = append(batch.Blocks, s.bufferBlock(cursor))
			cursor = cursor.Add(s.buffer)
		}
		batch.Blocks = append(batch.Blocks, s.workBlock(cursor, o.item))
		cursor = cursor.Add(o.item.EstimatedMinutes)
		batch.Placed = append(batch.Placed, o.item)
		placed[o.index] = true
	}

	for i, item := range backlog {
		if !placed[i] {
			batch.Unplaced = append(batch.Unplaced, item)
		}
	}
	return batch
}

type orderedItem struct {
	item  task.WorkItem
	index int // position in the original backlog
}

// order greedily sequences the backlog starting at start. At each step it
// picks the remaining item whose required energy is closest to the tier the
// curve predicts for the running cursor; ties keep backlog order. The cursor
// advances by the item duration plus a buffer for every item. Ordering stops
// once the cursor reaches day end, so trailing items may be left out.
func (s *Scheduler) order(start clock.Time, backlog []task.WorkItem, curve energy.Curve) []orderedItem {
	remaining := make([]orderedItem, 0, len(backlog))
	for i, item := range backlog {
		if item.Validate() != nil {
			continue
		}
		remaining = append(remaining, orderedItem{item: item, index: i})
	}

	ordered := make([]orderedItem, 0, len(backlog))
	cursor := start
	for len(remaining) > 0 && cursor < s.dayEnd {
		expected := curve.Classify(cursor)
		best := 0
		bestDist := energy.Distance(remaining[0].item.RequiredEnergy, expected)
		for i := 1; i < len(remaining); i++ {
			if d := energy.Distance(remaining[i].item.RequiredEnergy, expected); d < bestDist {
				best, bestDist = i, d
			}
		}

		chosen := remaining[best]
		ordered = append(ordered, chosen)
		remaining = append(remaining[:best], remaining[best+1:]...)
		step := chosen.item.EstimatedMinutes + s.buffer
		if step >= s.dayEnd.Sub(cursor) {
			break
		}
		cursor = cursor.Add(step)
	}
	return ordered
}

// Order returns the sequence PlaceAll would try, starting at start.
func (s *Scheduler) Order(start clock.Time, backlog []task.WorkItem, curve energy.Curve) []task.WorkItem {
	ordered := s.order(start, backlog, curve)
	items := make([]task.WorkItem, len(ordered))
	for i, o := range ordered {
		items[i] = o.item
	}
	return items
}

func (s *Scheduler) bufferBlock(start clock.Time) task.Block {
	return task.Block{
		ID:      s.newID(),
		Start:   start,
		End:     start.Add(s.buffer),
		Label:   BufferLabel,
		Energy:  energy.Recharge,
		IsBreak: true,
	}
}

func (s *Scheduler) workBlock(start clock.Time, item task.WorkItem) task.Block {
	return task.Block{
		ID:     s.newID(),
		Start:  start,
		End:    start.Add(item.EstimatedMinutes),
		Label:  item.Title,
		Energy: item.RequiredEnergy,
		ItemID: item.ID,
	}
}
