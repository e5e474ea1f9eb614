// Package task defines the core domain records for pacer.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidDuration = errors.New("estimated minutes must be between 1 and 1440")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrInvalidItem     = errors.New("invalid work item")
	ErrInvalidBlock    = errors.New("invalid time block")
)

// WorkItem is an unscheduled piece of work owned by the task collaborator.
type WorkItem struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	RequiredEnergy   energy.Tier `json:"required_energy"`
}

// NewWorkItem creates a WorkItem with validation.
// energyName must be one of "high", "medium", "low" or "recharge".
func NewWorkItem(id, title string, minutes int, energyName string) (WorkItem, error) {
	tier, err := energy.ParseTier(energyName)
	if err != nil {
		return WorkItem{}, err
	}
	item := WorkItem{
		ID:               id,
		Title:            strings.TrimSpace(title),
		EstimatedMinutes: minutes,
		RequiredEnergy:   tier,
	}
	if err := item.Validate(); err != nil {
		return WorkItem{}, err
	}
	return item, nil
}

// Validate checks the item fields.
func (w WorkItem) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if w.Title == "" {
		return fmt.Errorf("%w %s: %w", ErrInvalidItem, w.ID, ErrEmptyTitle)
	}
	if w.EstimatedMinutes <= 0 || w.EstimatedMinutes > clock.MinutesPerDay {
		return fmt.Errorf("%w %s: %w", ErrInvalidItem, w.ID, ErrInvalidDuration)
	}
	if !w.RequiredEnergy.Valid() {
		return fmt.Errorf("%w %s: %w", ErrInvalidItem, w.ID, energy.ErrInvalidTier)
	}
	return nil
}

// Block is a contiguous slot on the schedule: placed work or a rest buffer.
type Block struct {
	ID      string      `json:"id"`
	Start   clock.Time  `json:"start"`
	End     clock.Time  `json:"end"`
	Label   string      `json:"label"`
	Energy  energy.Tier `json:"energy"`
	IsBreak bool        `json:"is_break"`
	// ItemID links a work block back to the WorkItem it was created from.
	ItemID string `json:"item_id,omitempty"`
}

// Duration returns the block length in minutes.
func (b Block) Duration() int {
	return b.End.Sub(b.Start)
}

// Contains reports whether t falls in [Start, End).
func (b Block) Contains(t clock.Time) bool {
	return t >= b.Start && t < b.End
}

// OverlapsWith returns true if the two blocks share any minutes.
func (b Block) OverlapsWith(other Block) bool {
	return b.Start < other.End && other.Start < b.End
}

// Validate checks that the block has an id, a valid range and a known tier.
func (b Block) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBlock)
	}
	if !b.Start.Valid() || !b.End.Valid() {
		return fmt.Errorf("%w %s: %w", ErrInvalidBlock, b.ID, clock.ErrOutOfRange)
	}
	if b.End <= b.Start {
		return fmt.Errorf("%w %s: %w", ErrInvalidBlock, b.ID, ErrEndBeforeStart)
	}
	if !b.Energy.Valid() {
		return fmt.Errorf("%w %s: %w", ErrInvalidBlock, b.ID, energy.ErrInvalidTier)
	}
	return nil
}

// String renders the block as "HH:MM-HH:MM label [tier]".
func (b Block) String() string {
	return fmt.Sprintf("%s-%s %s [%s]", b.Start, b.End, b.Label, b.Energy)
}

// Snapshot is the persisted form of one day's plan.
type Snapshot struct {
	Date    time.Time
	Blocks  []Block
	Backlog []WorkItem
}

// Empty reports whether the snapshot has neither blocks nor backlog.
func (s Snapshot) Empty() bool {
	return len(s.Blocks) == 0 && len(s.Backlog) == 0
}
