package plan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/logger"
	"github.com/javiermolinar/pacer/internal/task"
)

// Session owns the Day being edited and talks to storage at two points:
// loading when the date changes and saving when asked. Storage failures
// never discard in-memory state.
type Session struct {
	mu   sync.Mutex
	repo task.Repository
	opts Options
	day  *Day
}

// NewSession creates a Session backed by repo.
func NewSession(repo task.Repository, opts Options) *Session {
	return &Session{repo: repo, opts: opts.withDefaults()}
}

// Open switches the session to date and returns its Day.
// When the load fails the session falls back to an empty day and the
// error is returned alongside it; the returned Day is always usable.
func (s *Session) Open(ctx context.Context, date time.Time) (*Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date = dateutil.TruncateToDay(date)
	if s.day != nil && s.day.Date().Equal(date) {
		return s.day, nil
	}

	snap, err := s.repo.LoadDay(ctx, date)
	if err != nil {
		logger.Warn("loading day failed, starting empty", "date", date.Format("2006-01-02"), "err", err)
		s.day = NewDay(date, s.opts)
		return s.day, fmt.Errorf("loading day: %w", err)
	}
	if snap == nil {
		snap = &task.Snapshot{Date: date}
	}
	snap.Date = date
	s.day = NewDayFromSnapshot(snap, s.opts)
	logger.Debug("day loaded", "date", date.Format("2006-01-02"),
		"blocks", len(snap.Blocks), "backlog", len(snap.Backlog))
	return s.day, nil
}

// Day returns the currently open day, or nil before Open.
func (s *Session) Day() *Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Save persists the open day. On failure the in-memory day stays as is
// and remains the source of truth until the next successful save.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	day := s.day
	s.mu.Unlock()

	if day == nil {
		return nil
	}
	if err := s.repo.SaveDay(ctx, day.Snapshot()); err != nil {
		logger.Warn("saving day failed, keeping in-memory plan", "date", day.dateKey(), "err", err)
		return fmt.Errorf("saving day: %w", err)
	}
	return nil
}

// AcceptPlan replaces the open day's blocks with an externally generated
// plan and saves it. Items the plan placed are dropped from the backlog.
func (s *Session) AcceptPlan(ctx context.Context, blocks []task.Block) error {
	day := s.Day()
	if day == nil {
		return fmt.Errorf("accepting plan: no day open")
	}

	day.ReplaceBlocks(blocks)

	placed := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if b.ItemID != "" {
			placed[b.ItemID] = true
		}
	}
	if len(placed) > 0 {
		var remaining []task.WorkItem
		for _, item := range day.Backlog() {
			if !placed[item.ID] {
				remaining = append(remaining, item)
			}
		}
		day.ReplaceBacklog(remaining)
	}

	return s.Save(ctx)
}
