package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/task"
)

type fakeRepo struct {
	days    map[string]*task.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{days: map[string]*task.Snapshot{}}
}

func (r *fakeRepo) LoadDay(_ context.Context, date time.Time) (*task.Snapshot, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if snap, ok := r.days[date.Format("2006-01-02")]; ok {
		return snap, nil
	}
	return &task.Snapshot{Date: date}, nil
}

func (r *fakeRepo) SaveDay(_ context.Context, snap *task.Snapshot) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.days[snap.Date.Format("2006-01-02")] = snap
	return nil
}

func (r *fakeRepo) ListDays(_ context.Context, _, _ time.Time) ([]*task.Snapshot, error) {
	return nil, nil
}

func (r *fakeRepo) Close() error { return nil }

func TestSession_OpenLoadsStoredDay(t *testing.T) {
	repo := newFakeRepo()
	repo.days["2026-03-10"] = &task.Snapshot{
		Date:    testDate,
		Blocks:  []task.Block{block("a", "09:00", "10:00", energy.High)},
		Backlog: []task.WorkItem{workItem("t1", 30, energy.Low)},
	}
	s := NewSession(repo, testOptions(t))

	day, err := s.Open(context.Background(), testDate.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, blockIDs(day.Blocks()))
	assert.Equal(t, []string{"t1"}, itemIDs(day.Backlog()))
	assert.Same(t, day, s.Day())

	again, err := s.Open(context.Background(), testDate)
	require.NoError(t, err)
	assert.Same(t, day, again)
}

func TestSession_FailedLoadDegradesToEmptyDay(t *testing.T) {
	repo := newFakeRepo()
	repo.loadErr = errors.New("disk on fire")
	s := NewSession(repo, testOptions(t))

	day, err := s.Open(context.Background(), testDate)
	require.Error(t, err)
	require.NotNil(t, day)
	assert.Empty(t, day.Blocks())

	require.NoError(t, day.AddToBacklog(workItem("t1", 30, energy.High)))
	_, err = day.QuickAdd("t1")
	require.NoError(t, err)
	assert.Len(t, day.Blocks(), 1)
}

func TestSession_FailedSaveKeepsMemoryState(t *testing.T) {
	repo := newFakeRepo()
	s := NewSession(repo, testOptions(t))
	day, err := s.Open(context.Background(), testDate)
	require.NoError(t, err)

	day.ReplaceBacklog([]task.WorkItem{workItem("t1", 30, energy.High)})
	_, err = day.QuickAdd("t1")
	require.NoError(t, err)

	repo.saveErr = errors.New("read-only")
	require.Error(t, s.Save(context.Background()))
	assert.Len(t, day.Blocks(), 1)
	assert.Empty(t, day.Backlog())

	repo.saveErr = nil
	require.NoError(t, s.Save(context.Background()))
	assert.Len(t, repo.days["2026-03-10"].Blocks, 1)
}

func TestSession_AcceptPlan(t *testing.T) {
	repo := newFakeRepo()
	s := NewSession(repo, testOptions(t))
	day, err := s.Open(context.Background(), testDate)
	require.NoError(t, err)
	day.ReplaceBacklog([]task.WorkItem{
		workItem("t1", 30, energy.High),
		workItem("t2", 30, energy.Low),
	})
	_, err = day.QuickAdd("t2")
	require.NoError(t, err)

	proposed := block("ai-1", "09:00", "09:30", energy.High)
	proposed.ItemID = "t1"
	require.NoError(t, s.AcceptPlan(context.Background(), []task.Block{proposed}))

	assert.Equal(t, []string{"ai-1"}, blockIDs(day.Blocks()))
	assert.Empty(t, day.Backlog())
	assert.Equal(t, 1, repo.saves)
	assert.Len(t, repo.days["2026-03-10"].Blocks, 1)
}

func TestSession_AcceptPlanWithoutOpenDay(t *testing.T) {
	s := NewSession(newFakeRepo(), testOptions(t))
	assert.Error(t, s.AcceptPlan(context.Background(), nil))
	assert.NoError(t, s.Save(context.Background()))
}
