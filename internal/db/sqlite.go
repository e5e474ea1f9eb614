// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/task"
)

const dateLayout = "2006-01-02"

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ task.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// LoadDay returns the blocks and backlog stored for date.
func (s *SQLite) LoadDay(ctx context.Context, date time.Time) (*task.Snapshot, error) {
	snap := &task.Snapshot{Date: truncate(date)}
	key := snap.Date.Format(dateLayout)

	blocks, err := s.loadBlocks(ctx, key)
	if err != nil {
		return nil, err
	}
	backlog, err := s.loadBacklog(ctx, key)
	if err != nil {
		return nil, err
	}
	snap.Blocks = blocks
	snap.Backlog = backlog
	return snap, nil
}

func (s *SQLite) loadBlocks(ctx context.Context, key string) ([]task.Block, error) {
	query := `
		SELECT id, start_min, end_min, label, energy, is_break, item_id
		FROM blocks
		WHERE date = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []task.Block
	for rows.Next() {
		var (
			b          task.Block
			start, end int
			tier       string
			isBreak    bool
			itemID     sql.NullString
		)
		if err := rows.Scan(&b.ID, &start, &end, &b.Label, &tier, &isBreak, &itemID); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.Start = clock.Time(start)
		b.End = clock.Time(end)
		b.Energy = energy.Tier(tier)
		b.IsBreak = isBreak
		b.ItemID = itemID.String
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	return blocks, nil
}

func (s *SQLite) loadBacklog(ctx context.Context, key string) ([]task.WorkItem, error) {
	query := `
		SELECT id, title, minutes, energy
		FROM backlog
		WHERE date = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("querying backlog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []task.WorkItem
	for rows.Next() {
		var (
			w    task.WorkItem
			tier string
		)
		if err := rows.Scan(&w.ID, &w.Title, &w.EstimatedMinutes, &tier); err != nil {
			return nil, fmt.Errorf("scanning backlog item: %w", err)
		}
		w.RequiredEnergy = energy.Tier(tier)
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlog: %w", err)
	}
	return items, nil
}

// SaveDay atomically replaces everything stored for the snapshot's date.
// Saving an empty snapshot removes the day.
func (s *SQLite) SaveDay(ctx context.Context, snap *task.Snapshot) error {
	for _, b := range snap.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	for _, w := range snap.Backlog {
		if err := w.Validate(); err != nil {
			return err
		}
	}

	key := truncate(snap.Date).Format(dateLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first so the replace works with or without cascading deletes.
	for _, q := range []string{
		`DELETE FROM blocks WHERE date = ?`,
		`DELETE FROM backlog WHERE date = ?`,
		`DELETE FROM days WHERE date = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, key); err != nil {
			return fmt.Errorf("clearing day %s: %w", key, err)
		}
	}

	if snap.Empty() {
		return commit(tx)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO days (date, updated_at) VALUES (?, ?)`,
		key, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting day %s: %w", key, err)
	}

	if err := insertBlocks(ctx, tx, key, snap.Blocks); err != nil {
		return err
	}
	if err := insertBacklog(ctx, tx, key, snap.Backlog); err != nil {
		return err
	}

	return commit(tx)
}

func insertBlocks(ctx context.Context, tx *sql.Tx, key string, blocks []task.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (date, position, id, start_min, end_min, label, energy, is_break, item_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, b := range blocks {
		var itemID sql.NullString
		if b.ItemID != "" {
			itemID = sql.NullString{String: b.ItemID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			key, i, b.ID, b.Start.Minutes(), b.End.Minutes(),
			b.Label, string(b.Energy), b.IsBreak, itemID,
		); err != nil {
			return fmt.Errorf("inserting block %q: %w", b.Label, err)
		}
	}
	return nil
}

func insertBacklog(ctx context.Context, tx *sql.Tx, key string, items []task.WorkItem) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO backlog (date, position, id, title, minutes, energy)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, w := range items {
		if _, err := stmt.ExecContext(ctx,
			key, i, w.ID, w.Title, w.EstimatedMinutes, string(w.RequiredEnergy),
		); err != nil {
			return fmt.Errorf("inserting backlog item %q: %w", w.Title, err)
		}
	}
	return nil
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListDays returns the stored days within the date range (inclusive), ordered by date.
func (s *SQLite) ListDays(ctx context.Context, start, end time.Time) ([]*task.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date FROM days WHERE date >= ? AND date <= ? ORDER BY date`,
		truncate(start).Format(dateLayout), truncate(end).Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		d, err := parseDate(raw)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("parsing day: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterating days: %w", err)
	}
	_ = rows.Close()

	snaps := make([]*task.Snapshot, 0, len(dates))
	for _, d := range dates {
		snap, err := s.LoadDay(ctx, d)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDate parses a stored date key as local midnight.
// SQLite may hand back DATE-affinity values as "2006-01-02T00:00:00Z".
func parseDate(s string) (time.Time, error) {
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		s = s[:10]
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
	}
	return t, nil
}

// truncate maps t to local midnight of its local calendar date.
func truncate(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
