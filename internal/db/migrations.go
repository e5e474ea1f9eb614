package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS days (
			date       TEXT PRIMARY KEY,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS blocks (
			date      TEXT NOT NULL REFERENCES days(date) ON DELETE CASCADE,
			position  INTEGER NOT NULL,
			id        TEXT NOT NULL,
			start_min INTEGER NOT NULL CHECK(start_min >= 0 AND start_min < 1440),
			end_min   INTEGER NOT NULL CHECK(end_min > start_min AND end_min <= 1440),
			label     TEXT NOT NULL,
			energy    TEXT NOT NULL CHECK(energy IN ('high', 'medium', 'low', 'recharge')),
			is_break  INTEGER NOT NULL DEFAULT 0,
			item_id   TEXT,
			PRIMARY KEY (date, position)
		);

		CREATE TABLE IF NOT EXISTS backlog (
			date     TEXT NOT NULL REFERENCES days(date) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id       TEXT NOT NULL,
			title    TEXT NOT NULL,
			minutes  INTEGER NOT NULL CHECK(minutes > 0),
			energy   TEXT NOT NULL CHECK(energy IN ('high', 'medium', 'low', 'recharge')),
			PRIMARY KEY (date, position)
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_date ON blocks(date);
		CREATE INDEX IF NOT EXISTS idx_backlog_date ON backlog(date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
