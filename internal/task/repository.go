package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for day plans.
type Repository interface {
	// LoadDay returns the snapshot stored for date.
	// A date with nothing stored yields an empty snapshot and no error.
	LoadDay(ctx context.Context, date time.Time) (*Snapshot, error)

	// SaveDay replaces everything stored for the snapshot's date.
	SaveDay(ctx context.Context, snap *Snapshot) error

	// ListDays returns the snapshots stored within the date range (inclusive),
	// ordered by date. Dates with nothing stored are omitted.
	ListDays(ctx context.Context, start, end time.Time) ([]*Snapshot, error)

	// Close releases any resources held by the repository.
	Close() error
}
