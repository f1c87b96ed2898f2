package storage

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("storage closed")

// Config configures storage.
//
// Driver values:
//   - "file": single JSON document, atomic rename writes
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty, state is kept in memory only and lost on restart.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the persistence API used by the scheduling state machine and the
// differential trackers.
//
// ScheduledSet holds the group ids with a registered alarm; it is cleared and
// rebuilt wholesale on every pipeline run. DiffSnapshots are the per-tracker
// previous-state maps (marketplace listings, animal health, island shop),
// fully overwritten each run. AuctionTrack remembers the last scheduled
// auction so an unchanged schedule is not re-notified.
//
// Absent keys mean empty: a fresh store returns empty sets, not errors.
type Store interface {
	ScheduledSet(ctx context.Context) ([]string, error)
	PutScheduledSet(ctx context.Context, ids []string) error

	DiffSnapshot(ctx context.Context, name string) (map[string]string, error)
	PutDiffSnapshot(ctx context.Context, name string, state map[string]string) error

	AuctionTrack(ctx context.Context) (id string, start time.Time, ok bool, err error)
	PutAuctionTrack(ctx context.Context, id string, start time.Time) error

	Close() error
}
