package storage

import (
	"context"
	"sync"
	"time"
)

// memStore keeps everything in process memory. Used when no storage section is
// configured and by tests. Within a single process it behaves exactly like the
// durable drivers.
type memStore struct {
	mu        sync.Mutex
	scheduled []string
	diffs     map[string]map[string]string

	auctionID    string
	auctionStart time.Time
	auctionSet   bool
}

func newMemStore() *memStore {
	return &memStore{diffs: map[string]map[string]string{}}
}

func (s *memStore) ScheduledSet(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.scheduled))
	copy(out, s.scheduled)
	return out, nil
}

func (s *memStore) PutScheduledSet(ctx context.Context, ids []string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = make([]string, len(ids))
	copy(s.scheduled, ids)
	return nil
}

func (s *memStore) DiffSnapshot(ctx context.Context, name string) (map[string]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.diffs[name]))
	for k, v := range s.diffs[name] {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) PutDiffSnapshot(ctx context.Context, name string, state map[string]string) error {
	_ = ctx
	cp := make(map[string]string, len(state))
	for k, v := range state {
		cp[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diffs[name] = cp
	return nil
}

func (s *memStore) AuctionTrack(ctx context.Context) (string, time.Time, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auctionID, s.auctionStart, s.auctionSet, nil
}

func (s *memStore) PutAuctionTrack(ctx context.Context, id string, start time.Time) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctionID = id
	s.auctionStart = start
	s.auctionSet = true
	return nil
}

func (s *memStore) Close() error { return nil }
