package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "farmwatch/pkg/logx"
)

// fileStore persists the whole state as one JSON document.
//
// The document is small (a few hundred entries at most), so every mutation
// rewrites it via tmp + rename. A torn write can never be observed: readers
// see either the old or the new document.
type fileStore struct {
	log  logx.Logger
	path string

	mu     sync.Mutex
	doc    fileDoc
	closed bool
}

type fileDoc struct {
	Scheduled []string                     `json:"scheduled"`
	Diffs     map[string]map[string]string `json:"diffs"`
	Auction   *auctionRecord               `json:"auction,omitempty"`
}

type auctionRecord struct {
	ID      string `json:"id"`
	StartMS int64  `json:"start_ms"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &fileStore{log: log, path: path, doc: fileDoc{Diffs: map[string]map[string]string{}}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var doc fileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		// A corrupt document only loses scheduling state; the next pipeline
		// run rebuilds it. Better than refusing to start.
		s.log.Warn("store document corrupt; starting empty", logx.String("path", s.path), logx.Any("err", err))
		return nil
	}
	if doc.Diffs == nil {
		doc.Diffs = map[string]map[string]string{}
	}
	s.doc = doc
	return nil
}

func (s *fileStore) saveLocked() error {
	if s.closed {
		return ErrClosed
	}
	b, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) ScheduledSet(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]string, len(s.doc.Scheduled))
	copy(out, s.doc.Scheduled)
	return out, nil
}

func (s *fileStore) PutScheduledSet(ctx context.Context, ids []string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Scheduled = make([]string, len(ids))
	copy(s.doc.Scheduled, ids)
	return s.saveLocked()
}

func (s *fileStore) DiffSnapshot(ctx context.Context, name string) (map[string]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]string, len(s.doc.Diffs[name]))
	for k, v := range s.doc.Diffs[name] {
		out[k] = v
	}
	return out, nil
}

func (s *fileStore) PutDiffSnapshot(ctx context.Context, name string, state map[string]string) error {
	_ = ctx
	cp := make(map[string]string, len(state))
	for k, v := range state {
		cp[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Diffs[name] = cp
	return s.saveLocked()
}

func (s *fileStore) AuctionTrack(ctx context.Context) (string, time.Time, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", time.Time{}, false, ErrClosed
	}
	if s.doc.Auction == nil {
		return "", time.Time{}, false, nil
	}
	return s.doc.Auction.ID, time.UnixMilli(s.doc.Auction.StartMS), true, nil
}

func (s *fileStore) PutAuctionTrack(ctx context.Context, id string, start time.Time) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Auction = &auctionRecord{ID: id, StartMS: start.UnixMilli()}
	return s.saveLocked()
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
