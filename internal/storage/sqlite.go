//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "farmwatch/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) ScheduledSet(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT group_id FROM scheduled ORDER BY group_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *sqliteStore) PutScheduledSet(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled`); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO scheduled(group_id) VALUES(?)`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) DiffSnapshot(ctx context.Context, name string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, val FROM diffs WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *sqliteStore) PutDiffSnapshot(ctx context.Context, name string, state map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM diffs WHERE name = ?`, name); err != nil {
		return err
	}
	for k, v := range state {
		if _, err := tx.ExecContext(ctx, `INSERT INTO diffs(name, key, val) VALUES(?,?,?)`, name, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) AuctionTrack(ctx context.Context) (string, time.Time, bool, error) {
	var id string
	var ms int64
	err := s.db.QueryRowContext(ctx, `SELECT auction_id, start_ms FROM auction_track WHERE rowid = 1`).Scan(&id, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, err
	}
	return id, time.UnixMilli(ms), true, nil
}

func (s *sqliteStore) PutAuctionTrack(ctx context.Context, id string, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auction_track(rowid, auction_id, start_ms) VALUES(1,?,?)
		 ON CONFLICT(rowid) DO UPDATE SET auction_id=excluded.auction_id, start_ms=excluded.start_ms`,
		id, start.UnixMilli(),
	)
	return err
}
