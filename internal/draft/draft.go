// Package draft keeps unfinished wizard forms between runs. Each step is
// stored as a JSON document under its own key.
//
// Every write carries a revision taken from Revision. A write only lands when
// its revision is newer than the row's, so writes issued in order stay in
// order even when their goroutines reach the database out of order. Clears
// leave an empty row at their revision for the same reason.
package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	appErrors "onboard/internal/errors"
)

// Keys of the wizard steps.
const (
	KeyStep1 = "step1"
	KeyStep2 = "step2"
)

// Store is a key/value table of drafts.
type Store struct {
	db  *sql.DB
	now func() time.Time
	rev atomic.Uint64
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens the draft database at path, creating parent directories.
func Open(path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageError("create draft dir", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageError("open draft db", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS drafts (
			key TEXT PRIMARY KEY,
			data TEXT,
			rev INTEGER NOT NULL DEFAULT 0,
			updated_utc TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, storageError("migrate drafts", err)
		}
	}
	var latest int64
	if err := db.QueryRow(`SELECT COALESCE(MAX(rev), 0) FROM drafts`).Scan(&latest); err != nil {
		_ = db.Close()
		return nil, storageError("read draft revision", err)
	}
	s.rev.Store(uint64(latest))
	return s, nil
}

// Revision reserves the next write revision. Callers take it when the write
// is decided, not when it runs.
func (s *Store) Revision() uint64 {
	return s.rev.Add(1)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores v as JSON under key at a fresh revision.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	_, err := s.SaveAt(ctx, key, s.Revision(), v)
	return err
}

// SaveAt stores v under key unless a write with a newer revision already
// landed. applied reports whether this one did.
func (s *Store) SaveAt(ctx context.Context, key string, rev uint64, v any) (applied bool, err error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, storageError("encode draft "+key, err)
	}
	return s.put(ctx, "save draft "+key, key, rev, sql.NullString{String: string(data), Valid: true})
}

func (s *Store) put(ctx context.Context, op, key string, rev uint64, data sql.NullString) (bool, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO drafts (key, data, rev, updated_utc) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, rev = excluded.rev, updated_utc = excluded.updated_utc
		WHERE excluded.rev > drafts.rev`,
		key, data, int64(rev), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, storageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageError(op, err)
	}
	return n > 0, nil
}

// Load decodes the draft under key into v. ok is false when no draft exists.
func (s *Store) Load(ctx context.Context, key string, v any) (updated time.Time, ok bool, err error) {
	var data, stamp string
	err = s.db.QueryRowContext(ctx, `SELECT data, updated_utc FROM drafts WHERE key = ? AND data IS NOT NULL`, key).Scan(&data, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, storageError("load draft "+key, err)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return time.Time{}, false, appErrors.Wrap(appErrors.CodeParseFailed, "decode draft "+key, err)
	}
	updated, _ = time.Parse(time.RFC3339Nano, stamp)
	return updated, true, nil
}

// Exists reports whether a draft is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts WHERE key = ? AND data IS NOT NULL`, key).Scan(&n); err != nil {
		return false, storageError("check draft "+key, err)
	}
	return n > 0, nil
}

// Clear removes the draft under key at a fresh revision. Missing drafts are
// not an error.
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.ClearAt(ctx, key, s.Revision())
}

// ClearAt removes the draft under key unless a newer write already landed.
func (s *Store) ClearAt(ctx context.Context, key string, rev uint64) error {
	_, err := s.put(ctx, "clear draft "+key, key, rev, sql.NullString{})
	return err
}

// ClearAll removes every draft at a fresh revision.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.ClearAllAt(ctx, s.Revision())
}

// ClearAllAt removes every draft older than rev. Both step keys are marked
// even when never saved, so an older save of either cannot land afterwards.
func (s *Store) ClearAllAt(ctx context.Context, rev uint64) error {
	for _, key := range []string{KeyStep1, KeyStep2} {
		if _, err := s.put(ctx, "clear drafts", key, rev, sql.NullString{}); err != nil {
			return err
		}
	}
	_, err := s.db.ExecContext(ctx, `UPDATE drafts SET data = NULL, rev = ?, updated_utc = ? WHERE rev < ?`,
		int64(rev), s.now().UTC().Format(time.RFC3339Nano), int64(rev))
	if err != nil {
		return storageError("clear drafts", err)
	}
	return nil
}

func storageError(op string, err error) error {
	return appErrors.Wrap(appErrors.CodeStorage, op, err)
}
