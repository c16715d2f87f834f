// Package store persists the onboarding records in SQLite. It backs the
// mock services and mirrors the subset of json-server behaviour the client
// relies on: substring search on names, paging with a total count, and
// full or partial updates by ID.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	appErrors "onboard/internal/errors"
)

// DefaultLimit is the page size used when Page is set without Limit.
const DefaultLimit = 10

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Query narrows a list call. Zero values mean "no filter" and "no paging".
type Query struct {
	NameLike string
	Page     int
	Limit    int
}

func (q Query) paged() bool { return q.Page > 0 || q.Limit > 0 }

func (q Query) limitOffset() (int, int) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Open opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageError("open sqlite db", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS basic_info (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			department_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			employee_id TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_basic_info_department ON basic_info(department_id);`,
		`CREATE TABLE IF NOT EXISTS details (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			basic_info_id INTEGER NOT NULL,
			location_id INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			salary REAL,
			employment_type TEXT,
			notes TEXT,
			image TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_details_basic_info ON details(basic_info_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return storageError("migrate", err)
		}
	}
	return nil
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(needle string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(needle)) + "%"
}

// listSQL appends the name filter and paging to a SELECT and returns the
// matching COUNT query alongside it.
func listSQL(selectCols, table string, q Query) (string, string, []any) {
	var where string
	var args []any
	if q.NameLike != "" {
		where = ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(q.NameLike))
	}
	countSQL := `SELECT COUNT(*) FROM ` + table + where
	query := `SELECT ` + selectCols + ` FROM ` + table + where + ` ORDER BY id`
	if q.paged() {
		limit, offset := q.limitOffset()
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}
	return query, countSQL, args
}

func (s *Store) count(ctx context.Context, countSQL string, args []any) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return 0, storageError("count rows", err)
	}
	return total, nil
}

func storageError(op string, err error) error {
	return appErrors.Wrap(appErrors.CodeStorage, op, err)
}

func notFound(kind string, id int) error {
	return appErrors.New(appErrors.CodeNotFound, fmt.Sprintf("%s %d not found", kind, id), nil)
}

// rowOrNotFound maps sql.ErrNoRows to a not-found error.
func rowOrNotFound(err error, kind string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}
	return storageError("load "+kind, err)
}

func affectedOrNotFound(res sql.Result, kind string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("rows affected", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
