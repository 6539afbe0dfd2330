// Package local provides a db.Store backed by an embedded SQLite database,
// the board's stand-in for a browser-local database.
package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jonathan/talentflow/internal/db"
)

const memoryPath = ":memory:"

var _ db.Store = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store runs the db.Store contract against a SQLite database
type Store struct {
	DB   *sql.DB
	q    querier
	path string
	inTx bool
}

// New returns a store on a private in-memory database. It panics if the
// database cannot be created.
func New() *Store {
	s, err := Open(memoryPath)
	if err != nil {
		panic(err)
	}
	return s
}

// Open opens (or creates) the database file at path and migrates it
func Open(path string) (*Store, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	sqlDB, err := openSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %s: %w", path, err)
	}

	s := &Store{DB: sqlDB, q: sqlDB, path: path}
	if err := s.Migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open local store %s: %w", path, err)
	}
	return s, nil
}

func openSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: an in-memory database lives and dies with its connection,
	// and writers are serialized instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// Path returns the database file path, ":memory:" for in-memory stores
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.DB.Close()
}

// InTx runs fn inside a transaction, committing when fn succeeds.
// Nested calls join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx db.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&Store{DB: s.DB, q: tx, path: s.path, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// uniqueColumns maps the "table.column" named in SQLite's constraint message
// to the entity/field it guards
var uniqueColumns = map[string][2]string{
	"jobs.slug":          {db.EntityJob, "slug"},
	"assessments.job_id": {db.EntityAssessment, "jobId"},
}

// asUniqueViolation converts a SQLite UNIQUE constraint failure into
// *db.ErrUniqueViolation. Other errors are returned unchanged.
func asUniqueViolation(err error, value string) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) || sqlErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}
	for column, target := range uniqueColumns {
		if strings.Contains(sqlErr.Error(), column) {
			return &db.ErrUniqueViolation{Entity: target[0], Field: target[1], Value: value}
		}
	}
	return err
}

func jobIDValue(jobID int64) string {
	return strconv.FormatInt(jobID, 10)
}

// notFound reports whether an UPDATE touched no row
func notFound(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Timestamps are stored as RFC 3339 text in UTC

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// JSON columns hold slices, notes, questions, settings and responses

func marshalJSON(v any, what string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return string(b), nil
}

func unmarshalJSON(s string, v any, what string) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return nil
}

// nonNil returns an empty slice in place of nil so JSON columns hold [] rather than null
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
