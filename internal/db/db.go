// Package db provides the board data model, the Store contract, and its
// PostgreSQL implementation.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, q: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil && !db.inTx {
		db.pool.Close()
	}
}

// InTx runs fn inside a single database transaction
func (db *DB) InTx(ctx context.Context, fn func(tx Store) error) error {
	if db.inTx {
		return fn(db)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&DB{pool: db.pool, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// uniqueConstraints maps constraint names to the entity/field they guard
var uniqueConstraints = map[string][2]string{
	"jobs_slug_key":          {EntityJob, "slug"},
	"assessments_job_id_key": {EntityAssessment, "jobId"},
}

// asUniqueViolation converts a PostgreSQL unique_violation into *ErrUniqueViolation.
// Other errors are returned unchanged.
func asUniqueViolation(err error, value string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	target, ok := uniqueConstraints[pgErr.ConstraintName]
	if !ok {
		target = [2]string{pgErr.TableName, pgErr.ColumnName}
	}
	return &ErrUniqueViolation{Entity: target[0], Field: target[1], Value: value}
}

// nonNil returns an empty slice in place of nil so NOT NULL array columns accept it
func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
