package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `id, name, email, stage, job_id, phone, applied_at, notes, updated_at`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	var notesJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Stage, &c.JobID, &c.Phone,
		&c.AppliedAt, &notesJSON, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Notes = []Note{}
	if notesJSON != nil {
		if err := json.Unmarshal(notesJSON, &c.Notes); err != nil {
			return nil, fmt.Errorf("failed to parse notes for candidate %d: %w", c.ID, err)
		}
	}
	return &c, nil
}

func marshalNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notes: %w", err)
	}
	return b, nil
}

// CountCandidates returns the number of candidates
func (db *DB) CountCandidates(ctx context.Context) (int, error) {
	var n int
	if err := db.q.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return n, nil
}

// ListCandidates returns every candidate in insertion order
func (db *DB) ListCandidates(ctx context.Context) ([]Candidate, error) {
	rows, err := db.q.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// GetCandidate retrieves a candidate by its ID
func (db *DB) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	c, err := scanCandidate(db.q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

const insertCandidateSQL = `INSERT INTO candidates (name, email, stage, job_id, phone, applied_at, notes, updated_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	 RETURNING id`

func insertCandidateArgs(c *Candidate) ([]any, error) {
	notesJSON, err := marshalNotes(c.Notes)
	if err != nil {
		return nil, err
	}
	return []any{c.Name, c.Email, c.Stage, c.JobID, c.Phone, c.AppliedAt, notesJSON, c.UpdatedAt}, nil
}

// InsertCandidate inserts a candidate and sets its ID
func (db *DB) InsertCandidate(ctx context.Context, c *Candidate) error {
	args, err := insertCandidateArgs(c)
	if err != nil {
		return err
	}
	if err := db.q.QueryRow(ctx, insertCandidateSQL, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// InsertCandidates inserts candidates in a single batch and sets their IDs
func (db *DB) InsertCandidates(ctx context.Context, cs []*Candidate) error {
	batch := &pgx.Batch{}
	for _, c := range cs {
		args, err := insertCandidateArgs(c)
		if err != nil {
			return err
		}
		batch.Queue(insertCandidateSQL, args...).QueryRow(func(row pgx.Row) error {
			return row.Scan(&c.ID)
		})
	}
	if err := db.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert candidates: %w", err)
	}
	return nil
}

// UpdateCandidate writes every column of an existing candidate
func (db *DB) UpdateCandidate(ctx context.Context, c *Candidate) error {
	notesJSON, err := marshalNotes(c.Notes)
	if err != nil {
		return err
	}
	result, err := db.q.Exec(ctx,
		`UPDATE candidates
		 SET name = $2, email = $3, stage = $4, job_id = $5, phone = $6,
		     applied_at = $7, notes = $8, updated_at = $9
		 WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Stage, c.JobID, c.Phone, c.AppliedAt, notesJSON, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Entity: EntityCandidate, ID: c.ID}
	}
	return nil
}
