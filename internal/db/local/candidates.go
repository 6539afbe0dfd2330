package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonathan/talentflow/internal/db"
)

const candidateColumns = `id, name, email, stage, job_id, phone, applied_at, notes, updated_at`

func scanCandidate(row rowScanner) (*db.Candidate, error) {
	var c db.Candidate
	var appliedAt, notes, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Stage, &c.JobID, &c.Phone,
		&appliedAt, &notes, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Notes = []db.Note{}
	if err := unmarshalJSON(notes, &c.Notes, fmt.Sprintf("notes for candidate %d", c.ID)); err != nil {
		return nil, err
	}
	if c.AppliedAt, err = parseTime(appliedAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// candidateArgs returns name through updated_at in column order
func candidateArgs(c *db.Candidate) ([]any, error) {
	notes, err := marshalJSON(nonNil(c.Notes), "notes")
	if err != nil {
		return nil, err
	}
	return []any{c.Name, c.Email, c.Stage, c.JobID, c.Phone,
		formatTime(c.AppliedAt), notes, formatTime(c.UpdatedAt)}, nil
}

// CountCandidates returns the number of candidates
func (s *Store) CountCandidates(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return n, nil
}

// ListCandidates returns every candidate in insertion order
func (s *Store) ListCandidates(ctx context.Context) ([]db.Candidate, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []db.Candidate
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
func (s *Store) GetCandidate(ctx context.Context, id int64) (*db.Candidate, error) {
	c, err := scanCandidate(s.q.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// InsertCandidate inserts a candidate and sets its ID
func (s *Store) InsertCandidate(ctx context.Context, c *db.Candidate) error {
	args, err := candidateArgs(c)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO candidates (name, email, stage, job_id, phone, applied_at, notes, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// InsertCandidates inserts candidates as one unit and sets their IDs
func (s *Store) InsertCandidates(ctx context.Context, cs []*db.Candidate) error {
	return s.InTx(ctx, func(tx db.Store) error {
		for _, c := range cs {
			if err := tx.InsertCandidate(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateCandidate writes every column of an existing candidate
func (s *Store) UpdateCandidate(ctx context.Context, c *db.Candidate) error {
	args, err := candidateArgs(c)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE candidates
		 SET name = ?, email = ?, stage = ?, job_id = ?, phone = ?,
		     applied_at = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		append(args, c.ID)...,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	missing, err := notFound(res)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if missing {
		return &db.ErrNotFound{Entity: db.EntityCandidate, ID: c.ID}
	}
	return nil
}

// InsertTimelineEvent appends a timeline row and sets its ID
func (s *Store) InsertTimelineEvent(ctx context.Context, ev *db.TimelineEvent) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO candidate_timeline (candidate_id, stage, note, created_at, updated_by)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.CandidateID, ev.Stage, ev.Note, formatTime(ev.CreatedAt), ev.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	if ev.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

// ListTimelineEvents returns a candidate's timeline rows in insertion order
func (s *Store) ListTimelineEvents(ctx context.Context, candidateID int64) ([]db.TimelineEvent, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, candidate_id, stage, note, created_at, updated_by
		 FROM candidate_timeline WHERE candidate_id = ? ORDER BY id`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	var events []db.TimelineEvent
	for rows.Next() {
		var ev db.TimelineEvent
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.CandidateID, &ev.Stage, &ev.Note, &createdAt, &ev.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
