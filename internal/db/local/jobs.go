package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonathan/talentflow/internal/db"
)

const jobColumns = `id, title, slug, description, status, tags, requirements, sort_order, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*db.Job, error) {
	var j db.Job
	var tags, requirements, createdAt, updatedAt string
	err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Description, &j.Status,
		&tags, &requirements, &j.Order, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	j.Tags, j.Requirements = []string{}, []string{}
	if err := unmarshalJSON(tags, &j.Tags, "tags"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(requirements, &j.Requirements, "requirements"); err != nil {
		return nil, err
	}
	if j.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if j.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

// jobArgs returns title through sort_order in column order
func jobArgs(j *db.Job) ([]any, error) {
	tags, err := marshalJSON(nonNil(j.Tags), "tags")
	if err != nil {
		return nil, err
	}
	requirements, err := marshalJSON(nonNil(j.Requirements), "requirements")
	if err != nil {
		return nil, err
	}
	return []any{j.Title, j.Slug, j.Description, j.Status, tags, requirements, j.Order}, nil
}

// CountJobs returns the number of jobs
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// ListJobs returns every job in insertion order
func (s *Store) ListJobs(ctx context.Context) ([]db.Job, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []db.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *Store) getJobWhere(ctx context.Context, where string, arg any) (*db.Job, error) {
	j, err := scanJob(s.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// GetJob retrieves a job by its ID
func (s *Store) GetJob(ctx context.Context, id int64) (*db.Job, error) {
	return s.getJobWhere(ctx, `id = ?`, id)
}

// GetJobBySlug retrieves a job by its slug
func (s *Store) GetJobBySlug(ctx context.Context, slug string) (*db.Job, error) {
	return s.getJobWhere(ctx, `slug = ?`, slug)
}

// MaxJobOrder returns the highest order value, or 0 when there are no jobs
func (s *Store) MaxJobOrder(ctx context.Context) (int, error) {
	var order int
	if err := s.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM jobs`).Scan(&order); err != nil {
		return 0, fmt.Errorf("failed to get max job order: %w", err)
	}
	return order, nil
}

// InsertJob inserts a job and sets its ID
func (s *Store) InsertJob(ctx context.Context, job *db.Job) error {
	args, err := jobArgs(job)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO jobs (title, slug, description, status, tags, requirements, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append(args, formatTime(job.CreatedAt), formatTime(job.UpdatedAt))...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", asUniqueViolation(err, job.Slug))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	job.ID = id
	return nil
}

// InsertJobs inserts jobs as one unit and sets their IDs. On a duplicate slug
// nothing is written and the IDs already assigned are cleared.
func (s *Store) InsertJobs(ctx context.Context, jobs []*db.Job) error {
	err := s.InTx(ctx, func(tx db.Store) error {
		for _, j := range jobs {
			if err := tx.InsertJob(ctx, j); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !s.inTx {
		for _, j := range jobs {
			j.ID = 0
		}
	}
	return err
}

// UpdateJob writes every column of an existing job except created_at
func (s *Store) UpdateJob(ctx context.Context, job *db.Job) error {
	args, err := jobArgs(job)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE jobs
		 SET title = ?, slug = ?, description = ?, status = ?, tags = ?,
		     requirements = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		append(args, formatTime(job.UpdatedAt), job.ID)...,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", asUniqueViolation(err, job.Slug))
	}
	missing, err := notFound(res)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if missing {
		return &db.ErrNotFound{Entity: db.EntityJob, ID: job.ID}
	}
	return nil
}

// UpdateJobOrder sets the order of a single job
func (s *Store) UpdateJobOrder(ctx context.Context, id int64, order int) error {
	res, err := s.q.ExecContext(ctx, `UPDATE jobs SET sort_order = ? WHERE id = ?`, order, id)
	if err != nil {
		return fmt.Errorf("failed to update job order: %w", err)
	}
	missing, err := notFound(res)
	if err != nil {
		return fmt.Errorf("failed to update job order: %w", err)
	}
	if missing {
		return &db.ErrNotFound{Entity: db.EntityJob, ID: id}
	}
	return nil
}
