package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, title, slug, description, status, tags, requirements, sort_order, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Description, &j.Status,
		&j.Tags, &j.Requirements, &j.Order, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Tags = nonNil(j.Tags)
	j.Requirements = nonNil(j.Requirements)
	return &j, nil
}

// CountJobs returns the number of jobs
func (db *DB) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := db.q.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

// ListJobs returns every job in insertion order
func (db *DB) ListJobs(ctx context.Context) ([]Job, error) {
	rows, err := db.q.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
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

// GetJob retrieves a job by its ID
func (db *DB) GetJob(ctx context.Context, id int64) (*Job, error) {
	j, err := scanJob(db.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// GetJobBySlug retrieves a job by its slug
func (db *DB) GetJobBySlug(ctx context.Context, slug string) (*Job, error) {
	j, err := scanJob(db.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by slug: %w", err)
	}
	return j, nil
}

// MaxJobOrder returns the highest order value, or 0 when there are no jobs
func (db *DB) MaxJobOrder(ctx context.Context) (int, error) {
	var order int
	if err := db.q.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM jobs`).Scan(&order); err != nil {
		return 0, fmt.Errorf("failed to get max job order: %w", err)
	}
	return order, nil
}

const insertJobSQL = `INSERT INTO jobs (title, slug, description, status, tags, requirements, sort_order, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	 RETURNING id`

func insertJobArgs(j *Job) []any {
	return []any{j.Title, j.Slug, j.Description, j.Status, nonNil(j.Tags), nonNil(j.Requirements),
		j.Order, j.CreatedAt, j.UpdatedAt}
}

// InsertJob inserts a job and sets its ID
func (db *DB) InsertJob(ctx context.Context, job *Job) error {
	err := db.q.QueryRow(ctx, insertJobSQL, insertJobArgs(job)...).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", asUniqueViolation(err, job.Slug))
	}
	return nil
}

// InsertJobs inserts jobs in a single batch and sets their IDs
func (db *DB) InsertJobs(ctx context.Context, jobs []*Job) error {
	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(insertJobSQL, insertJobArgs(j)...).QueryRow(func(row pgx.Row) error {
			if err := row.Scan(&j.ID); err != nil {
				return asUniqueViolation(err, j.Slug)
			}
			return nil
		})
	}
	if err := db.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert jobs: %w", err)
	}
	return nil
}

// UpdateJob writes every column of an existing job
func (db *DB) UpdateJob(ctx context.Context, job *Job) error {
	result, err := db.q.Exec(ctx,
		`UPDATE jobs
		 SET title = $2, slug = $3, description = $4, status = $5, tags = $6,
		     requirements = $7, sort_order = $8, updated_at = $9
		 WHERE id = $1`,
		job.ID, job.Title, job.Slug, job.Description, job.Status, nonNil(job.Tags),
		nonNil(job.Requirements), job.Order, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", asUniqueViolation(err, job.Slug))
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Entity: EntityJob, ID: job.ID}
	}
	return nil
}

// UpdateJobOrder sets the order of a single job
func (db *DB) UpdateJobOrder(ctx context.Context, id int64, order int) error {
	result, err := db.q.Exec(ctx, `UPDATE jobs SET sort_order = $2 WHERE id = $1`, id, order)
	if err != nil {
		return fmt.Errorf("failed to update job order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Entity: EntityJob, ID: id}
	}
	return nil
}
