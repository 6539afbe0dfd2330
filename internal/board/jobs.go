package board

import (
	"context"
	"slices"
	"strings"

	"github.com/jonathan/talentflow/internal/db"
)

const (
	defaultJobsPageSize = 10

	// StatusAll disables the status filter
	StatusAll = "all"
)

// JobFilters narrows ListJobs. Zero values mean "no filter" and default paging.
type JobFilters struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

func (f JobFilters) match(j *db.Job) bool {
	if f.Status != "" && f.Status != StatusAll && j.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(j.Title), q) || strings.Contains(strings.ToLower(j.Description), q) {
		return true
	}
	return slices.ContainsFunc(j.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// ListJobs returns the jobs matching f sorted by order
func (e *Engine) ListJobs(ctx context.Context, f JobFilters) (*Page[db.Job], error) {
	return call(ctx, e, "ListJobs", OpRead, func(ctx context.Context) (*Page[db.Job], error) {
		jobs, err := e.store.ListJobs(ctx)
		if err != nil {
			return nil, err
		}
		jobs = slices.DeleteFunc(jobs, func(j db.Job) bool { return !f.match(&j) })
		slices.SortStableFunc(jobs, func(a, b db.Job) int { return a.Order - b.Order })
		return paginate(jobs, f.Page, f.PageSize, defaultJobsPageSize), nil
	})
}

// GetJob returns a single job
func (e *Engine) GetJob(ctx context.Context, id int64) (*db.Job, error) {
	return call(ctx, e, "GetJob", OpRead, func(ctx context.Context) (*db.Job, error) {
		j, err := e.store.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		return notFound(j, db.EntityJob, id)
	})
}

// CreateJob inserts a job at the end of the order
func (e *Engine) CreateJob(ctx context.Context, in db.JobCreateInput) (*db.Job, error) {
	return call(ctx, e, "CreateJob", OpWrite, func(ctx context.Context) (*db.Job, error) {
		var job *db.Job
		err := e.store.InTx(ctx, func(tx db.Store) error {
			existing, err := tx.GetJobBySlug(ctx, in.Slug)
			if err != nil {
				return err
			}
			if existing != nil {
				return &db.ErrUniqueViolation{Entity: db.EntityJob, Field: "slug", Value: in.Slug}
			}

			maxOrder, err := tx.MaxJobOrder(ctx)
			if err != nil {
				return err
			}

			status := in.Status
			if status == "" {
				status = db.StatusActive
			}
			now := e.now()
			job = &db.Job{
				Title:        in.Title,
				Slug:         in.Slug,
				Description:  in.Description,
				Status:       status,
				Tags:         in.Tags,
				Requirements: in.Requirements,
				Order:        maxOrder + 1,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			*job = job.Clone()
			return tx.InsertJob(ctx, job)
		})
		if err != nil {
			return nil, err
		}
		return job, nil
	})
}

// UpdateJob merges patch into the job. Archiving is a status patch.
func (e *Engine) UpdateJob(ctx context.Context, id int64, patch db.JobPatch) (*db.Job, error) {
	return call(ctx, e, "UpdateJob", OpWrite, func(ctx context.Context) (*db.Job, error) {
		var job *db.Job
		err := e.store.InTx(ctx, func(tx db.Store) error {
			current, err := tx.GetJob(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return &db.ErrNotFound{Entity: db.EntityJob, ID: id}
			}

			if patch.Slug != nil && *patch.Slug != current.Slug {
				owner, err := tx.GetJobBySlug(ctx, *patch.Slug)
				if err != nil {
					return err
				}
				if owner != nil && owner.ID != id {
					return &db.ErrUniqueViolation{Entity: db.EntityJob, Field: "slug", Value: *patch.Slug}
				}
			}

			patch.Apply(current)
			current.UpdatedAt = e.now()
			if err := tx.UpdateJob(ctx, current); err != nil {
				return err
			}
			job = current
			return nil
		})
		if err != nil {
			return nil, err
		}
		return job, nil
	})
}

// ReorderJob moves the job at position from to position to, shifting the jobs
// in between by one so orders stay a dense 1..N permutation.
func (e *Engine) ReorderJob(ctx context.Context, from, to int) error {
	_, err := call(ctx, e, "ReorderJob", OpWrite, func(ctx context.Context) (struct{}, error) {
		if from == to {
			return struct{}{}, nil
		}
		return struct{}{}, e.store.InTx(ctx, func(tx db.Store) error {
			jobs, err := tx.ListJobs(ctx)
			if err != nil {
				return err
			}
			if to < 1 || to > len(jobs) {
				return &ErrInvalidOrder{From: from, To: to, Count: len(jobs)}
			}

			idx := slices.IndexFunc(jobs, func(j db.Job) bool { return j.Order == from })
			if idx < 0 {
				return &ErrNoJobAtPosition{Position: from}
			}
			moved := jobs[idx]

			for _, j := range jobs {
				if j.ID == moved.ID {
					continue
				}
				next := j.Order
				switch {
				case from < to && j.Order > from && j.Order <= to:
					next--
				case from > to && j.Order >= to && j.Order < from:
					next++
				}
				if next != j.Order {
					if err := tx.UpdateJobOrder(ctx, j.ID, next); err != nil {
						return err
					}
				}
			}
			return tx.UpdateJobOrder(ctx, moved.ID, to)
		})
	})
	return err
}
