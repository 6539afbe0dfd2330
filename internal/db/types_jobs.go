package db

import "time"

// Job status constants
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Job represents a job posting on the board
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Tags         []string  `json:"tags"`
	Requirements []string  `json:"requirements"`
	Order        int       `json:"order"` // dense 1-based rank across all jobs
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// JobCreateInput is used when creating a new job
type JobCreateInput struct {
	Title        string
	Slug         string
	Description  string
	Status       string
	Tags         []string
	Requirements []string
}

// JobPatch holds the fields to merge into an existing job. Nil fields are left untouched.
type JobPatch struct {
	Title        *string   `json:"title,omitempty"`
	Slug         *string   `json:"slug,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Requirements *[]string `json:"requirements,omitempty"`
}

// IsValidStatus reports whether status is a known job status
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusArchived
}

// Apply merges the patch into job and reports whether anything was set
func (p JobPatch) Apply(job *Job) bool {
	changed := false
	if p.Title != nil {
		job.Title = *p.Title
		changed = true
	}
	if p.Slug != nil {
		job.Slug = *p.Slug
		changed = true
	}
	if p.Description != nil {
		job.Description = *p.Description
		changed = true
	}
	if p.Status != nil {
		job.Status = *p.Status
		changed = true
	}
	if p.Tags != nil {
		job.Tags = cloneStrings(*p.Tags)
		changed = true
	}
	if p.Requirements != nil {
		job.Requirements = cloneStrings(*p.Requirements)
		changed = true
	}
	return changed
}

// Clone returns a copy of the job that shares no slices with the original
func (j Job) Clone() Job {
	j.Tags = cloneStrings(j.Tags)
	j.Requirements = cloneStrings(j.Requirements)
	return j
}

// cloneStrings copies a string slice, turning nil into an empty slice so JSON renders []
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
