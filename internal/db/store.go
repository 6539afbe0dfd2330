package db

import "context"

// Store is the persistence contract the board engine runs against.
//
// Getters return (nil, nil) when the row does not exist. Updates of a missing
// row return *ErrNotFound. Inserts assign the generated id to the record.
// Both *DB (PostgreSQL) and local.Store (SQLite) implement it.
type Store interface {
	// Jobs
	CountJobs(ctx context.Context) (int, error)
	ListJobs(ctx context.Context) ([]Job, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	GetJobBySlug(ctx context.Context, slug string) (*Job, error)
	MaxJobOrder(ctx context.Context) (int, error)
	InsertJob(ctx context.Context, job *Job) error
	InsertJobs(ctx context.Context, jobs []*Job) error
	UpdateJob(ctx context.Context, job *Job) error
	UpdateJobOrder(ctx context.Context, id int64, order int) error

	// Candidates
	CountCandidates(ctx context.Context) (int, error)
	ListCandidates(ctx context.Context) ([]Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*Candidate, error)
	InsertCandidate(ctx context.Context, c *Candidate) error
	InsertCandidates(ctx context.Context, cs []*Candidate) error
	UpdateCandidate(ctx context.Context, c *Candidate) error

	// Timeline
	InsertTimelineEvent(ctx context.Context, ev *TimelineEvent) error
	ListTimelineEvents(ctx context.Context, candidateID int64) ([]TimelineEvent, error)

	// Assessments
	GetAssessment(ctx context.Context, id int64) (*Assessment, error)
	GetAssessmentByJobID(ctx context.Context, jobID int64) (*Assessment, error)
	InsertAssessment(ctx context.Context, a *Assessment) error
	InsertAssessments(ctx context.Context, as []*Assessment) error
	UpdateAssessment(ctx context.Context, a *Assessment) error
	InsertAssessmentResponse(ctx context.Context, r *AssessmentResponse) error
	ListAssessmentResponses(ctx context.Context, assessmentID int64) ([]AssessmentResponse, error)

	// InTx runs fn against a transaction-scoped Store. If fn returns an error
	// every write it made is discarded. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
