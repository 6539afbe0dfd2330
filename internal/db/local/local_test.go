package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/db"
)

func newJob(title, slug string, order int) *db.Job {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &db.Job{
		Title:     title,
		Slug:      slug,
		Status:    db.StatusActive,
		Tags:      []string{"Remote"},
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertJob_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := newJob("A", "a", 1)
	b := newJob("B", "b", 2)
	require.NoError(t, s.InsertJob(ctx, a))
	require.NoError(t, s.InsertJob(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	n, err := s.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	maxOrder, err := s.MaxJobOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, maxOrder)
}

func TestInsertJob_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.InsertJob(ctx, newJob("A", "dup", 1)))
	err := s.InsertJob(ctx, newJob("B", "dup", 2))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	var uv *db.ErrUniqueViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "slug", uv.Field)
	assert.Equal(t, "dup", uv.Value)

	n, _ := s.CountJobs(ctx)
	assert.Equal(t, 1, n)
}

func TestInsertJobs_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InsertJobs(ctx, []*db.Job{newJob("A", "a", 1), newJob("B", "a", 2)})
	require.Error(t, err)

	n, _ := s.CountJobs(ctx)
	assert.Equal(t, 0, n)

	// the failed batch must not consume ids
	j := newJob("C", "c", 1)
	require.NoError(t, s.InsertJob(ctx, j))
	assert.Equal(t, int64(1), j.ID)
}

func TestGetJob_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	j := newJob("A", "a", 1)
	require.NoError(t, s.InsertJob(ctx, j))
	j.Tags[0] = "changed after insert"

	got, err := s.GetJob(ctx, j.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Remote"}, got.Tags)

	got.Tags[0] = "changed after read"
	again, _ := s.GetJob(ctx, j.ID)
	assert.Equal(t, []string{"Remote"}, again.Tags)
}

func TestGetJob_Missing(t *testing.T) {
	s := New()
	got, err := s.GetJob(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)

	bySlug, err := s.GetJobBySlug(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, bySlug)
}

func TestUpdateJob(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := newJob("A", "a", 1)
	b := newJob("B", "b", 2)
	require.NoError(t, s.InsertJobs(ctx, []*db.Job{a, b}))

	t.Run("renames slug and moves the index", func(t *testing.T) {
		upd := *a
		upd.Slug = "a-renamed"
		require.NoError(t, s.UpdateJob(ctx, &upd))

		old, _ := s.GetJobBySlug(ctx, "a")
		assert.Nil(t, old)
		got, _ := s.GetJobBySlug(ctx, "a-renamed")
		require.NotNil(t, got)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("rejects slug taken by another job", func(t *testing.T) {
		upd := *a
		upd.Slug = "b"
		err := s.UpdateJob(ctx, &upd)
		assert.True(t, db.IsUniqueViolation(err))
	})

	t.Run("missing job", func(t *testing.T) {
		err := s.UpdateJob(ctx, &db.Job{ID: 99, Slug: "x"})
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("order only", func(t *testing.T) {
		require.NoError(t, s.UpdateJobOrder(ctx, b.ID, 7))
		got, _ := s.GetJob(ctx, b.ID)
		assert.Equal(t, 7, got.Order)
		assert.True(t, db.IsNotFound(s.UpdateJobOrder(ctx, 99, 1)))
	})
}

func TestCandidatesAndTimeline(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := &db.Candidate{Name: "Ada", Email: "ada@example.com", Stage: db.StageApplied, JobID: 1}
	require.NoError(t, s.InsertCandidates(ctx, []*db.Candidate{c}))
	assert.Equal(t, int64(1), c.ID)

	c.Stage = db.StageScreen
	c.Notes = []db.Note{{ID: 1, Text: "hello"}}
	require.NoError(t, s.UpdateCandidate(ctx, c))

	got, err := s.GetCandidate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StageScreen, got.Stage)
	assert.Len(t, got.Notes, 1)

	assert.True(t, db.IsNotFound(s.UpdateCandidate(ctx, &db.Candidate{ID: 5})))

	for _, stage := range []string{db.StageApplied, db.StageScreen} {
		require.NoError(t, s.InsertTimelineEvent(ctx, &db.TimelineEvent{CandidateID: c.ID, Stage: stage}))
	}
	require.NoError(t, s.InsertTimelineEvent(ctx, &db.TimelineEvent{CandidateID: 77, Stage: db.StageTech}))

	events, err := s.ListTimelineEvents(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, db.StageApplied, events[0].Stage)
	assert.Equal(t, db.StageScreen, events[1].Stage)
	assert.Less(t, events[0].ID, events[1].ID)

	none, err := s.ListTimelineEvents(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAssessments_UniqueJobID(t *testing.T) {
	ctx := context.Background()
	s := New()

	a := &db.Assessment{JobID: 3, Title: "First"}
	require.NoError(t, s.InsertAssessment(ctx, a))

	err := s.InsertAssessment(ctx, &db.Assessment{JobID: 3, Title: "Second"})
	assert.True(t, db.IsUniqueViolation(err))

	byJob, err := s.GetAssessmentByJobID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, byJob)
	assert.Equal(t, "First", byJob.Title)

	a.Title = "Renamed"
	require.NoError(t, s.UpdateAssessment(ctx, a))
	got, _ := s.GetAssessment(ctx, a.ID)
	assert.Equal(t, "Renamed", got.Title)

	assert.True(t, db.IsNotFound(s.UpdateAssessment(ctx, &db.Assessment{ID: 9, JobID: 9})))
}

func TestAssessmentResponses(t *testing.T) {
	ctx := context.Background()
	s := New()

	r1 := &db.AssessmentResponse{AssessmentID: 1, CandidateID: 10, Responses: map[string]any{"1": "yes"}, Score: 100}
	r2 := &db.AssessmentResponse{AssessmentID: 1, CandidateID: 11, Score: 0}
	require.NoError(t, s.InsertAssessmentResponse(ctx, r1))
	require.NoError(t, s.InsertAssessmentResponse(ctx, r2))

	out, err := s.ListAssessmentResponses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(10), out[0].CandidateID)
	assert.Equal(t, "yes", out[0].Responses["1"])
	assert.NotNil(t, out[1].Responses)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.InsertJob(ctx, newJob("A", "a", 1)))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx db.Store) error {
		if err := tx.InsertJob(ctx, newJob("B", "b", 2)); err != nil {
			return err
		}
		if err := tx.UpdateJobOrder(ctx, 1, 9); err != nil {
			return err
		}
		n, _ := tx.CountJobs(ctx)
		assert.Equal(t, 2, n, "writes are visible inside the transaction")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, _ := s.CountJobs(ctx)
	assert.Equal(t, 1, n)
	got, _ := s.GetJob(ctx, 1)
	assert.Equal(t, 1, got.Order)
}

func TestInTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.InTx(ctx, func(tx db.Store) error {
		return tx.InTx(ctx, func(inner db.Store) error {
			return inner.InsertJob(ctx, newJob("A", "a", 1))
		})
	})
	require.NoError(t, err)

	n, _ := s.CountJobs(ctx)
	assert.Equal(t, 1, n)
}

func TestInTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().InTx(ctx, func(db.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestOpen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "board.db")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	j := newJob("A", "a", 1)
	require.NoError(t, s.InsertJob(ctx, j))
	require.NoError(t, s.InsertAssessment(ctx, &db.Assessment{JobID: j.ID, Title: "Quiz"}))
	c := &db.Candidate{Name: "Ada", Stage: db.StageApplied, JobID: j.ID}
	require.NoError(t, s.InsertCandidate(ctx, c))
	require.NoError(t, s.InsertTimelineEvent(ctx, &db.TimelineEvent{CandidateID: c.ID, Stage: db.StageApplied}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.GetJobBySlug(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, j.ID, got.ID)
	assert.True(t, j.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, []string{"Remote"}, got.Tags)
	assert.Equal(t, []string{}, got.Requirements)

	a, _ := reopened.GetAssessmentByJobID(ctx, j.ID)
	require.NotNil(t, a)
	assert.Equal(t, "Quiz", a.Title)

	events, _ := reopened.ListTimelineEvents(ctx, c.ID)
	assert.Len(t, events, 1)

	next := newJob("B", "b", 2)
	require.NoError(t, reopened.InsertJob(ctx, next))
	assert.Equal(t, j.ID+1, next.ID)
}

func TestOpen_NewFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	n, err := s.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a sqlite database ", 64)), 0644))

	s, err := Open(path)
	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "failed to open local store")
}

func TestOpen_DirectoryIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	s, err := Open(filepath.Join(blocker, "board.db"))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestNew_StoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := New(), New()
	assert.Equal(t, ":memory:", a.Path())

	require.NoError(t, a.InsertJob(ctx, newJob("A", "a", 1)))

	n, err := b.CountJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAsUniqueViolation_PassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, asUniqueViolation(boom, "x"))
}
