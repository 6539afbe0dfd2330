package seed

import (
	"context"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/db/local"
)

var seedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func testOptions(seed uint64) Options {
	return Options{
		Rand: rand.New(rand.NewPCG(seed, seed)),
		Now:  func() time.Time { return seedNow },
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "senior-react-developer", Slugify("Senior React Developer"))
	assert.Equal(t, "qa-engineer", Slugify("QA Engineer"))
	assert.Equal(t, "site-reliability-engineer", Slugify("Site  Reliability\tEngineer"))
}

func TestRun_SeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := local.New()

	res, err := Run(ctx, store, testOptions(1))
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 25, res.Jobs)
	assert.Equal(t, CandidateCount, res.Candidates)
	assert.Equal(t, 1, res.Assessments)

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 25)

	jobIDs := map[int64]bool{}
	for i, j := range jobs {
		jobIDs[j.ID] = true
		assert.Equal(t, i+1, j.Order)
		assert.Equal(t, Slugify(j.Title), j.Slug)
		if i%5 == 0 {
			assert.Equal(t, db.StatusArchived, j.Status, j.Title)
		} else {
			assert.Equal(t, db.StatusActive, j.Status, j.Title)
		}
		assert.GreaterOrEqual(t, len(j.Tags), 2)
		assert.LessOrEqual(t, len(j.Tags), 5)
		assert.Len(t, j.Requirements, 4)
		assert.False(t, j.CreatedAt.After(seedNow))
		assert.True(t, j.CreatedAt.After(seedNow.Add(-90*24*time.Hour)))
	}
	assert.Equal(t, "Senior React Developer", jobs[0].Title)

	phone := regexp.MustCompile(`^\+1-555-\d{3}-\d{4}$`)
	email := regexp.MustCompile(`^[a-z]+\.[a-z]+\d{1,2}@[a-z]+\.com$`)

	candidates, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, CandidateCount)
	for _, c := range candidates {
		assert.True(t, db.IsValidStage(c.Stage))
		assert.True(t, jobIDs[c.JobID], "candidate %d references unknown job %d", c.ID, c.JobID)
		assert.Regexp(t, phone, c.Phone)
		assert.Regexp(t, email, c.Email)
		assert.NotNil(t, c.Notes)
		assert.True(t, c.AppliedAt.After(seedNow.Add(-30*24*time.Hour)))
	}

	a, err := store.GetAssessmentByJobID(ctx, jobs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "React Technical Assessment", a.Title)
	require.Len(t, a.Questions, 5)
	assert.Equal(t, 60, a.Settings.TimeLimit)
	assert.Equal(t, 70, a.Settings.PassingScore)

	types := map[string]bool{}
	for _, q := range a.Questions {
		types[q.Type] = true
	}
	for _, qt := range []string{db.QuestionSingle, db.QuestionMultiple, db.QuestionText, db.QuestionNumber, db.QuestionTextarea} {
		assert.True(t, types[qt], qt)
	}
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := local.New()

	_, err := Run(ctx, store, testOptions(1))
	require.NoError(t, err)

	res, err := Run(ctx, store, testOptions(2))
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	n, _ := store.CountJobs(ctx)
	assert.Equal(t, 25, n)
	c, _ := store.CountCandidates(ctx)
	assert.Equal(t, CandidateCount, c)
}

func TestRun_SkipsWhenAnyJobExists(t *testing.T) {
	ctx := context.Background()
	store := local.New()
	require.NoError(t, store.InsertJob(ctx, &db.Job{Title: "Mine", Slug: "mine", Order: 1}))

	res, err := Run(ctx, store, Options{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	c, _ := store.CountCandidates(ctx)
	assert.Equal(t, 0, c)
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()
	a, b := local.New(), local.New()

	_, err := Run(ctx, a, testOptions(9))
	require.NoError(t, err)
	_, err = Run(ctx, b, testOptions(9))
	require.NoError(t, err)

	ca, _ := a.ListCandidates(ctx)
	cb, _ := b.ListCandidates(ctx)
	assert.Equal(t, ca, cb)
}

func TestRun_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := local.New()
	// the first seeded job gets id 1, which already has an assessment
	require.NoError(t, store.InsertAssessment(ctx, &db.Assessment{JobID: 1, Title: "Existing"}))

	_, err := Run(ctx, store, testOptions(1))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	n, _ := store.CountJobs(ctx)
	assert.Equal(t, 0, n)
	c, _ := store.CountCandidates(ctx)
	assert.Equal(t, 0, c)
}
