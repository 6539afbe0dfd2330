// Package seed fills an empty board store with demo jobs, candidates and an assessment.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/talentflow/internal/db"
)

// CandidateCount is the number of seeded candidates
const CandidateCount = 1000

var jobTitles = []string{
	"Senior React Developer", "Frontend Engineer", "Full Stack Developer",
	"Backend Engineer", "DevOps Specialist", "Product Manager",
	"UX Designer", "Data Scientist", "Mobile Developer", "QA Engineer",
	"Technical Lead", "Software Architect", "Cloud Engineer", "Security Analyst",
	"Database Administrator", "Machine Learning Engineer", "Systems Analyst",
	"Network Engineer", "Scrum Master", "Business Analyst", "Product Designer",
	"Content Strategist", "Growth Marketer", "Data Engineer", "Site Reliability Engineer",
}

var jobTags = []string{
	"React", "JavaScript", "TypeScript", "Node.js", "Python", "Java", "AWS",
	"Docker", "Kubernetes", "SQL", "NoSQL", "GraphQL", "REST", "Agile",
	"CI/CD", "Testing", "UI/UX", "Mobile", "Cloud", "Security", "Data",
}

var jobRequirements = []string{
	"Bachelor's degree in Computer Science or related field",
	"3+ years of professional experience",
	"Strong problem-solving skills",
	"Excellent communication abilities",
}

var (
	firstNames = []string{"John", "Jane", "Alex", "Sarah", "Mike", "Emily", "David", "Lisa", "Chris", "Amy"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	domains    = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "company.com"}
)

var whitespace = regexp.MustCompile(`\s+`)

// Options controls randomness and time so runs can be reproduced in tests
type Options struct {
	Rand   *rand.Rand       // nil uses a randomly seeded source
	Now    func() time.Time // nil uses time.Now
	Logger *zerolog.Logger  // nil disables logging
}

// Result reports what Run inserted
type Result struct {
	Skipped     bool
	Jobs        int
	Candidates  int
	Assessments int
}

// Slugify lower-cases title and replaces whitespace runs with a hyphen
func Slugify(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "-")
}

// Run seeds the store when it has no jobs. Everything is inserted in one
// transaction; a store that already has jobs is left untouched.
func Run(ctx context.Context, store db.Store, opts Options) (Result, error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	var res Result
	err := store.InTx(ctx, func(tx db.Store) error {
		count, err := tx.CountJobs(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			res.Skipped = true
			return nil
		}

		ts := now()
		jobs := buildJobs(rng, ts)
		if err := tx.InsertJobs(ctx, jobs); err != nil {
			return fmt.Errorf("failed to seed jobs: %w", err)
		}

		candidates := buildCandidates(rng, ts, jobs)
		if err := tx.InsertCandidates(ctx, candidates); err != nil {
			return fmt.Errorf("failed to seed candidates: %w", err)
		}

		assessments := []*db.Assessment{reactAssessment(jobs[0].ID, ts)}
		if err := tx.InsertAssessments(ctx, assessments); err != nil {
			return fmt.Errorf("failed to seed assessments: %w", err)
		}

		res = Result{Jobs: len(jobs), Candidates: len(candidates), Assessments: len(assessments)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if res.Skipped {
		log.Debug().Msg("store already seeded")
	} else {
		log.Info().
			Int("jobs", res.Jobs).
			Int("candidates", res.Candidates).
			Int("assessments", res.Assessments).
			Msg("database seeded")
	}
	return res, nil
}

// ago returns a time up to window before ts
func ago(rng *rand.Rand, ts time.Time, window time.Duration) time.Time {
	return ts.Add(-time.Duration(rng.Int64N(int64(window))))
}

func buildJobs(rng *rand.Rand, ts time.Time) []*db.Job {
	jobs := make([]*db.Job, len(jobTitles))
	for i, title := range jobTitles {
		status := db.StatusActive
		if i%5 == 0 {
			status = db.StatusArchived
		}

		tags := append([]string(nil), jobTags...)
		rng.Shuffle(len(tags), func(a, b int) { tags[a], tags[b] = tags[b], tags[a] })

		jobs[i] = &db.Job{
			Title:        title,
			Slug:         Slugify(title),
			Description:  fmt.Sprintf("We are looking for a talented %s to join our team. This role requires strong technical skills and excellent collaboration abilities.", title),
			Status:       status,
			Tags:         tags[:rng.IntN(4)+2],
			Requirements: append([]string(nil), jobRequirements...),
			Order:        i + 1,
			CreatedAt:    ago(rng, ts, 90*24*time.Hour),
			UpdatedAt:    ts,
		}
	}
	return jobs
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}

func buildCandidates(rng *rand.Rand, ts time.Time, jobs []*db.Job) []*db.Candidate {
	stages := db.Stages()
	candidates := make([]*db.Candidate, CandidateCount)
	for i := range candidates {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		candidates[i] = &db.Candidate{
			Name:      first + " " + last,
			Email:     fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), rng.IntN(100), pick(rng, domains)),
			Stage:     pick(rng, stages),
			JobID:     jobs[rng.IntN(len(jobs))].ID,
			Phone:     fmt.Sprintf("+1-555-%03d-%04d", rng.IntN(1000), rng.IntN(10000)),
			AppliedAt: ago(rng, ts, 30*24*time.Hour),
			Notes:     []db.Note{},
			UpdatedAt: ts,
		}
	}
	return candidates
}

func reactAssessment(jobID int64, ts time.Time) *db.Assessment {
	minYears, maxYears := 0.0, 20.0
	shortText, longText := 500, 1000
	return &db.Assessment{
		JobID:       jobID,
		Title:       "React Technical Assessment",
		Description: "Technical assessment for React developer position",
		Questions: []db.Question{
			{
				ID:       1,
				Type:     db.QuestionSingle,
				Text:     "What is the virtual DOM in React?",
				Required: true,
				Options: []string{
					"A direct representation of the actual DOM",
					"A lightweight copy of the actual DOM",
					"A database for storing React components",
					"A testing environment for React",
				},
			},
			{
				ID:       2,
				Type:     db.QuestionMultiple,
				Text:     "Which of the following are React hooks?",
				Required: true,
				Options:  []string{"useState", "useEffect", "useComponent", "useRender", "useContext"},
			},
			{
				ID:        3,
				Type:      db.QuestionText,
				Text:      "Explain the difference between state and props in React.",
				Required:  true,
				MaxLength: &shortText,
			},
			{
				ID:       4,
				Type:     db.QuestionNumber,
				Text:     "How many years of React experience do you have?",
				Required: true,
				Min:      &minYears,
				Max:      &maxYears,
			},
			{
				ID:        5,
				Type:      db.QuestionTextarea,
				Text:      "Describe a challenging React project you worked on and how you solved the challenges.",
				MaxLength: &longText,
			},
		},
		Settings:  db.AssessmentSettings{TimeLimit: 60, PassingScore: 70},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}
