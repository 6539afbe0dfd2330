package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Assessment Methods
// -----------------------------------------------------------------------------

const assessmentColumns = `id, job_id, title, description, questions, settings, created_at, updated_at`

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	var questionsJSON, settingsJSON []byte
	err := row.Scan(&a.ID, &a.JobID, &a.Title, &a.Description, &questionsJSON, &settingsJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Questions = []Question{}
	if questionsJSON != nil {
		if err := json.Unmarshal(questionsJSON, &a.Questions); err != nil {
			return nil, fmt.Errorf("failed to parse questions for assessment %d: %w", a.ID, err)
		}
	}
	if settingsJSON != nil {
		if err := json.Unmarshal(settingsJSON, &a.Settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings for assessment %d: %w", a.ID, err)
		}
	}
	return &a, nil
}

func assessmentJSON(a *Assessment) (questions, settings []byte, err error) {
	qs := a.Questions
	if qs == nil {
		qs = []Question{}
	}
	questions, err = json.Marshal(qs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	settings, err = json.Marshal(a.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return questions, settings, nil
}

func (db *DB) getAssessmentWhere(ctx context.Context, where string, arg int64) (*Assessment, error) {
	a, err := scanAssessment(db.q.QueryRow(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// GetAssessment retrieves an assessment by its ID
func (db *DB) GetAssessment(ctx context.Context, id int64) (*Assessment, error) {
	return db.getAssessmentWhere(ctx, "id = $1", id)
}

// GetAssessmentByJobID retrieves the assessment attached to a job
func (db *DB) GetAssessmentByJobID(ctx context.Context, jobID int64) (*Assessment, error) {
	return db.getAssessmentWhere(ctx, "job_id = $1", jobID)
}

const insertAssessmentSQL = `INSERT INTO assessments (job_id, title, description, questions, settings, created_at, updated_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7)
	 RETURNING id`

// InsertAssessment inserts an assessment and sets its ID
func (db *DB) InsertAssessment(ctx context.Context, a *Assessment) error {
	questions, settings, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	err = db.q.QueryRow(ctx, insertAssessmentSQL,
		a.JobID, a.Title, a.Description, questions, settings, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", asUniqueViolation(err, strconv.FormatInt(a.JobID, 10)))
	}
	return nil
}

// InsertAssessments inserts assessments in a single batch and sets their IDs
func (db *DB) InsertAssessments(ctx context.Context, as []*Assessment) error {
	batch := &pgx.Batch{}
	for _, a := range as {
		questions, settings, err := assessmentJSON(a)
		if err != nil {
			return err
		}
		batch.Queue(insertAssessmentSQL,
			a.JobID, a.Title, a.Description, questions, settings, a.CreatedAt, a.UpdatedAt,
		).QueryRow(func(row pgx.Row) error {
			if err := row.Scan(&a.ID); err != nil {
				return asUniqueViolation(err, strconv.FormatInt(a.JobID, 10))
			}
			return nil
		})
	}
	if err := db.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert assessments: %w", err)
	}
	return nil
}

// UpdateAssessment writes every column of an existing assessment
func (db *DB) UpdateAssessment(ctx context.Context, a *Assessment) error {
	questions, settings, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	result, err := db.q.Exec(ctx,
		`UPDATE assessments
		 SET job_id = $2, title = $3, description = $4, questions = $5, settings = $6, updated_at = $7
		 WHERE id = $1`,
		a.ID, a.JobID, a.Title, a.Description, questions, settings, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", asUniqueViolation(err, strconv.FormatInt(a.JobID, 10)))
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Entity: EntityAssessment, ID: a.ID}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Assessment Response Methods
// -----------------------------------------------------------------------------

// InsertAssessmentResponse stores a submission and sets its ID
func (db *DB) InsertAssessmentResponse(ctx context.Context, r *AssessmentResponse) error {
	responses := r.Responses
	if responses == nil {
		responses = map[string]any{}
	}
	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}

	err = db.q.QueryRow(ctx,
		`INSERT INTO assessment_responses (assessment_id, candidate_id, responses, submitted_at, score)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		r.AssessmentID, r.CandidateID, responsesJSON, r.SubmittedAt, r.Score,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to insert assessment response: %w", err)
	}
	return nil
}

// ListAssessmentResponses returns the submissions for an assessment in insertion order
func (db *DB) ListAssessmentResponses(ctx context.Context, assessmentID int64) ([]AssessmentResponse, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, assessment_id, candidate_id, responses, submitted_at, score
		 FROM assessment_responses WHERE assessment_id = $1 ORDER BY id`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment responses: %w", err)
	}
	defer rows.Close()

	var out []AssessmentResponse
	for rows.Next() {
		var r AssessmentResponse
		var responsesJSON []byte
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.CandidateID, &responsesJSON, &r.SubmittedAt, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan assessment response: %w", err)
		}
		r.Responses = map[string]any{}
		if responsesJSON != nil {
			if err := json.Unmarshal(responsesJSON, &r.Responses); err != nil {
				return nil, fmt.Errorf("failed to parse responses %d: %w", r.ID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
