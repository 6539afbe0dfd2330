package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonathan/talentflow/internal/db"
)

const assessmentColumns = `id, job_id, title, description, questions, settings, created_at, updated_at`

func scanAssessment(row rowScanner) (*db.Assessment, error) {
	var a db.Assessment
	var questions, settings, createdAt, updatedAt string
	err := row.Scan(&a.ID, &a.JobID, &a.Title, &a.Description, &questions, &settings,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.Questions = []db.Question{}
	if err := unmarshalJSON(questions, &a.Questions, fmt.Sprintf("questions for assessment %d", a.ID)); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(settings, &a.Settings, fmt.Sprintf("settings for assessment %d", a.ID)); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// assessmentJSON encodes the questions and settings columns
func assessmentJSON(a *db.Assessment) (questions, settings string, err error) {
	if questions, err = marshalJSON(nonNil(a.Questions), "questions"); err != nil {
		return "", "", err
	}
	if settings, err = marshalJSON(a.Settings, "settings"); err != nil {
		return "", "", err
	}
	return questions, settings, nil
}

func (s *Store) getAssessmentWhere(ctx context.Context, where string, arg int64) (*db.Assessment, error) {
	a, err := scanAssessment(s.q.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// GetAssessment retrieves an assessment by its ID
func (s *Store) GetAssessment(ctx context.Context, id int64) (*db.Assessment, error) {
	return s.getAssessmentWhere(ctx, `id = ?`, id)
}

// GetAssessmentByJobID retrieves the assessment attached to a job
func (s *Store) GetAssessmentByJobID(ctx context.Context, jobID int64) (*db.Assessment, error) {
	return s.getAssessmentWhere(ctx, `job_id = ?`, jobID)
}

// InsertAssessment inserts an assessment and sets its ID
func (s *Store) InsertAssessment(ctx context.Context, a *db.Assessment) error {
	questions, settings, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO assessments (job_id, title, description, questions, settings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.JobID, a.Title, a.Description, questions, settings, formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", asUniqueViolation(err, jobIDValue(a.JobID)))
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// InsertAssessments inserts assessments as one unit and sets their IDs
func (s *Store) InsertAssessments(ctx context.Context, as []*db.Assessment) error {
	return s.InTx(ctx, func(tx db.Store) error {
		for _, a := range as {
			if err := tx.InsertAssessment(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateAssessment writes every column of an existing assessment except created_at
func (s *Store) UpdateAssessment(ctx context.Context, a *db.Assessment) error {
	questions, settings, err := assessmentJSON(a)
	if err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx,
		`UPDATE assessments
		 SET job_id = ?, title = ?, description = ?, questions = ?, settings = ?, updated_at = ?
		 WHERE id = ?`,
		a.JobID, a.Title, a.Description, questions, settings, formatTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", asUniqueViolation(err, jobIDValue(a.JobID)))
	}
	missing, err := notFound(res)
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}
	if missing {
		return &db.ErrNotFound{Entity: db.EntityAssessment, ID: a.ID}
	}
	return nil
}

// InsertAssessmentResponse stores a submission and sets its ID
func (s *Store) InsertAssessmentResponse(ctx context.Context, r *db.AssessmentResponse) error {
	responses := r.Responses
	if responses == nil {
		responses = map[string]any{}
	}
	encoded, err := marshalJSON(responses, "responses")
	if err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO assessment_responses (assessment_id, candidate_id, responses, submitted_at, score)
		 VALUES (?, ?, ?, ?, ?)`,
		r.AssessmentID, r.CandidateID, encoded, formatTime(r.SubmittedAt), r.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment response: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to insert assessment response: %w", err)
	}
	return nil
}

// ListAssessmentResponses returns the submissions for an assessment in insertion order
func (s *Store) ListAssessmentResponses(ctx context.Context, assessmentID int64) ([]db.AssessmentResponse, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, assessment_id, candidate_id, responses, submitted_at, score
		 FROM assessment_responses WHERE assessment_id = ? ORDER BY id`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment responses: %w", err)
	}
	defer rows.Close()

	var out []db.AssessmentResponse
	for rows.Next() {
		var r db.AssessmentResponse
		var responses, submittedAt string
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.CandidateID, &responses, &submittedAt, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan assessment response: %w", err)
		}
		r.Responses = map[string]any{}
		if err := unmarshalJSON(responses, &r.Responses, fmt.Sprintf("responses %d", r.ID)); err != nil {
			return nil, err
		}
		if r.SubmittedAt, err = parseTime(submittedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
