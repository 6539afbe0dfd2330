package board

import (
	"context"
	"math"

	"github.com/jonathan/talentflow/internal/db"
)

// GetAssessment returns the job's assessment, or nil when it has none
func (e *Engine) GetAssessment(ctx context.Context, jobID int64) (*db.Assessment, error) {
	return call(ctx, e, "GetAssessment", OpRead, func(ctx context.Context) (*db.Assessment, error) {
		return e.store.GetAssessmentByJobID(ctx, jobID)
	})
}

// SaveAssessment creates the job's assessment or replaces the existing one's content
func (e *Engine) SaveAssessment(ctx context.Context, jobID int64, in db.AssessmentInput) (*db.Assessment, error) {
	return call(ctx, e, "SaveAssessment", OpWrite, func(ctx context.Context) (*db.Assessment, error) {
		var out *db.Assessment
		err := e.store.InTx(ctx, func(tx db.Store) error {
			existing, err := tx.GetAssessmentByJobID(ctx, jobID)
			if err != nil {
				return err
			}

			now := e.now()
			a := existing
			if a == nil {
				a = &db.Assessment{JobID: jobID, CreatedAt: now}
			}
			a.Title = in.Title
			a.Description = in.Description
			a.Questions = in.Questions
			a.Settings = in.Settings
			a.UpdatedAt = now
			*a = a.Clone()

			if existing == nil {
				err = tx.InsertAssessment(ctx, a)
			} else {
				err = tx.UpdateAssessment(ctx, a)
			}
			if err != nil {
				return err
			}
			out = a
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// SubmitAssessment stores a candidate's answers with their completion score
func (e *Engine) SubmitAssessment(ctx context.Context, assessmentID, candidateID int64, responses map[string]any) (*db.AssessmentResponse, error) {
	return call(ctx, e, "SubmitAssessment", OpWrite, func(ctx context.Context) (*db.AssessmentResponse, error) {
		a, err := e.store.GetAssessment(ctx, assessmentID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, &db.ErrNotFound{Entity: db.EntityAssessment, ID: assessmentID}
		}

		r := &db.AssessmentResponse{
			AssessmentID: assessmentID,
			CandidateID:  candidateID,
			Responses:    responses,
			SubmittedAt:  e.now(),
			Score:        Score(responses),
		}
		*r = r.Clone()
		if err := e.store.InsertAssessmentResponse(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	})
}

// ListAssessmentResponses returns the submissions for an assessment in submission order
func (e *Engine) ListAssessmentResponses(ctx context.Context, assessmentID int64) ([]db.AssessmentResponse, error) {
	return call(ctx, e, "ListAssessmentResponses", OpRead, func(ctx context.Context) ([]db.AssessmentResponse, error) {
		out, err := e.store.ListAssessmentResponses(ctx, assessmentID)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []db.AssessmentResponse{}
		}
		return out, nil
	})
}

// Score is the share of answered responses as a percentage rounded to the
// nearest integer. An answer counts unless it is nil or the empty string.
func Score(responses map[string]any) int {
	if len(responses) == 0 {
		return 0
	}
	answered := 0
	for _, v := range responses {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		answered++
	}
	return int(math.Round(100 * float64(answered) / float64(len(responses))))
}
