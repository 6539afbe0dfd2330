package db

import (
	"slices"
	"time"
)

// Question types
const (
	QuestionText     = "text"
	QuestionTextarea = "textarea"
	QuestionNumber   = "number"
	QuestionSingle   = "single"
	QuestionMultiple = "multiple"
	QuestionFile     = "file"
)

var questionTypes = []string{QuestionText, QuestionTextarea, QuestionNumber, QuestionSingle, QuestionMultiple, QuestionFile}

// IsValidQuestionType reports whether t is a supported question type
func IsValidQuestionType(t string) bool {
	return slices.Contains(questionTypes, t)
}

// Assessment is the question form attached to a job (at most one per job)
type Assessment struct {
	ID          int64              `json:"id"`
	JobID       int64              `json:"jobId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []Question         `json:"questions"`
	Settings    AssessmentSettings `json:"settings"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// AssessmentSettings holds form-wide settings
type AssessmentSettings struct {
	TimeLimit    int `json:"timeLimit"` // minutes
	PassingScore int `json:"passingScore"`
}

// Question is a single form field. Options apply to single/multiple,
// Min/Max to number and MaxLength to text/textarea.
type Question struct {
	ID        int      `json:"id"`
	Type      string   `json:"type"`
	Text      string   `json:"text"`
	Required  bool     `json:"required"`
	Options   []string `json:"options,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

// AssessmentInput carries the editable parts of an assessment
type AssessmentInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []Question         `json:"questions"`
	Settings    AssessmentSettings `json:"settings"`
}

// AssessmentResponse is a candidate's submitted answers
type AssessmentResponse struct {
	ID           int64          `json:"id"`
	AssessmentID int64          `json:"assessmentId"`
	CandidateID  int64          `json:"candidateId"`
	Responses    map[string]any `json:"responses"` // question id -> answer
	SubmittedAt  time.Time      `json:"submittedAt"`
	Score        int            `json:"score"`
}

// Clone returns a copy of the assessment that shares no slices with the original
func (a Assessment) Clone() Assessment {
	a.Questions = cloneQuestions(a.Questions)
	return a
}

// Clone returns a copy of the response whose answers share nothing with the original
func (r AssessmentResponse) Clone() AssessmentResponse {
	answers := make(map[string]any, len(r.Responses))
	for k, v := range r.Responses {
		answers[k] = cloneAnswer(v)
	}
	r.Responses = answers
	return r
}

// cloneAnswer copies the slice and map shapes JSON decoding and the CLI produce
func cloneAnswer(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneAnswer(e)
		}
		return out
	case []string:
		return slices.Clone(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneAnswer(e)
		}
		return out
	default:
		return v
	}
}

func cloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		if q.Options != nil {
			q.Options = slices.Clone(q.Options)
		}
		q.Min = clonePtr(q.Min)
		q.Max = clonePtr(q.Max)
		q.MaxLength = clonePtr(q.MaxLength)
		out[i] = q
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
