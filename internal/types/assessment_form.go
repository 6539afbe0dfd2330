package types

import (
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/jonathan/talentflow/internal/db"
)

const msgRequired = "This question is required"

var questionTypeLabels = map[string]string{
	db.QuestionText:     "Short Text",
	db.QuestionTextarea: "Long Text",
	db.QuestionNumber:   "Number",
	db.QuestionSingle:   "Single Choice",
	db.QuestionMultiple: "Multiple Choice",
	db.QuestionFile:     "File Upload",
}

// QuestionTypeLabel returns the display name of a question type
func QuestionTypeLabel(t string) string {
	if l, ok := questionTypeLabels[t]; ok {
		return l
	}
	return t
}

// isEmptyAnswer reports whether v counts as "not answered"
func isEmptyAnswer(v any) bool {
	switch a := v.(type) {
	case nil:
		return true
	case string:
		return a == ""
	case []any:
		return len(a) == 0
	case []string:
		return len(a) == 0
	}
	return false
}

// ValidateAssessmentResponse checks responses against the questions and returns
// a message per failing question id. Required questions must be answered;
// answered questions must respect their options, range and length limits.
func ValidateAssessmentResponse(questions []db.Question, responses map[string]any) map[int]string {
	errs := map[int]string{}
	for _, q := range questions {
		v := responses[strconv.Itoa(q.ID)]
		if isEmptyAnswer(v) {
			if q.Required {
				errs[q.ID] = msgRequired
			}
			continue
		}
		if msg := checkAnswer(q, v); msg != "" {
			errs[q.ID] = msg
		}
	}
	return errs
}

func checkAnswer(q db.Question, v any) string {
	switch q.Type {
	case db.QuestionText, db.QuestionTextarea:
		s, ok := v.(string)
		if !ok {
			return "Answer must be text"
		}
		if q.MaxLength != nil && utf8.RuneCountInString(s) > *q.MaxLength {
			return fmt.Sprintf("Answer must be at most %d characters", *q.MaxLength)
		}

	case db.QuestionNumber:
		n, ok := v.(float64)
		if !ok {
			return "Answer must be a number"
		}
		if (q.Min != nil && n < *q.Min) || (q.Max != nil && n > *q.Max) {
			return fmt.Sprintf("Answer must be between %s and %s", bound(q.Min, "-inf"), bound(q.Max, "inf"))
		}

	case db.QuestionSingle:
		s, ok := v.(string)
		if !ok || !slices.Contains(q.Options, s) {
			return "Choose one of the listed options"
		}

	case db.QuestionMultiple:
		items, ok := v.([]any)
		if !ok {
			return "Choose one or more of the listed options"
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok || !slices.Contains(q.Options, s) {
				return "Choose one or more of the listed options"
			}
		}
	}
	return ""
}

func bound(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
