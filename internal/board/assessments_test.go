package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/db"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]any
		want      int
	}{
		{"two of three", map[string]any{"1": "a", "2": "", "3": "c"}, 67},
		{"all answered", map[string]any{"1": "a", "2": 4.0}, 100},
		{"nil counts as unanswered", map[string]any{"1": nil, "2": "x"}, 50},
		{"empty slice counts as answered", map[string]any{"1": []any{}}, 100},
		{"zero counts as answered", map[string]any{"1": 0.0, "2": false}, 100},
		{"one of three rounds down", map[string]any{"1": "a", "2": "", "3": nil}, 33},
		{"empty map", map[string]any{}, 0},
		{"nil map", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.responses))
		})
	}
}

func sampleInput(title string) db.AssessmentInput {
	return db.AssessmentInput{
		Title: title,
		Questions: []db.Question{
			{ID: 1, Type: db.QuestionSingle, Text: "Pick one", Required: true, Options: []string{"a", "b"}},
			{ID: 2, Type: db.QuestionText, Text: "Explain"},
		},
		Settings: db.AssessmentSettings{TimeLimit: 30, PassingScore: 60},
	}
}

func TestSaveAssessment_InsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	none, err := e.GetAssessment(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := e.SaveAssessment(ctx, 7, sampleInput("First"))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, int64(7), first.JobID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := e.SaveAssessment(ctx, 7, sampleInput("Second"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := e.GetAssessment(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Len(t, got.Questions, 2)
	assert.Equal(t, 60, got.Settings.PassingScore)
}

func TestSaveAssessment_NilQuestions(t *testing.T) {
	e, _ := newTestEngine(t)
	a, err := e.SaveAssessment(context.Background(), 1, db.AssessmentInput{Title: "Empty"})
	require.NoError(t, err)
	assert.NotNil(t, a.Questions)
}

func TestSubmitAssessment(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)
	a, err := e.SaveAssessment(ctx, 1, sampleInput("Quiz"))
	require.NoError(t, err)

	r, err := e.SubmitAssessment(ctx, a.ID, 42, map[string]any{"1": "a", "2": "", "3": "c"})
	require.NoError(t, err)
	assert.Equal(t, 67, r.Score)
	assert.Equal(t, int64(42), r.CandidateID)
	assert.NotZero(t, r.ID)

	list, err := e.ListAssessmentResponses(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)

	empty, err := e.ListAssessmentResponses(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = e.SubmitAssessment(ctx, 999, 42, map[string]any{})
	assert.True(t, db.IsNotFound(err))
}
