package types

import (
	"strings"

	"github.com/jonathan/talentflow/internal/db"
)

// StageChange is the "move candidate" form
type StageChange struct {
	Stage string `json:"stage" validate:"required,oneof=applied screen tech offer hired rejected"`
}

// Validate checks that Stage is one of the pipeline stages
func (s *StageChange) Validate() error {
	return translate(validate.Struct(s), messages{
		"stage.required": "Stage is required",
		"stage.oneof":    "Stage must be one of: " + strings.Join(db.Stages(), ", "),
	})
}

// ToPatch converts the form into a candidate patch
func (s *StageChange) ToPatch() db.CandidatePatch {
	stage := s.Stage
	return db.CandidatePatch{Stage: &stage}
}

// NoteForm is the "add note" form
type NoteForm struct {
	Text string `json:"text" validate:"notblank,max=2000"`
}

// Validate checks that the note has text
func (n *NoteForm) Validate() error {
	return translate(validate.Struct(n), messages{
		"text.notblank": "Note text is required",
		"text.max":      "Note must be at most 2000 characters",
	})
}

var stageLabels = map[string]string{
	db.StageApplied:  "Applied",
	db.StageScreen:   "Screen",
	db.StageTech:     "Technical",
	db.StageOffer:    "Offer",
	db.StageHired:    "Hired",
	db.StageRejected: "Rejected",
}

var statusLabels = map[string]string{
	db.StatusActive:   "Active",
	db.StatusArchived: "Archived",
}

// StageLabel returns the display name of a stage, or the stage itself when unknown
func StageLabel(stage string) string {
	if l, ok := stageLabels[stage]; ok {
		return l
	}
	return stage
}

// StatusLabel returns the display name of a job status
func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}
