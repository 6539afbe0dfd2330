package db

import (
	"slices"
	"time"
)

// Candidate pipeline stages
const (
	StageApplied  = "applied"
	StageScreen   = "screen"
	StageTech     = "tech"
	StageOffer    = "offer"
	StageHired    = "hired"
	StageRejected = "rejected"
)

var stages = []string{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// Stages returns the pipeline stages in board order
func Stages() []string {
	return slices.Clone(stages)
}

// IsValidStage reports whether stage is one of the pipeline stages
func IsValidStage(stage string) bool {
	return slices.Contains(stages, stage)
}

// Candidate represents an applicant moving through a job's pipeline
type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Stage     string    `json:"stage"`
	JobID     int64     `json:"jobId"` // weak reference, not enforced
	Phone     string    `json:"phone"`
	AppliedAt time.Time `json:"appliedAt"`
	Notes     []Note    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is an append-only comment embedded in a candidate
type Note struct {
	ID        int64     `json:"id"` // Unix milliseconds at creation
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// TimelineEvent is an audit row written on every stage change
type TimelineEvent struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	Stage       string    `json:"stage"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedBy   string    `json:"updatedBy"`
}

// CandidatePatch holds the fields to merge into an existing candidate.
// Notes are not patchable; use the note-append operation.
type CandidatePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Stage *string `json:"stage,omitempty"`
	JobID *int64  `json:"jobId,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// StageChange returns the new stage carried by the patch, if any
func (p CandidatePatch) StageChange() (string, bool) {
	if p.Stage == nil || *p.Stage == "" {
		return "", false
	}
	return *p.Stage, true
}

// Apply merges the patch into c
func (p CandidatePatch) Apply(c *Candidate) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if stage, ok := p.StageChange(); ok {
		c.Stage = stage
	}
	if p.JobID != nil {
		c.JobID = *p.JobID
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
}

// Clone returns a copy of the candidate that shares no slices with the original
func (c Candidate) Clone() Candidate {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	c.Notes = notes
	return c
}

// NextNoteID returns a note id derived from now that is strictly greater than
// every id already in notes
func NextNoteID(notes []Note, now time.Time) int64 {
	id := now.UnixMilli()
	for _, n := range notes {
		if n.ID >= id {
			id = n.ID + 1
		}
	}
	return id
}
