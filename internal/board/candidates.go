package board

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/talentflow/internal/db"
)

const (
	defaultCandidatesPageSize = 20

	// StageAll disables the stage filter
	StageAll = "all"

	systemActor = "System"
	hrActor     = "HR User"
)

// CandidateFilters narrows ListCandidates. Zero values mean "no filter" and default paging.
type CandidateFilters struct {
	Search   string // name or email, case-insensitive
	Stage    string
	JobID    int64
	Page     int
	PageSize int
}

func (f CandidateFilters) match(c *db.Candidate) bool {
	if f.Stage != "" && f.Stage != StageAll && c.Stage != f.Stage {
		return false
	}
	if f.JobID != 0 && c.JobID != f.JobID {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q)
}

// ListCandidates returns the candidates matching f in insertion order
func (e *Engine) ListCandidates(ctx context.Context, f CandidateFilters) (*Page[db.Candidate], error) {
	return call(ctx, e, "ListCandidates", OpRead, func(ctx context.Context) (*Page[db.Candidate], error) {
		candidates, err := e.store.ListCandidates(ctx)
		if err != nil {
			return nil, err
		}
		candidates = slices.DeleteFunc(candidates, func(c db.Candidate) bool { return !f.match(&c) })
		return paginate(candidates, f.Page, f.PageSize, defaultCandidatesPageSize), nil
	})
}

// GetCandidate returns a single candidate
func (e *Engine) GetCandidate(ctx context.Context, id int64) (*db.Candidate, error) {
	return call(ctx, e, "GetCandidate", OpRead, func(ctx context.Context) (*db.Candidate, error) {
		c, err := e.store.GetCandidate(ctx, id)
		if err != nil {
			return nil, err
		}
		return notFound(c, db.EntityCandidate, id)
	})
}

// UpdateCandidate merges patch into the candidate. A stage change also records
// a timeline event in the same transaction.
func (e *Engine) UpdateCandidate(ctx context.Context, id int64, patch db.CandidatePatch) (*db.Candidate, error) {
	return call(ctx, e, "UpdateCandidate", OpWrite, func(ctx context.Context) (*db.Candidate, error) {
		var out *db.Candidate
		err := e.store.InTx(ctx, func(tx db.Store) error {
			c, err := tx.GetCandidate(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return &db.ErrNotFound{Entity: db.EntityCandidate, ID: id}
			}

			now := e.now()
			patch.Apply(c)
			c.UpdatedAt = now
			if err := tx.UpdateCandidate(ctx, c); err != nil {
				return err
			}

			if stage, ok := patch.StageChange(); ok {
				ev := &db.TimelineEvent{
					CandidateID: id,
					Stage:       stage,
					Note:        fmt.Sprintf("Candidate moved to %s stage", stage),
					CreatedAt:   now,
					UpdatedBy:   systemActor,
				}
				if err := tx.InsertTimelineEvent(ctx, ev); err != nil {
					return err
				}
			}
			out = c
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

// GetCandidateTimeline returns the candidate's stage history, most recent first
func (e *Engine) GetCandidateTimeline(ctx context.Context, candidateID int64) ([]db.TimelineEvent, error) {
	return call(ctx, e, "GetCandidateTimeline", OpRead, func(ctx context.Context) ([]db.TimelineEvent, error) {
		events, err := e.store.ListTimelineEvents(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		if events == nil {
			events = []db.TimelineEvent{}
		}
		slices.SortStableFunc(events, func(a, b db.TimelineEvent) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		slices.Reverse(events)
		return events, nil
	})
}

// AddCandidateNote appends a note and returns the candidate's full note list
func (e *Engine) AddCandidateNote(ctx context.Context, candidateID int64, text string) ([]db.Note, error) {
	return call(ctx, e, "AddCandidateNote", OpWrite, func(ctx context.Context) ([]db.Note, error) {
		var notes []db.Note
		err := e.store.InTx(ctx, func(tx db.Store) error {
			c, err := tx.GetCandidate(ctx, candidateID)
			if err != nil {
				return err
			}
			if c == nil {
				return &db.ErrNotFound{Entity: db.EntityCandidate, ID: candidateID}
			}

			now := e.now()
			c.Notes = append(c.Notes, db.Note{
				ID:        db.NextNoteID(c.Notes, now),
				Text:      text,
				CreatedAt: now,
				CreatedBy: hrActor,
			})
			if err := tx.UpdateCandidate(ctx, c); err != nil {
				return err
			}
			notes = c.Notes
			return nil
		})
		if err != nil {
			return nil, err
		}
		return notes, nil
	})
}
