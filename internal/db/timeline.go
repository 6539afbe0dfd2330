package db

import (
	"context"
	"fmt"
)

// -----------------------------------------------------------------------------
// Timeline Methods
// -----------------------------------------------------------------------------

// InsertTimelineEvent appends a timeline row and sets its ID
func (db *DB) InsertTimelineEvent(ctx context.Context, ev *TimelineEvent) error {
	err := db.q.QueryRow(ctx,
		`INSERT INTO candidate_timeline (candidate_id, stage, note, created_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		ev.CandidateID, ev.Stage, ev.Note, ev.CreatedAt, ev.UpdatedBy,
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("failed to insert timeline event: %w", err)
	}
	return nil
}

// ListTimelineEvents returns a candidate's timeline rows in insertion order
func (db *DB) ListTimelineEvents(ctx context.Context, candidateID int64) ([]TimelineEvent, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, candidate_id, stage, note, created_at, updated_by
		 FROM candidate_timeline WHERE candidate_id = $1 ORDER BY id`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	defer rows.Close()

	var events []TimelineEvent
	for rows.Next() {
		var ev TimelineEvent
		if err := rows.Scan(&ev.ID, &ev.CandidateID, &ev.Stage, &ev.Note, &ev.CreatedAt, &ev.UpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan timeline event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
