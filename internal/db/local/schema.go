package local

import (
	"context"
	"fmt"
)

// schema mirrors the PostgreSQL layout. Arrays and documents are JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	slug         TEXT NOT NULL UNIQUE,
	description  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'active',
	tags         TEXT NOT NULL DEFAULT '[]',
	requirements TEXT NOT NULL DEFAULT '[]',
	sort_order   INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_sort_order ON jobs (sort_order);

CREATE TABLE IF NOT EXISTS candidates (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	stage      TEXT NOT NULL,
	job_id     INTEGER NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	applied_at TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '[]',
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_job_id ON candidates (job_id);
CREATE INDEX IF NOT EXISTS idx_candidates_stage ON candidates (stage);

CREATE TABLE IF NOT EXISTS candidate_timeline (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id INTEGER NOT NULL,
	stage        TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_by   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_candidate_timeline_candidate_id ON candidate_timeline (candidate_id);

CREATE TABLE IF NOT EXISTS assessments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id      INTEGER NOT NULL UNIQUE,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	questions   TEXT NOT NULL DEFAULT '[]',
	settings    TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessment_responses (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	assessment_id INTEGER NOT NULL,
	candidate_id  INTEGER NOT NULL,
	responses     TEXT NOT NULL DEFAULT '{}',
	submitted_at  TEXT NOT NULL,
	score         INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_assessment_responses_assessment_id ON assessment_responses (assessment_id);
`

// Migrate creates the board tables and indexes if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
