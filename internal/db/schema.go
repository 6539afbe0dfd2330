package db

import (
	"context"
	"fmt"
)

// schema creates the board tables. Statements are idempotent so Migrate can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		slug         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'active',
		tags         TEXT[] NOT NULL DEFAULT '{}',
		requirements TEXT[] NOT NULL DEFAULT '{}',
		sort_order   INTEGER NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT jobs_slug_key UNIQUE (slug)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_sort_order ON jobs (sort_order)`,

	`CREATE TABLE IF NOT EXISTS candidates (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		stage      TEXT NOT NULL,
		job_id     BIGINT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		notes      JSONB NOT NULL DEFAULT '[]',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_job_id ON candidates (job_id)`,
	`CREATE INDEX IF NOT EXISTS idx_candidates_stage ON candidates (stage)`,

	`CREATE TABLE IF NOT EXISTS candidate_timeline (
		id           BIGSERIAL PRIMARY KEY,
		candidate_id BIGINT NOT NULL,
		stage        TEXT NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_by   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidate_timeline_candidate_id ON candidate_timeline (candidate_id)`,

	`CREATE TABLE IF NOT EXISTS assessments (
		id          BIGSERIAL PRIMARY KEY,
		job_id      BIGINT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		questions   JSONB NOT NULL DEFAULT '[]',
		settings    JSONB NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT assessments_job_id_key UNIQUE (job_id)
	)`,

	`CREATE TABLE IF NOT EXISTS assessment_responses (
		id            BIGSERIAL PRIMARY KEY,
		assessment_id BIGINT NOT NULL,
		candidate_id  BIGINT NOT NULL,
		responses     JSONB NOT NULL DEFAULT '{}',
		submitted_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		score         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessment_responses_assessment_id ON assessment_responses (assessment_id)`,
}

// Migrate creates the board tables and indexes if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
