package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema bootstraps all tables. Safe to run from api, worker and
// poller concurrently.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across binary startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS job_postings (
	id TEXT PRIMARY KEY,
	job_hash TEXT NOT NULL UNIQUE,
	company TEXT NOT NULL,
	title TEXT NOT NULL,
	location TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	is_admitted BOOLEAN NOT NULL,
	job_type TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	first_seen TIMESTAMPTZ NOT NULL,
	last_seen TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_job_postings_admitted_category ON job_postings(is_admitted, category);
CREATE INDEX IF NOT EXISTS idx_job_postings_first_seen ON job_postings(first_seen DESC);

CREATE TABLE IF NOT EXISTS resumes (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	mime_type TEXT NOT NULL,
	extracted_text TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	uploaded_at TIMESTAMPTZ NOT NULL,
	parsed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_resumes_owner ON resumes(owner_id);

CREATE TABLE IF NOT EXISTS resume_assessments (
	id TEXT PRIMARY KEY,
	resume_id TEXT NOT NULL REFERENCES resumes(id),
	owner_id TEXT NOT NULL,
	status TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0,
	strengths JSONB NOT NULL DEFAULT '[]'::jsonb,
	weaknesses JSONB NOT NULL DEFAULT '[]'::jsonb,
	industry_compatibility JSONB NOT NULL DEFAULT '{}'::jsonb,
	degraded BOOLEAN NOT NULL DEFAULT FALSE,
	tier TEXT NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	finalized_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_resume_assessments_owner_created ON resume_assessments(owner_id, created_at);
CREATE INDEX IF NOT EXISTS idx_resume_assessments_resume ON resume_assessments(resume_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
