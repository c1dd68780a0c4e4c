package db

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS award_films (
    id           BIGSERIAL PRIMARY KEY,
    ceremony     TEXT NOT NULL,
    external_id  BIGINT,
    title        TEXT NOT NULL,
    poster_url   TEXT NOT NULL DEFAULT '',
    overview     TEXT NOT NULL DEFAULT '',
    release_date TEXT NOT NULL DEFAULT '',
    award_year   INTEGER,
    vote_average DOUBLE PRECISION NOT NULL DEFAULT 0,
    winner       BOOLEAN,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_award_films_ceremony ON award_films(ceremony, id)`,
	`CREATE TABLE IF NOT EXISTS enrichment_snapshots (
    id          BIGSERIAL PRIMARY KEY,
    collection  TEXT NOT NULL,
    run_id      UUID NOT NULL UNIQUE,
    subjects    JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_enrichment_snapshots_latest ON enrichment_snapshots(collection, created_at DESC)`,
}

// MigrateUp creates the tables and indexes. It is idempotent.
func MigrateUp(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops everything MigrateUp created.
func MigrateDown(db *sql.DB) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS enrichment_snapshots`,
		`DROP TABLE IF EXISTS award_films`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
