package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cineverse/internal/domain/entity"
	"cineverse/internal/repository"
)

type AwardRepo struct{ db *sql.DB }

func NewAwardRepo(db *sql.DB) repository.AwardRepository {
	return &AwardRepo{db: db}
}

func (repo *AwardRepo) ReplaceCeremony(ctx context.Context, ceremony string, records []entity.FilmAwardRecord) (err error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceCeremony: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM award_films WHERE ceremony = $1`, ceremony); err != nil {
		return fmt.Errorf("ReplaceCeremony: delete: %w", err)
	}

	const insert = `
INSERT INTO award_films (ceremony, external_id, title, poster_url, overview, release_date, award_year, vote_average, winner)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("ReplaceCeremony: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err = stmt.ExecContext(ctx,
			ceremony, nullInt64(r.ExternalID), r.Title, r.PosterURL, r.Overview, r.ReleaseDate,
			nullIntPtr(r.AwardYear), r.VoteAverage, nullBoolPtr(r.Winner.Ptr()),
		); err != nil {
			return fmt.Errorf("ReplaceCeremony: insert %q: %w", r.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceCeremony: commit: %w", err)
	}
	return nil
}

func (repo *AwardRepo) ListEligible(ctx context.Context, ceremony string) ([]entity.FilmAwardRecord, error) {
	const query = `
SELECT id, ceremony, external_id, title, poster_url, overview, release_date, award_year, vote_average, winner
FROM award_films
WHERE ceremony = $1
  AND (winner IS NOT NULL OR award_year IS NOT NULL)
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, ceremony)
	if err != nil {
		return nil, fmt.Errorf("ListEligible: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]entity.FilmAwardRecord, 0, 64)
	for rows.Next() {
		var (
			r          entity.FilmAwardRecord
			externalID sql.NullInt64
			awardYear  sql.NullInt64
			winner     sql.NullBool
		)
		if err := rows.Scan(
			&r.ID, &r.Ceremony, &externalID, &r.Title, &r.PosterURL, &r.Overview, &r.ReleaseDate,
			&awardYear, &r.VoteAverage, &winner,
		); err != nil {
			return nil, fmt.Errorf("ListEligible: %w", err)
		}
		r.ExternalID = externalID.Int64
		if awardYear.Valid {
			y := int(awardYear.Int64)
			r.AwardYear = &y
		}
		if winner.Valid {
			r.Winner = entity.WinnerFlagOf(&winner.Bool)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListEligible: %w", err)
	}
	return records, nil
}

func (repo *AwardRepo) Ceremonies(ctx context.Context) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT DISTINCT ceremony FROM award_films ORDER BY ceremony ASC`)
	if err != nil {
		return nil, fmt.Errorf("Ceremonies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("Ceremonies: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBoolPtr(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
