package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cineverse/internal/domain/entity"
	"cineverse/internal/repository"
)

type SnapshotRepo struct{ db *sql.DB }

func NewSnapshotRepo(db *sql.DB) repository.SnapshotRepository {
	return &SnapshotRepo{db: db}
}

func (repo *SnapshotRepo) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	subjects, err := json.Marshal(snapshot.Subjects)
	if err != nil {
		return fmt.Errorf("Save: marshal subjects: %w", err)
	}

	const query = `
INSERT INTO enrichment_snapshots (collection, run_id, subjects)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	if err := repo.db.QueryRowContext(ctx, query, snapshot.Collection, snapshot.RunID, subjects).
		Scan(&snapshot.ID, &snapshot.CreatedAt); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

func (repo *SnapshotRepo) Latest(ctx context.Context, collection string) (*entity.Snapshot, error) {
	const query = `
SELECT id, collection, run_id, subjects, created_at
FROM enrichment_snapshots
WHERE collection = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`
	var (
		s        entity.Snapshot
		subjects []byte
	)
	err := repo.db.QueryRowContext(ctx, query, collection).
		Scan(&s.ID, &s.Collection, &s.RunID, &subjects, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("Latest %q: %w", collection, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Latest: %w", err)
	}
	if err := json.Unmarshal(subjects, &s.Subjects); err != nil {
		return nil, fmt.Errorf("Latest: unmarshal subjects: %w", err)
	}
	return &s, nil
}
