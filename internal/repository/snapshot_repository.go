package repository

import (
	"context"

	"cineverse/internal/domain/entity"
)

// SnapshotRepository persists enrichment run results per collection.
type SnapshotRepository interface {
	// Save inserts the snapshot and fills in its ID and CreatedAt.
	Save(ctx context.Context, snapshot *entity.Snapshot) error

	// Latest returns the most recent snapshot of a collection.
	// It returns an error wrapping entity.ErrNotFound when there is none.
	Latest(ctx context.Context, collection string) (*entity.Snapshot, error)
}
