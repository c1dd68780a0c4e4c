package repository

import (
	"context"

	"cineverse/internal/domain/entity"
)

// AwardRepository stores the resolved films of award ceremonies.
type AwardRepository interface {
	// ReplaceCeremony atomically replaces every record of the ceremony.
	// Records are stored in slice order, which ListEligible preserves.
	ReplaceCeremony(ctx context.Context, ceremony string, records []entity.FilmAwardRecord) error

	// ListEligible returns the records of a ceremony that carry a winner
	// flag or an award year, in insertion order.
	ListEligible(ctx context.Context, ceremony string) ([]entity.FilmAwardRecord, error)

	// Ceremonies lists the ceremonies that have at least one record.
	Ceremonies(ctx context.Context) ([]string, error)
}
