package collection

import (
	"time"

	"cineverse/internal/domain/entity"
)

// SnapshotDTO is the body of GET /collections/{name}.
type SnapshotDTO struct {
	Collection string                 `json:"collection"`
	RunID      string                 `json:"run_id"`
	CreatedAt  time.Time              `json:"created_at"`
	Subjects   []entity.SubjectResult `json:"subjects"`
}

// StatsDTO is the body of GET /collections/{name}/stats.
type StatsDTO struct {
	Collection string                 `json:"collection"`
	RunID      string                 `json:"run_id"`
	CreatedAt  time.Time              `json:"created_at"`
	Stats      []entity.AggregateStat `json:"stats"`
}
