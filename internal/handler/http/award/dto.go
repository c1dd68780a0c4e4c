package award

import "cineverse/internal/domain/entity"

// GroupedDTO is the body of GET /awards/{ceremony}.
type GroupedDTO struct {
	Ceremony string                `json:"ceremony"`
	Periods  []entity.PeriodBucket `json:"periods"`
}

// CeremoniesDTO is the body of GET /awards.
type CeremoniesDTO struct {
	Ceremonies []string `json:"ceremonies"`
}
