// Package stats reduces the rating samples collected during enrichment into
// per-subject means.
package stats

import "cineverse/internal/domain/entity"

// Aggregate computes the four means for one subject.
// The mean over zero samples is 0.
func Aggregate(name string, s entity.Samples) entity.AggregateStat {
	return entity.AggregateStat{
		Name:           name,
		IMDb:           mean(s.IMDb),
		RottenTomatoes: mean(s.RottenTomatoes),
		Metacritic:     mean(s.Metacritic),
		Runtime:        mean(s.Runtime),
		Samples:        s.Len(),
	}
}

// AggregateAll aggregates every subject in samples.
func AggregateAll(samples map[string]entity.Samples) map[string]entity.AggregateStat {
	out := make(map[string]entity.AggregateStat, len(samples))
	for name, s := range samples {
		out[name] = Aggregate(name, s)
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
