package entity

// Samples accumulates the numeric rating samples of one subject.
// Every resolved movie contributes exactly one value to each list, using 0
// for values the providers did not report.
type Samples struct {
	IMDb           []float64
	RottenTomatoes []float64
	Metacritic     []float64
	Runtime        []float64
}

// Add appends the four samples of a movie record.
func (s *Samples) Add(m MovieRecord) {
	s.IMDb = append(s.IMDb, m.Ratings.IMDb)
	s.RottenTomatoes = append(s.RottenTomatoes, m.Ratings.RottenTomatoes)
	s.Metacritic = append(s.Metacritic, m.Ratings.Metacritic)
	s.Runtime = append(s.Runtime, float64(m.RuntimeMinutes))
}

// Len returns the number of movies sampled.
func (s Samples) Len() int {
	return len(s.IMDb)
}

// AggregateStat holds the per-subject means of the four metrics.
type AggregateStat struct {
	Name           string  `json:"name"`
	IMDb           float64 `json:"imdb"`
	RottenTomatoes float64 `json:"rotten_tomatoes"`
	Metacritic     float64 `json:"metacritic"`
	Runtime        float64 `json:"runtime"`
	Samples        int     `json:"samples"`
}
