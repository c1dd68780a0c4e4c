package entity

import (
	"encoding/json"
	"strconv"
)

// UnknownPeriod is the year and decade key of records without a usable date.
const UnknownPeriod = "Unknown"

// WinnerFlag is the tri-state explicit winner marker of an award record.
type WinnerFlag int8

const (
	// WinnerAbsent means the source did not say whether the film won.
	WinnerAbsent WinnerFlag = iota
	// WinnerTrue marks an explicit winner.
	WinnerTrue
	// WinnerFalse marks an explicit nominee.
	WinnerFalse
)

// WinnerFlagOf converts a nullable boolean into a WinnerFlag.
func WinnerFlagOf(b *bool) WinnerFlag {
	switch {
	case b == nil:
		return WinnerAbsent
	case *b:
		return WinnerTrue
	default:
		return WinnerFalse
	}
}

// Ptr converts the flag back into a nullable boolean.
func (f WinnerFlag) Ptr() *bool {
	switch f {
	case WinnerTrue:
		v := true
		return &v
	case WinnerFalse:
		v := false
		return &v
	default:
		return nil
	}
}

func (f WinnerFlag) String() string {
	switch f {
	case WinnerTrue:
		return "true"
	case WinnerFalse:
		return "false"
	default:
		return "absent"
	}
}

// MarshalJSON encodes the flag as true, false or null.
func (f WinnerFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Ptr())
}

// UnmarshalJSON decodes true, false or null.
func (f *WinnerFlag) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = WinnerFlagOf(b)
	return nil
}

// FilmAwardRecord is one film's candidacy in an award ceremony year.
type FilmAwardRecord struct {
	ID          int64      `json:"id"`
	Ceremony    string     `json:"ceremony"`
	ExternalID  int64      `json:"external_id,omitempty"`
	Title       string     `json:"title"`
	PosterURL   string     `json:"poster_url,omitempty"`
	Overview    string     `json:"overview,omitempty"`
	ReleaseDate string     `json:"release_date,omitempty"`
	AwardYear   *int       `json:"award_year,omitempty"`
	VoteAverage float64    `json:"vote_average"`
	Winner      WinnerFlag `json:"is_winner"`
}

// Year derives the bucket year: the explicit award year when present,
// else the first four characters of the release date, else "Unknown".
func (r FilmAwardRecord) Year() string {
	if r.AwardYear != nil {
		return strconv.Itoa(*r.AwardYear)
	}
	if r.ReleaseDate != "" {
		if len(r.ReleaseDate) > 4 {
			return r.ReleaseDate[:4]
		}
		return r.ReleaseDate
	}
	return UnknownPeriod
}

// DecadeOf maps a year string to its decade key ("1997" -> "1990s").
// Years that do not parse as integers map to "Unknown".
func DecadeOf(year string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return UnknownPeriod
	}
	d := y / 10 * 10
	if y < 0 && y%10 != 0 {
		d -= 10
	}
	return strconv.Itoa(d) + "s"
}

// YearBucket holds the elected winner and the remaining nominees of one year.
// The winner is never also present in Nominees.
type YearBucket struct {
	Year     string            `json:"year"`
	Winner   *FilmAwardRecord  `json:"winner"`
	Nominees []FilmAwardRecord `json:"nominees"`
}

// Len returns the number of records owned by the bucket.
func (b YearBucket) Len() int {
	n := len(b.Nominees)
	if b.Winner != nil {
		n++
	}
	return n
}

// PeriodBucket groups year buckets under one decade key.
type PeriodBucket struct {
	Decade string       `json:"decade"`
	Years  []YearBucket `json:"years"`
}

// AwardEntry is one line of an award catalog before provider resolution.
type AwardEntry struct {
	Title  string `json:"title" yaml:"title"`
	Year   int    `json:"year" yaml:"year"`
	Winner *bool  `json:"winner,omitempty" yaml:"winner"`
}
