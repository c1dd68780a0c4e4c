package awards_test

import (
	"context"
	"sort"
	"sync"

	"cineverse/internal/domain/entity"
)

// memAwardRepo is an in-memory AwardRepository.
type memAwardRepo struct {
	mu          sync.Mutex
	byCeremony  map[string][]entity.FilmAwardRecord
	replaceErrs []error
	replaces    int
	listErr     error
}

func newMemAwardRepo() *memAwardRepo {
	return &memAwardRepo{byCeremony: map[string][]entity.FilmAwardRecord{}}
}

func (r *memAwardRepo) ReplaceCeremony(_ context.Context, ceremony string, records []entity.FilmAwardRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	if len(r.replaceErrs) > 0 {
		err := r.replaceErrs[0]
		r.replaceErrs = r.replaceErrs[1:]
		if err != nil {
			return err
		}
	}
	stored := make([]entity.FilmAwardRecord, len(records))
	for i, rec := range records {
		rec.ID = int64(i + 1)
		stored[i] = rec
	}
	r.byCeremony[ceremony] = stored
	return nil
}

func (r *memAwardRepo) ListEligible(_ context.Context, ceremony string) ([]entity.FilmAwardRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []entity.FilmAwardRecord
	for _, rec := range r.byCeremony[ceremony] {
		if rec.Winner != entity.WinnerAbsent || rec.AwardYear != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memAwardRepo) Ceremonies(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.byCeremony))
	for c := range r.byCeremony {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
