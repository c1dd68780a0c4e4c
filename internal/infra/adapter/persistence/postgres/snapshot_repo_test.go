package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"cineverse/internal/domain/entity"
	"cineverse/internal/infra/adapter/persistence/postgres"
)

func sampleSubjects() []entity.SubjectResult {
	return []entity.SubjectResult{{
		Name:       "Daniel Craig",
		ProfileURL: "https://image.tmdb.org/t/p/w500/craig.jpg",
		Movies: []entity.MovieRecord{{
			Title: "Skyfall", ExternalID: 37724, VoteAverage: 7.2,
			Ratings:        entity.Ratings{IMDb: 7.8, RottenTomatoes: 92, Metacritic: 81},
			RuntimeMinutes: 143,
			Location:       entity.Location{Lat: 40.5, Lng: -12.25},
		}},
		Stats: entity.AggregateStat{Name: "Daniel Craig", IMDb: 7.8, RottenTomatoes: 92, Metacritic: 81, Runtime: 143, Samples: 1},
	}}
}

func TestSnapshotRepo_Save(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	created := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(sampleSubjects())

	mock.ExpectQuery(`INSERT INTO enrichment_snapshots`).
		WithArgs("bond", "3f1c2a9e-0d7b-4c55-9a61-2b7f0c4e8d10", payload).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	snap := &entity.Snapshot{Collection: "bond", RunID: "3f1c2a9e-0d7b-4c55-9a61-2b7f0c4e8d10", Subjects: sampleSubjects()}
	repo := postgres.NewSnapshotRepo(db)
	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	if snap.ID != 42 || !snap.CreatedAt.Equal(created) {
		t.Fatalf("Save did not fill id/created_at: %+v", snap)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotRepo_Latest(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	created := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(sampleSubjects())
	mock.ExpectQuery(`FROM enrichment_snapshots`).
		WithArgs("bond").
		WillReturnRows(sqlmock.NewRows([]string{"id", "collection", "run_id", "subjects", "created_at"}).
			AddRow(int64(42), "bond", "run-1", payload, created))

	repo := postgres.NewSnapshotRepo(db)
	got, err := repo.Latest(context.Background(), "bond")
	if err != nil {
		t.Fatalf("Latest err=%v", err)
	}

	want := &entity.Snapshot{ID: 42, Collection: "bond", RunID: "run-1", Subjects: sampleSubjects(), CreatedAt: created}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotRepo_Latest_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM enrichment_snapshots`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "collection", "run_id", "subjects", "created_at"}))

	repo := postgres.NewSnapshotRepo(db)
	_, err := repo.Latest(context.Background(), "missing")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSnapshotRepo_Latest_CorruptPayload(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM enrichment_snapshots`).
		WithArgs("bond").
		WillReturnRows(sqlmock.NewRows([]string{"id", "collection", "run_id", "subjects", "created_at"}).
			AddRow(int64(1), "bond", "run-1", []byte(`{not json`), time.Now()))

	repo := postgres.NewSnapshotRepo(db)
	if _, err := repo.Latest(context.Background(), "bond"); err == nil || errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want decode error, got %v", err)
	}
}
