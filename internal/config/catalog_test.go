package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cineverse/internal/domain/entity"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCollections(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErr  bool
		validate func(*testing.T, []entity.Collection)
	}{
		{
			name: "valid file",
			yaml: `collections:
  - name: bond
    description: "007 actors"
    subjects:
      - name: Sean Connery
        titles: ["Dr. No", "Goldfinger"]
      - name: Daniel Craig
        titles: ["Casino Royale"]
`,
			validate: func(t *testing.T, cols []entity.Collection) {
				require.Len(t, cols, 1)
				assert.Equal(t, "bond", cols[0].Name)
				require.Len(t, cols[0].Subjects, 2)
				assert.Equal(t, []string{"Dr. No", "Goldfinger"}, cols[0].Subjects[0].Titles)
			},
		},
		{name: "no collections", yaml: "collections: []\n", wantErr: true},
		{
			name: "duplicate collection",
			yaml: `collections:
  - name: bond
  - name: bond
`,
			wantErr: true,
		},
		{
			name: "duplicate subject",
			yaml: `collections:
  - name: bond
    subjects:
      - name: Roger Moore
      - name: Roger Moore
`,
			wantErr: true,
		},
		{name: "invalid yaml", yaml: "collections: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := LoadCollections(writeFile(t, tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cols)
		})
	}
}

func TestLoadCollections_MissingFile(t *testing.T) {
	_, err := LoadCollections(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAwardCatalog(t *testing.T) {
	path := writeFile(t, `ceremony: " bafta "
entries:
  - title: Parasite
    year: 2020
    winner: true
  - title: Joker
    year: 2020
    winner: false
  - title: Roma
    year: 2019
`)

	catalog, err := LoadAwardCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "bafta", catalog.Ceremony)
	require.Len(t, catalog.Entries, 3)
	assert.Equal(t, entity.WinnerTrue, entity.WinnerFlagOf(catalog.Entries[0].Winner))
	assert.Equal(t, entity.WinnerFalse, entity.WinnerFlagOf(catalog.Entries[1].Winner))
	assert.Nil(t, catalog.Entries[2].Winner)
}

func TestLoadAwardCatalog_RequiresCeremony(t *testing.T) {
	_, err := LoadAwardCatalog(writeFile(t, "entries: []\n"))

	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "ceremony", vErr.Field)
}

func TestCollectionsFile_Find(t *testing.T) {
	f := CollectionsFile{Collections: []entity.Collection{{Name: "bond"}, {Name: "marvel"}}}

	c, ok := f.Find("marvel")
	assert.True(t, ok)
	assert.Equal(t, "marvel", c.Name)

	_, ok = f.Find("dc")
	assert.False(t, ok)
}
