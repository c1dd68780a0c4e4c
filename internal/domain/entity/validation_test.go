package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Collection
		wantErr bool
	}{
		{"valid", Collection{Name: "bond", Subjects: []Subject{{Name: "Sean Connery", Titles: []string{"Dr. No"}}}}, false},
		{"empty subjects allowed", Collection{Name: "bond"}, false},
		{"missing name", Collection{}, true},
		{"unnamed subject", Collection{Name: "bond", Subjects: []Subject{{Titles: []string{"Dr. No"}}}}, true},
		{"blank title", Collection{Name: "bond", Subjects: []Subject{{Name: "X", Titles: []string{" "}}}}, true},
		{"duplicate subject", Collection{Name: "bond", Subjects: []Subject{{Name: "X"}, {Name: "X"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidationFailed), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAwardEntry_Validate(t *testing.T) {
	assert.NoError(t, AwardEntry{Title: "Nomadland", Year: 2021}.Validate())
	assert.Error(t, AwardEntry{Year: 2021}.Validate())
	assert.Error(t, AwardEntry{Title: "Nomadland", Year: 21}.Validate())
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, ValidateBaseURL("https://api.themoviedb.org/3"))
	assert.NoError(t, ValidateBaseURL("http://127.0.0.1:8080"))
	assert.Error(t, ValidateBaseURL(""))
	assert.Error(t, ValidateBaseURL("ftp://example.com"))
	assert.Error(t, ValidateBaseURL("https://"))
}
