package entity

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	maxNameLength  = 200
	maxTitleLength = 300
	minAwardYear   = 1900
	maxAwardYear   = 2200
)

// Validate checks that the collection has a name and that its subjects are
// named, unique and carry non-empty titles.
func (c *Collection) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "collection name is required"}
	}
	seen := make(map[string]struct{}, len(c.Subjects))
	for i, s := range c.Subjects {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("subject %d: %w", i, err)
		}
		if _, dup := seen[s.Name]; dup {
			return &ValidationError{Field: "subjects", Message: fmt.Sprintf("duplicate subject %q", s.Name)}
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}

// Validate checks the subject name and titles.
func (s Subject) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "subject name is required"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must not exceed %d characters", maxNameLength)}
	}
	for i, t := range s.Titles {
		if strings.TrimSpace(t) == "" {
			return &ValidationError{Field: fmt.Sprintf("titles[%d]", i), Message: "title is required"}
		}
		if len(t) > maxTitleLength {
			return &ValidationError{Field: fmt.Sprintf("titles[%d]", i), Message: fmt.Sprintf("must not exceed %d characters", maxTitleLength)}
		}
	}
	return nil
}

// Validate checks that an award catalog entry has a title and a plausible year.
func (e AwardEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if e.Year < minAwardYear || e.Year > maxAwardYear {
		return &ValidationError{Field: "year", Message: fmt.Sprintf("must be between %d and %d", minAwardYear, maxAwardYear)}
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL with a host.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	return nil
}
