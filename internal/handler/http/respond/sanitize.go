package respond

import (
	"regexp"
)

var (
	// Provider credentials travel in the query string (TMDB api_key, OMDb apikey).
	queryKeyPattern = regexp.MustCompile(`(?i)\b(api_?key)=([^&\s"']+)`)

	bearerPattern = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9\-._~+/]+=*`)

	// Password inside a DSN.
	dbPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}=****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
