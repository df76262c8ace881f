package dashboard

import "errors"

var (
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("dashboard: API key is required")

	// ErrInvalidBaseURL indicates the base URL could not be parsed.
	ErrInvalidBaseURL = errors.New("dashboard: invalid base URL")
)
