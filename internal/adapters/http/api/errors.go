package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrInvalidLimit  = errors.New("limit must be an integer")
	ErrLimitExceeded = errors.New("limit exceeds maximum")
	ErrMissingUser   = errors.New("missing X-User-ID header")
	ErrInvalidBody   = errors.New("invalid request body")
)
