package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrFetch wraps failures reading favorites or the candidate pool.
	ErrFetch = errors.New("fetch recommendation inputs failed")
	// ErrNoRecommendation means every candidate is excluded.
	ErrNoRecommendation = errors.New("no recommendation available")
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrUnauthenticated is returned when an operation needs a user id.
	ErrUnauthenticated = errors.New("user id required")
)
