package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound      = errors.New("style not found")
	ErrDuplicateName = errors.New("style with this name already exists")
	ErrForbidden     = errors.New("not authorized to modify this style")
)
