package profile

import "errors"

var (
	// ErrProfileNotFound is returned when a profile lookup finds nothing.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when creating a profile for a user who
	// already completed one.
	ErrProfileExists = errors.New("profile already exists")
	// ErrForbidden is returned when a user mutates a profile they do not own.
	ErrForbidden = errors.New("forbidden")
)
