package services

import "errors"

var (
	// ErrNotFound covers entities that are missing or not owned by the
	// requesting user; handlers map it to 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed or missing input; handlers map it
	// to 400.
	ErrValidation = errors.New("invalid input")

	// ErrGeneration marks an upstream AI failure. The room has already
	// been moved to error state by the time this surfaces.
	ErrGeneration = errors.New("generation failed")
)
