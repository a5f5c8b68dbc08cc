// Package usecase implements the course catalog.
package usecase

import "errors"

var (
	// ErrCourseNotFound is returned when no active course has the given id.
	ErrCourseNotFound = errors.New("course not found")

	// ErrInvalidCatalog is returned when a seed file fails validation.
	ErrInvalidCatalog = errors.New("invalid course catalog")
)
