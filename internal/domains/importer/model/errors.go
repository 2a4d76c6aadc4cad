package model

import "errors"

var (
	// ErrJobNotFound is returned when no job exists for the given id.
	ErrJobNotFound = errors.New("import job not found")

	// ErrJobNotApplyable is returned when Apply targets a job that is not
	// an error-free preview (or is already terminal and non-preview).
	ErrJobNotApplyable = errors.New("import job is not eligible for apply")

	// ErrFileTooLarge is returned when the upload exceeds the configured
	// size limit.
	ErrFileTooLarge = errors.New("uploaded file exceeds size limit")
)
