package insights

import "errors"

var (
	// ErrInvalidInput is returned for a malformed question.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal wraps unexpected failures while generating an answer.
	ErrInternal = errors.New("internal failure")
)
