package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRoundConflict         = errors.New("round already live")
	ErrRoundNotOpen          = errors.New("round not open for submissions")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
