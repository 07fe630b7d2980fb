package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var (
	ErrNoMatchSelected     = fmt.Errorf("%w: no match selected", ErrInvalidInput)
	ErrFormationUnresolved = errors.New("formation id could not be resolved")
	ErrSaveInProgress      = fmt.Errorf("%w: save already in progress", ErrConflict)
	ErrSessionNotFound     = fmt.Errorf("%w: editor session", ErrNotFound)
	ErrTooManySessions     = fmt.Errorf("%w: editor session limit reached", ErrConflict)
)
