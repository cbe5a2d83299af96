package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrMissingCredentials = errors.New("missing api keys")
	ErrSessionBusy        = errors.New("an evaluation is already running for this session")
	ErrStepLimit          = errors.New("agent stopped after reaching the maximum number of model turns")
	ErrInvalidResume      = errors.New("invalid resume file")
)

// ValidationError carries the message shown to the user. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
