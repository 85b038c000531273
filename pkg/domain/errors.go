package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a catalog entity or run cannot be found.
var ErrNotFound = errors.New("not found")

// ErrTaskNotFound is returned when a task handle is unknown to the result backend.
var ErrTaskNotFound = errors.New("task not found")

// ErrMissingData is matched by MissingDataError.
var ErrMissingData = errors.New("missing data")

// ErrInvalidInput is matched by InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownSimulationKind is matched by UnknownSimulationKindError.
var ErrUnknownSimulationKind = errors.New("unknown simulation kind")

// ErrUserResolution is matched by UserResolutionError.
var ErrUserResolution = errors.New("user resolution failed")

// ErrRunTerminal is returned when a terminal run would be written again.
var ErrRunTerminal = errors.New("run already terminal")

// ErrUnauthorized is returned when an API key is unknown or its owner is inactive.
var ErrUnauthorized = errors.New("unauthorized")

// MissingDataError reports required scalar fields that are null on an entity.
type MissingDataError struct {
	Entity string
	Fields []string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s is missing required data: %s", e.Entity, strings.Join(e.Fields, ", "))
}

func (e *MissingDataError) Is(target error) bool { return target == ErrMissingData }

// InvalidInputError reports a parameter that violates a documented constraint.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid is a shorthand for building an InvalidInputError.
func Invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnknownSimulationKindError is returned for a kind tag outside the registered set.
type UnknownSimulationKindError struct {
	Kind string
}

func (e *UnknownSimulationKindError) Error() string {
	return fmt.Sprintf("unknown simulation kind %q", e.Kind)
}

func (e *UnknownSimulationKindError) Is(target error) bool { return target == ErrUnknownSimulationKind }

// UserResolutionError is returned when the requesting identity cannot be resolved.
type UserResolutionError struct {
	UserID int64
	Err    error
}

func (e *UserResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("user with ID '%d' not found", e.UserID)
	}
	return fmt.Sprintf("user with ID '%d' could not be resolved: %v", e.UserID, e.Err)
}

func (e *UserResolutionError) Is(target error) bool { return target == ErrUserResolution }

func (e *UserResolutionError) Unwrap() error { return e.Err }

// IsDomainError reports whether err is one of the recognized, user-correctable
// simulation errors (as opposed to an unexpected failure).
func IsDomainError(err error) bool {
	return errors.Is(err, ErrMissingData) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownSimulationKind)
}
