package db

import (
	"errors"
	"fmt"
)

// Entity names used in errors
const (
	EntityJob                = "job"
	EntityCandidate          = "candidate"
	EntityAssessment         = "assessment"
	EntityAssessmentResponse = "assessment response"
)

// ErrNotFound indicates the addressed row does not exist
type ErrNotFound struct {
	Entity string
	ID     int64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

// ErrUniqueViolation indicates a write would duplicate a unique value
type ErrUniqueViolation struct {
	Entity string
	Field  string
	Value  string
}

func (e *ErrUniqueViolation) Error() string {
	return fmt.Sprintf("%s %s must be unique: %q already exists", e.Entity, e.Field, e.Value)
}

// IsNotFound reports whether err is (or wraps) an *ErrNotFound
func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// IsUniqueViolation reports whether err is (or wraps) an *ErrUniqueViolation
func IsUniqueViolation(err error) bool {
	var target *ErrUniqueViolation
	return errors.As(err, &target)
}
