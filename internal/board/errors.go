package board

import (
	"errors"
	"fmt"
)

// ErrTransient is an injected write failure. Nothing was written; the caller may retry.
type ErrTransient struct {
	Op string
}

func (e *ErrTransient) Error() string {
	return fmt.Sprintf("simulated server error during %s", e.Op)
}

// ErrInvalidOrder is returned when a reorder targets a position outside 1..Count
type ErrInvalidOrder struct {
	From  int
	To    int
	Count int
}

func (e *ErrInvalidOrder) Error() string {
	return fmt.Sprintf("invalid order: cannot move job from %d to %d, positions are 1..%d", e.From, e.To, e.Count)
}

// ErrNoJobAtPosition is returned when a reorder starts from a position no job holds
type ErrNoJobAtPosition struct {
	Position int
}

func (e *ErrNoJobAtPosition) Error() string {
	return fmt.Sprintf("no job at position %d", e.Position)
}

// IsTransient reports whether err is (or wraps) an injected failure
func IsTransient(err error) bool {
	var target *ErrTransient
	return errors.As(err, &target)
}

// IsInvalidOrder reports whether err is (or wraps) an *ErrInvalidOrder
func IsInvalidOrder(err error) bool {
	var target *ErrInvalidOrder
	return errors.As(err, &target)
}

// IsNoJobAtPosition reports whether err is (or wraps) an *ErrNoJobAtPosition
func IsNoJobAtPosition(err error) bool {
	var target *ErrNoJobAtPosition
	return errors.As(err, &target)
}
