package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidWeight = errors.New("invalid edge weight")
	ErrEmptyNode     = errors.New("empty node identifier")
	ErrEmptyAction   = errors.New("empty action label")
)

// EdgeError provides structured error information for edge insertion failures.
type EdgeError struct {
	Op     string  // Operation that failed (e.g., "AddEdge")
	From   string  // Source node
	To     string  // Destination node
	Weight float64 // Offending weight (if applicable)
	Cause  error   // Underlying error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	if errors.Is(e.Cause, ErrInvalidWeight) {
		return fmt.Sprintf("%s %s->%s (weight %v): %v", e.Op, e.From, e.To, e.Weight, e.Cause)
	}
	return fmt.Sprintf("%s %s->%s: %v", e.Op, e.From, e.To, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EdgeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *EdgeError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// invalidWeightError builds an EdgeError for a rejected weight.
func invalidWeightError(from, to string, weight float64) error {
	return &EdgeError{
		Op:     "AddEdge",
		From:   from,
		To:     to,
		Weight: weight,
		Cause:  ErrInvalidWeight,
	}
}

// emptyNodeError builds an EdgeError for a missing endpoint.
func emptyNodeError(from, to string) error {
	return &EdgeError{
		Op:    "AddEdge",
		From:  from,
		To:    to,
		Cause: ErrEmptyNode,
	}
}
