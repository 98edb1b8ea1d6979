package pathfind

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUnknownStart  = errors.New("unknown start node")
	ErrUnknownTarget = errors.New("unknown target node")
	ErrNotReachable  = errors.New("target not reachable")
)

// QueryError provides structured error information for path queries.
type QueryError struct {
	Op    string // Operation that failed (e.g., "ShortestPathTree", "PathTo")
	Node  string // Node the failure refers to
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Node, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *QueryError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func unknownStartError(op, node string) error {
	return &QueryError{Op: op, Node: node, Cause: ErrUnknownStart}
}

func unknownTargetError(op, node string) error {
	return &QueryError{Op: op, Node: node, Cause: ErrUnknownTarget}
}

func notReachableError(op, node string) error {
	return &QueryError{Op: op, Node: node, Cause: ErrNotReachable}
}
