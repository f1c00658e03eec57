package model

import (
	"errors"
	"fmt"
)

// Errors returned by tree and operation functions.
var (
	// ErrInvalidPath indicates a path does not address an element.
	ErrInvalidPath = errors.New("invalid path")

	// ErrOffsetOutOfRange indicates an offset outside of the parent's children.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrUnknownRoot indicates an operation references a root that is not available.
	ErrUnknownRoot = errors.New("unknown root")

	// ErrRangeNotFlat indicates a range whose ends have different parents.
	ErrRangeNotFlat = errors.New("range is not flat")

	// ErrMoveIntoSelf indicates a move whose target lies inside the moved nodes.
	ErrMoveIntoSelf = errors.New("cannot move nodes into themselves")
)

// PathError records a failed path resolution.
type PathError struct {
	Root RootID
	Path []int
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Root, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
