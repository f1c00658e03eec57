package view

import "errors"

// Errors returned by view operations.
var (
	// ErrNoContainer indicates a container that is not part of the view.
	ErrNoContainer = errors.New("container is not part of the view")

	// ErrIndexOutOfRange indicates an index outside of a container's children.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotMapped indicates a model node with no view counterpart.
	ErrNotMapped = errors.New("model node is not mapped")
)
