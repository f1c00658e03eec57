package engine

import "errors"

// Errors returned by document operations.
var (
	// ErrReadOnly indicates a change was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNoRoot indicates the document has no main root yet.
	ErrNoRoot = errors.New("document has no root")

	// ErrRootExists indicates an attempt to create a root twice.
	ErrRootExists = errors.New("root already exists")

	// ErrMarkerNotFound indicates a marker name that is not registered.
	ErrMarkerNotFound = errors.New("marker not found")
)
