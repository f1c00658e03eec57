package tracking

import "errors"

// Errors returned by tracking operations.
var (
	// ErrNoActiveDocument indicates a capture or replay without a document root.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrSnapshotNotFound indicates a version with no stored snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrNilSnapshot indicates a replay was requested without a snapshot.
	ErrNilSnapshot = errors.New("nil snapshot")

	// ErrStaleVersion indicates the document version is behind the snapshot
	// version. The version counter or the session is corrupt and the diff
	// must be aborted.
	ErrStaleVersion = errors.New("document version is behind the snapshot")
)
