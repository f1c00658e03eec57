package revisions

import "errors"

// Sentinel errors.
var (
	// ErrSessionActive is returned by Begin when a diff session is already
	// running for the document.
	ErrSessionActive = errors.New("diff session already active")

	// ErrNoSession is returned when rendering without a session.
	ErrNoSession = errors.New("no diff session")

	// ErrSessionEnded is returned when rendering into an ended session.
	ErrSessionEnded = errors.New("diff session ended")

	// ErrNoSnapshotAvailable is returned when a diff is requested before any
	// revision was saved.
	ErrNoSnapshotAvailable = errors.New("no revision saved")

	// ErrCommandDisabled is returned when executing a disabled command.
	ErrCommandDisabled = errors.New("command disabled")

	// ErrUnknownCommand is returned for names not in the registry.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrCommandExists is returned when registering a name twice.
	ErrCommandExists = errors.New("command already registered")
)
