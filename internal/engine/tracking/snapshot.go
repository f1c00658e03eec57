package tracking

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/revdiff/internal/engine/history"
	"github.com/dshills/revdiff/internal/engine/model"
)

// Source is the document state a snapshot is captured from.
type Source interface {
	Root() *model.Tree
	Graveyard() *model.Tree
	Version() int
}

// Document is a Source that can also report its edit log.
type Document interface {
	Source
	Deltas(from, to int) ([]*history.Delta, error)
}

// Snapshot is an immutable copy of a document as of Version.
type Snapshot struct {
	ID uuid.UUID

	// Version is the document version at capture time.
	Version int

	// Root is a deep copy of the main tree with its own root identity.
	Root *model.Tree

	// Graveyard is a deep copy of the discard area, so reinsertions of
	// content removed before the capture replay consistently.
	Graveyard *model.Tree

	Timestamp time.Time
}

// Age returns how long ago this snapshot was captured.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.Timestamp)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRetention sets how many snapshots are kept, keyed by version.
func WithRetention(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithStoreLogger sets the logger used by the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store keeps snapshots keyed by document version.
// All operations are thread-safe.
type Store struct {
	mu        sync.RWMutex
	snapshots map[int]*Snapshot
	versions  []int // oldest first

	retention int
	logger    *slog.Logger
}

// NewStore creates a store retaining a single snapshot unless configured
// otherwise.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		snapshots: make(map[int]*Snapshot),
		retention: 1,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture copies the root and the discard area of src. Capturing again at an
// unchanged version returns the existing snapshot. The source is not
// modified.
func (s *Store) Capture(src Source) (*Snapshot, error) {
	if src == nil {
		return nil, ErrNoActiveDocument
	}
	root := src.Root()
	if root == nil {
		return nil, ErrNoActiveDocument
	}
	version := src.Version()

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.snapshots[version]; ok {
		s.logger.Debug("snapshot reused", "version", version, "id", snap.ID)
		return snap, nil
	}

	id := uuid.New()
	snap := &Snapshot{
		ID:        id,
		Version:   version,
		Root:      root.CloneAs(model.RootID("snapshot-" + id.String())),
		Timestamp: time.Now(),
	}
	if grave := src.Graveyard(); grave != nil {
		snap.Graveyard = grave.Clone()
	} else {
		snap.Graveyard = model.NewTree(model.GraveyardRoot, string(model.GraveyardRoot), nil)
	}

	s.snapshots[version] = snap
	s.versions = append(s.versions, version)
	for len(s.versions) > s.retention {
		delete(s.snapshots, s.versions[0])
		s.versions = s.versions[1:]
	}

	s.logger.Info("snapshot captured", "version", version, "id", id)
	return snap, nil
}

// Latest returns the most recently captured snapshot.
func (s *Store) Latest() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.versions) == 0 {
		return nil, false
	}
	return s.snapshots[s.versions[len(s.versions)-1]], true
}

// Get returns the snapshot captured at version.
func (s *Store) Get(version int) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %d", ErrSnapshotNotFound, version)
	}
	return snap, nil
}

// Versions returns the versions with a stored snapshot, oldest first.
func (s *Store) Versions() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.versions)
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Clear removes all snapshots.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = make(map[int]*Snapshot)
	s.versions = nil
}
