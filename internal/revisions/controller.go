package revisions

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/revdiff/internal/engine/tracking"
	"github.com/dshills/revdiff/internal/renderer/view"
)

// ReadOnlyToggler is the part of a document the controller locks while a
// diff is shown.
type ReadOnlyToggler interface {
	SetReadOnly(readOnly bool)
	IsReadOnly() bool
}

// Controller owns the diff session of one document.
type Controller struct {
	mu sync.Mutex

	doc     ReadOnlyToggler
	editing *view.Editing
	logger  *slog.Logger

	active      *Session
	wasReadOnly bool
}

// NewController creates a controller for doc and its view.
func NewController(doc ReadOnlyToggler, editing *view.Editing, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{doc: doc, editing: editing, logger: logger}
}

// Active returns the running session, or nil.
func (c *Controller) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Begin starts a session against snap and makes the document read-only.
func (c *Controller) Begin(snap *tracking.Snapshot) (*Session, error) {
	if snap == nil {
		return nil, ErrNoSnapshotAvailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, c.active.ID)
	}
	s := newSession(snap)
	c.wasReadOnly = c.doc.IsReadOnly()
	c.doc.SetReadOnly(true)
	c.active = s
	c.logger.Info("diff session started", "session", s.ID, "snapshot", snap.ID, "version", snap.Version)
	return s, nil
}

// End reverts every annotation of s, newest first, in one view batch and
// restores write access. Ending a nil or already ended session does
// nothing.
func (c *Controller) End(s *Session) error {
	if s == nil || s.ended {
		return nil
	}

	anns := s.Annotations()
	err := c.editing.Enqueue(func(tx *view.Tx) error {
		for i := len(anns) - 1; i >= 0; i-- {
			revert(tx, anns[i])
		}
		tx.AfterCommit(func() { c.finish(s, len(anns)) })
		return nil
	})
	if err != nil {
		return fmt.Errorf("end diff session %s: %w", s.ID, err)
	}
	return nil
}

func (c *Controller) finish(s *Session, reverted int) {
	s.annotations = nil
	s.ended = true

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == s {
		c.active = nil
		c.doc.SetReadOnly(c.wasReadOnly)
	}
	c.logger.Info("diff session ended", "session", s.ID, "reverted", reverted)
}

func revert(tx *view.Tx, a Annotation) {
	switch a.Kind {
	case AnnotationMarker:
		tx.RemoveMarker(a.Name)
	case AnnotationFragment:
		tx.Remove(a.Container, a.Index, a.Length)
	}
}
