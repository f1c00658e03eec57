package revisions

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/revdiff/internal/engine/differ"
	"github.com/dshills/revdiff/internal/engine/model"
	"github.com/dshills/revdiff/internal/engine/tracking"
	"github.com/dshills/revdiff/internal/renderer/view"
)

// AnnotationKind tells markers from fragments.
type AnnotationKind uint8

const (
	// AnnotationMarker is a named view marker with no content.
	AnnotationMarker AnnotationKind = iota

	// AnnotationFragment is removed content inserted into the view.
	AnnotationFragment
)

// String returns the kind name.
func (k AnnotationKind) String() string {
	switch k {
	case AnnotationMarker:
		return "marker"
	case AnnotationFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Annotation is one view mutation made by a diff session.
type Annotation struct {
	Kind AnnotationKind

	// Name is unique within the session.
	Name string

	// Change is the type of change the annotation shows.
	Change differ.ChangeType

	// Range is the marker range, in live coordinates.
	Range model.Range

	// Fragment placement: Length phantom nodes at Index of Container.
	Container *view.Node
	Index     int
	Length    int

	// Content is the removed content rendered by the fragment.
	Content []model.Node
}

// String returns a short description of the annotation.
func (a Annotation) String() string {
	if a.Kind == AnnotationFragment {
		return fmt.Sprintf("%s %s @%d +%d %s", a.Kind, a.Name, a.Index, a.Length, model.NodesString(a.Content))
	}
	return fmt.Sprintf("%s %s %s", a.Kind, a.Name, a.Range)
}

// Session is one diff-mode activation. Sessions are created by
// Controller.Begin and are not safe for concurrent use.
type Session struct {
	ID       uuid.UUID
	Snapshot *tracking.Snapshot
	Started  time.Time

	annotations []Annotation
	counter     int
	ended       bool
}

func newSession(snap *tracking.Snapshot) *Session {
	return &Session{
		ID:       uuid.New(),
		Snapshot: snap,
		Started:  time.Now(),
	}
}

// Annotations returns the annotations in creation order.
func (s *Session) Annotations() []Annotation {
	return slices.Clone(s.annotations)
}

// Len returns the number of live annotations.
func (s *Session) Len() int {
	return len(s.annotations)
}

// Ended reports whether the session was ended.
func (s *Session) Ended() bool {
	return s.ended
}

// nextName returns a marker name unique within the session, such as
// "revisions:insert:0".
func (s *Session) nextName(prefix string, t differ.ChangeType) string {
	name := fmt.Sprintf("%s:%s:%d", prefix, t, s.counter)
	s.counter++
	return name
}
