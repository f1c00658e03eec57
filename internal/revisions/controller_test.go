package revisions

import (
	"errors"
	"testing"

	"github.com/dshills/revdiff/internal/engine"
	"github.com/dshills/revdiff/internal/engine/model"
	"github.com/dshills/revdiff/internal/engine/tracking"
	"github.com/dshills/revdiff/internal/renderer/view"
)

func newController(t *testing.T, text string) (*engine.Document, *view.Editing, *Controller, *tracking.Snapshot) {
	t.Helper()
	doc := engine.New(engine.WithContent(model.Paragraph(text)))
	editing := view.New()
	editing.Rebuild(doc.Root())
	snap, err := tracking.NewStore().Capture(doc)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	return doc, editing, NewController(doc, editing, nil), snap
}

func TestControllerBegin(t *testing.T) {
	doc, _, c, snap := newController(t, "AB")

	s, err := c.Begin(snap)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if !doc.IsReadOnly() {
		t.Error("document should be read-only during a session")
	}
	if c.Active() != s {
		t.Error("Active() should return the started session")
	}

	if _, err := c.Begin(snap); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Begin() error = %v, want ErrSessionActive", err)
	}
	if _, err := c.Begin(nil); !errors.Is(err, ErrNoSnapshotAvailable) {
		t.Errorf("Begin(nil) error = %v, want ErrNoSnapshotAvailable", err)
	}
}

func TestControllerEndIdempotent(t *testing.T) {
	doc, editing, c, snap := newController(t, "AB")
	before := editing.Dump()

	s, err := c.Begin(snap)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := c.End(s); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if err := c.End(s); err != nil {
		t.Errorf("second End() error = %v", err)
	}
	if err := c.End(nil); err != nil {
		t.Errorf("End(nil) error = %v", err)
	}

	if !s.Ended() {
		t.Error("session should be ended")
	}
	if c.Active() != nil {
		t.Error("no session should be active")
	}
	if doc.IsReadOnly() {
		t.Error("write access should be restored")
	}
	if got := editing.Dump(); got != before {
		t.Errorf("view changed:\n%s\nwant:\n%s", got, before)
	}
}

func TestControllerKeepsReadOnly(t *testing.T) {
	doc, _, c, snap := newController(t, "AB")
	doc.SetReadOnly(true)

	s, err := c.Begin(snap)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := c.End(s); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !doc.IsReadOnly() {
		t.Error("a document read-only before the session should stay read-only")
	}
}

func TestControllerRevertsNewestFirst(t *testing.T) {
	_, editing, c, snap := newController(t, "ACE")
	s, err := c.Begin(snap)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	p := editing.Root().Children[0]
	s.annotations = []Annotation{
		{Kind: AnnotationFragment, Name: "r:remove:0", Container: p, Index: 1, Length: 1},
		{Kind: AnnotationFragment, Name: "r:remove:1", Container: p, Index: 3, Length: 1},
		{Kind: AnnotationMarker, Name: "r:insert:2"},
	}
	err = editing.Enqueue(func(tx *view.Tx) error {
		tx.Insert(p, 1, view.Phantoms(model.Text("B", nil))...)
		tx.Insert(p, 3, view.Phantoms(model.Text("D", nil))...)
		tx.SetMarker("r:insert:2", model.NewRange(model.NewPosition(engine.MainRoot, 0, 0), 1))
		return nil
	})
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if got := editing.Render(); got != "A[B]C[D]E" {
		t.Fatalf("Render() = %q", got)
	}

	if err := c.End(s); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if got := editing.Render(); got != "ACE" {
		t.Errorf("Render() after End = %q, want %q", got, "ACE")
	}
	if len(editing.Markers()) != 0 {
		t.Errorf("markers left: %v", editing.Markers())
	}
	if s.Len() != 0 {
		t.Errorf("session keeps %d annotations", s.Len())
	}
}

func TestRenderEndedSession(t *testing.T) {
	_, editing, c, snap := newController(t, "AB")
	a := NewAnnotator(editing, "", DefaultRemoveClass, nil)

	if err := a.Render(nil, &tracking.Result{}, nil); !errors.Is(err, ErrNoSession) {
		t.Errorf("Render(nil) error = %v, want ErrNoSession", err)
	}

	s, err := c.Begin(snap)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := c.End(s); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if err := a.Render(s, &tracking.Result{}, nil); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("Render(ended) error = %v, want ErrSessionEnded", err)
	}
}

func TestSessionNames(t *testing.T) {
	s := newSession(nil)
	names := []string{
		s.nextName("revisions", 0),
		s.nextName("revisions", 1),
		s.nextName("revisions", 2),
	}
	want := []string{"revisions:insert:0", "revisions:remove:1", "revisions:attribute:2"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, names[i], want[i])
		}
	}

	other := newSession(nil)
	if got := other.nextName("revisions", 0); got != "revisions:insert:0" {
		t.Errorf("new session name = %q, counters must not be shared", got)
	}
	if other.ID == s.ID {
		t.Error("sessions should have distinct IDs")
	}
}
