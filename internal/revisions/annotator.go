package revisions

import (
	"fmt"
	"log/slog"

	"github.com/dshills/revdiff/internal/engine/differ"
	"github.com/dshills/revdiff/internal/engine/model"
	"github.com/dshills/revdiff/internal/engine/tracking"
	"github.com/dshills/revdiff/internal/renderer/view"
)

// Default marker naming and highlight classes.
const (
	DefaultMarkerPrefix   = "revisions"
	DefaultInsertClass    = "revisions-insert"
	DefaultAttributeClass = "revisions-attribute"
	DefaultRemoveClass    = "revisions-remove"
)

// Annotator projects replay results onto a view.
type Annotator struct {
	editing     *view.Editing
	prefix      string
	removeClass string
	logger      *slog.Logger
}

// NewAnnotator creates an annotator writing to editing. Markers are named
// prefix:type:n and fragments carry removeClass.
func NewAnnotator(editing *view.Editing, prefix, removeClass string, logger *slog.Logger) *Annotator {
	if prefix == "" {
		prefix = DefaultMarkerPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		editing:     editing,
		prefix:      prefix,
		removeClass: removeClass,
		logger:      logger,
	}
}

// Prefix returns the marker name prefix.
func (a *Annotator) Prefix() string {
	return a.prefix
}

// Render annotates the view with the changes of res and records the
// annotations in s once the view batch has committed.
//
// Insertions and attribute changes are marked first. Removals are then
// rebuilt from the baseline while walking every change of a parent in
// order, so each fragment lands after the fragments rendered before it.
//
// The batch is deferred when the view is already running one, so Render
// may return before anything is drawn. done, when not nil, is called once
// with the outcome of the batch. It is not called when Render rejects s.
func (a *Annotator) Render(s *Session, res *tracking.Result, done func(error)) error {
	if s == nil {
		return ErrNoSession
	}
	if s.ended {
		return ErrSessionEnded
	}
	if done == nil {
		done = func(error) {}
	}
	if res == nil || !res.HasChanges() {
		done(nil)
		return nil
	}

	err := a.editing.Enqueue(func(tx *view.Tx) error {
		tx.OnRollback(func(err error) { done(fmt.Errorf("render diff: %w", err)) })
		var created []Annotation
		for _, c := range res.Changes {
			if c.Root() == model.GraveyardRoot {
				continue
			}
			if ann, ok := a.mark(tx, s, res, c); ok {
				created = append(created, ann)
			}
		}

		parent := model.NoNode
		removed, inserted := 0, 0
		for _, c := range res.Changes {
			if c.Root() == model.GraveyardRoot {
				continue
			}
			if c.Parent != parent {
				parent = c.Parent
				removed, inserted = 0, 0
			}
			switch c.Type {
			case differ.ChangeInsert:
				inserted += c.Length
			case differ.ChangeRemove:
				ann, err := a.fragment(tx, s, res, c, removed, inserted)
				if err != nil {
					return err
				}
				created = append(created, ann)
				removed += c.Length
			}
		}

		tx.AfterCommit(func() {
			s.annotations = append(s.annotations, created...)
			a.logger.Debug("diff rendered", "session", s.ID, "changes", len(res.Changes), "annotations", s.Len())
			done(nil)
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("render diff: %w", err)
	}
	return nil
}

// mark adds the marker for an insert or attribute change.
func (a *Annotator) mark(tx *view.Tx, s *Session, res *tracking.Result, c differ.Change) (Annotation, bool) {
	var r model.Range
	switch c.Type {
	case differ.ChangeInsert:
		start := tracking.RewritePosition(c.Position, res.Shadow.ID(), res.Live)
		r = model.NewRange(start, c.Length)
	case differ.ChangeAttribute:
		r = tracking.RewriteRange(c.Range, res.Shadow.ID(), res.Live)
		if r.IsEmpty() {
			r.End = r.Start.Shift(1)
		}
	default:
		return Annotation{}, false
	}

	name := s.nextName(a.prefix, c.Type)
	tx.SetMarker(name, r)
	return Annotation{Kind: AnnotationMarker, Name: name, Change: c.Type, Range: r}, true
}

// fragment inserts the removed content of c into the view. The content
// sits at offset+removed-inserted in the baseline and goes to view index
// offset+removed of the live container.
func (a *Annotator) fragment(tx *view.Tx, s *Session, res *tracking.Result, c differ.Change, removed, inserted int) (Annotation, error) {
	offset := c.Position.Offset()
	old := offset + removed - inserted
	content, err := res.Baseline.ExportRange(c.Parent, old, c.Length)
	if err != nil {
		return Annotation{}, fmt.Errorf("extract removed %s at %d: %w", c.Position, old, err)
	}

	live := tracking.RewritePosition(c.Position, res.Shadow.ID(), res.Live)
	container, _, err := a.editing.ToViewPosition(live)
	if err != nil {
		return Annotation{}, fmt.Errorf("map %s: %w", live, err)
	}

	var classes []string
	if a.removeClass != "" {
		classes = append(classes, a.removeClass)
	}
	index := offset + removed
	tx.Insert(container, index, view.Phantoms(content, classes...)...)

	return Annotation{
		Kind:      AnnotationFragment,
		Name:      s.nextName(a.prefix, c.Type),
		Change:    c.Type,
		Container: container,
		Index:     index,
		Length:    len(content),
		Content:   content,
	}, nil
}
