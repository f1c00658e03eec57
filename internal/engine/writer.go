package engine

import (
	"github.com/dshills/revdiff/internal/engine/history"
	"github.com/dshills/revdiff/internal/engine/model"
)

// Writer applies operations inside a Document.Change callback.
// It must not be retained after the callback returns.
type Writer struct {
	roots   model.RootSet
	markers map[string]model.Range
	version int
	delta   *history.Delta
}

// Root returns the working copy of the main tree.
func (w *Writer) Root() *model.Tree {
	return w.roots[MainRoot]
}

// Graveyard returns the working copy of the graveyard.
func (w *Writer) Graveyard() *model.Tree {
	return w.roots[model.GraveyardRoot]
}

// Version returns the version the next operation will be based on.
func (w *Writer) Version() int {
	return w.version
}

// Apply applies a copy of op and records the copy, so op may be reused
// by the caller. The base version is set to the writer's current version.
func (w *Writer) Apply(op model.Operation) error {
	op = op.Clone()
	setBase(op, w.version)
	if err := model.Apply(op, w.roots); err != nil {
		return err
	}
	if m, ok := op.(*model.MarkerOp); ok {
		if m.NewRange == nil {
			delete(w.markers, m.Name)
		} else {
			w.markers[m.Name] = m.NewRange.Clone()
		}
	}
	w.delta.Add(op)
	w.version++
	return nil
}

// Insert inserts nodes at pos.
func (w *Writer) Insert(pos Position, nodes ...Node) error {
	return w.Apply(&model.InsertOp{Position: pos, Nodes: nodes})
}

// InsertText inserts one text node per rune of text at pos.
func (w *Writer) InsertText(pos Position, text string, attrs Attributes) error {
	return w.Insert(pos, model.Text(text, attrs)...)
}

// InsertElement inserts an element at pos.
func (w *Writer) InsertElement(pos Position, name string, attrs Attributes, children ...Node) error {
	return w.Insert(pos, model.Element(name, attrs, children...))
}

// Remove moves howMany nodes starting at pos to the end of the graveyard.
func (w *Writer) Remove(pos Position, howMany int) error {
	end := w.Graveyard().ChildCount(w.Graveyard().Root())
	return w.Apply(&model.RemoveOp{
		Source:  pos.Clone(),
		HowMany: howMany,
		Target:  model.NewPosition(model.GraveyardRoot, end),
	})
}

// Move moves howMany nodes from source to target. Target is expressed in
// coordinates from before the move.
func (w *Writer) Move(source Position, howMany int, target Position) error {
	return w.Apply(&model.MoveOp{Source: source, HowMany: howMany, Target: target})
}

// Reinsert moves howMany nodes from the graveyard offset back into the document.
func (w *Writer) Reinsert(graveyardOffset, howMany int, target Position) error {
	return w.Apply(&model.ReinsertOp{
		Source:  model.NewPosition(model.GraveyardRoot, graveyardOffset),
		HowMany: howMany,
		Target:  target.Clone(),
	})
}

// SetAttribute sets key to value on every node in r. An empty value removes
// the key. The range is split into runs sharing the same previous value and
// one operation is applied per run; runs already holding value are skipped.
func (w *Writer) SetAttribute(r Range, key, value string) error {
	if !r.IsFlat() {
		return model.ErrRangeNotFlat
	}
	t := w.roots[r.Start.Root]
	if t == nil {
		return model.ErrUnknownRoot
	}
	parent, err := t.Resolve(r.Start.ParentPath())
	if err != nil {
		return err
	}
	start, end := r.Start.Offset(), r.End.Offset()
	if start < 0 || end < start || end > t.ChildCount(parent) {
		return model.ErrOffsetOutOfRange
	}

	children := t.Children(parent)
	for i := start; i < end; {
		old := t.Item(children[i]).Attrs[key]
		j := i + 1
		for j < end && t.Item(children[j]).Attrs[key] == old {
			j++
		}
		if old != value {
			op := &model.AttributeOp{
				Range:    model.NewRange(r.Start.WithOffset(i), j-i),
				Key:      key,
				OldValue: old,
				NewValue: value,
			}
			if err := w.Apply(op); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}

// SetRootAttribute sets key to value on the main root element.
func (w *Writer) SetRootAttribute(key, value string) error {
	old := w.Root().Item(w.Root().Root()).Attrs[key]
	if old == value {
		return nil
	}
	return w.Apply(&model.RootAttributeOp{Root: MainRoot, Key: key, OldValue: old, NewValue: value})
}

// SetMarker sets or moves a model marker. A nil range removes it.
func (w *Writer) SetMarker(name string, r *Range) error {
	op := &model.MarkerOp{Name: name}
	if old, ok := w.markers[name]; ok {
		old = old.Clone()
		op.OldRange = &old
	} else if r == nil {
		return ErrMarkerNotFound
	}
	if r != nil {
		c := r.Clone()
		op.NewRange = &c
	}
	return w.Apply(op)
}

func setBase(op model.Operation, base int) {
	switch o := op.(type) {
	case *model.InsertOp:
		o.Base = base
	case *model.MoveOp:
		o.Base = base
	case *model.RemoveOp:
		o.Base = base
	case *model.ReinsertOp:
		o.Base = base
	case *model.AttributeOp:
		o.Base = base
	case *model.RootAttributeOp:
		o.Base = base
	case *model.MarkerOp:
		o.Base = base
	case *model.NoOp:
		o.Base = base
	}
}
