package differ

import (
	"github.com/dshills/revdiff/internal/engine/model"
)

type scopeKey struct {
	root   model.RootID
	parent model.NodeID
}

// record is the state of a parent's children at first touch.
type record struct {
	scopeKey
	children []model.NodeID
	attrs    []model.Attributes
}

// Differ buffers operations and reports the structural changes they caused.
// It is not safe for concurrent use.
type Differ struct {
	records []*record
	index   map[scopeKey]*record

	// base is the arena size of each tree when first seen. Nodes with a
	// higher or equal id were created inside the recorded window.
	base map[model.RootID]int
}

// New creates an empty Differ.
func New() *Differ {
	return &Differ{
		index: make(map[scopeKey]*record),
		base:  make(map[model.RootID]int),
	}
}

// Buffer records the parents op is about to modify. It must be called
// before op is applied.
func (d *Differ) Buffer(op model.Operation, roots model.Roots) error {
	switch o := op.(type) {
	case *model.InsertOp:
		return d.touch(roots, o.Position)
	case *model.MoveOp:
		return d.touchPair(roots, o.Source, o.Target)
	case *model.RemoveOp:
		return d.touchPair(roots, o.Source, o.Target)
	case *model.ReinsertOp:
		return d.touchPair(roots, o.Source, o.Target)
	case *model.AttributeOp:
		return d.touch(roots, o.Range.Start)
	}
	// Root attributes, markers and no-ops change no child list.
	return nil
}

// Reset discards everything buffered.
func (d *Differ) Reset() {
	d.records = nil
	d.index = make(map[scopeKey]*record)
	d.base = make(map[model.RootID]int)
}

// IsEmpty reports whether nothing has been buffered.
func (d *Differ) IsEmpty() bool {
	return len(d.records) == 0
}

func (d *Differ) touchPair(roots model.Roots, a, b model.Position) error {
	if err := d.touch(roots, a); err != nil {
		return err
	}
	return d.touch(roots, b)
}

func (d *Differ) touch(roots model.Roots, pos model.Position) error {
	t, ok := roots.Tree(pos.Root)
	if !ok {
		return model.ErrUnknownRoot
	}
	if _, seen := d.base[pos.Root]; !seen {
		d.base[pos.Root] = t.Len()
	}
	parent, err := t.Resolve(pos.ParentPath())
	if err != nil {
		return err
	}
	key := scopeKey{root: pos.Root, parent: parent}
	if _, ok := d.index[key]; ok {
		return nil
	}

	children := t.Children(parent)
	rec := &record{
		scopeKey: key,
		children: children,
		attrs:    make([]model.Attributes, len(children)),
	}
	for i, id := range children {
		rec.attrs[i] = t.Item(id).Attrs.Clone()
	}
	d.records = append(d.records, rec)
	d.index[key] = rec
	return nil
}

// Changes compares the recorded parents with their current children.
// Parents that are no longer attached, or that were created after they were
// first seen, are skipped: their content is reported by an ancestor.
func (d *Differ) Changes(roots model.Roots) []Change {
	var changes []Change
	for _, rec := range d.records {
		t, ok := roots.Tree(rec.root)
		if !ok || !t.Attached(rec.parent) {
			continue
		}
		base := d.base[rec.root]
		if t.HasAncestorIn(rec.parent, func(id model.NodeID) bool { return int(id) >= base }) {
			continue
		}
		path, _ := t.PathOf(rec.parent)
		changes = append(changes, d.diffParent(t, rec, path)...)
	}
	return changes
}

func (d *Differ) diffParent(t *model.Tree, rec *record, path []int) []Change {
	current := t.Children(rec.parent)
	at := func(offset int) model.Position {
		return model.NewPosition(rec.root, append(append([]int(nil), path...), offset)...)
	}

	var changes []Change
	offset := 0
	for _, e := range myers(rec.children, current) {
		switch e.kind {
		case editEqual:
			keys := rec.attrs[e.oldIndex].Changed(t.Item(current[e.newIndex]).Attrs)
			if len(keys) > 0 {
				pos := at(offset)
				changes = appendChange(changes, Change{
					Type:     ChangeAttribute,
					Position: pos,
					Length:   1,
					Range:    model.NewRange(pos, 1),
					Keys:     keys,
					Parent:   rec.parent,
				})
			}
			offset++
		case editInsert:
			changes = appendChange(changes, Change{
				Type:     ChangeInsert,
				Position: at(offset),
				Length:   1,
				Parent:   rec.parent,
			})
			offset++
		case editDelete:
			changes = appendChange(changes, Change{
				Type:     ChangeRemove,
				Position: at(offset),
				Length:   1,
				Parent:   rec.parent,
			})
		}
	}
	return changes
}
