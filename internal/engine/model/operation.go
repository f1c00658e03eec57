package model

import (
	"fmt"
	"slices"
)

// OpKind identifies an operation variant.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpMove
	OpRemove
	OpReinsert
	OpAttribute
	OpRootAttribute
	OpMarker
	OpNoOp
)

// String returns the operation kind name.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	case OpReinsert:
		return "reinsert"
	case OpAttribute:
		return "attribute"
	case OpRootAttribute:
		return "rootAttribute"
	case OpMarker:
		return "marker"
	case OpNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// Operation is an atomic structural edit. The set of variants is closed;
// callers switch on the concrete type.
type Operation interface {
	// Kind returns the variant tag.
	Kind() OpKind

	// BaseVersion returns the document version the operation was applied on.
	BaseVersion() int

	// Clone returns a deep copy sharing no positions or payload with the original.
	Clone() Operation

	apply(roots Roots) error
}

// Roots resolves root identities to trees.
type Roots interface {
	Tree(id RootID) (*Tree, bool)
}

// RootSet is a Roots backed by a map.
type RootSet map[RootID]*Tree

// Tree implements Roots.
func (s RootSet) Tree(id RootID) (*Tree, bool) {
	t, ok := s[id]
	return t, ok
}

// Apply applies op to the trees in roots.
func Apply(op Operation, roots Roots) error {
	if err := op.apply(roots); err != nil {
		return fmt.Errorf("apply %s: %w", op.Kind(), err)
	}
	return nil
}

// InsertOp inserts Nodes at Position.
type InsertOp struct {
	Base     int
	Position Position
	Nodes    []Node
}

func (op *InsertOp) Kind() OpKind     { return OpInsert }
func (op *InsertOp) BaseVersion() int { return op.Base }

// HowMany returns the number of inserted nodes.
func (op *InsertOp) HowMany() int { return len(op.Nodes) }

func (op *InsertOp) Clone() Operation {
	nodes := make([]Node, len(op.Nodes))
	for i, n := range op.Nodes {
		nodes[i] = n.Clone()
	}
	return &InsertOp{Base: op.Base, Position: op.Position.Clone(), Nodes: nodes}
}

func (op *InsertOp) apply(roots Roots) error {
	t, parent, err := resolveParent(roots, op.Position)
	if err != nil {
		return err
	}
	_, err = t.insert(parent, op.Position.Offset(), op.Nodes)
	return err
}

// MoveOp moves HowMany nodes starting at Source to Target.
// Target is expressed in coordinates from before the move.
type MoveOp struct {
	Base    int
	Source  Position
	HowMany int
	Target  Position
}

func (op *MoveOp) Kind() OpKind     { return OpMove }
func (op *MoveOp) BaseVersion() int { return op.Base }

func (op *MoveOp) Clone() Operation {
	return &MoveOp{Base: op.Base, Source: op.Source.Clone(), HowMany: op.HowMany, Target: op.Target.Clone()}
}

func (op *MoveOp) apply(roots Roots) error {
	return move(roots, op.Source, op.HowMany, op.Target)
}

// RemoveOp moves HowMany nodes from Source into the graveyard at Target.
type RemoveOp struct {
	Base    int
	Source  Position
	HowMany int
	Target  Position
}

func (op *RemoveOp) Kind() OpKind     { return OpRemove }
func (op *RemoveOp) BaseVersion() int { return op.Base }

func (op *RemoveOp) Clone() Operation {
	return &RemoveOp{Base: op.Base, Source: op.Source.Clone(), HowMany: op.HowMany, Target: op.Target.Clone()}
}

func (op *RemoveOp) apply(roots Roots) error {
	return move(roots, op.Source, op.HowMany, op.Target)
}

// ReinsertOp moves HowMany nodes from the graveyard at Source back to Target.
type ReinsertOp struct {
	Base    int
	Source  Position
	HowMany int
	Target  Position
}

func (op *ReinsertOp) Kind() OpKind     { return OpReinsert }
func (op *ReinsertOp) BaseVersion() int { return op.Base }

func (op *ReinsertOp) Clone() Operation {
	return &ReinsertOp{Base: op.Base, Source: op.Source.Clone(), HowMany: op.HowMany, Target: op.Target.Clone()}
}

func (op *ReinsertOp) apply(roots Roots) error {
	return move(roots, op.Source, op.HowMany, op.Target)
}

// AttributeOp sets Key to NewValue on every node in a flat Range.
// An empty value unsets the key.
type AttributeOp struct {
	Base     int
	Range    Range
	Key      string
	OldValue string
	NewValue string
}

func (op *AttributeOp) Kind() OpKind     { return OpAttribute }
func (op *AttributeOp) BaseVersion() int { return op.Base }

func (op *AttributeOp) Clone() Operation {
	c := *op
	c.Range = op.Range.Clone()
	return &c
}

func (op *AttributeOp) apply(roots Roots) error {
	if !op.Range.IsFlat() {
		return ErrRangeNotFlat
	}
	t, parent, err := resolveParent(roots, op.Range.Start)
	if err != nil {
		return err
	}
	start, end := op.Range.Start.Offset(), op.Range.End.Offset()
	children := t.slots[parent].children
	if start < 0 || end < start || end > len(children) {
		return ErrOffsetOutOfRange
	}
	for _, id := range children[start:end] {
		t.setAttr(id, op.Key, op.NewValue)
	}
	return nil
}

// RootAttributeOp sets Key to NewValue on the root element of Root.
type RootAttributeOp struct {
	Base     int
	Root     RootID
	Key      string
	OldValue string
	NewValue string
}

func (op *RootAttributeOp) Kind() OpKind     { return OpRootAttribute }
func (op *RootAttributeOp) BaseVersion() int { return op.Base }

func (op *RootAttributeOp) Clone() Operation {
	c := *op
	return &c
}

func (op *RootAttributeOp) apply(roots Roots) error {
	t, ok := roots.Tree(op.Root)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoot, op.Root)
	}
	t.setAttr(rootNode, op.Key, op.NewValue)
	return nil
}

// MarkerOp changes the range of a named model marker. A nil NewRange
// removes the marker. It has no effect on tree content.
type MarkerOp struct {
	Base     int
	Name     string
	OldRange *Range
	NewRange *Range
}

func (op *MarkerOp) Kind() OpKind     { return OpMarker }
func (op *MarkerOp) BaseVersion() int { return op.Base }

func (op *MarkerOp) Clone() Operation {
	c := &MarkerOp{Base: op.Base, Name: op.Name}
	if op.OldRange != nil {
		r := op.OldRange.Clone()
		c.OldRange = &r
	}
	if op.NewRange != nil {
		r := op.NewRange.Clone()
		c.NewRange = &r
	}
	return c
}

func (op *MarkerOp) apply(Roots) error { return nil }

// NoOp does nothing. It keeps version numbering intact when an operation
// is discarded.
type NoOp struct {
	Base int
}

func (op *NoOp) Kind() OpKind      { return OpNoOp }
func (op *NoOp) BaseVersion() int  { return op.Base }
func (op *NoOp) Clone() Operation  { return &NoOp{Base: op.Base} }
func (op *NoOp) apply(Roots) error { return nil }

func resolveParent(roots Roots, pos Position) (*Tree, NodeID, error) {
	t, ok := roots.Tree(pos.Root)
	if !ok {
		return nil, NoNode, fmt.Errorf("%w: %s", ErrUnknownRoot, pos.Root)
	}
	if len(pos.Path) == 0 {
		return nil, NoNode, &PathError{Root: pos.Root, Err: ErrInvalidPath}
	}
	parent, err := t.Resolve(pos.ParentPath())
	if err != nil {
		return nil, NoNode, err
	}
	return t, parent, nil
}

func move(roots Roots, source Position, howMany int, target Position) error {
	st, sp, err := resolveParent(roots, source)
	if err != nil {
		return err
	}
	tt, tp, err := resolveParent(roots, target)
	if err != nil {
		return err
	}
	srcOff, tgtOff := source.Offset(), target.Offset()
	if srcOff < 0 || howMany < 0 || srcOff+howMany > st.ChildCount(sp) {
		return ErrOffsetOutOfRange
	}
	if tgtOff < 0 || tgtOff > tt.ChildCount(tp) {
		return ErrOffsetOutOfRange
	}

	if st != tt {
		nodes, err := st.ExportRange(sp, srcOff, howMany)
		if err != nil {
			return err
		}
		if _, err := st.detach(sp, srcOff, howMany); err != nil {
			return err
		}
		_, err = tt.insert(tp, tgtOff, nodes)
		return err
	}

	moved := st.slots[sp].children[srcOff : srcOff+howMany]
	if st.HasAncestorIn(tp, func(id NodeID) bool { return slices.Contains(moved, id) }) {
		return ErrMoveIntoSelf
	}
	if tp == sp && tgtOff > srcOff {
		if tgtOff < srcOff+howMany {
			return ErrMoveIntoSelf
		}
		tgtOff -= howMany
	}
	ids, err := st.detach(sp, srcOff, howMany)
	if err != nil {
		return err
	}
	st.attach(tp, tgtOff, ids)
	return nil
}
