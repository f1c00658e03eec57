package tracking

import "github.com/dshills/revdiff/internal/engine/model"

// Rewrite returns a copy of op in which every position, range and root
// reference naming from names to instead. References to other roots, such
// as the graveyard, are left untouched. op is not modified.
func Rewrite(op model.Operation, from, to model.RootID) model.Operation {
	c := op.Clone()
	switch o := c.(type) {
	case *model.InsertOp:
		o.Position = RewritePosition(o.Position, from, to)
	case *model.MoveOp:
		o.Source = RewritePosition(o.Source, from, to)
		o.Target = RewritePosition(o.Target, from, to)
	case *model.RemoveOp:
		o.Source = RewritePosition(o.Source, from, to)
		o.Target = RewritePosition(o.Target, from, to)
	case *model.ReinsertOp:
		o.Source = RewritePosition(o.Source, from, to)
		o.Target = RewritePosition(o.Target, from, to)
	case *model.AttributeOp:
		o.Range = RewriteRange(o.Range, from, to)
	case *model.RootAttributeOp:
		if o.Root == from {
			o.Root = to
		}
	case *model.MarkerOp:
		if o.OldRange != nil {
			r := RewriteRange(*o.OldRange, from, to)
			o.OldRange = &r
		}
		if o.NewRange != nil {
			r := RewriteRange(*o.NewRange, from, to)
			o.NewRange = &r
		}
	case *model.NoOp:
	}
	return c
}

// RewritePosition returns a copy of p, moved to root to when it names from.
func RewritePosition(p model.Position, from, to model.RootID) model.Position {
	if p.Root == from {
		return p.WithRoot(to)
	}
	return p.Clone()
}

// RewriteRange returns a copy of r, moved to root to when its start names from.
func RewriteRange(r model.Range, from, to model.RootID) model.Range {
	if r.Start.Root == from {
		return r.WithRoot(to)
	}
	return r.Clone()
}

// touchesOnly reports whether every reference of op names root.
func touchesOnly(op model.Operation, root model.RootID) bool {
	switch o := op.(type) {
	case *model.InsertOp:
		return o.Position.Root == root
	case *model.MoveOp:
		return o.Source.Root == root && o.Target.Root == root
	case *model.RemoveOp:
		return o.Source.Root == root && o.Target.Root == root
	case *model.ReinsertOp:
		return o.Source.Root == root && o.Target.Root == root
	case *model.AttributeOp:
		return o.Range.Start.Root == root
	case *model.RootAttributeOp:
		return o.Root == root
	}
	return false
}
