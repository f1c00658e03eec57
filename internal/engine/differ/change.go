package differ

import (
	"fmt"
	"slices"

	"github.com/dshills/revdiff/internal/engine/model"
)

// ChangeType categorizes a structural change.
type ChangeType uint8

const (
	// ChangeInsert indicates nodes present now that were not there before.
	ChangeInsert ChangeType = iota

	// ChangeRemove indicates nodes that were there before and are gone now.
	ChangeRemove

	// ChangeAttribute indicates nodes whose attributes differ.
	ChangeAttribute
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// Change is a coalesced structural change scoped to one parent element.
type Change struct {
	Type ChangeType

	// Position is where the change is in the current tree. For removals it
	// is the gap the removed nodes used to occupy.
	Position model.Position

	// Length is the number of nodes inserted, removed or changed.
	Length int

	// Range covers the changed nodes of an attribute change.
	Range model.Range

	// Keys lists the attribute keys that changed, sorted.
	Keys []string

	// Parent is the scope parent. Parents that existed before the recorded
	// window keep their NodeID, so it is valid in the old tree too.
	Parent model.NodeID
}

// Root returns the root the change is scoped to.
func (c Change) Root() model.RootID {
	return c.Position.Root
}

// End returns the offset following the change in the current tree.
func (c Change) End() int {
	if c.Type == ChangeRemove {
		return c.Position.Offset()
	}
	return c.Position.Offset() + c.Length
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	if c.Type == ChangeAttribute {
		return fmt.Sprintf("attribute %s %v", c.Range, c.Keys)
	}
	return fmt.Sprintf("%s %s +%d", c.Type, c.Position, c.Length)
}

// extends reports whether next continues c and can be merged into it.
func (c Change) extends(next Change) bool {
	if c.Type != next.Type || c.Parent != next.Parent || c.Root() != next.Root() {
		return false
	}
	switch c.Type {
	case ChangeInsert, ChangeAttribute:
		if c.Type == ChangeAttribute && !slices.Equal(c.Keys, next.Keys) {
			return false
		}
		return c.Position.Offset()+c.Length == next.Position.Offset()
	case ChangeRemove:
		return c.Position.Offset() == next.Position.Offset()
	}
	return false
}

// appendChange appends next to changes, merging it into the last record
// when they are contiguous.
func appendChange(changes []Change, next Change) []Change {
	if n := len(changes); n > 0 && changes[n-1].extends(next) {
		last := &changes[n-1]
		last.Length += next.Length
		if last.Type == ChangeAttribute {
			last.Range = model.NewRange(last.Position, last.Length)
		}
		return changes
	}
	return append(changes, next)
}
