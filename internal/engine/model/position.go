package model

import (
	"fmt"
	"slices"
)

// RootID identifies a tree. Two trees may hold identical content and still be
// distinct for addressing purposes.
type RootID string

// GraveyardRoot is the discard area removed content is moved into.
const GraveyardRoot RootID = "$graveyard"

// Position addresses a gap between two children of an element.
type Position struct {
	Root RootID
	Path []int
}

// NewPosition creates a position in root at the given path.
func NewPosition(root RootID, path ...int) Position {
	return Position{Root: root, Path: slices.Clone(path)}
}

// Offset returns the offset inside the parent.
func (p Position) Offset() int {
	if len(p.Path) == 0 {
		return 0
	}
	return p.Path[len(p.Path)-1]
}

// ParentPath returns the path of the parent element.
func (p Position) ParentPath() []int {
	if len(p.Path) == 0 {
		return nil
	}
	return p.Path[:len(p.Path)-1]
}

// Clone returns a copy that shares no memory with p.
func (p Position) Clone() Position {
	return Position{Root: p.Root, Path: slices.Clone(p.Path)}
}

// WithRoot returns a copy of p addressing another root.
func (p Position) WithRoot(root RootID) Position {
	c := p.Clone()
	c.Root = root
	return c
}

// WithOffset returns a copy of p with a different offset in the same parent.
func (p Position) WithOffset(offset int) Position {
	c := p.Clone()
	if len(c.Path) == 0 {
		c.Path = []int{offset}
		return c
	}
	c.Path[len(c.Path)-1] = offset
	return c
}

// Shift returns a copy of p moved by n offsets inside its parent.
func (p Position) Shift(n int) Position {
	return p.WithOffset(p.Offset() + n)
}

// SameParent reports whether p and other share root and parent.
func (p Position) SameParent(other Position) bool {
	return p.Root == other.Root && slices.Equal(p.ParentPath(), other.ParentPath())
}

// Equal reports whether p and other address the same gap.
func (p Position) Equal(other Position) bool {
	return p.Root == other.Root && slices.Equal(p.Path, other.Path)
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%s%v", p.Root, p.Path)
}

// Range is a flat span of children: Start and End share a parent.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a flat range of length children starting at start.
func NewRange(start Position, length int) Range {
	return Range{Start: start.Clone(), End: start.Shift(length)}
}

// IsFlat reports whether both ends share a parent.
func (r Range) IsFlat() bool {
	return r.Start.SameParent(r.End)
}

// Len returns the number of children covered by a flat range.
func (r Range) Len() int {
	return r.End.Offset() - r.Start.Offset()
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Len() <= 0
}

// Clone returns a copy that shares no memory with r.
func (r Range) Clone() Range {
	return Range{Start: r.Start.Clone(), End: r.End.Clone()}
}

// WithRoot returns a copy of r addressing another root.
func (r Range) WithRoot(root RootID) Range {
	return Range{Start: r.Start.WithRoot(root), End: r.End.WithRoot(root)}
}

// Equal reports whether r and other cover the same span.
func (r Range) Equal(other Range) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("%s%v[%d:%d)", r.Start.Root, r.Start.ParentPath(), r.Start.Offset(), r.End.Offset())
}
