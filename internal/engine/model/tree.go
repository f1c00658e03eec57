package model

import (
	"slices"
	"strings"
)

// NodeID addresses a slot in a tree arena. IDs are stable for the lifetime of
// the tree and are preserved by [Tree.Clone].
type NodeID int32

// NoNode is the NodeID of nothing (the parent of a root or of a detached node).
const NoNode NodeID = -1

// rootNode is the slot holding the root element.
const rootNode NodeID = 0

type slot struct {
	item     Item
	parent   NodeID
	children []NodeID
}

// Tree is an arena-backed element tree identified by a RootID.
// Detached slots are kept so NodeIDs never get reused.
type Tree struct {
	id    RootID
	slots []slot
}

// NewTree creates a tree whose root is an element named name.
func NewTree(id RootID, name string, attrs Attributes) *Tree {
	return &Tree{
		id: id,
		slots: []slot{{
			item:   Item{Kind: KindElement, Name: name, Attrs: attrs.Clone()},
			parent: NoNode,
		}},
	}
}

// ID returns the tree's root identity.
func (t *Tree) ID() RootID {
	return t.id
}

// Root returns the NodeID of the root element.
func (t *Tree) Root() NodeID {
	return rootNode
}

// Len returns the number of slots in the arena, attached or not.
// Nodes created after a call have IDs greater or equal to the result.
func (t *Tree) Len() int {
	return len(t.slots)
}

// Clone returns a deep copy of the tree with the same identity and NodeIDs.
func (t *Tree) Clone() *Tree {
	return t.CloneAs(t.id)
}

// CloneAs returns a deep copy of the tree labelled with another identity.
func (t *Tree) CloneAs(id RootID) *Tree {
	c := &Tree{id: id, slots: make([]slot, len(t.slots))}
	for i, s := range t.slots {
		c.slots[i] = slot{
			item:     s.item.clone(),
			parent:   s.parent,
			children: slices.Clone(s.children),
		}
	}
	return c
}

// Contains reports whether id names a slot of this tree.
func (t *Tree) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(t.slots)
}

// Item returns the content of a node.
func (t *Tree) Item(id NodeID) Item {
	return t.slots[id].item
}

// Parent returns the parent of a node, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.slots[id].parent
}

// Children returns a copy of the children of a node.
func (t *Tree) Children(id NodeID) []NodeID {
	return slices.Clone(t.slots[id].children)
}

// ChildCount returns the number of children of a node.
func (t *Tree) ChildCount(id NodeID) int {
	return len(t.slots[id].children)
}

// Attached reports whether a node is connected to the root.
func (t *Tree) Attached(id NodeID) bool {
	if !t.Contains(id) {
		return false
	}
	for id != rootNode {
		id = t.slots[id].parent
		if id == NoNode {
			return false
		}
	}
	return true
}

// Resolve returns the element addressed by path, starting at the root.
func (t *Tree) Resolve(path []int) (NodeID, error) {
	id := rootNode
	for _, offset := range path {
		children := t.slots[id].children
		if offset < 0 || offset >= len(children) {
			return NoNode, &PathError{Root: t.id, Path: slices.Clone(path), Err: ErrInvalidPath}
		}
		id = children[offset]
	}
	if t.slots[id].item.Kind != KindElement {
		return NoNode, &PathError{Root: t.id, Path: slices.Clone(path), Err: ErrInvalidPath}
	}
	return id, nil
}

// PathOf returns the path of an attached node.
func (t *Tree) PathOf(id NodeID) ([]int, bool) {
	if !t.Attached(id) {
		return nil, false
	}
	var path []int
	for id != rootNode {
		parent := t.slots[id].parent
		path = append(path, slices.Index(t.slots[parent].children, id))
		id = parent
	}
	slices.Reverse(path)
	return path, true
}

// HasAncestorIn reports whether id or one of its ancestors satisfies fn.
func (t *Tree) HasAncestorIn(id NodeID, fn func(NodeID) bool) bool {
	for id != NoNode {
		if fn(id) {
			return true
		}
		id = t.slots[id].parent
	}
	return false
}

// Export returns the subtree rooted at id in value form.
func (t *Tree) Export(id NodeID) Node {
	s := t.slots[id]
	n := Node{Item: s.item.clone()}
	if len(s.children) > 0 {
		n.Children = make([]Node, len(s.children))
		for i, child := range s.children {
			n.Children[i] = t.Export(child)
		}
	}
	return n
}

// ExportRange returns count children of parent starting at offset in value form.
func (t *Tree) ExportRange(parent NodeID, offset, count int) ([]Node, error) {
	children := t.slots[parent].children
	if offset < 0 || count < 0 || offset+count > len(children) {
		return nil, ErrOffsetOutOfRange
	}
	nodes := make([]Node, count)
	for i := range count {
		nodes[i] = t.Export(children[offset+i])
	}
	return nodes, nil
}

// Value returns the whole tree in value form.
func (t *Tree) Value() Node {
	return t.Export(rootNode)
}

// String renders the children of the root.
func (t *Tree) String() string {
	return NodesString(t.Value().Children)
}

// Text returns the plain text of the tree. Each root-level element is a line;
// consecutive root-level characters share a line.
func (t *Tree) Text() string {
	var lines []string
	var run strings.Builder
	inRun := false
	for _, child := range t.slots[rootNode].children {
		it := t.slots[child].item
		if it.Kind == KindText {
			run.WriteRune(it.Char)
			inRun = true
			continue
		}
		if inRun {
			lines = append(lines, run.String())
			run.Reset()
			inRun = false
		}
		lines = append(lines, t.innerText(child))
	}
	if inRun {
		lines = append(lines, run.String())
	}
	return strings.Join(lines, "\n")
}

func (t *Tree) innerText(id NodeID) string {
	var sb strings.Builder
	var walk func(NodeID)
	walk = func(id NodeID) {
		it := t.slots[id].item
		if it.Kind == KindText {
			sb.WriteRune(it.Char)
			return
		}
		for _, child := range t.slots[id].children {
			walk(child)
		}
	}
	walk(id)
	return sb.String()
}

// Equal reports whether two trees hold structurally identical content,
// ignoring identities and NodeIDs.
func Equal(a, b *Tree) bool {
	return a.Value().Equal(b.Value())
}

// insert materializes nodes as children of parent at offset.
func (t *Tree) insert(parent NodeID, offset int, nodes []Node) ([]NodeID, error) {
	if offset < 0 || offset > len(t.slots[parent].children) {
		return nil, ErrOffsetOutOfRange
	}
	ids := make([]NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = t.materialize(n, parent)
	}
	t.attach(parent, offset, ids)
	return ids, nil
}

func (t *Tree) materialize(n Node, parent NodeID) NodeID {
	id := NodeID(len(t.slots))
	t.slots = append(t.slots, slot{item: n.Item.clone(), parent: parent})
	for _, child := range n.Children {
		cid := t.materialize(child, id)
		t.slots[id].children = append(t.slots[id].children, cid)
	}
	return id
}

// attach links existing slots as children of parent at offset.
func (t *Tree) attach(parent NodeID, offset int, ids []NodeID) {
	t.slots[parent].children = slices.Insert(t.slots[parent].children, offset, ids...)
	for _, id := range ids {
		t.slots[id].parent = parent
	}
}

// detach unlinks count children of parent starting at offset.
func (t *Tree) detach(parent NodeID, offset, count int) ([]NodeID, error) {
	children := t.slots[parent].children
	if offset < 0 || count < 0 || offset+count > len(children) {
		return nil, ErrOffsetOutOfRange
	}
	ids := slices.Clone(children[offset : offset+count])
	t.slots[parent].children = slices.Delete(children, offset, offset+count)
	for _, id := range ids {
		t.slots[id].parent = NoNode
	}
	return ids, nil
}

// setAttr stores an attribute on a node, removing it when value is empty.
func (t *Tree) setAttr(id NodeID, key, value string) {
	t.slots[id].item.Attrs = t.slots[id].item.Attrs.set(key, value)
}
