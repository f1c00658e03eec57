package view

import (
	"slices"
	"strings"

	"github.com/dshills/revdiff/internal/engine/model"
)

// Node is a presentation node.
type Node struct {
	Kind  model.Kind
	Name  string
	Char  rune
	Ref   string
	Attrs model.Attributes

	// Model is the model node this node renders, or model.NoNode.
	Model model.NodeID

	// Phantom nodes render content with no model counterpart.
	Phantom bool

	// Classes are presentation classes attached to the node itself.
	Classes []string

	Children []*Node
	parent   *Node
}

// Parent returns the parent node.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsEditable reports whether the node and all its ancestors map to the model.
func (n *Node) IsEditable() bool {
	for p := n; p != nil; p = p.parent {
		if p.Phantom {
			return false
		}
	}
	return true
}

// HasClass reports whether class is attached to the node.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.Classes, class)
}

// Phantoms returns detached phantom view nodes rendering nodes. The given
// classes are attached to each top-level node.
func Phantoms(nodes []model.Node, classes ...string) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = phantom(n, nil)
		out[i].Classes = slices.Clone(classes)
	}
	return out
}

func phantom(n model.Node, parent *Node) *Node {
	v := &Node{
		Kind:    n.Kind,
		Name:    n.Name,
		Char:    n.Char,
		Ref:     n.Ref,
		Attrs:   n.Attrs,
		Model:   model.NoNode,
		Phantom: true,
		parent:  parent,
	}
	for _, child := range n.Children {
		v.Children = append(v.Children, phantom(child, v))
	}
	return v
}

// String renders the subtree. Phantom runs are wrapped in brackets.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Kind {
	case model.KindText:
		sb.WriteRune(n.Char)
	case model.KindEmbed:
		sb.WriteString("<embed:")
		sb.WriteString(n.Ref)
		sb.WriteString("/>")
	default:
		writeChildren(sb, n.Children, n.Phantom)
	}
}

// writeChildren brackets phantom runs, unless the container is itself a
// phantom.
func writeChildren(sb *strings.Builder, children []*Node, phantomParent bool) {
	inPhantom := false
	for _, child := range children {
		if !phantomParent && child.Phantom != inPhantom {
			if child.Phantom {
				sb.WriteByte('[')
			} else {
				sb.WriteByte(']')
			}
			inPhantom = child.Phantom
		}
		child.write(sb)
	}
	if inPhantom {
		sb.WriteByte(']')
	}
}

// dump writes a structural description used to compare views.
func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	switch n.Kind {
	case model.KindText:
		sb.WriteString(" " + string(n.Char))
	case model.KindEmbed:
		sb.WriteString(" " + n.Ref)
	default:
		sb.WriteString(" " + n.Name)
	}
	for _, k := range n.Attrs.Keys() {
		sb.WriteString(" " + k + "=" + n.Attrs[k])
	}
	if n.Phantom {
		sb.WriteString(" phantom")
	}
	if len(n.Classes) > 0 {
		sb.WriteString(" ." + strings.Join(n.Classes, "."))
	}
	sb.WriteByte('\n')
	for _, child := range n.Children {
		child.dump(sb, depth+1)
	}
}
