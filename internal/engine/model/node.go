package model

import "strings"

// Node is a detached subtree in value form.
// It is used as operation payload and for content copied out of a tree.
type Node struct {
	Item
	Children []Node
}

// Text returns one text node per rune of s, all carrying attrs.
func Text(s string, attrs Attributes) []Node {
	nodes := make([]Node, 0, len(s))
	for _, r := range s {
		nodes = append(nodes, Node{Item: Item{Kind: KindText, Char: r, Attrs: attrs.Clone()}})
	}
	return nodes
}

// Element returns an element node.
func Element(name string, attrs Attributes, children ...Node) Node {
	return Node{
		Item:     Item{Kind: KindElement, Name: name, Attrs: attrs.Clone()},
		Children: children,
	}
}

// Paragraph returns a "paragraph" element holding text.
func Paragraph(text string) Node {
	return Element("paragraph", nil, Text(text, nil)...)
}

// Embed returns an opaque embed node referencing ref.
func Embed(ref string, attrs Attributes) Node {
	return Node{Item: Item{Kind: KindEmbed, Ref: ref, Attrs: attrs}}
}

// Clone returns a copy of n. Cloneable items are copied deeply,
// embeds keep their reference.
func (n Node) Clone() Node {
	c := Node{Item: n.Item.clone()}
	if len(n.Children) > 0 {
		c.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports whether n and other are structurally identical.
func (n Node) Equal(other Node) bool {
	if !n.Item.equal(other.Item) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the subtree. Text renders as its characters, elements as
// <name key="value">children</name>, embeds as <embed:ref/>.
func (n Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n Node) write(sb *strings.Builder) {
	switch n.Kind {
	case KindText:
		sb.WriteRune(n.Char)
	case KindEmbed:
		sb.WriteString("<embed:")
		sb.WriteString(n.Ref)
		sb.WriteString("/>")
	default:
		sb.WriteByte('<')
		sb.WriteString(n.Name)
		writeAttrs(sb, n.Attrs)
		sb.WriteByte('>')
		for _, child := range n.Children {
			child.write(sb)
		}
		sb.WriteString("</")
		sb.WriteString(n.Name)
		sb.WriteByte('>')
	}
}

func writeAttrs(sb *strings.Builder, attrs Attributes) {
	for _, k := range attrs.Keys() {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(attrs[k])
		sb.WriteByte('"')
	}
}

// NodesString renders a sequence of nodes.
func NodesString(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		n.write(&sb)
	}
	return sb.String()
}
