package view

import (
	"maps"
	"slices"
	"strings"

	"github.com/dshills/revdiff/internal/engine/model"
)

// Segment is a run of text sharing the same classes.
type Segment struct {
	Text    string
	Classes []string
	Phantom bool
}

// Line is one root-level block of the view.
type Line struct {
	Segments []Segment
}

// Text returns the concatenated segment text.
func (l Line) Text() string {
	var sb strings.Builder
	for _, seg := range l.Segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// cover is a marker class applied to a child offset range of a parent.
type cover struct {
	start, end int
	class      string
}

// Lines flattens the view into styled lines. A text node's classes are the
// classes of its ancestors, its own classes and the highlight class of every
// marker covering it.
func (e *Editing) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.root == nil || e.tree == nil {
		return nil
	}

	covers := e.covers()
	var lines []Line
	var loose *Line
	offsets := modelOffsets(e.root)
	for i, child := range e.root.Children {
		classes := nodeClasses(child, covers[e.root.Model], offsets[i], nil)
		if child.Kind == model.KindText {
			if loose == nil {
				lines = append(lines, Line{})
				loose = &lines[len(lines)-1]
			}
			e.flatten(child, classes, covers, loose)
			continue
		}
		loose = nil
		lines = append(lines, Line{})
		e.flatten(child, classes, covers, &lines[len(lines)-1])
	}
	return lines
}

func (e *Editing) flatten(n *Node, classes []string, covers map[model.NodeID][]cover, line *Line) {
	switch n.Kind {
	case model.KindText:
		appendSegment(line, Segment{Text: string(n.Char), Classes: classes, Phantom: !n.IsEditable()})
	case model.KindEmbed:
		appendSegment(line, Segment{Text: "<embed:" + n.Ref + "/>", Classes: classes, Phantom: !n.IsEditable()})
	default:
		var parentCovers []cover
		if !n.Phantom {
			parentCovers = covers[n.Model]
		}
		offsets := modelOffsets(n)
		for i, child := range n.Children {
			e.flatten(child, nodeClasses(child, parentCovers, offsets[i], classes), covers, line)
		}
	}
}

// covers groups marker classes by the model parent of their range.
func (e *Editing) covers() map[model.NodeID][]cover {
	out := make(map[model.NodeID][]cover)
	for _, name := range slices.Sorted(maps.Keys(e.markers)) {
		class := e.highlights[markerGroup(name)]
		if class == "" {
			continue
		}
		r := e.markers[name]
		parent, err := e.tree.Resolve(r.Start.ParentPath())
		if err != nil {
			continue
		}
		out[parent] = append(out[parent], cover{start: r.Start.Offset(), end: r.End.Offset(), class: class})
	}
	return out
}

// modelOffsets returns, for each child of n, its offset among the
// non-phantom children, or -1 for phantoms.
func modelOffsets(n *Node) []int {
	offsets := make([]int, len(n.Children))
	next := 0
	for i, child := range n.Children {
		if child.Phantom {
			offsets[i] = -1
			continue
		}
		offsets[i] = next
		next++
	}
	return offsets
}

func nodeClasses(n *Node, covers []cover, offset int, inherited []string) []string {
	classes := slices.Clone(inherited)
	for _, c := range n.Classes {
		if !slices.Contains(classes, c) {
			classes = append(classes, c)
		}
	}
	if offset >= 0 {
		for _, c := range covers {
			if offset >= c.start && offset < c.end && !slices.Contains(classes, c.class) {
				classes = append(classes, c.class)
			}
		}
	}
	return classes
}

func appendSegment(line *Line, seg Segment) {
	if n := len(line.Segments); n > 0 {
		last := &line.Segments[n-1]
		if last.Phantom == seg.Phantom && slices.Equal(last.Classes, seg.Classes) {
			last.Text += seg.Text
			return
		}
	}
	line.Segments = append(line.Segments, seg)
}
