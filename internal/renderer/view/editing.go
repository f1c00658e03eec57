package view

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/revdiff/internal/engine/model"
)

// Marker is a named model range.
type Marker struct {
	Name  string
	Range model.Range
}

// Group returns the highlight group of the marker: its name up to the last
// colon. "revisions:insert:3" belongs to "revisions:insert".
func (m Marker) Group() string {
	return markerGroup(m.Name)
}

func markerGroup(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return name
}

// Commit describes a committed batch.
type Commit struct {
	Actions int
}

// Option configures an Editing view.
type Option func(*Editing)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editing) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editing is the presentation of a model tree plus its markers.
// It is safe for concurrent use.
type Editing struct {
	mu sync.Mutex

	tree    *model.Tree
	root    *Node
	byModel map[model.NodeID]*Node

	markers    map[string]model.Range
	highlights map[string]string

	queue   []func(*Tx) error
	running bool

	listeners  map[int]func(Commit)
	listenerID int

	logger *slog.Logger
}

// New creates an empty view. Call Rebuild to render a tree.
func New(opts ...Option) *Editing {
	e := &Editing{
		byModel:    make(map[model.NodeID]*Node),
		markers:    make(map[string]model.Range),
		highlights: make(map[string]string),
		listeners:  make(map[int]func(Commit)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rebuild renders tree from scratch. Phantom nodes are dropped; markers are
// kept.
func (e *Editing) Rebuild(tree *model.Tree) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tree = tree
	e.byModel = make(map[model.NodeID]*Node)
	e.root = nil
	if tree != nil {
		e.root = e.build(tree, tree.Root(), nil)
	}
}

func (e *Editing) build(t *model.Tree, id model.NodeID, parent *Node) *Node {
	it := t.Item(id)
	n := &Node{
		Kind:   it.Kind,
		Name:   it.Name,
		Char:   it.Char,
		Ref:    it.Ref,
		Attrs:  it.Attrs.Clone(),
		Model:  id,
		parent: parent,
	}
	e.byModel[id] = n
	for _, child := range t.Children(id) {
		n.Children = append(n.Children, e.build(t, child, n))
	}
	return n
}

// Root returns the root view node, or nil before the first Rebuild.
func (e *Editing) Root() *Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Tree returns the model tree the view was built from.
func (e *Editing) Tree() *model.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// ToViewElement returns the view node rendering a model node.
func (e *Editing) ToViewElement(id model.NodeID) (*Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.byModel[id]
	if !ok {
		return nil, ErrNotMapped
	}
	return n, nil
}

// FindPositionIn returns the child index of container at which content
// for offset is inserted. Every view child, phantom or not, occupies one
// offset.
func (e *Editing) FindPositionIn(container *Node, offset int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.contains(container) {
		return 0, ErrNoContainer
	}
	if offset < 0 || offset > len(container.Children) {
		return 0, ErrIndexOutOfRange
	}
	return offset, nil
}

// ToViewPosition maps a model position in the view's tree to a container
// and child index.
func (e *Editing) ToViewPosition(pos model.Position) (*Node, int, error) {
	tree := e.Tree()
	if tree == nil {
		return nil, 0, ErrNoContainer
	}
	parent, err := tree.Resolve(pos.ParentPath())
	if err != nil {
		return nil, 0, err
	}
	container, err := e.ToViewElement(parent)
	if err != nil {
		return nil, 0, err
	}
	index, err := e.FindPositionIn(container, pos.Offset())
	if err != nil {
		return nil, 0, err
	}
	return container, index, nil
}

// contains reports whether n belongs to the current view tree.
func (e *Editing) contains(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == e.root {
			return true
		}
	}
	return false
}

// RegisterHighlight attaches class to every marker of group.
func (e *Editing) RegisterHighlight(group, class string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.highlights[group] = class
}

// MarkerClass returns the highlight class of a marker name, if any.
func (e *Editing) MarkerClass(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highlights[markerGroup(name)]
}

// Marker returns the range of a marker.
func (e *Editing) Marker(name string) (model.Range, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.markers[name]
	return r.Clone(), ok
}

// Markers returns all markers sorted by name.
func (e *Editing) Markers() []Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Marker, 0, len(e.markers))
	for _, name := range slices.Sorted(maps.Keys(e.markers)) {
		out = append(out, Marker{Name: name, Range: e.markers[name].Clone()})
	}
	return out
}

// OnCommit registers a listener invoked after every committed batch.
// The returned function unregisters it.
func (e *Editing) OnCommit(fn func(Commit)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.listenerID
	e.listenerID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Enqueue runs fn with a transaction and commits it. When a block is
// already running, fn is queued and runs after it, in order; the error of
// a queued block is reported by the outermost Enqueue call.
func (e *Editing) Enqueue(fn func(*Tx) error) error {
	e.mu.Lock()
	if e.running {
		e.queue = append(e.queue, fn)
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	err := e.run(fn)
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.running = false
			e.mu.Unlock()
			return err
		}
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		if qerr := e.run(next); qerr != nil && err == nil {
			err = qerr
		}
	}
}

func (e *Editing) run(fn func(*Tx) error) error {
	tx := &Tx{}
	if err := fn(tx); err != nil {
		tx.failed(err)
		return err
	}
	if len(tx.actions) == 0 {
		for _, fn := range tx.after {
			fn()
		}
		return nil
	}

	e.mu.Lock()
	if err := tx.commit(e); err != nil {
		e.mu.Unlock()
		e.logger.Warn("view batch rolled back", "actions", len(tx.actions), "error", err)
		tx.failed(err)
		return err
	}
	listeners := make([]func(Commit), 0, len(e.listeners))
	for _, id := range slices.Sorted(maps.Keys(e.listeners)) {
		listeners = append(listeners, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range tx.after {
		fn()
	}
	commit := Commit{Actions: len(tx.actions)}
	for _, l := range listeners {
		l(commit)
	}
	return nil
}

// Render returns the visible text. Root-level elements are lines and
// phantom runs are wrapped in brackets.
func (e *Editing) Render() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.root == nil {
		return ""
	}

	var lines []string
	var run []*Node
	flush := func() {
		if len(run) > 0 {
			var sb strings.Builder
			writeChildren(&sb, run, false)
			lines = append(lines, sb.String())
			run = nil
		}
	}
	for _, child := range e.root.Children {
		if child.Kind == model.KindText {
			run = append(run, child)
			continue
		}
		flush()
		if child.Phantom {
			lines = append(lines, "["+child.String()+"]")
		} else {
			lines = append(lines, child.String())
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

// Dump returns a structural description of the view and its markers.
// Two views with equal dumps present the same content.
func (e *Editing) Dump() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var sb strings.Builder
	if e.root != nil {
		e.root.dump(&sb, 0)
	}
	for _, name := range slices.Sorted(maps.Keys(e.markers)) {
		sb.WriteString("marker " + name + " " + e.markers[name].String() + "\n")
	}
	return sb.String()
}
