package engine

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dshills/revdiff/internal/engine/history"
	"github.com/dshills/revdiff/internal/engine/model"
)

// Re-export commonly used types for convenience.
type (
	// Position addresses a gap between two children.
	Position = model.Position

	// Range is a flat span of children.
	Range = model.Range

	// Node is a subtree in value form.
	Node = model.Node

	// Attributes maps attribute keys to values.
	Attributes = model.Attributes

	// Delta is a group of operations applied as one edit.
	Delta = history.Delta
)

// MainRoot is the identity of the document's main tree.
const MainRoot model.RootID = "main"

// Pos returns a position in the main root.
func Pos(path ...int) Position {
	return model.NewPosition(MainRoot, path...)
}

// Document is a versioned tree document with an edit log.
//
// All methods are safe for concurrent use. Trees returned by Root and
// Graveyard are never mutated by the document afterwards; callers must
// treat them as read-only.
type Document struct {
	mu sync.RWMutex

	root      *model.Tree
	graveyard *model.Tree
	markers   map[string]model.Range
	log       *history.Log
	version   int
	readOnly  bool

	listeners  map[int]func(*Delta)
	listenerID int

	logger *slog.Logger

	// Configuration
	maxHistory  int
	rootName    string
	initRoot    bool
	initContent []model.Node
}

// New creates a Document with the given options. Without WithContent or
// WithRoot the document has no main root until CreateRoot is called.
func New(opts ...Option) *Document {
	d := &Document{
		maxHistory: DefaultMaxHistory,
		rootName:   DefaultRootName,
		logger:     slog.Default(),
		markers:    make(map[string]model.Range),
		listeners:  make(map[int]func(*Delta)),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.log = history.NewLog(d.maxHistory)
	d.graveyard = model.NewTree(model.GraveyardRoot, string(model.GraveyardRoot), nil)
	if d.initRoot {
		d.root = newRoot(d.rootName, nil, d.initContent)
		d.initContent = nil
	}
	return d
}

func newRoot(name string, attrs model.Attributes, content []model.Node) *model.Tree {
	t := model.NewTree(MainRoot, name, attrs)
	if len(content) > 0 {
		// Initial content is loaded without recording history.
		op := &model.InsertOp{Position: model.NewPosition(MainRoot, 0), Nodes: content}
		if err := model.Apply(op, model.RootSet{MainRoot: t}); err != nil {
			panic(fmt.Sprintf("engine: load initial content: %v", err))
		}
	}
	return t
}

// CreateRoot creates the main root. It is not recorded in the edit log.
func (d *Document) CreateRoot(name string, attrs model.Attributes) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.root != nil {
		return ErrRootExists
	}
	if name == "" {
		name = d.rootName
	}
	d.root = newRoot(name, attrs, nil)
	d.logger.Debug("root created", "name", name)
	return nil
}

// HasRoot reports whether the main root exists.
func (d *Document) HasRoot() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root != nil
}

// Root returns the main tree, or nil when there is none.
func (d *Document) Root() *model.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Graveyard returns the tree holding removed content.
func (d *Document) Graveyard() *model.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.graveyard
}

// Version returns the document version. It increases by one per operation.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Deltas returns the deltas recorded between two versions.
func (d *Document) Deltas(from, to int) ([]*Delta, error) {
	return d.log.Between(from, to)
}

// Markers returns a copy of the model markers.
func (d *Document) Markers() map[string]model.Range {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]model.Range, len(d.markers))
	for name, r := range d.markers {
		out[name] = r.Clone()
	}
	return out
}

// Marker returns the range of a model marker.
func (d *Document) Marker(name string) (model.Range, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.markers[name]
	if !ok {
		return model.Range{}, fmt.Errorf("%w: %s", ErrMarkerNotFound, name)
	}
	return r.Clone(), nil
}

// Text returns the plain text of the main root.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.root == nil {
		return ""
	}
	return d.root.Text()
}

// SetReadOnly toggles read-only mode.
func (d *Document) SetReadOnly(readOnly bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = readOnly
}

// IsReadOnly reports whether changes are refused.
func (d *Document) IsReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// OnChange registers a listener invoked after each committed delta.
// The returned function unregisters it.
func (d *Document) OnChange(fn func(*Delta)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.listenerID
	d.listenerID++
	d.listeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Change runs fn with a Writer and commits its operations as one delta.
// Nothing is committed when fn returns an error. A callback that applies no
// operation leaves the version unchanged.
func (d *Document) Change(name string, fn func(w *Writer) error) error {
	d.mu.Lock()

	if d.readOnly {
		d.mu.Unlock()
		return ErrReadOnly
	}
	if d.root == nil {
		d.mu.Unlock()
		return ErrNoRoot
	}

	w := &Writer{
		roots: model.RootSet{
			MainRoot:            d.root.Clone(),
			model.GraveyardRoot: d.graveyard.Clone(),
		},
		markers: maps.Clone(d.markers),
		version: d.version,
		delta:   history.NewDelta(name),
	}
	if err := fn(w); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("change %q: %w", name, err)
	}
	if w.delta.IsEmpty() {
		d.mu.Unlock()
		return nil
	}
	if err := d.log.Append(w.delta); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("change %q: %w", name, err)
	}

	d.root = w.roots[MainRoot]
	d.graveyard = w.roots[model.GraveyardRoot]
	d.markers = w.markers
	d.version = w.version

	listeners := make([]func(*Delta), 0, len(d.listeners))
	for _, id := range slices.Sorted(maps.Keys(d.listeners)) {
		listeners = append(listeners, d.listeners[id])
	}
	d.logger.Debug("change committed", "name", name, "operations", w.delta.Len(), "version", d.version)
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(w.delta)
	}
	return nil
}
