package view

import (
	"fmt"
	"slices"

	"github.com/dshills/revdiff/internal/engine/model"
)

// action applies one mutation and returns its inverse.
type action func(e *Editing) (undo func(), err error)

// Tx buffers view mutations until its block returns.
type Tx struct {
	actions  []action
	after    []func()
	rollback []func(error)
}

// AfterCommit registers fn to run once the batch has committed. It does not
// run when the batch fails or rolls back.
func (tx *Tx) AfterCommit(fn func()) {
	tx.after = append(tx.after, fn)
}

// OnRollback registers fn to run with the error when the block fails or the
// batch rolls back.
func (tx *Tx) OnRollback(fn func(error)) {
	tx.rollback = append(tx.rollback, fn)
}

func (tx *Tx) failed(err error) {
	for _, fn := range tx.rollback {
		fn(err)
	}
}

// Len returns the number of buffered mutations.
func (tx *Tx) Len() int {
	return len(tx.actions)
}

// SetMarker adds or moves a marker.
func (tx *Tx) SetMarker(name string, r model.Range) {
	r = r.Clone()
	tx.actions = append(tx.actions, func(e *Editing) (func(), error) {
		old, existed := e.markers[name]
		e.markers[name] = r
		return func() {
			if existed {
				e.markers[name] = old
			} else {
				delete(e.markers, name)
			}
		}, nil
	})
}

// RemoveMarker removes a marker. Removing an unknown marker does nothing.
func (tx *Tx) RemoveMarker(name string) {
	tx.actions = append(tx.actions, func(e *Editing) (func(), error) {
		old, existed := e.markers[name]
		if !existed {
			return func() {}, nil
		}
		delete(e.markers, name)
		return func() { e.markers[name] = old }, nil
	})
}

// Insert inserts nodes into container at index.
func (tx *Tx) Insert(container *Node, index int, nodes ...*Node) {
	tx.actions = append(tx.actions, func(e *Editing) (func(), error) {
		if !e.contains(container) {
			return nil, ErrNoContainer
		}
		if index < 0 || index > len(container.Children) {
			return nil, fmt.Errorf("insert at %d of %d: %w", index, len(container.Children), ErrIndexOutOfRange)
		}
		for _, n := range nodes {
			n.parent = container
		}
		container.Children = slices.Insert(container.Children, index, nodes...)
		return func() {
			container.Children = slices.Delete(container.Children, index, index+len(nodes))
			for _, n := range nodes {
				n.parent = nil
			}
		}, nil
	})
}

// Remove removes count children of container starting at index.
func (tx *Tx) Remove(container *Node, index, count int) {
	tx.actions = append(tx.actions, func(e *Editing) (func(), error) {
		if !e.contains(container) {
			return nil, ErrNoContainer
		}
		if index < 0 || count < 0 || index+count > len(container.Children) {
			return nil, fmt.Errorf("remove [%d, %d) of %d: %w", index, index+count, len(container.Children), ErrIndexOutOfRange)
		}
		removed := slices.Clone(container.Children[index : index+count])
		container.Children = slices.Delete(container.Children, index, index+count)
		for _, n := range removed {
			n.parent = nil
		}
		return func() {
			for _, n := range removed {
				n.parent = container
			}
			container.Children = slices.Insert(container.Children, index, removed...)
		}, nil
	})
}

// commit applies every action in order. On failure the applied ones are
// undone in reverse order. The caller holds e.mu.
func (tx *Tx) commit(e *Editing) error {
	undos := make([]func(), 0, len(tx.actions))
	for i, act := range tx.actions {
		undo, err := act(e)
		if err != nil {
			for j := len(undos) - 1; j >= 0; j-- {
				undos[j]()
			}
			return fmt.Errorf("action %d: %w", i, err)
		}
		undos = append(undos, undo)
	}
	return nil
}
