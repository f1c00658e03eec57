package history

import (
	"time"

	"github.com/dshills/revdiff/internal/engine/model"
)

// Delta is a group of operations applied as one logical edit.
type Delta struct {
	Name       string
	Operations []model.Operation
	Timestamp  time.Time
}

// NewDelta creates an empty delta.
func NewDelta(name string) *Delta {
	return &Delta{
		Name:      name,
		Timestamp: time.Now(),
	}
}

// Add appends an operation.
func (d *Delta) Add(op model.Operation) {
	d.Operations = append(d.Operations, op)
}

// Len returns the number of operations.
func (d *Delta) Len() int {
	return len(d.Operations)
}

// IsEmpty returns true if the delta has no operations.
func (d *Delta) IsEmpty() bool {
	return len(d.Operations) == 0
}

// BaseVersion returns the version of the first operation, or -1 when empty.
func (d *Delta) BaseVersion() int {
	if len(d.Operations) == 0 {
		return -1
	}
	return d.Operations[0].BaseVersion()
}

// Version returns the document version produced by the delta.
func (d *Delta) Version() int {
	if len(d.Operations) == 0 {
		return -1
	}
	return d.Operations[len(d.Operations)-1].BaseVersion() + 1
}

// Clone returns a deep copy of the delta.
func (d *Delta) Clone() *Delta {
	c := &Delta{
		Name:       d.Name,
		Operations: make([]model.Operation, len(d.Operations)),
		Timestamp:  d.Timestamp,
	}
	for i, op := range d.Operations {
		c.Operations[i] = op.Clone()
	}
	return c
}

// slice returns a copy holding only operations with base version in [from, to).
func (d *Delta) slice(from, to int) *Delta {
	c := &Delta{Name: d.Name, Timestamp: d.Timestamp}
	for _, op := range d.Operations {
		if v := op.BaseVersion(); v >= from && v < to {
			c.Operations = append(c.Operations, op.Clone())
		}
	}
	return c
}
