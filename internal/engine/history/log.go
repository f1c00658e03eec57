package history

import (
	"errors"
	"fmt"
	"sync"
)

// Errors returned by the log.
var (
	// ErrHistoryTruncated indicates the requested window reaches into evicted deltas.
	ErrHistoryTruncated = errors.New("history truncated")

	// ErrEmptyDelta indicates an attempt to record a delta with no operations.
	ErrEmptyDelta = errors.New("empty delta")

	// ErrVersionGap indicates a delta that does not continue the log.
	ErrVersionGap = errors.New("delta does not continue the log")

	// ErrInvalidWindow indicates a query whose bounds are reversed or in the future.
	ErrInvalidWindow = errors.New("invalid version window")
)

// DefaultMaxEntries is the capacity used when none is given.
const DefaultMaxEntries = 1000

// Log is a bounded, version-ordered list of deltas.
type Log struct {
	mu sync.RWMutex

	deltas []*Delta

	// first is the lowest version still answerable.
	first int

	// next is the version the next delta must start at.
	next int

	maxEntries int
}

// NewLog creates a log holding at most maxEntries deltas.
func NewLog(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{maxEntries: maxEntries}
}

// Append records a delta. Its first operation must be based on the version
// produced by the previous delta.
func (l *Log) Append(d *Delta) error {
	if d == nil || d.IsEmpty() {
		return ErrEmptyDelta
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if d.BaseVersion() != l.next {
		return fmt.Errorf("%w: expected base %d, got %d", ErrVersionGap, l.next, d.BaseVersion())
	}

	l.deltas = append(l.deltas, d)
	l.next = d.Version()

	if len(l.deltas) > l.maxEntries {
		excess := len(l.deltas) - l.maxEntries
		l.deltas = l.deltas[excess:]
		l.first = l.deltas[0].BaseVersion()
	}
	return nil
}

// Between returns copies of the deltas covering versions [from, to).
func (l *Log) Between(from, to int) ([]*Delta, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if from > to || to > l.next {
		return nil, fmt.Errorf("%w: [%d, %d) with log at %d", ErrInvalidWindow, from, to, l.next)
	}
	if from == to {
		return nil, nil
	}
	if from < l.first {
		return nil, fmt.Errorf("%w: oldest version is %d, requested %d", ErrHistoryTruncated, l.first, from)
	}

	var out []*Delta
	for _, d := range l.deltas {
		if d.Version() <= from || d.BaseVersion() >= to {
			continue
		}
		if s := d.slice(from, to); !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out, nil
}

// Version returns the version following the newest delta.
func (l *Log) Version() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.next
}

// Len returns the number of retained deltas.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.deltas)
}

// Clear drops every delta. The version keeps counting from where it was.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deltas = nil
	l.first = l.next
}
