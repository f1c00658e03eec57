package engine

import (
	"log/slog"

	"github.com/dshills/revdiff/internal/engine/history"
	"github.com/dshills/revdiff/internal/engine/model"
)

// Default configuration values.
const (
	DefaultMaxHistory = history.DefaultMaxEntries
	DefaultRootName   = "$root"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent creates the main root holding the given nodes.
func WithContent(nodes ...model.Node) Option {
	return func(d *Document) {
		d.initRoot = true
		d.initContent = append(d.initContent, nodes...)
	}
}

// WithRoot creates an empty main root with the given element name.
func WithRoot(name string) Option {
	return func(d *Document) {
		d.initRoot = true
		if name != "" {
			d.rootName = name
		}
	}
}

// WithMaxHistory sets the number of deltas retained in the edit log.
func WithMaxHistory(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxHistory = max
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithReadOnly creates a read-only document.
// Change will return ErrReadOnly until SetReadOnly(false).
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
