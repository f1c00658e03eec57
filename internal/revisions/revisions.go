package revisions

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/revdiff/internal/engine"
	"github.com/dshills/revdiff/internal/engine/differ"
	"github.com/dshills/revdiff/internal/engine/tracking"
	"github.com/dshills/revdiff/internal/renderer/view"
)

// Option configures a Revisions feature.
type Option func(*Revisions)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Revisions) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records activity in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Revisions) {
		r.metrics = m
	}
}

// WithMarkerPrefix sets the marker name prefix.
func WithMarkerPrefix(prefix string) Option {
	return func(r *Revisions) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithClasses sets the highlight class per change type. Empty values keep
// the defaults.
func WithClasses(insert, attribute, remove string) Option {
	return func(r *Revisions) {
		if insert != "" {
			r.classes[differ.ChangeInsert] = insert
		}
		if attribute != "" {
			r.classes[differ.ChangeAttribute] = attribute
		}
		if remove != "" {
			r.classes[differ.ChangeRemove] = remove
		}
	}
}

// WithRetention keeps up to n revisions. The diff always runs against the
// latest one.
func WithRetention(n int) Option {
	return func(r *Revisions) {
		r.retention = n
	}
}

// Revisions wires snapshot capture, replay and view annotation for one
// document.
type Revisions struct {
	mu sync.Mutex

	doc        *engine.Document
	store      *tracking.Store
	replayer   *tracking.Replayer
	editing    *view.Editing
	annotator  *Annotator
	controller *Controller
	commands   *Commands
	metrics    *Metrics
	logger     *slog.Logger

	prefix    string
	classes   map[differ.ChangeType]string
	retention int
	session   *Session

	unsubscribe func()
}

// New enables revisions on doc. The returned feature keeps its view in sync
// with the document until Close.
func New(doc *engine.Document, opts ...Option) *Revisions {
	r := &Revisions{
		doc:    doc,
		logger: slog.Default(),
		prefix: DefaultMarkerPrefix,
		classes: map[differ.ChangeType]string{
			differ.ChangeInsert:    DefaultInsertClass,
			differ.ChangeAttribute: DefaultAttributeClass,
			differ.ChangeRemove:    DefaultRemoveClass,
		},
		retention: 1,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.store = tracking.NewStore(tracking.WithRetention(r.retention), tracking.WithStoreLogger(r.logger))
	r.replayer = tracking.NewReplayer(tracking.WithReplayLogger(r.logger))
	r.editing = view.New(view.WithLogger(r.logger))
	for _, t := range []differ.ChangeType{differ.ChangeInsert, differ.ChangeAttribute, differ.ChangeRemove} {
		r.editing.RegisterHighlight(r.prefix+":"+t.String(), r.classes[t])
	}
	r.annotator = NewAnnotator(r.editing, r.prefix, r.classes[differ.ChangeRemove], r.logger)
	r.controller = NewController(doc, r.editing, r.logger)

	r.commands = NewCommands()
	for _, cmd := range []*Command{
		{
			Name:      CommandSaveRevision,
			Value:     r.HasRevision,
			IsEnabled: doc.HasRoot,
			Execute: func() error {
				_, err := r.SaveRevision()
				return err
			},
		},
		{
			Name:      CommandShowDiff,
			Value:     r.IsDiffOn,
			IsEnabled: r.HasRevision,
			Execute:   r.ShowDiff,
		},
	} {
		if err := r.commands.Register(cmd); err != nil {
			r.logger.Error("register command", "command", cmd.Name, "error", err)
		}
	}

	r.editing.Rebuild(doc.Root())
	r.unsubscribe = doc.OnChange(func(*engine.Delta) {
		r.editing.Rebuild(doc.Root())
		r.commands.Refresh()
	})
	return r
}

// Close detaches the feature from the document, ending any shown diff.
func (r *Revisions) Close() error {
	err := r.hideDiff()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	return err
}

// Document returns the document.
func (r *Revisions) Document() *engine.Document {
	return r.doc
}

// Editing returns the document view.
func (r *Revisions) Editing() *view.Editing {
	return r.editing
}

// Commands returns the command registry.
func (r *Revisions) Commands() *Commands {
	return r.commands
}

// Store returns the revision store.
func (r *Revisions) Store() *tracking.Store {
	return r.store
}

// Session returns the shown diff session, or nil.
func (r *Revisions) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// HasRevision reports whether a revision was saved.
func (r *Revisions) HasRevision() bool {
	return r.store.Len() > 0
}

// IsDiffOn reports whether a diff is shown.
func (r *Revisions) IsDiffOn() bool {
	return r.Session() != nil
}

// CanDiff reports whether ShowDiff can run.
func (r *Revisions) CanDiff() bool {
	return r.HasRevision()
}

// SaveRevision captures the document. Saving twice at the same version
// returns the same revision.
func (r *Revisions) SaveRevision() (*tracking.Snapshot, error) {
	snap, err := r.store.Capture(r.doc)
	if err != nil {
		return nil, fmt.Errorf("save revision: %w", err)
	}
	if r.metrics != nil {
		r.metrics.Captures.Inc()
	}
	r.commands.Refresh()
	return snap, nil
}

// ShowDiff toggles the diff against the latest revision.
func (r *Revisions) ShowDiff() error {
	if r.IsDiffOn() {
		return r.hideDiff()
	}
	return r.showDiff()
}

func (r *Revisions) showDiff() error {
	snap, ok := r.store.Latest()
	if !ok {
		return ErrNoSnapshotAvailable
	}
	start := time.Now()

	res, err := r.replayer.DiffAgainst(snap, r.doc)
	if err != nil {
		r.observe(ResultFailed, start)
		return fmt.Errorf("show diff: %w", err)
	}

	if live := r.doc.Root(); r.editing.Tree() != live {
		r.editing.Rebuild(live)
	}
	s, err := r.controller.Begin(snap)
	if err != nil {
		r.observe(ResultFailed, start)
		return fmt.Errorf("show diff: %w", err)
	}

	finished := false
	err = r.annotator.Render(s, res, func(err error) {
		finished = true
		r.finishShow(s, res, start, err)
	})
	if err != nil {
		if !finished {
			r.finishShow(s, res, start, err)
		}
		return fmt.Errorf("show diff: %w", err)
	}
	if !finished {
		r.logger.Debug("diff deferred", "session", s.ID, "changes", len(res.Changes))
	}
	return nil
}

// finishShow records the outcome of rendering s. It runs when the view
// batch commits or rolls back, which may be after showDiff returned.
func (r *Revisions) finishShow(s *Session, res *tracking.Result, start time.Time, err error) {
	if err != nil {
		r.observe(ResultFailed, start)
		r.logger.Error("diff aborted", "session", s.ID, "error", err)
		if endErr := r.controller.End(s); endErr != nil {
			r.logger.Error("end diff session", "session", s.ID, "error", endErr)
		}
		return
	}

	r.mu.Lock()
	r.session = s
	r.mu.Unlock()

	result := ResultRendered
	if s.Len() == 0 {
		result = ResultEmpty
	}
	r.observe(result, start)
	if r.metrics != nil {
		r.metrics.ActiveSessions.Inc()
		r.metrics.observeSession(s)
	}
	r.logger.Info("diff shown",
		"session", s.ID,
		"from", res.From,
		"to", res.To,
		"changes", len(res.Changes),
		"skipped", res.Skipped,
		"annotations", s.Len(),
	)
	r.commands.Refresh()
}

func (r *Revisions) hideDiff() error {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s == nil {
		return nil
	}

	if err := r.controller.End(s); err != nil {
		return fmt.Errorf("hide diff: %w", err)
	}
	r.mu.Lock()
	r.session = nil
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.ActiveSessions.Dec()
	}
	r.commands.Refresh()
	return nil
}

func (r *Revisions) observe(result string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.Sessions.WithLabelValues(result).Inc()
	r.metrics.DiffDuration.Observe(time.Since(start).Seconds())
}
