package tracking

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/revdiff/internal/engine/differ"
	"github.com/dshills/revdiff/internal/engine/model"
)

// Result is the outcome of replaying the edit log onto a snapshot.
type Result struct {
	// Changes are the aggregated changes, scoped to the Shadow root.
	// Changes inside the graveyard have been filtered out.
	Changes []differ.Change

	// Shadow is the snapshot copy after replay. It mirrors the live root.
	Shadow *model.Tree

	// Baseline is the snapshot root as captured.
	Baseline *model.Tree

	// Live is the identity of the document root the log was recorded on.
	Live model.RootID

	// From and To delimit the replayed versions.
	From, To int

	// Operations is the number of replayed operations.
	Operations int

	// Skipped is the number of changes dropped because they were scoped to
	// the graveyard.
	Skipped int

	Duration time.Duration
}

// HasChanges reports whether the replay found any visible change.
func (r *Result) HasChanges() bool {
	return len(r.Changes) > 0
}

// ReplayOption configures a Replayer.
type ReplayOption func(*Replayer)

// WithReplayLogger sets the logger used by the replayer.
func WithReplayLogger(logger *slog.Logger) ReplayOption {
	return func(r *Replayer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Replayer computes the changes between a snapshot and a document.
type Replayer struct {
	logger *slog.Logger
}

// NewReplayer creates a Replayer.
func NewReplayer(opts ...ReplayOption) *Replayer {
	r := &Replayer{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DiffAgainst replays the deltas recorded since snap onto a shadow copy of
// it and returns the aggregated changes. Nothing observable is modified:
// neither the snapshot nor the document.
//
// A document behind the snapshot yields ErrStaleVersion; the replay is
// aborted before any operation is applied.
func (r *Replayer) DiffAgainst(snap *Snapshot, doc Document) (*Result, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}
	if doc == nil {
		return nil, ErrNoActiveDocument
	}
	live := doc.Root()
	if live == nil {
		return nil, ErrNoActiveDocument
	}

	start := time.Now()
	to := doc.Version()
	if to < snap.Version {
		err := fmt.Errorf("%w: document at %d, snapshot at %d", ErrStaleVersion, to, snap.Version)
		r.logger.Error("diff aborted", "error", err, "snapshot", snap.ID)
		return nil, err
	}

	deltas, err := doc.Deltas(snap.Version, to)
	if err != nil {
		return nil, fmt.Errorf("fetch deltas [%d, %d): %w", snap.Version, to, err)
	}

	shadowID := model.RootID("shadow-" + uuid.NewString())
	shadow := snap.Root.CloneAs(shadowID)
	roots := model.RootSet{
		shadowID:            shadow,
		model.GraveyardRoot: snap.Graveyard.Clone(),
	}

	d := differ.New()
	count := 0
	for _, delta := range deltas {
		for _, op := range delta.Operations {
			rop := Rewrite(op, live.ID(), shadowID)
			if !touchesOnly(rop, model.GraveyardRoot) {
				if err := d.Buffer(rop, roots); err != nil {
					return nil, fmt.Errorf("buffer %s at version %d: %w", rop.Kind(), rop.BaseVersion(), err)
				}
			}
			if err := model.Apply(rop, roots); err != nil {
				return nil, fmt.Errorf("replay version %d: %w", rop.BaseVersion(), err)
			}
			count++
		}
	}

	result := &Result{
		Shadow:     shadow,
		Baseline:   snap.Root,
		Live:       live.ID(),
		From:       snap.Version,
		To:         to,
		Operations: count,
	}
	for _, c := range d.Changes(roots) {
		if c.Root() == model.GraveyardRoot {
			result.Skipped++
			continue
		}
		result.Changes = append(result.Changes, c)
	}
	result.Duration = time.Since(start)

	r.logger.Debug("replay finished",
		"snapshot", snap.ID,
		"from", result.From,
		"to", result.To,
		"operations", count,
		"changes", len(result.Changes),
		"skipped", result.Skipped,
	)
	return result, nil
}
