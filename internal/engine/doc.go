// Package engine provides the document model facade for revdiff.
//
// A Document owns a main tree, the graveyard tree that removed content is
// moved into, the model markers and the edit log. It combines the model,
// history and tracking sub-packages into a thread-safe API.
//
// # Architecture
//
//   - model: arena trees, positions, ranges and structural operations
//   - history: Deltas and the bounded edit Log
//   - tracking: snapshots, position rewriting and replay
//   - differ: aggregation of operations into structural changes
//
// # Editing
//
// All mutations go through Change, which hands a Writer to a callback.
// The writer applies operations to working copies of the trees; when the
// callback returns nil the copies replace the document trees, the version
// advances by one per operation and the resulting Delta is appended to the
// log. When the callback fails nothing is committed:
//
//	doc := engine.New(engine.WithContent(model.Paragraph("AB")))
//	err := doc.Change("typing", func(w *engine.Writer) error {
//		return w.InsertText(engine.Pos(0, 1), "X", nil)
//	})
//
// # Read-only mode
//
// SetReadOnly(true) makes Change fail with ErrReadOnly. Reads are never
// blocked.
//
// # Listeners
//
// OnChange registers a callback invoked after every committed delta,
// outside of the document lock.
package engine
