// Package view provides the presentation layer of a document.
//
// The Editing view mirrors the main model tree as a tree of view nodes, one
// view node per model child, and holds the marker registry used for
// highlighting. Markers are named model ranges; their CSS-like class is
// looked up from highlight groups registered by name prefix.
//
// Views may also contain phantom nodes: rendered content with no model
// counterpart (for example removed content shown in a diff). Phantom nodes
// are never editable and disappear on the next Rebuild.
//
// # Batches
//
// Every mutation goes through Enqueue, which hands a Tx to a callback. The
// transaction buffers marker and node mutations and commits them in order
// when the callback returns nil. If any mutation fails at commit time, the
// ones already applied are rolled back. A block enqueued from inside
// another block runs after it:
//
//	err := editing.Enqueue(func(tx *view.Tx) error {
//		tx.SetMarker("revisions:insert:0", rng)
//		tx.Insert(container, 1, phantom)
//		return nil
//	})
package view
