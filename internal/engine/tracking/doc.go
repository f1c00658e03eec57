// Package tracking captures document snapshots and replays later edits
// against them.
//
// # Core Components
//
//   - [Store]: keeps snapshots keyed by the document version they were taken at
//   - [Rewrite]: retargets an operation from one root identity to another
//   - [Replayer]: replays the edit log onto a shadow copy of a snapshot and
//     reports the aggregated structural changes
//
// # Usage
//
//	store := tracking.NewStore()
//	snap, err := store.Capture(doc)
//
//	// ... edits ...
//
//	result, err := tracking.NewReplayer().DiffAgainst(snap, doc)
//	for _, c := range result.Changes {
//		fmt.Println(c)
//	}
//
// The stored snapshot is never mutated: every replay works on a fresh shadow
// tree, so one snapshot can serve any number of diff sessions.
//
// # Retention
//
// By default the store keeps only the most recent snapshot; capturing at a
// new version replaces it. WithRetention keeps the N most recent versions.
//
// # Thread Safety
//
// Store operations are thread-safe. Snapshots are immutable once captured
// and can be shared across goroutines.
package tracking
