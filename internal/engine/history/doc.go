// Package history records the structural edit log of a document.
//
// # Deltas
//
// A Delta is an ordered, non-empty group of operations applied as one
// logical edit:
//
//	d := history.NewDelta("typing")
//	d.Add(&model.InsertOp{Base: 3, Position: pos, Nodes: model.Text("x", nil)})
//
// Every operation carries the version it was applied on, so a delta covers
// the versions [BaseVersion, BaseVersion+Len).
//
// # Log
//
// The Log keeps deltas in version order and answers range queries:
//
//	log := history.NewLog(1000)
//	log.Append(d)
//	deltas, err := log.Between(snapshotVersion, currentVersion)
//
// The log is bounded. When old deltas have been evicted, queries reaching
// into the evicted window fail with ErrHistoryTruncated.
package history
