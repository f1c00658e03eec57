// Package revisions shows the changes made to a document since a saved
// revision.
//
// A revision is a tracking.Snapshot captured by the "saveRevision" command.
// The "showDiff" command replays the edit log onto a copy of the snapshot,
// then projects the resulting changes onto the document view:
//
//   - insertions and attribute changes become named markers, highlighted
//     through the classes registered for their group
//   - removals are rebuilt from the snapshot and inserted into the view as
//     read-only phantom nodes at the place they used to occupy
//
// While the diff is shown the document is read-only. Running "showDiff"
// again reverts every annotation in one view batch and restores write
// access.
//
// Typical wiring:
//
//	doc := engine.New(engine.WithContent(model.Paragraph("AB")))
//	rev := revisions.New(doc)
//	defer rev.Close()
//
//	rev.SaveRevision()
//	// ... edit doc ...
//	rev.ShowDiff()              // diff on
//	fmt.Println(rev.Editing().Render())
//	rev.ShowDiff()              // diff off
package revisions
