// Package differ aggregates structural operations into change records.
//
// A Differ is fed operations before they are applied. On the first touch of
// a parent element it records the identities and attributes of that
// parent's children. Changes then compares the recorded children with the
// current ones using the Myers algorithm over NodeIDs and reports inserts,
// removes and attribute changes in final coordinates:
//
//	d := differ.New()
//	for _, op := range ops {
//		d.Buffer(op, roots)
//		model.Apply(op, roots)
//	}
//	changes := d.Changes(roots)
//
// Within one parent changes follow document order; parents are reported in
// the order they were first touched. Adjacent changes of the same type are
// merged.
//
// The package also renders plain-text unified diffs through
// github.com/sourcegraph/go-diff.
package differ
