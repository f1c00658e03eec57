// Package model provides the tree document model that revisions are taken of.
//
// A document is made of one or more trees, each identified by a [RootID].
// Trees are stored as arenas: every node lives in a slot addressed by a
// stable [NodeID] and parent/child links are index pairs, so a tree can be
// cloned by copying its arena and the clone keeps the same NodeIDs.
//
// # Content
//
// Every child occupies exactly one offset in its parent. Text is stored one
// rune per node, elements hold children, and embeds are opaque references
// that are never deep-copied (see [Item.Cloneable]).
//
// # Positions
//
// A [Position] names a root and a path of child offsets. The last path
// element is the offset inside the parent addressed by the rest of the path.
// A [Range] is flat: both ends share a parent.
//
// # Operations
//
// [Operation] is a sealed tagged union of the edit primitives recorded by the
// document history: [InsertOp], [MoveOp], [RemoveOp], [ReinsertOp],
// [AttributeOp], [RootAttributeOp], [MarkerOp] and [NoOp]. Operations are
// applied to a set of trees with [Apply].
package model
