package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/revdiff/internal/engine/model"
)

const mainRoot model.RootID = "main"

func newRoots(t *testing.T, paragraphs ...string) model.RootSet {
	t.Helper()
	tree := model.NewTree(mainRoot, "$root", nil)
	grave := model.NewTree(model.GraveyardRoot, "$graveyard", nil)
	roots := model.RootSet{mainRoot: tree, model.GraveyardRoot: grave}
	for i, p := range paragraphs {
		op := &model.InsertOp{Position: model.NewPosition(mainRoot, i), Nodes: []model.Node{model.Paragraph(p)}}
		require.NoError(t, model.Apply(op, roots))
	}
	return roots
}

func run(t *testing.T, roots model.RootSet, ops ...model.Operation) []Change {
	t.Helper()
	d := New()
	for _, op := range ops {
		require.NoError(t, d.Buffer(op, roots))
		require.NoError(t, model.Apply(op, roots))
	}
	return d.Changes(roots)
}

func remove(path []int, howMany, graveOffset int) model.Operation {
	return &model.RemoveOp{
		Source:  model.NewPosition(mainRoot, path...),
		HowMany: howMany,
		Target:  model.NewPosition(model.GraveyardRoot, graveOffset),
	}
}

func TestInsertSingle(t *testing.T) {
	roots := newRoots(t, "AB")
	changes := run(t, roots, &model.InsertOp{Position: model.NewPosition(mainRoot, 0, 1), Nodes: model.Text("X", nil)})

	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, ChangeInsert, c.Type)
	assert.Equal(t, []int{0, 1}, c.Position.Path)
	assert.Equal(t, 1, c.Length)
	assert.Equal(t, 2, c.End())
}

func TestRemoveSingle(t *testing.T) {
	roots := newRoots(t, "ABC")
	changes := run(t, roots, remove([]int{0, 1}, 1, 0))

	// the paragraph change plus the graveyard insert
	require.Len(t, changes, 2)
	c := changes[0]
	assert.Equal(t, ChangeRemove, c.Type)
	assert.Equal(t, []int{0, 1}, c.Position.Path)
	assert.Equal(t, 1, c.Length)
	assert.Equal(t, model.GraveyardRoot, changes[1].Root())
	assert.Equal(t, ChangeInsert, changes[1].Type)
}

func TestAttributeSingle(t *testing.T) {
	roots := newRoots(t, "ABCD")
	op := &model.AttributeOp{Range: model.NewRange(model.NewPosition(mainRoot, 0, 2), 1), Key: "bold", NewValue: "true"}
	changes := run(t, roots, op)

	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, ChangeAttribute, c.Type)
	assert.Equal(t, 2, c.Range.Start.Offset())
	assert.Equal(t, 3, c.Range.End.Offset())
	assert.Equal(t, []string{"bold"}, c.Keys)
}

func TestCoalescing(t *testing.T) {
	t.Run("typed characters merge", func(t *testing.T) {
		roots := newRoots(t, "AB")
		changes := run(t, roots,
			&model.InsertOp{Position: model.NewPosition(mainRoot, 0, 1), Nodes: model.Text("X", nil)},
			&model.InsertOp{Position: model.NewPosition(mainRoot, 0, 2), Nodes: model.Text("Y", nil)},
			&model.InsertOp{Position: model.NewPosition(mainRoot, 0, 3), Nodes: model.Text("Z", nil)},
		)
		require.Len(t, changes, 1)
		assert.Equal(t, 3, changes[0].Length)
		assert.Equal(t, 1, changes[0].Position.Offset())
	})

	t.Run("backspaces merge", func(t *testing.T) {
		roots := newRoots(t, "ABCDE")
		changes := run(t, roots, remove([]int{0, 3}, 1, 0), remove([]int{0, 2}, 1, 1), remove([]int{0, 1}, 1, 2))
		require.NotEmpty(t, changes)
		assert.Equal(t, ChangeRemove, changes[0].Type)
		assert.Equal(t, 1, changes[0].Position.Offset())
		assert.Equal(t, 3, changes[0].Length)
	})

	t.Run("separated removals stay apart", func(t *testing.T) {
		roots := newRoots(t, "ABCDE")
		changes := run(t, roots, remove([]int{0, 3}, 1, 0), remove([]int{0, 1}, 1, 1))
		var removes []Change
		for _, c := range changes {
			if c.Type == ChangeRemove {
				removes = append(removes, c)
			}
		}
		require.Len(t, removes, 2)
		assert.Equal(t, 1, removes[0].Position.Offset())
		assert.Equal(t, 2, removes[1].Position.Offset())
	})

	t.Run("attributes with different keys stay apart", func(t *testing.T) {
		roots := newRoots(t, "ABCD")
		changes := run(t, roots,
			&model.AttributeOp{Range: model.NewRange(model.NewPosition(mainRoot, 0, 1), 1), Key: "bold", NewValue: "true"},
			&model.AttributeOp{Range: model.NewRange(model.NewPosition(mainRoot, 0, 2), 1), Key: "italic", NewValue: "true"},
		)
		require.Len(t, changes, 2)
	})
}

func TestInsertedThenRemovedIsInvisible(t *testing.T) {
	roots := newRoots(t, "AB")
	changes := run(t, roots,
		&model.InsertOp{Position: model.NewPosition(mainRoot, 0, 1), Nodes: model.Text("X", nil)},
		remove([]int{0, 1}, 1, 0),
	)
	for _, c := range changes {
		assert.NotEqual(t, mainRoot, c.Root(), "unexpected change %v", c)
	}
}

func TestNewParentsAreSkipped(t *testing.T) {
	roots := newRoots(t, "AB")
	changes := run(t, roots,
		&model.InsertOp{Position: model.NewPosition(mainRoot, 1), Nodes: []model.Node{model.Paragraph("")}},
		&model.InsertOp{Position: model.NewPosition(mainRoot, 1, 0), Nodes: model.Text("new", nil)},
	)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeInsert, changes[0].Type)
	assert.Equal(t, []int{1}, changes[0].Position.Path)
}

func TestDetachedParentsAreSkipped(t *testing.T) {
	roots := newRoots(t, "AB", "CD")
	changes := run(t, roots,
		&model.InsertOp{Position: model.NewPosition(mainRoot, 0, 1), Nodes: model.Text("X", nil)},
		remove([]int{0}, 1, 0),
	)
	var inMain []Change
	for _, c := range changes {
		if c.Root() == mainRoot {
			inMain = append(inMain, c)
		}
	}
	require.Len(t, inMain, 1)
	assert.Equal(t, ChangeRemove, inMain[0].Type)
	assert.Equal(t, []int{0}, inMain[0].Position.Path)
}

func TestMoveIsRemoveAndInsert(t *testing.T) {
	roots := newRoots(t, "AB", "CD")
	changes := run(t, roots, &model.MoveOp{
		Source:  model.NewPosition(mainRoot, 0, 0),
		HowMany: 1,
		Target:  model.NewPosition(mainRoot, 1, 2),
	})
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeRemove, changes[0].Type)
	assert.Equal(t, []int{0, 0}, changes[0].Position.Path)
	assert.Equal(t, ChangeInsert, changes[1].Type)
	assert.Equal(t, []int{1, 2}, changes[1].Position.Path)
}

func TestParentIsSharedWithClone(t *testing.T) {
	roots := newRoots(t, "ABC")
	baseline := roots[mainRoot].Clone()
	changes := run(t, roots, remove([]int{0, 1}, 1, 0))

	nodes, err := baseline.ExportRange(changes[0].Parent, changes[0].Position.Offset(), changes[0].Length)
	require.NoError(t, err)
	assert.Equal(t, "B", model.NodesString(nodes))
}

func TestMyers(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		ins, del int
	}{
		{"equal", "abc", "abc", 0, 0},
		{"empty old", "", "ab", 2, 0},
		{"empty new", "ab", "", 0, 2},
		{"replace", "abc", "axc", 1, 1},
		{"prepend", "bc", "abc", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := myers([]rune(tt.a), []rune(tt.b))
			ins, del := 0, 0
			var out []rune
			for _, op := range ops {
				switch op.kind {
				case editInsert:
					ins++
					out = append(out, []rune(tt.b)[op.newIndex])
				case editDelete:
					del++
				case editEqual:
					out = append(out, []rune(tt.a)[op.oldIndex])
				}
			}
			assert.Equal(t, tt.ins, ins)
			assert.Equal(t, tt.del, del)
			assert.Equal(t, tt.b, string(out))
		})
	}
}

func TestUnified(t *testing.T) {
	out, err := Unified("snapshot", "live", "a\nb\nc\n", "a\nx\nc\n", 3)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "--- snapshot\n+++ live\n"), s)
	assert.Contains(t, s, "@@ -1,3 +1,3 @@")
	assert.Contains(t, s, "-b\n")
	assert.Contains(t, s, "+x\n")

	out, err = Unified("a", "b", "same", "same", 3)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFileDiffHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := range 20 {
		oldLines = append(oldLines, string(rune('a'+i)))
	}
	newLines = append(newLines, oldLines...)
	newLines[1] = "X"
	newLines[18] = "Y"

	fd := FileDiff("old", "new", strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"), 2)
	require.Len(t, fd.Hunks, 2)
	assert.Equal(t, int32(1), fd.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(4), fd.Hunks[0].OrigLines)

	fd = FileDiff("old", "new", "", "one\ntwo", 3)
	require.Len(t, fd.Hunks, 1)
	assert.Equal(t, int32(0), fd.Hunks[0].OrigStartLine)
	assert.Equal(t, int32(1), fd.Hunks[0].NewStartLine)
	assert.Equal(t, int32(2), fd.Hunks[0].NewLines)
}
