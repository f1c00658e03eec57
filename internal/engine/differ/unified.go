package differ

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// DefaultContextLines is the number of unchanged lines shown around a change.
const DefaultContextLines = 3

// Unified returns a unified diff of two texts, or nil when they are equal.
func Unified(oldName, newName, oldText, newText string, contextLines int) ([]byte, error) {
	fd := FileDiff(oldName, newName, oldText, newText, contextLines)
	if len(fd.Hunks) == 0 {
		return nil, nil
	}
	return diff.PrintFileDiff(fd)
}

// FileDiff computes the line diff of two texts as a go-diff FileDiff.
func FileDiff(oldName, newName, oldText, newText string, contextLines int) *diff.FileDiff {
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}
	a, b := splitLines(oldText), splitLines(newText)
	ops := myers(a, b)

	fd := &diff.FileDiff{OrigName: oldName, NewName: newName}
	for i := 0; i < len(ops); {
		if ops[i].kind == editEqual {
			i++
			continue
		}

		start := max(i-contextLines, 0)
		last := i
		for j := i; j < len(ops); {
			if ops[j].kind != editEqual {
				last = j
				j++
				continue
			}
			k := j
			for k < len(ops) && ops[k].kind == editEqual {
				k++
			}
			if k == len(ops) || k-j > 2*contextLines {
				break
			}
			j = k
		}
		stop := min(last+1+contextLines, len(ops))

		fd.Hunks = append(fd.Hunks, buildHunk(ops[start:stop], a, b))
		i = stop
	}
	return fd
}

func buildHunk(ops []edit, a, b []string) *diff.Hunk {
	h := &diff.Hunk{
		OrigStartLine: int32(ops[0].oldIndex + 1),
		NewStartLine:  int32(ops[0].newIndex + 1),
	}
	var body bytes.Buffer
	for _, op := range ops {
		switch op.kind {
		case editEqual:
			body.WriteByte(' ')
			body.WriteString(a[op.oldIndex])
			h.OrigLines++
			h.NewLines++
		case editDelete:
			body.WriteByte('-')
			body.WriteString(a[op.oldIndex])
			h.OrigLines++
		case editInsert:
			body.WriteByte('+')
			body.WriteString(b[op.newIndex])
			h.NewLines++
		}
		body.WriteByte('\n')
	}
	// An empty side starts at the line preceding the hunk.
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}
	h.Body = body.Bytes()
	return h
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
