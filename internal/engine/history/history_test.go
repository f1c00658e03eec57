package history

import (
	"errors"
	"testing"

	"github.com/dshills/revdiff/internal/engine/model"
)

func insertAt(base, offset int) model.Operation {
	return &model.InsertOp{
		Base:     base,
		Position: model.NewPosition("main", 0, offset),
		Nodes:    model.Text("x", nil),
	}
}

func deltaOf(name string, bases ...int) *Delta {
	d := NewDelta(name)
	for _, b := range bases {
		d.Add(insertAt(b, 0))
	}
	return d
}

func TestDeltaVersions(t *testing.T) {
	d := deltaOf("typing", 4, 5, 6)
	if d.BaseVersion() != 4 {
		t.Errorf("BaseVersion = %d, want 4", d.BaseVersion())
	}
	if d.Version() != 7 {
		t.Errorf("Version = %d, want 7", d.Version())
	}
	if NewDelta("empty").BaseVersion() != -1 {
		t.Error("empty delta should report -1")
	}
}

func TestDeltaClone(t *testing.T) {
	d := deltaOf("a", 0)
	c := d.Clone()
	c.Operations[0].(*model.InsertOp).Position.Path[1] = 9
	if d.Operations[0].(*model.InsertOp).Position.Offset() != 0 {
		t.Error("clone shares positions with the original")
	}
}

func TestLogAppend(t *testing.T) {
	l := NewLog(0)
	if err := l.Append(NewDelta("empty")); !errors.Is(err, ErrEmptyDelta) {
		t.Errorf("expected ErrEmptyDelta, got %v", err)
	}
	if err := l.Append(deltaOf("a", 0, 1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(deltaOf("gap", 3)); !errors.Is(err, ErrVersionGap) {
		t.Errorf("expected ErrVersionGap, got %v", err)
	}
	if l.Version() != 2 {
		t.Errorf("Version = %d, want 2", l.Version())
	}
}

func TestLogBetween(t *testing.T) {
	l := NewLog(10)
	for _, d := range []*Delta{deltaOf("a", 0), deltaOf("b", 1, 2), deltaOf("c", 3)} {
		if err := l.Append(d); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	tests := []struct {
		name     string
		from, to int
		names    []string
		ops      int
	}{
		{"all", 0, 4, []string{"a", "b", "c"}, 4},
		{"tail", 1, 4, []string{"b", "c"}, 3},
		{"partial delta", 2, 4, []string{"b", "c"}, 2},
		{"empty window", 4, 4, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Between(tt.from, tt.to)
			if err != nil {
				t.Fatalf("Between: %v", err)
			}
			if len(got) != len(tt.names) {
				t.Fatalf("got %d deltas, want %d", len(got), len(tt.names))
			}
			ops := 0
			for i, d := range got {
				if d.Name != tt.names[i] {
					t.Errorf("delta %d = %q, want %q", i, d.Name, tt.names[i])
				}
				ops += d.Len()
			}
			if ops != tt.ops {
				t.Errorf("got %d operations, want %d", ops, tt.ops)
			}
		})
	}

	if _, err := l.Between(3, 1); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := l.Between(0, 9); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow for future version, got %v", err)
	}
}

func TestLogEviction(t *testing.T) {
	l := NewLog(2)
	for i := range 4 {
		if err := l.Append(deltaOf("d", i)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
	if _, err := l.Between(0, 4); !errors.Is(err, ErrHistoryTruncated) {
		t.Errorf("expected ErrHistoryTruncated, got %v", err)
	}
	got, err := l.Between(2, 4)
	if err != nil || len(got) != 2 {
		t.Errorf("Between(2, 4) = %d deltas, %v", len(got), err)
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog(5)
	_ = l.Append(deltaOf("a", 0))
	l.Clear()
	if l.Len() != 0 {
		t.Error("log not cleared")
	}
	if _, err := l.Between(0, 1); !errors.Is(err, ErrHistoryTruncated) {
		t.Errorf("expected ErrHistoryTruncated after Clear, got %v", err)
	}
	if err := l.Append(deltaOf("b", 1)); err != nil {
		t.Errorf("Append after Clear: %v", err)
	}
}
