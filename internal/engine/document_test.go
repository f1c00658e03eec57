package engine

import (
	"errors"
	"testing"

	"github.com/dshills/revdiff/internal/engine/model"
)

func TestNew(t *testing.T) {
	d := New()
	if d.HasRoot() {
		t.Error("expected document without root")
	}
	if d.Root() != nil {
		t.Error("Root should be nil")
	}
	if d.Graveyard() == nil {
		t.Error("graveyard should always exist")
	}
	err := d.Change("x", func(w *Writer) error { return nil })
	if !errors.Is(err, ErrNoRoot) {
		t.Errorf("expected ErrNoRoot, got %v", err)
	}
}

func TestNewWithContent(t *testing.T) {
	d := New(WithContent(model.Paragraph("Hello"), model.Paragraph("World")))
	if d.Text() != "Hello\nWorld" {
		t.Errorf("Text = %q", d.Text())
	}
	if d.Version() != 0 {
		t.Errorf("initial content should not advance the version, got %d", d.Version())
	}
}

func TestCreateRoot(t *testing.T) {
	d := New()
	if err := d.CreateRoot("", model.Attributes{"lang": "en"}); err != nil {
		t.Fatalf("CreateRoot: %v", err)
	}
	if err := d.CreateRoot("", nil); !errors.Is(err, ErrRootExists) {
		t.Errorf("expected ErrRootExists, got %v", err)
	}
	root := d.Root()
	if root.Item(root.Root()).Attrs["lang"] != "en" {
		t.Error("root attributes not set")
	}
}

func TestChangeCommits(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")))
	before := d.Root()

	err := d.Change("typing", func(w *Writer) error {
		if err := w.InsertText(Pos(0, 1), "XY", nil); err != nil {
			return err
		}
		return w.Remove(Pos(0, 0), 1)
	})
	if err != nil {
		t.Fatalf("Change: %v", err)
	}

	if d.Text() != "XYB" {
		t.Errorf("Text = %q, want %q", d.Text(), "XYB")
	}
	if d.Version() != 2 {
		t.Errorf("Version = %d, want 2", d.Version())
	}
	if before.Text() != "AB" {
		t.Error("trees returned before a change must not be mutated")
	}
	if d.Graveyard().String() != "A" {
		t.Errorf("graveyard = %q", d.Graveyard().String())
	}

	deltas, err := d.Deltas(0, 2)
	if err != nil {
		t.Fatalf("Deltas: %v", err)
	}
	if len(deltas) != 1 || deltas[0].Len() != 2 || deltas[0].Name != "typing" {
		t.Errorf("unexpected deltas %+v", deltas)
	}
	if deltas[0].Operations[1].BaseVersion() != 1 {
		t.Errorf("second op base = %d, want 1", deltas[0].Operations[1].BaseVersion())
	}
}

func TestApplyRecordsCopy(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")))
	op := &model.InsertOp{Position: Pos(0, 1), Nodes: model.Text("X", nil)}
	if err := d.Change("insert", func(w *Writer) error { return w.Apply(op) }); err != nil {
		t.Fatalf("Change: %v", err)
	}

	op.Position = Pos(0, 0)
	op.Nodes = model.Text("QQ", nil)
	op.Base = 7

	deltas, err := d.Deltas(0, 1)
	if err != nil {
		t.Fatalf("Deltas: %v", err)
	}
	got, ok := deltas[0].Operations[0].(*model.InsertOp)
	if !ok {
		t.Fatalf("recorded %T, want *model.InsertOp", deltas[0].Operations[0])
	}
	if !got.Position.Equal(Pos(0, 1)) || model.NodesString(got.Nodes) != "X" || got.Base != 0 {
		t.Errorf("recorded op changed with the caller's: %s %q base %d", got.Position, model.NodesString(got.Nodes), got.Base)
	}
	if d.Text() != "AXB" {
		t.Errorf("Text = %q, want %q", d.Text(), "AXB")
	}
}

func TestChangeRollsBack(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")))
	boom := errors.New("boom")

	err := d.Change("fail", func(w *Writer) error {
		if err := w.InsertText(Pos(0, 0), "Z", nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if d.Text() != "AB" || d.Version() != 0 {
		t.Errorf("failed change was committed: %q v%d", d.Text(), d.Version())
	}

	err = d.Change("bad", func(w *Writer) error {
		return w.InsertText(Pos(0, 7), "Z", nil)
	})
	if !errors.Is(err, model.ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestChangeEmptyKeepsVersion(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")))
	called := false
	d.OnChange(func(*Delta) { called = true })
	if err := d.Change("nothing", func(w *Writer) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if d.Version() != 0 || called {
		t.Error("empty change should not commit")
	}
}

func TestReadOnly(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")), WithReadOnly())
	if !d.IsReadOnly() {
		t.Fatal("expected read-only")
	}
	err := d.Change("x", func(w *Writer) error { return w.InsertText(Pos(0, 0), "Z", nil) })
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	d.SetReadOnly(false)
	if err := d.Change("x", func(w *Writer) error { return w.InsertText(Pos(0, 0), "Z", nil) }); err != nil {
		t.Errorf("Change after SetReadOnly(false): %v", err)
	}
}

func TestSetAttributeSplitsRuns(t *testing.T) {
	d := New(WithContent(model.Paragraph("ABCD")))
	_ = d.Change("bold b", func(w *Writer) error {
		return w.SetAttribute(model.NewRange(Pos(0, 1), 1), "bold", "true")
	})
	err := d.Change("bold all", func(w *Writer) error {
		return w.SetAttribute(model.NewRange(Pos(0, 0), 4), "bold", "true")
	})
	if err != nil {
		t.Fatal(err)
	}
	deltas, _ := d.Deltas(1, d.Version())
	if len(deltas) != 1 || deltas[0].Len() != 2 {
		t.Fatalf("expected two attribute ops skipping the bold run, got %+v", deltas)
	}
	for _, op := range deltas[0].Operations {
		a := op.(*model.AttributeOp)
		if a.OldValue != "" || a.NewValue != "true" {
			t.Errorf("unexpected op %+v", a)
		}
	}
}

func TestSetRootAttribute(t *testing.T) {
	d := New(WithRoot("doc"))
	_ = d.Change("lang", func(w *Writer) error { return w.SetRootAttribute("lang", "en") })
	_ = d.Change("same", func(w *Writer) error { return w.SetRootAttribute("lang", "en") })
	if d.Version() != 1 {
		t.Errorf("Version = %d, want 1", d.Version())
	}
}

func TestMarkers(t *testing.T) {
	d := New(WithContent(model.Paragraph("ABCD")))
	r := model.NewRange(Pos(0, 1), 2)
	if err := d.Change("mark", func(w *Writer) error { return w.SetMarker("comment:1", &r) }); err != nil {
		t.Fatal(err)
	}
	got, err := d.Marker("comment:1")
	if err != nil || !got.Equal(r) {
		t.Errorf("Marker = %v, %v", got, err)
	}
	if err := d.Change("unmark", func(w *Writer) error { return w.SetMarker("comment:1", nil) }); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Marker("comment:1"); !errors.Is(err, ErrMarkerNotFound) {
		t.Errorf("expected ErrMarkerNotFound, got %v", err)
	}
	err = d.Change("unmark again", func(w *Writer) error { return w.SetMarker("comment:1", nil) })
	if !errors.Is(err, ErrMarkerNotFound) {
		t.Errorf("expected ErrMarkerNotFound, got %v", err)
	}
}

func TestOnChange(t *testing.T) {
	d := New(WithContent(model.Paragraph("AB")))
	var got []string
	unsubscribe := d.OnChange(func(delta *Delta) { got = append(got, delta.Name) })

	_ = d.Change("one", func(w *Writer) error { return w.InsertText(Pos(0, 0), "1", nil) })
	unsubscribe()
	_ = d.Change("two", func(w *Writer) error { return w.InsertText(Pos(0, 0), "2", nil) })

	if len(got) != 1 || got[0] != "one" {
		t.Errorf("listener calls = %v", got)
	}
}

func TestMoveAndReinsert(t *testing.T) {
	d := New(WithContent(model.Paragraph("ABC"), model.Paragraph("DE")))
	err := d.Change("edit", func(w *Writer) error {
		if err := w.Move(Pos(0, 0), 1, Pos(1, 2)); err != nil {
			return err
		}
		if err := w.Remove(Pos(1, 0), 1); err != nil {
			return err
		}
		return w.Reinsert(0, 1, Pos(0, 0))
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Text() != "DBC\nEA" {
		t.Errorf("Text = %q", d.Text())
	}
}
