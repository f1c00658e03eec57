package lua

import (
	"errors"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/revdiff/internal/engine"
	"github.com/dshills/revdiff/internal/engine/model"
	"github.com/dshills/revdiff/internal/revisions"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStateRestricted(t *testing.T) {
	s := newState(t)

	for _, name := range []string{"io", "os", "debug", "package", "dofile", "loadfile", "load"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s should not be available, got %s", name, v.Type())
		}
	}
	if err := s.DoString(`x = string.upper("ok") .. math.floor(1.5)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("x").String(); got != "OK1" {
		t.Errorf("x = %q, want %q", got, "OK1")
	}
}

func TestStateTimeout(t *testing.T) {
	s := newState(t, WithExecutionTimeout(50*time.Millisecond))
	err := s.DoString(`while true do end`)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), ErrExecutionTimeout.Error()) {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := newState(t)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(`x = 1`); err != ErrStateClosed {
		t.Errorf("DoString() after Close = %v", err)
	}
	if err := s.Register(NewRevisionsModule(nil, nil)); err != ErrStateClosed {
		t.Errorf("Register() after Close = %v", err)
	}
}

func newRevisionsState(t *testing.T) (*State, *engine.Document, *revisions.Revisions) {
	t.Helper()
	doc := engine.New(engine.WithContent(model.Paragraph("ABC")))
	rev := revisions.New(doc)
	t.Cleanup(func() { _ = rev.Close() })

	s := newState(t)
	if err := s.Register(NewRevisionsModule(rev.Commands(), rev.Editing().Render)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return s, doc, rev
}

func TestRegisterTwice(t *testing.T) {
	s, _, rev := newRevisionsState(t)
	err := s.Register(NewRevisionsModule(rev.Commands(), nil))
	if !errors.Is(err, ErrModuleExists) {
		t.Errorf("second Register() error = %v, want ErrModuleExists", err)
	}
	if got := s.Modules(); len(got) != 1 || got[0] != "revisions" {
		t.Errorf("Modules() = %v", got)
	}
}

func TestRevisionsModule(t *testing.T) {
	s, doc, rev := newRevisionsState(t)

	err := s.DoString(`
		before = revisions.can_diff()
		revisions.save()
		saved = revisions.has_revision()
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if s.GetGlobal("before") != lua.LFalse || s.GetGlobal("saved") != lua.LTrue {
		t.Errorf("before = %v, saved = %v", s.GetGlobal("before"), s.GetGlobal("saved"))
	}

	err = doc.Change("edit", func(w *engine.Writer) error {
		return w.Remove(engine.Pos(0, 1), 1)
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.DoString(`
		shown = revisions.toggle_diff()
		text = revisions.render()
		on = revisions.is_diff_on()
		hidden = not revisions.toggle_diff()
		cmds = revisions.commands()
		save_enabled = cmds.saveRevision.enabled
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("text").String(); got != "A[B]C" {
		t.Errorf("render() = %q, want %q", got, "A[B]C")
	}
	for _, name := range []string{"shown", "on", "hidden", "save_enabled"} {
		if s.GetGlobal(name) != lua.LTrue {
			t.Errorf("%s = %v, want true", name, s.GetGlobal(name))
		}
	}
	if rev.IsDiffOn() {
		t.Error("diff should be hidden")
	}
}

func TestRevisionsModuleErrors(t *testing.T) {
	s, _, rev := newRevisionsState(t)

	err := s.DoString(`revisions.toggle_diff()`)
	if err == nil || !strings.Contains(err.Error(), revisions.ErrCommandDisabled.Error()) {
		t.Errorf("toggle_diff() without revision error = %v", err)
	}
	if rev.IsDiffOn() {
		t.Error("disabled command must have no effect")
	}

	err = s.DoString(`revisions.execute("nope")`)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("execute(nope) error = %v", err)
	}

	err = s.DoString(`ok, msg = pcall(revisions.execute, "")`)
	if err != nil {
		t.Fatal(err)
	}
	if s.GetGlobal("ok") != lua.LFalse {
		t.Error("execute(\"\") should raise")
	}
}
