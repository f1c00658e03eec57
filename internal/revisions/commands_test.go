package revisions

import (
	"errors"
	"testing"
)

func TestCommandsRegistry(t *testing.T) {
	r := NewCommands()
	on := false
	ran := 0
	cmd := &Command{
		Name:      "toggle",
		Value:     func() bool { return on },
		IsEnabled: func() bool { return true },
		Execute: func() error {
			ran++
			on = !on
			return nil
		},
	}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(cmd); !errors.Is(err, ErrCommandExists) {
		t.Errorf("duplicate Register() error = %v, want ErrCommandExists", err)
	}

	var states []CommandState
	r.Observe(func(st CommandState) { states = append(states, st) })

	if err := r.Execute("toggle"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ran != 1 || !on {
		t.Errorf("ran = %d, on = %v", ran, on)
	}
	if len(states) != 1 || !states[0].Value {
		t.Errorf("observed %v, want one state with Value=true", states)
	}

	// Refresh without change notifies nobody.
	r.Refresh()
	if len(states) != 1 {
		t.Errorf("observed %d states after idle refresh", len(states))
	}

	if _, err := r.State("missing"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("State(missing) error = %v", err)
	}
	if err := r.Execute("missing"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute(missing) error = %v", err)
	}
	if got := r.Names(); len(got) != 1 || got[0] != "toggle" {
		t.Errorf("Names() = %v", got)
	}
}

func TestCommandsExecute(t *testing.T) {
	boom := errors.New("boom")
	enabled := false
	ran := false
	r := NewCommands()
	_ = r.Register(&Command{
		Name:      "fail",
		IsEnabled: func() bool { return enabled },
		Execute: func() error {
			ran = true
			return boom
		},
	})

	if err := r.Execute("fail"); !errors.Is(err, ErrCommandDisabled) {
		t.Errorf("Execute(disabled) error = %v", err)
	}
	if ran {
		t.Error("disabled command must not run")
	}

	enabled = true
	if err := r.Execute("fail"); !errors.Is(err, boom) {
		t.Errorf("Execute() error = %v, want boom", err)
	}

	st, err := r.State("fail")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Enabled || st.Value {
		t.Errorf("State() = %+v", st)
	}
}
