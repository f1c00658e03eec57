package lua

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single DoString call.
const DefaultExecutionTimeout = 5 * time.Second

// Module installs Go functions into a Lua state.
type Module interface {
	Name() string
	Register(L *lua.LState) error
}

// State wraps gopher-lua with a restricted set of libraries.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls made
// through State, but modules must not call back into Lua from other
// goroutines.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	modules []string
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout of each execution. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// NewState creates a restricted Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// io, os, debug and package stay closed.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	s.L = L
	return s, nil
}

// Register installs a module.
func (s *State) Register(m Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if slices.Contains(s.modules, m.Name()) {
		return fmt.Errorf("%w: %s", ErrModuleExists, m.Name())
	}
	if err := m.Register(s.L); err != nil {
		return fmt.Errorf("register module %s: %w", m.Name(), err)
	}
	s.modules = append(s.modules, m.Name())
	return nil
}

// Modules returns the names of the registered modules.
func (s *State) Modules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.modules...)
}

// DoString executes a chunk of Lua code.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := s.doWithRecovery(func() error {
		return s.L.DoString(code)
	})
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
