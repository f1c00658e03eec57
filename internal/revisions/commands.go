package revisions

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Command names.
const (
	CommandSaveRevision = "saveRevision"
	CommandShowDiff     = "showDiff"
)

// Command is a named action with a boolean state.
type Command struct {
	Name string

	// Value reports the command state, such as "diff is shown".
	Value func() bool

	// IsEnabled reports whether Execute may run.
	IsEnabled func() bool

	Execute func() error
}

// CommandState is the observable state of a command.
type CommandState struct {
	Name    string
	Value   bool
	Enabled bool
}

// CommandObserver is notified when a command state changes.
type CommandObserver func(CommandState)

// Commands is a registry of commands. It is safe for concurrent use.
type Commands struct {
	mu       sync.Mutex
	commands map[string]*Command
	states   map[string]CommandState

	observers map[uint64]CommandObserver
	nextID    uint64
}

// NewCommands creates an empty registry.
func NewCommands() *Commands {
	return &Commands{
		commands:  make(map[string]*Command),
		states:    make(map[string]CommandState),
		observers: make(map[uint64]CommandObserver),
	}
}

// Register adds a command.
func (r *Commands) Register(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[cmd.Name]; ok {
		return fmt.Errorf("%w: %s", ErrCommandExists, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	r.states[cmd.Name] = stateOf(cmd)
	return nil
}

// Names returns the registered command names, sorted.
func (r *Commands) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.commands))
}

// State evaluates a command.
func (r *Commands) State(name string) (CommandState, error) {
	r.mu.Lock()
	cmd, ok := r.commands[name]
	r.mu.Unlock()
	if !ok {
		return CommandState{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return stateOf(cmd), nil
}

// Execute runs a command when it is enabled. A disabled command returns
// ErrCommandDisabled and has no effect. Observers are refreshed either way
// the command ran.
func (r *Commands) Execute(name string) error {
	r.mu.Lock()
	cmd, ok := r.commands[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if cmd.IsEnabled != nil && !cmd.IsEnabled() {
		return fmt.Errorf("%w: %s", ErrCommandDisabled, name)
	}

	err := cmd.Execute()
	r.Refresh()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Observe registers an observer. The returned function unregisters it.
func (r *Commands) Observe(fn CommandObserver) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.observers, id)
	}
}

// Refresh re-evaluates every command and notifies observers of the ones
// whose state changed.
func (r *Commands) Refresh() {
	r.mu.Lock()
	var changed []CommandState
	for _, name := range slices.Sorted(maps.Keys(r.commands)) {
		st := stateOf(r.commands[name])
		if st != r.states[name] {
			r.states[name] = st
			changed = append(changed, st)
		}
	}
	observers := make([]CommandObserver, 0, len(r.observers))
	for _, id := range slices.Sorted(maps.Keys(r.observers)) {
		observers = append(observers, r.observers[id])
	}
	r.mu.Unlock()

	for _, st := range changed {
		for _, fn := range observers {
			fn(st)
		}
	}
}

func stateOf(cmd *Command) CommandState {
	st := CommandState{Name: cmd.Name, Enabled: true}
	if cmd.Value != nil {
		st.Value = cmd.Value()
	}
	if cmd.IsEnabled != nil {
		st.Enabled = cmd.IsEnabled()
	}
	return st
}
