package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/revdiff/internal/revisions"
)

// CommandRunner is the command surface of the revisions feature.
type CommandRunner interface {
	Execute(name string) error
	State(name string) (revisions.CommandState, error)
	Names() []string
}

// RevisionsModule implements the "revisions" Lua module.
type RevisionsModule struct {
	commands CommandRunner
	render   func() string
}

// NewRevisionsModule creates the module. render, when not nil, backs
// revisions.render().
func NewRevisionsModule(commands CommandRunner, render func() string) *RevisionsModule {
	return &RevisionsModule{commands: commands, render: render}
}

// Name returns the module name.
func (m *RevisionsModule) Name() string {
	return "revisions"
}

// Register registers the module into the Lua state.
func (m *RevisionsModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "save", L.NewFunction(m.save))
	L.SetField(mod, "toggle_diff", L.NewFunction(m.toggleDiff))
	L.SetField(mod, "is_diff_on", L.NewFunction(m.isDiffOn))
	L.SetField(mod, "has_revision", L.NewFunction(m.hasRevision))
	L.SetField(mod, "can_diff", L.NewFunction(m.canDiff))
	L.SetField(mod, "execute", L.NewFunction(m.execute))
	L.SetField(mod, "commands", L.NewFunction(m.list))
	L.SetField(mod, "render", L.NewFunction(m.renderView))

	L.SetGlobal(m.Name(), mod)
	return nil
}

// save() -> nil
// Saves a revision of the document.
func (m *RevisionsModule) save(L *lua.LState) int {
	m.run(L, revisions.CommandSaveRevision)
	return 0
}

// toggle_diff() -> bool
// Shows or hides the diff and returns whether it is shown.
func (m *RevisionsModule) toggleDiff(L *lua.LState) int {
	m.run(L, revisions.CommandShowDiff)
	L.Push(lua.LBool(m.state(L, revisions.CommandShowDiff).Value))
	return 1
}

// is_diff_on() -> bool
func (m *RevisionsModule) isDiffOn(L *lua.LState) int {
	L.Push(lua.LBool(m.state(L, revisions.CommandShowDiff).Value))
	return 1
}

// has_revision() -> bool
func (m *RevisionsModule) hasRevision(L *lua.LState) int {
	L.Push(lua.LBool(m.state(L, revisions.CommandSaveRevision).Value))
	return 1
}

// can_diff() -> bool
func (m *RevisionsModule) canDiff(L *lua.LState) int {
	L.Push(lua.LBool(m.state(L, revisions.CommandShowDiff).Enabled))
	return 1
}

// execute(name) -> nil
// Runs any registered command by name.
func (m *RevisionsModule) execute(L *lua.LState) int {
	name := L.CheckString(1)
	if name == "" {
		L.ArgError(1, "name cannot be empty")
	}
	m.run(L, name)
	return 0
}

// commands() -> {name = {value = bool, enabled = bool}}
func (m *RevisionsModule) list(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range m.commands.Names() {
		st := m.state(L, name)
		entry := L.NewTable()
		L.SetField(entry, "value", lua.LBool(st.Value))
		L.SetField(entry, "enabled", lua.LBool(st.Enabled))
		L.SetField(tbl, name, entry)
	}
	L.Push(tbl)
	return 1
}

// render() -> string
// Returns the document view as text, with removed content in brackets.
func (m *RevisionsModule) renderView(L *lua.LState) int {
	if m.render == nil {
		L.RaiseError("render: no view available")
	}
	L.Push(lua.LString(m.render()))
	return 1
}

func (m *RevisionsModule) run(L *lua.LState, name string) {
	if err := m.commands.Execute(name); err != nil {
		L.RaiseError("%s: %v", name, err)
	}
}

func (m *RevisionsModule) state(L *lua.LState, name string) revisions.CommandState {
	st, err := m.commands.State(name)
	if err != nil {
		L.RaiseError("%s: %v", name, err)
	}
	return st
}
