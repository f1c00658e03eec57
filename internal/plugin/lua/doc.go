// Package lua lets Lua scripts drive the revisions commands.
//
// Scripts run in a State with only the base, table, string and math
// libraries; file loading functions are removed. The RevisionsModule
// installs a global "revisions" table:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	state.Register(lua.NewRevisionsModule(rev.Commands(), rev.Editing().Render))
//	err = state.DoString(`
//	    revisions.save()
//	    if revisions.can_diff() then revisions.toggle_diff() end
//	    print(revisions.render())
//	`)
package lua
