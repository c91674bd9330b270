// Package luacontent builds the static game catalog from Lua declaration
// files. The VM only lives for the duration of a load.
package luacontent

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"idlescape/internal/domain/game"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates declarations while the files execute.
type collector struct {
	locations []rawDecl
	items     []rawDecl
	monsters  []rawDecl
	actions   []rawDecl
	pools     []rawDecl
	starter   *lua.LTable
}

type rawDecl struct {
	id    string
	file  string
	table *lua.LTable
}

// Load executes every .lua file at the root of fsys in lexical order,
// compiles the declarations and validates the resulting catalog.
func Load(fsys fs.FS) (*game.Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .lua content files found")
	}
	sort.Strings(files)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	current := ""
	registerAPI(L, coll, func() string { return current })

	for _, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		current = name
		fn, err := L.LoadString(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("execute %s: %w", name, err)
		}
	}

	catalog, err := compile(coll)
	if err != nil {
		return nil, err
	}
	if err := catalog.ResolveEquipmentSlots(); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox strips globals that reach outside the declaration files.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require", "module",
		"rawset", "rawget", "rawequal", "collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
