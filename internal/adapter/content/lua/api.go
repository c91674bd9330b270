package luacontent

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI installs the declaration constructors and requirement helpers.
func registerAPI(L *lua.LState, coll *collector, file func() string) {
	declare := func(name string, into *[]rawDecl) {
		// Name "id" { ... } is curried: the first call returns the table taker.
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				*into = append(*into, rawDecl{id: id, file: file(), table: L.CheckTable(1)})
				return 0
			}))
			return 1
		}))
	}
	declare("Location", &coll.locations)
	declare("Item", &coll.items)
	declare("Monster", &coll.monsters)
	declare("Action", &coll.actions)
	declare("SlayerPool", &coll.pools)

	L.SetGlobal("Starter", L.NewFunction(func(L *lua.LState) int {
		if coll.starter != nil {
			L.RaiseError("Starter declared twice")
		}
		coll.starter = L.CheckTable(1)
		return 0
	}))

	// Stack("logs", 2)
	L.SetGlobal("Stack", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("quantity", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))

	// Level("woodcutting", 15)
	L.SetGlobal("Level", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("level"))
		tbl.RawSetString("skill", lua.LString(L.CheckString(1)))
		tbl.RawSetString("level", lua.LNumber(L.CheckInt(2)))
		L.Push(tbl)
		return 1
	}))

	// Items("raw_shrimp", 1) is consumed on every completion.
	L.SetGlobal("Items", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("item"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("quantity", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))

	// Equipped("bronze_axe")
	L.SetGlobal("Equipped", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("equipment"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))
}
