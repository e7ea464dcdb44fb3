package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Room "name" { ... } is curried: Room("name") returns a function that takes a table.
	L.SetGlobal("Room", roomConstructor(L, coll, false))

	// Anomaly "name" { ... }: a room kept out of the house until an
	// AddRoom effect inserts it.
	L.SetGlobal("Anomaly", roomConstructor(L, coll, true))

	// Action("id", when, conditions, then)
	// conditions may be omitted.
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		when := L.CheckTable(2)

		// Action("id", when, conds, then) and Action("id", when, then).
		var conditions, thenTbl *lua.LTable
		if L.Get(4) != lua.LNil {
			if t, ok := L.Get(3).(*lua.LTable); ok {
				conditions = t
			}
			thenTbl = L.CheckTable(4)
		} else {
			thenTbl = L.CheckTable(3)
		}

		coll.actions = append(coll.actions, rawAction{
			id:         id,
			when:       when,
			conditions: conditions,
			then:       thenTbl,
			order:      coll.nextSourceOrder(),
		})
		return 0
	}))

	// On("event_type", { conditions = {...}, effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))

	// When { chapter = 1, room = "..." } is a pass-through returning the table.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	// Then { effect1, effect2, ... } is a pass-through returning the table.
	L.SetGlobal("Then", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}

func roomConstructor(L *lua.LState, coll *collector, anomalous bool) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{name: name, table: tbl, anomalous: anomalous})
			return 0
		}))
		return 1
	})
}

func registerConditionHelpers(L *lua.LState) {
	// ChapterIs(2)
	L.SetGlobal("ChapterIs", L.NewFunction(func(L *lua.LState) int {
		chapter := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("chapter_is"))
		tbl.RawSetString("chapter", chapter)
		L.Push(tbl)
		return 1
	}))

	// ChapterAtLeast(3)
	L.SetGlobal("ChapterAtLeast", L.NewFunction(func(L *lua.LState) int {
		chapter := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("chapter_at_least"))
		tbl.RawSetString("chapter", chapter)
		L.Push(tbl)
		return 1
	}))

	// InRoom("room")
	L.SetGlobal("InRoom", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("in_room"))
		tbl.RawSetString("room", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// Visited("room")
	L.SetGlobal("Visited", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("visited"))
		tbl.RawSetString("room", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// HasItem("item")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// DesyncAbove(50)
	L.SetGlobal("DesyncAbove", L.NewFunction(func(L *lua.LState) int {
		value := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("desync_above"))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// StepsAbove(12)
	L.SetGlobal("StepsAbove", L.NewFunction(func(L *lua.LState) int {
		value := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("steps_above"))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("say"))
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// Desync(5)
	L.SetGlobal("Desync", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("desync"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// ChangeChapter(3)
	L.SetGlobal("ChangeChapter", L.NewFunction(func(L *lua.LState) int {
		chapter := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("change_chapter"))
		tbl.RawSetString("chapter", chapter)
		L.Push(tbl)
		return 1
	}))

	// AddRoom("anomaly")
	L.SetGlobal("AddRoom", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("add_room"))
		tbl.RawSetString("room", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// Relocate { ["room"] = { x, y, z }, ... }
	L.SetGlobal("Relocate", L.NewFunction(func(L *lua.LState) int {
		rooms := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("relocate"))
		tbl.RawSetString("rooms", rooms)
		L.Push(tbl)
		return 1
	}))

	// GiveItem("item")
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// EmitEvent("type")
	L.SetGlobal("EmitEvent", L.NewFunction(func(L *lua.LState) int {
		event := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("emit_event"))
		tbl.RawSetString("event", lua.LString(event))
		L.Push(tbl)
		return 1
	}))

	// Stop()
	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("stop"))
		L.Push(tbl)
		return 1
	}))
}
