// Package loader loads Lua world content into Go structs at start-up.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// rawRoom holds a room table before compilation.
type rawRoom struct {
	name      string
	table     *lua.LTable
	anomalous bool
}

// rawAction holds a chapter action before compilation.
type rawAction struct {
	id         string
	when       *lua.LTable
	conditions *lua.LTable // may be nil
	then       *lua.LTable
	order      int
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getMillis returns a millisecond field as a duration.
func getMillis(tbl *lua.LTable, key string) time.Duration {
	return time.Duration(getNumber(tbl, key) * float64(time.Millisecond))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStrings converts the array part of a Lua table to strings.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := &state.Defs{
		Anomalies: map[string]types.RoomDef{},
	}

	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling Game: %w", err)
	}
	defs.Game = game

	// Rooms keep declaration order; anomalies are keyed by name.
	seen := map[string]bool{}
	for _, raw := range coll.rooms {
		if seen[raw.name] {
			return nil, fmt.Errorf("room %q declared twice", raw.name)
		}
		seen[raw.name] = true

		room, err := compileRoom(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling room %s: %w", raw.name, err)
		}
		if room.Anomalous {
			defs.Anomalies[room.Name] = room
		} else {
			defs.Rooms = append(defs.Rooms, room)
		}
	}

	for _, raw := range coll.actions {
		defs.Actions = append(defs.Actions, compileAction(raw))
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	g := types.GameDef{
		Title:          getString(tbl, "title"),
		Author:         getString(tbl, "author"),
		Version:        getString(tbl, "version"),
		Intro:          getString(tbl, "intro"),
		Start:          getString(tbl, "start"),
		StartInventory: tableToStrings(getTable(tbl, "inventory")),
		StepMinutes:    getInt(tbl, "step_minutes"),
		LeaveRadius:    getNumber(tbl, "leave_radius"),
		EnterRadius:    getNumber(tbl, "enter_radius"),
		InteractReach:  getNumber(tbl, "interact_reach"),
		Stride:         getNumber(tbl, "stride"),
	}

	clock, err := parseClock(tbl.RawGetString("clock"))
	if err != nil {
		return g, err
	}
	g.StartClock = clock

	// progress = { [2] = 3, [3] = 7 }: chapter → steps.
	if progress := getTable(tbl, "progress"); progress != nil {
		g.ChapterSteps = map[int]int{}
		progress.ForEach(func(k, v lua.LValue) {
			chapter, ok1 := k.(lua.LNumber)
			steps, ok2 := v.(lua.LNumber)
			if ok1 && ok2 {
				g.ChapterSteps[int(chapter)] = int(steps)
			}
		})
	}

	if ending := getTable(tbl, "ending"); ending != nil {
		g.Ending = types.EndingDef{
			AfterSteps: getInt(ending, "after_steps"),
			Delay:      getMillis(ending, "delay_ms"),
			Notice:     getString(ending, "notice"),
		}
		if beats := getTable(ending, "beats"); beats != nil {
			g.Ending.Beats = []types.BeatDef{}
			for i := 1; i <= beats.MaxN(); i++ {
				if b, ok := beats.RawGetInt(i).(*lua.LTable); ok {
					g.Ending.Beats = append(g.Ending.Beats, types.BeatDef{
						Delay: getMillis(b, "delay_ms"),
						Text:  getString(b, "text"),
					})
				}
			}
		}
	}

	if bp := getTable(tbl, "blueprint"); bp != nil {
		g.Blueprint = types.BlueprintDef{
			FakeNames: tableToStrings(getTable(bp, "fake_names")),
			EndText:   getString(bp, "end_text"),
		}
	}

	state.ApplyDefaults(&g)
	return g, nil
}

// parseClock accepts "HH:MM" or minutes of day.
func parseClock(v lua.LValue) (int, error) {
	switch val := v.(type) {
	case lua.LNumber:
		return int(val), nil
	case lua.LString:
		var h, m int
		if _, err := fmt.Sscanf(string(val), "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("clock %q: want HH:MM", string(val))
		}
		if h < 0 || h > 23 || m < 0 || m > 59 {
			return 0, fmt.Errorf("clock %q out of range", string(val))
		}
		return h*60 + m, nil
	default:
		return 0, nil
	}
}

// compileRoom compiles a raw room into a RoomDef.
func compileRoom(raw rawRoom) (types.RoomDef, error) {
	tbl := raw.table
	room := types.RoomDef{
		Name:        raw.name,
		Aliases:     tableToStrings(getTable(tbl, "aliases")),
		Exits:       tableToStringMap(getTable(tbl, "exits")),
		Description: getString(tbl, "description"),
		Color:       uint32(getNumber(tbl, "color")),
		Anomalous:   raw.anomalous,
	}

	anchor := getTable(tbl, "anchor")
	if anchor == nil {
		return room, fmt.Errorf("anchor is required")
	}
	if anchor.MaxN() == 3 {
		room.Anchor = types.Vec3{
			X: luaFloat(anchor.RawGetInt(1)),
			Y: luaFloat(anchor.RawGetInt(2)),
			Z: luaFloat(anchor.RawGetInt(3)),
		}
	} else {
		room.Anchor = types.Vec3{
			X: getNumber(anchor, "x"),
			Y: getNumber(anchor, "y"),
			Z: getNumber(anchor, "z"),
		}
	}
	return room, nil
}

func luaFloat(v lua.LValue) float64 {
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func compileAction(raw rawAction) types.ActionDef {
	action := types.ActionDef{
		ID:          raw.id,
		Chapter:     getInt(raw.when, "chapter"),
		Room:        getString(raw.when, "room"),
		Effects:     compileEffects(raw.then),
		SourceOrder: raw.order,
	}
	if raw.conditions != nil {
		action.Conditions = compileConditions(raw.conditions)
	}
	return action
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	tbl.ForEach(func(k, v lua.LValue) {
		// Only process integer-keyed entries (array elements).
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if condTbl, ok := v.(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	})
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		innerTbl := getTable(tbl, "inner")
		if innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{
				Type:   "not",
				Negate: true,
				Inner:  &inner,
			}
		}
	}

	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			key := string(ks)
			if key != "type" {
				params[key] = toGoValue(v)
			}
		}
	})

	return types.Condition{
		Type:   condType,
		Params: params,
	}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	})
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	effType := getString(tbl, "type")
	params := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			key := string(ks)
			if key != "type" {
				params[key] = toGoValue(v)
			}
		}
	})
	return types.Effect{
		Type:   effType,
		Params: params,
	}
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{
		EventType: raw.eventType,
	}
	if matchTbl := getTable(raw.table, "match"); matchTbl != nil {
		if m, ok := toGoValue(matchTbl).(map[string]any); ok {
			handler.Match = m
		}
	}
	if condTbl := getTable(raw.table, "conditions"); condTbl != nil {
		handler.Conditions = compileConditions(condTbl)
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
