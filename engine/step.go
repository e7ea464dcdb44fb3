package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/madori/engine/parser"
	"github.com/nathoo/madori/engine/resolve"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// maxStrides caps a single "go" command.
const maxStrides = 10

var compass = map[string]struct {
	dx, dz float64
	label  string
}{
	"north": {0, -1, "北"},
	"south": {0, 1, "南"},
	"east":  {1, 0, "東"},
	"west":  {-1, 0, "西"},
}

// vertical maps stair words to exit labels. Stairs stack rooms on the same
// ground-plane spot, so they are taken by selecting the room directly.
var vertical = map[string]string{
	"up":   "上",
	"上":    "上",
	"down": "下",
	"下":    "下",
}

// exitOrder fixes the display order of exit labels.
var exitOrder = []string{"北", "東", "南", "西", "上", "下"}

// Step processes one command line and returns the result. Engine errors are
// turned into narrative lines; Step itself never fails.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "どうする?")
		return result
	}

	switch intent.Verb {
	case "look":
		result.Output = e.describeRoom(e.State.CurrentRoom)
	case "inventory":
		result.Output = []string{"持ち物: " + state.InventoryString(e.State)}
	case "clock":
		result.Output = []string{"時刻: " + state.FormatClock(e.State.Clock)}
	case "map":
		result.Output = []string{"見取り図: " + strings.Join(e.State.Visited, "、")}
	case "go":
		result = e.stepGo(intent)
	case "examine":
		result = e.stepExamine(intent.Object)
	default:
		if intent.Object == "" {
			if _, ok := vertical[intent.Verb]; ok {
				result = e.stepExamine(intent.Verb)
				break
			}
		}
		result.Output = []string{"何をすればいいのかわからない。"}
	}
	return result
}

func (e *Engine) stepGo(intent types.Intent) types.Result {
	var result types.Result
	dir, ok := compass[intent.Object]
	if !ok {
		result.Output = []string{"どちらへ?"}
		return result
	}

	strides := intent.Count
	if strides <= 0 {
		strides = 1
	}
	strides = min(strides, maxStrides)

	stride := e.Defs.Game.Stride
	from := e.State.Steps
	for range strides {
		r, err := e.Move(dir.dx*stride, dir.dz*stride)
		merge(&result, r)
		if err != nil {
			result.Output = append(result.Output, e.errorLine(err))
			return result
		}
	}
	if e.State.Steps == from {
		result.Output = append(result.Output, fmt.Sprintf("%sへ歩いた。", dir.label))
	}
	return result
}

func (e *Engine) stepExamine(object string) types.Result {
	var result types.Result

	target := e.State.CurrentRoom
	switch {
	case object == "":
		if t, ok := e.Target(); ok {
			target = t
		}
	case vertical[object] != "":
		next, ok := e.Graph.Exits(e.State.CurrentRoom)[vertical[object]]
		if !ok {
			result.Output = []string{"そちらには行けない。"}
			return result
		}
		target = next
	default:
		room, err := resolve.Room(e.Graph, object)
		if err != nil {
			result.Output = []string{err.Error()}
			return result
		}
		if room != e.State.CurrentRoom && !e.Targetable(room) {
			result.Output = []string{fmt.Sprintf("%sは遠すぎて手が届かない。", room)}
			return result
		}
		target = room
	}

	r, err := e.Interact(target)
	if err != nil {
		result.Output = []string{e.errorLine(err)}
		return result
	}
	merge(&result, r)
	if len(result.Output) == 0 {
		result.Output = []string{"特に何も起こらない。"}
	}
	return result
}

// errorLine maps engine errors to narrative text.
func (e *Engine) errorLine(err error) string {
	e.log.Debug("command rejected", "error", err)
	if errors.Is(err, ErrInvalidTransition) {
		return "視界は固定されている。"
	}
	return "何も起こらない。"
}

// describeRoom produces the standard room description output.
func (e *Engine) describeRoom(name string) []string {
	room, err := e.Graph.Get(name)
	if err != nil {
		return []string{"どこにいるのかわからない。"}
	}

	output := []string{fmt.Sprintf("【%s】", room.Name)}
	if room.Description != "" {
		output = append(output, room.Description)
	}

	exits := e.Graph.Exits(name)
	if len(exits) > 0 {
		var parts []string
		for _, dir := range sortedExits(exits) {
			parts = append(parts, dir+": "+exits[dir])
		}
		output = append(output, "出口: "+strings.Join(parts, "、"))
	}
	return output
}

func sortedExits(exits map[string]string) []string {
	rank := make(map[string]int, len(exitOrder))
	for i, dir := range exitOrder {
		rank[dir] = i
	}
	dirs := make([]string, 0, len(exits))
	for dir := range exits {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		ri, iok := rank[dirs[i]]
		rj, jok := rank[dirs[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return dirs[i] < dirs[j]
		}
	})
	return dirs
}

func merge(dst *types.Result, src types.Result) {
	dst.Effects = append(dst.Effects, src.Effects...)
	dst.Events = append(dst.Events, src.Events...)
	dst.Output = append(dst.Output, src.Output...)
}
