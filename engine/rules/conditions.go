// Package rules evaluates conditions and selects the chapter action for the
// room the player is examining.
package rules

import (
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// EvalCondition evaluates a single condition against the current state.
func EvalCondition(c types.Condition, s *types.State) bool {
	switch c.Type {
	case "chapter_is":
		return s.Chapter == toInt(c.Params["chapter"])

	case "chapter_at_least":
		return s.Chapter >= toInt(c.Params["chapter"])

	case "in_room":
		room, _ := c.Params["room"].(string)
		return s.CurrentRoom == room

	case "visited":
		room, _ := c.Params["room"].(string)
		return state.HasVisited(s, room)

	case "has_item":
		item, _ := c.Params["item"].(string)
		return state.HasItem(s, item)

	case "desync_above":
		return s.Desync > toInt(c.Params["value"])

	case "steps_above":
		return s.Steps > toInt(c.Params["value"])

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, s)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, s *types.State) bool {
	for _, c := range conditions {
		if !EvalCondition(c, s) {
			return false
		}
	}
	return true
}

// toInt converts an any value to int, handling float64 from Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
