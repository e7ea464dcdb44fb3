// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"strings"

	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// Apply applies a list of effects to the game state and room graph.
// Returns events emitted and output text collected.
func Apply(s *types.State, defs *state.Defs, g *rooms.Graph, effects []types.Effect) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effects {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, interpolate(text, s))

		case "desync":
			events = append(events, state.IncreaseDesync(s, toInt(eff.Params["amount"]))...)

		case "change_chapter":
			events = append(events, state.ChangeChapter(s, toInt(eff.Params["chapter"]))...)

		case "add_room":
			name, _ := eff.Params["room"].(string)
			def, ok := defs.Anomalies[name]
			if !ok {
				continue
			}
			if err := g.Add(def); err != nil {
				// ErrAlreadyExists: inserted by an earlier trigger.
				continue
			}
			events = append(events, types.Event{
				Type: "room_added",
				Data: map[string]any{"room": name},
			})

		case "relocate":
			targets, _ := eff.Params["rooms"].(map[string]any)
			var moved []string
			// Graph order keeps the event payload deterministic.
			for _, name := range g.Names() {
				raw, ok := targets[name]
				if !ok {
					continue
				}
				anchor, ok := toVec3(raw)
				if !ok {
					continue
				}
				room, err := g.Get(name)
				if err != nil || room.Anchor == anchor {
					continue
				}
				if err := g.Relocate(name, anchor); err != nil {
					continue
				}
				moved = append(moved, name)
			}
			if len(moved) > 0 {
				events = append(events, types.Event{
					Type: "rooms_relocated",
					Data: map[string]any{"rooms": moved},
				})
			}

		case "give_item":
			item, _ := eff.Params["item"].(string)
			if item == "" {
				continue
			}
			s.Inventory = append(s.Inventory, item)
			events = append(events, types.Event{
				Type: "item_given",
				Data: map[string]any{"item": item},
			})

		case "emit_event":
			event, _ := eff.Params["event"].(string)
			events = append(events, types.Event{
				Type: event,
				Data: map[string]any{},
			})

		case "stop":
			return events, output

		default:
			// Unknown effect type: ignore silently.
		}
	}

	return events, output
}

// interpolate replaces template variables in text.
func interpolate(text string, s *types.State) string {
	if !strings.Contains(text, "{") {
		return text
	}
	r := strings.NewReplacer(
		"{room}", s.CurrentRoom,
		"{clock}", state.FormatClock(s.Clock),
		"{chapter}", fmt.Sprint(s.Chapter),
		"{desync}", fmt.Sprint(s.Desync),
		"{steps}", fmt.Sprint(s.Steps),
	)
	return r.Replace(text)
}

// toVec3 accepts {x, y, z} arrays or {x=, y=, z=} tables as compiled from Lua.
func toVec3(v any) (types.Vec3, bool) {
	switch val := v.(type) {
	case types.Vec3:
		return val, true
	case []any:
		if len(val) != 3 {
			return types.Vec3{}, false
		}
		return types.Vec3{X: toFloat(val[0]), Y: toFloat(val[1]), Z: toFloat(val[2])}, true
	case map[string]any:
		return types.Vec3{X: toFloat(val["x"]), Y: toFloat(val["y"]), Z: toFloat(val["z"])}, true
	default:
		return types.Vec3{}, false
	}
}

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

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
