package engine

import (
	"fmt"

	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/engine/rules"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// Interact handles a request to interact with target. Examining the current
// room runs its chapter action, if any, and then re-checks the ending
// condition. Any other room is selected directly: it becomes current without
// counting a step, advancing the clock or evaluating progress.
func (e *Engine) Interact(target string) (types.Result, error) {
	var result types.Result
	if err := e.locked("interact"); err != nil {
		return result, err
	}

	if target != e.State.CurrentRoom {
		return e.teleport(target)
	}

	if action, ok := rules.SelectAction(e.Defs.Actions, e.State); ok {
		e.log.Debug("action", "id", action.ID, "chapter", action.Chapter, "room", action.Room)
		e.apply(&result, action.Effects)
	}
	e.checkEnding(&result)
	return result, nil
}

func (e *Engine) teleport(target string) (types.Result, error) {
	var result types.Result
	room, err := e.Graph.Get(target)
	if err != nil {
		return result, fmt.Errorf("interact: %w", err)
	}
	e.emit(&result, state.EnterRoom(e.State, room.Name))
	e.State.Position = room.Anchor
	result.Output = append(result.Output, fmt.Sprintf("%sに移動しました", room.Name))
	return result, nil
}

// Target returns the nearest room whose anchor lies within interact reach of
// the player.
func (e *Engine) Target() (string, bool) {
	return e.Graph.NearestTo(e.State.Position, "", e.Defs.Game.InteractReach)
}

// Targetable reports whether room is within interact reach.
func (e *Engine) Targetable(room string) bool {
	r, err := e.Graph.Get(room)
	if err != nil {
		return false
	}
	return rooms.PlanarDistance(e.State.Position, r.Anchor) < e.Defs.Game.InteractReach
}
