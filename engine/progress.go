package engine

import (
	"fmt"

	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// ChangeChapter advances to chapter n. It reports false without error when
// n is not ahead of the current chapter.
func (e *Engine) ChangeChapter(n int) (bool, error) {
	if err := e.locked("change chapter"); err != nil {
		return false, err
	}
	var result types.Result
	evts := state.ChangeChapter(e.State, n)
	e.emit(&result, evts)
	return len(evts) > 0, nil
}

// IncreaseDesync raises the desync score. Amounts at or below zero are ignored.
func (e *Engine) IncreaseDesync(amount int) error {
	if err := e.locked("increase desync"); err != nil {
		return err
	}
	var result types.Result
	e.emit(&result, state.IncreaseDesync(e.State, amount))
	return nil
}

// AdvanceTime moves the clock forward by minutes, wrapping at midnight.
func (e *Engine) AdvanceTime(minutes int) error {
	if err := e.locked("advance time"); err != nil {
		return err
	}
	var result types.Result
	e.emit(&result, state.AdvanceTime(e.State, minutes))
	return nil
}

// RecordTransition registers a boundary crossing into room: steps, visited
// set, current room, clock and chapter progress all update before it returns.
func (e *Engine) RecordTransition(room string) (types.Result, error) {
	var result types.Result
	if err := e.locked("record transition"); err != nil {
		return result, err
	}
	if !e.Graph.Has(room) {
		return result, fmt.Errorf("record transition: %w: %q", rooms.ErrNotFound, room)
	}

	e.State.Steps++
	e.emit(&result, state.EnterRoom(e.State, room))
	e.emit(&result, state.AdvanceTime(e.State, e.Defs.Game.StepMinutes))
	e.checkProgress(&result)

	e.log.Debug("transition",
		"room", room,
		"steps", e.State.Steps,
		"chapter", e.State.Chapter)
	result.Output = append(result.Output, e.describeRoom(room)...)
	return result, nil
}

// checkProgress applies at most one step-driven chapter advance.
func (e *Engine) checkProgress(result *types.Result) {
	thresholds := e.Defs.Game.ChapterSteps
	switch {
	case e.State.Chapter == 1 && e.State.Steps >= thresholds[2]:
		e.emit(result, state.ChangeChapter(e.State, 2))
	case e.State.Chapter == 2 && e.State.Steps >= thresholds[3]:
		e.emit(result, state.ChangeChapter(e.State, 3))
	}
}

// Walk moves the player to pos. Once the player strays past the leave radius
// of the current room's anchor, the nearest other room within the enter
// radius becomes current. With no such room the position still updates.
func (e *Engine) Walk(pos types.Vec3) (types.Result, error) {
	var result types.Result
	if err := e.locked("walk"); err != nil {
		return result, err
	}
	e.State.Position = pos

	current, err := e.Graph.Get(e.State.CurrentRoom)
	if err != nil {
		return result, fmt.Errorf("walk: %w", err)
	}
	if rooms.PlanarDistance(pos, current.Anchor) <= e.Defs.Game.LeaveRadius {
		return result, nil
	}

	next, ok := e.Graph.NearestTo(pos, current.Name, e.Defs.Game.EnterRadius)
	if !ok {
		return result, nil
	}
	return e.RecordTransition(next)
}

// Move walks by a delta on the ground plane.
func (e *Engine) Move(dx, dz float64) (types.Result, error) {
	pos := e.State.Position
	pos.X += dx
	pos.Z += dz
	return e.Walk(pos)
}
