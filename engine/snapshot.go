package engine

import (
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// Snapshot is a read-only view of the game for the presentation layer.
type Snapshot struct {
	Chapter     int
	Steps       int
	Desync      int
	CurrentRoom string
	Description string
	Exits       map[string]string
	Visited     []string
	Clock       string
	Inventory   string
	GameEnded   bool
	Fog         float64
	Position    types.Vec3
	Target      string // nearest room within interact reach, "" if none
	Rooms       []types.RoomDef
}

// Snapshot copies the current state for display.
func (e *Engine) Snapshot() Snapshot {
	s := e.State
	snap := Snapshot{
		Chapter:     s.Chapter,
		Steps:       s.Steps,
		Desync:      s.Desync,
		CurrentRoom: s.CurrentRoom,
		Exits:       e.Graph.Exits(s.CurrentRoom),
		Visited:     append([]string(nil), s.Visited...),
		Clock:       state.FormatClock(s.Clock),
		Inventory:   state.InventoryString(s),
		GameEnded:   s.GameEnded,
		Fog:         state.FogFar(s),
		Position:    s.Position,
		Rooms:       e.Graph.Rooms(),
	}
	if room, err := e.Graph.Get(s.CurrentRoom); err == nil {
		snap.Description = room.Description
	}
	if target, ok := e.Target(); ok {
		snap.Target = target
	}
	return snap
}
