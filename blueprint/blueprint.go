// Package blueprint draws the player's minimap: the rooms visited so far,
// placed on a coarse grid and progressively corrupted as desync rises.
// It only reads engine snapshots and never changes the room graph.
package blueprint

import (
	"math"

	"github.com/nathoo/madori/engine"
	"github.com/nathoo/madori/types"
)

const (
	// Cols and Rows bound the drawn sheet.
	Cols = 10
	Rows = 8
	// CellSize is the house distance covered by one grid cell.
	CellSize = 5.0
)

// Sheet colors.
const (
	ColorBackground = "#0b0f14"
	ColorGrid       = "#16202b"
	ColorRoom       = "#14202b"
	ColorAnomaly    = "#5b1a16"
	ColorCurrent    = "#1e2f22"
	ColorCorrupt    = "#243447"
	ColorLabel      = "#9fb0c1"
	ColorEnd        = "#050709"
	ColorEndText    = "#c0d6ff"
)

// Cell is one drawn room.
type Cell struct {
	Room      string
	Label     string // may be a fake name
	Col, Row  int
	Color     string
	Current   bool
	Corrupted bool
	Fake      bool
}

// Plan is one frame of the minimap.
type Plan struct {
	Blank bool   // final chapter: nothing but Text
	Text  string // shown on a blank sheet
	Cells []Cell
}

// Draw builds a frame from a snapshot. Each visited room is corrupted with
// probability desync/200; from chapter 3 its label is replaced by a fake name
// one time in five.
func Draw(snap engine.Snapshot, def types.BlueprintDef, rng *RNG) Plan {
	if snap.Chapter >= 4 || snap.GameEnded {
		return Plan{Blank: true, Text: def.EndText}
	}

	visited := make(map[string]bool, len(snap.Visited))
	for _, name := range snap.Visited {
		visited[name] = true
	}

	var plan Plan
	for _, room := range snap.Rooms {
		if !visited[room.Name] {
			continue
		}
		col, row := GridCell(room.Anchor)
		cell := Cell{
			Room:    room.Name,
			Label:   room.Name,
			Col:     col,
			Row:     row,
			Color:   ColorRoom,
			Current: room.Name == snap.CurrentRoom,
		}
		if room.Anomalous {
			cell.Color = ColorAnomaly
		}
		if cell.Current {
			cell.Color = ColorCurrent
		}
		if rng.Chance(float64(snap.Desync) / 200) {
			cell.Color = ColorCorrupt
			cell.Corrupted = true
		}
		if snap.Chapter >= 3 && len(def.FakeNames) > 0 && rng.Chance(0.2) {
			cell.Label = rng.Pick(def.FakeNames)
			cell.Fake = true
		}
		plan.Cells = append(plan.Cells, cell)
	}
	return plan
}

// GridCell maps a house position to a sheet cell.
func GridCell(pos types.Vec3) (col, row int) {
	return int(math.Floor(pos.X / CellSize)), int(math.Floor(pos.Z / CellSize))
}
