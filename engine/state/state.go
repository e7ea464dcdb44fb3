// Package state manages the mutable game state: the chapter machine, the
// desync score, the clock and the visited-room set. Functions here mutate
// a *types.State and report what changed as events; callers decide whether
// a mutation is allowed at all.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/madori/types"
)

const (
	// FinalChapter is the ending chapter.
	FinalChapter = 4
	// MaxDesync is the upper clamp of the desync score.
	MaxDesync = 100
	// MinutesPerDay is the clock modulus.
	MinutesPerDay = 24 * 60
	// ChapterDesync is added to desync whenever the chapter advances.
	ChapterDesync = 15
)

// Fog distance hints for the presentation layer.
const (
	FogClear  = 50.0
	FogThick  = 30.0
	FogDense  = 20.0
	FogClosed = 5.0
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      types.GameDef
	Rooms     []types.RoomDef          // base rooms, declaration order
	Anomalies map[string]types.RoomDef // rooms inserted by effects
	Actions   []types.ActionDef
	Handlers  []types.EventHandler
}

// ApplyDefaults fills unset tuning fields of g with the stock house values.
func ApplyDefaults(g *types.GameDef) {
	if g.ChapterSteps == nil {
		g.ChapterSteps = map[int]int{2: 3, 3: 7}
	}
	if g.StepMinutes == 0 {
		g.StepMinutes = 3
	}
	if g.LeaveRadius == 0 {
		g.LeaveRadius = 5
	}
	if g.EnterRadius == 0 {
		g.EnterRadius = 6
	}
	if g.InteractReach == 0 {
		g.InteractReach = 3
	}
	if g.Stride == 0 {
		g.Stride = 2.5
	}
	if g.Ending.AfterSteps == 0 {
		g.Ending.AfterSteps = 12
	}
	if g.Ending.Delay == 0 {
		g.Ending.Delay = 2 * time.Second
	}
	if g.Ending.Notice == "" {
		g.Ending.Notice = "図面の中心から音がする..."
	}
	if g.Ending.Beats == nil {
		g.Ending.Beats = []types.BeatDef{
			{Delay: time.Second, Text: "視界が固定されました"},
			{Delay: 2 * time.Second, Text: "図面の中に閉じ込められた..."},
		}
	}
	if g.Blueprint.FakeNames == nil {
		g.Blueprint.FakeNames = []string{"6/12", "10/03", "母の部屋", "A-12", "メ", "影", "003"}
	}
	if g.Blueprint.EndText == "" {
		g.Blueprint.EndText = "叩く音がする"
	}
}

// NewState creates a fresh game state from definitions.
func NewState(defs *Defs) *types.State {
	s := &types.State{
		Chapter:     1,
		CurrentRoom: defs.Game.Start,
		Visited:     []string{},
		Inventory:   append([]string{}, defs.Game.StartInventory...),
		Clock:       wrapClock(defs.Game.StartClock),
	}
	MarkVisited(s, defs.Game.Start)
	for _, room := range defs.Rooms {
		if room.Name == defs.Game.Start {
			s.Position = room.Anchor
			break
		}
	}
	return s
}

// ChangeChapter advances the chapter to n. It is a no-op unless n is greater
// than the current chapter. An actual advance raises desync by ChapterDesync.
func ChangeChapter(s *types.State, n int) []types.Event {
	if n <= s.Chapter || n > FinalChapter {
		return nil
	}
	from := s.Chapter
	s.Chapter = n
	events := []types.Event{{
		Type: "chapter_changed",
		Data: map[string]any{"from": from, "to": n},
	}}
	return append(events, IncreaseDesync(s, ChapterDesync)...)
}

// IncreaseDesync raises desync by amount, clamped to MaxDesync. Negative
// amounts are ignored. Crossing the fog thresholds emits fog_thickened.
func IncreaseDesync(s *types.State, amount int) []types.Event {
	if amount <= 0 || s.Desync >= MaxDesync {
		return nil
	}
	before := s.Desync
	s.Desync = min(MaxDesync, s.Desync+amount)

	events := []types.Event{{
		Type: "desync_changed",
		Data: map[string]any{"from": before, "to": s.Desync},
	}}
	if fogFor(before) != fogFor(s.Desync) {
		events = append(events, types.Event{
			Type: "fog_thickened",
			Data: map[string]any{"far": fogFor(s.Desync)},
		})
	}
	return events
}

// AdvanceTime moves the clock forward, wrapping at midnight. A zero advance
// still emits clock_changed so displays can refresh.
func AdvanceTime(s *types.State, minutes int) []types.Event {
	if minutes < 0 {
		return nil
	}
	s.Clock = wrapClock(s.Clock + minutes)
	return []types.Event{{
		Type: "clock_changed",
		Data: map[string]any{"clock": FormatClock(s.Clock)},
	}}
}

// EnterRoom sets the current room and marks it visited.
func EnterRoom(s *types.State, room string) []types.Event {
	from := s.CurrentRoom
	s.CurrentRoom = room
	first := MarkVisited(s, room)
	return []types.Event{{
		Type: "room_entered",
		Data: map[string]any{"room": room, "from": from, "first_visit": first},
	}}
}

// EndGame moves the state into the terminal chapter and sets GameEnded.
func EndGame(s *types.State) []types.Event {
	if s.GameEnded {
		return nil
	}
	events := ChangeChapter(s, FinalChapter)
	s.GameEnded = true
	return append(events, types.Event{Type: "game_ended", Data: map[string]any{}})
}

// MarkVisited adds room to the visited set. Returns true if it was new.
func MarkVisited(s *types.State, room string) bool {
	if HasVisited(s, room) {
		return false
	}
	s.Visited = append(s.Visited, room)
	return true
}

// HasVisited returns true if the room has ever been occupied.
func HasVisited(s *types.State, room string) bool {
	for _, r := range s.Visited {
		if r == room {
			return true
		}
	}
	return false
}

// HasItem returns true if the player carries the given item.
func HasItem(s *types.State, item string) bool {
	for _, id := range s.Inventory {
		if id == item {
			return true
		}
	}
	return false
}

// FormatClock renders minutes of day as HH:MM.
func FormatClock(minutes int) string {
	minutes = wrapClock(minutes)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// InventoryString joins the inventory for display.
func InventoryString(s *types.State) string {
	return strings.Join(s.Inventory, "、")
}

// FogFar returns the fog distance hint for the current state.
func FogFar(s *types.State) float64 {
	if s.GameEnded {
		return FogClosed
	}
	return fogFor(s.Desync)
}

func fogFor(desync int) float64 {
	switch {
	case desync > 75:
		return FogDense
	case desync > 50:
		return FogThick
	default:
		return FogClear
	}
}

func wrapClock(minutes int) int {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return minutes
}
