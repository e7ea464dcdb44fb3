// Package types defines the shared data structures for the madori engine.
// This package contains only type definitions: no logic, no methods.
package types

import "time"

// Vec3 is a point in house space. Y is height; X and Z span the ground plane.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Count  int    // repeat count for walking, 0 when absent
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after effects are applied.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine call.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []string
}

// Condition is a predicate that must be true for an action or handler to fire.
type Condition struct {
	Type   string         // "chapter_is", "in_room", "desync_above", etc.
	Params map[string]any // condition-specific parameters
	Negate bool           // true if wrapped in Not()
	Inner  *Condition     // for Not(): the negated inner condition
}

// ActionDef maps a (chapter, room) pair to the effects of examining that room.
type ActionDef struct {
	ID          string
	Chapter     int
	Room        string
	Conditions  []Condition
	Effects     []Effect
	SourceOrder int
}

// RoomDef is the definition of a room.
type RoomDef struct {
	Name        string
	Aliases     []string
	Anchor      Vec3
	Exits       map[string]string // direction label → room name
	Description string
	Color       uint32 // presentation tint, 0xRRGGBB
	Anomalous   bool   // inserted by narrative effects, not present at start
}

// BeatDef is one timed narrative message.
type BeatDef struct {
	Delay time.Duration
	Text  string
}

// EndingDef configures the universal ending trigger and its narrative beats.
type EndingDef struct {
	AfterSteps int           // ending fires once Steps exceeds this
	Delay      time.Duration // wait between the notice and the ending itself
	Notice     string
	Beats      []BeatDef // shown after the game has ended
}

// BlueprintDef holds presentation hints for the minimap.
type BlueprintDef struct {
	FakeNames []string
	EndText   string
}

// GameDef holds game metadata and tuning from Lua.
type GameDef struct {
	Title          string
	Author         string
	Version        string
	Intro          string
	Start          string // starting room name
	StartClock     int    // minutes of day
	StartInventory []string
	ChapterSteps   map[int]int // chapter → steps needed to reach it by walking
	StepMinutes    int
	LeaveRadius    float64
	EnterRadius    float64
	InteractReach  float64
	Stride         float64 // distance covered by one walking step
	Ending         EndingDef
	Blueprint      BlueprintDef
}

// State is the complete mutable game state.
type State struct {
	Chapter       int
	Steps         int
	Desync        int
	CurrentRoom   string
	Visited       []string // insertion ordered, no duplicates
	Inventory     []string
	Clock         int // minutes of day, [0, 1440)
	GameEnded     bool
	EndingPending bool
	Position      Vec3
}

// EventHandler is a rule triggered by an event rather than a player command.
type EventHandler struct {
	EventType  string
	Match      map[string]any // event data fields that must be equal
	Conditions []Condition
	Effects    []Effect
}
