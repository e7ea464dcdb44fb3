// Package engine wires the room graph, the chapter machine, rules, effects
// and events into the progression engine and interaction resolver. The
// front ends drive it through Walk, Interact, Tick and Step, and redraw
// from Snapshot.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nathoo/madori/engine/effects"
	"github.com/nathoo/madori/engine/events"
	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/engine/sched"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// ErrInvalidTransition is returned by mutating calls once the game has ended.
var ErrInvalidTransition = errors.New("invalid transition: game has ended")

// Engine holds the game definitions, the room graph and the mutable state.
// It is not safe for concurrent use.
type Engine struct {
	Defs  *state.Defs
	State *types.State
	Graph *rooms.Graph

	bus      *events.Bus
	timeline sched.Timeline
	beats    []string // output of fired beats not yet collected
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an engine from definitions. Unset tuning fields of the game
// definition get the stock house values.
func New(defs *state.Defs, opts ...Option) (*Engine, error) {
	state.ApplyDefaults(&defs.Game)

	g, err := rooms.New(defs.Rooms)
	if err != nil {
		return nil, fmt.Errorf("building room graph: %w", err)
	}
	if !g.Has(defs.Game.Start) {
		return nil, fmt.Errorf("start room: %w: %q", rooms.ErrNotFound, defs.Game.Start)
	}

	e := &Engine{
		Defs:  defs,
		State: state.NewState(defs),
		Graph: g,
		bus:   events.NewBus(defs.Handlers),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Init forces a clock refresh and describes the starting room.
func (e *Engine) Init() types.Result {
	var result types.Result
	if e.Defs.Game.Intro != "" {
		result.Output = append(result.Output, e.Defs.Game.Intro)
	}
	e.emit(&result, state.AdvanceTime(e.State, 0))
	result.Output = append(result.Output, e.describeRoom(e.State.CurrentRoom)...)
	e.log.Info("game started",
		"title", e.Defs.Game.Title,
		"room", e.State.CurrentRoom,
		"clock", state.FormatClock(e.State.Clock))
	return result
}

// apply runs effects through the single mutation funnel and dispatches the
// resulting events once.
func (e *Engine) apply(result *types.Result, effs []types.Effect) {
	if len(effs) == 0 {
		return
	}
	evts, output := effects.Apply(e.State, e.Defs, e.Graph, effs)
	result.Effects = append(result.Effects, effs...)
	result.Output = append(result.Output, output...)
	e.emit(result, evts)
}

// emit records events and applies handler effects. Events raised by handler
// effects are recorded but not re-dispatched.
func (e *Engine) emit(result *types.Result, evts []types.Event) {
	if len(evts) == 0 {
		return
	}
	result.Events = append(result.Events, evts...)
	e.logEvents(evts)

	handlerEffs := e.bus.Dispatch(evts, e.State)
	if len(handlerEffs) == 0 {
		return
	}
	evts2, output := effects.Apply(e.State, e.Defs, e.Graph, handlerEffs)
	result.Effects = append(result.Effects, handlerEffs...)
	result.Events = append(result.Events, evts2...)
	result.Output = append(result.Output, output...)
	e.logEvents(evts2)
}

func (e *Engine) logEvents(evts []types.Event) {
	for _, ev := range evts {
		switch ev.Type {
		case "chapter_changed":
			e.log.Info("chapter changed",
				"from", ev.Data["from"],
				"to", ev.Data["to"],
				"desync", e.State.Desync)
		case "game_ended", "room_added", "rooms_relocated", "fog_thickened":
			e.log.Info(ev.Type, "data", ev.Data)
		default:
			e.log.Debug(ev.Type, "data", ev.Data)
		}
	}
}

// locked reports ErrInvalidTransition once the game has ended.
func (e *Engine) locked(op string) error {
	if !e.State.GameEnded {
		return nil
	}
	e.log.Debug("rejected after ending", "op", op)
	return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
}
