// Package events routes emitted events to the world's handlers. Handlers
// produce additional effects; dispatch is a single pass and never recurses.
package events

import (
	"github.com/nathoo/madori/engine/rules"
	"github.com/nathoo/madori/types"
)

// Bus holds the handlers of a world, grouped by event type in declaration
// order.
type Bus struct {
	byType map[string][]types.EventHandler
}

// NewBus indexes handlers by event type.
func NewBus(handlers []types.EventHandler) *Bus {
	b := &Bus{byType: map[string][]types.EventHandler{}}
	for _, h := range handlers {
		b.byType[h.EventType] = append(b.byType[h.EventType], h)
	}
	return b
}

// Dispatch returns the effects of every handler matching the events, in
// event order then declaration order. A handler matches when its data
// filter agrees with the event and its conditions hold.
func (b *Bus) Dispatch(evts []types.Event, s *types.State) []types.Effect {
	var out []types.Effect
	for _, ev := range evts {
		for _, h := range b.byType[ev.Type] {
			if !matches(h.Match, ev.Data) || !rules.EvalAllConditions(h.Conditions, s) {
				continue
			}
			out = append(out, h.Effects...)
		}
	}
	return out
}

// Len returns the number of registered handlers.
func (b *Bus) Len() int {
	n := 0
	for _, hs := range b.byType {
		n += len(hs)
	}
	return n
}

func matches(filter, data map[string]any) bool {
	for key, want := range filter {
		got, ok := data[key]
		if !ok || !equal(want, got) {
			return false
		}
	}
	return true
}

// equal compares event values, treating Lua integers and Go floats alike.
func equal(a, b any) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return a == b
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
