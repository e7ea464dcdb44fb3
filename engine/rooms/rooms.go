// Package rooms implements the room graph store: room definitions keyed by
// name, kept in insertion order, with in-place relocation and proximity
// lookups on the ground plane.
package rooms

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/madori/types"
)

var (
	// ErrNotFound is returned when a room name is absent from the graph.
	ErrNotFound = errors.New("room not found")
	// ErrAlreadyExists is returned when inserting a duplicate room name.
	ErrAlreadyExists = errors.New("room already exists")
)

// Graph holds the rooms of the house. The zero value is an empty graph.
type Graph struct {
	order []string
	rooms map[string]types.RoomDef
}

// New builds a graph from base room definitions, preserving their order.
func New(defs []types.RoomDef) (*Graph, error) {
	g := &Graph{}
	for _, def := range defs {
		if err := g.Add(def); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Get returns a copy of the named room.
func (g *Graph) Get(name string) (types.RoomDef, error) {
	room, ok := g.rooms[name]
	if !ok {
		return types.RoomDef{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return copyRoom(room), nil
}

// Has reports whether the named room exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.rooms[name]
	return ok
}

// Add inserts a room at the end of the canonical order.
func (g *Graph) Add(room types.RoomDef) error {
	if room.Name == "" {
		return errors.New("room name is empty")
	}
	if g.rooms == nil {
		g.rooms = map[string]types.RoomDef{}
	}
	if _, ok := g.rooms[room.Name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, room.Name)
	}
	g.rooms[room.Name] = copyRoom(room)
	g.order = append(g.order, room.Name)
	return nil
}

// Relocate overwrites the anchor of an existing room. Exits and description
// are left untouched.
func (g *Graph) Relocate(name string, anchor types.Vec3) error {
	room, ok := g.rooms[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	room.Anchor = anchor
	g.rooms[name] = room
	return nil
}

// Exits returns the room's exits whose targets currently exist. Exits to
// rooms that have not been inserted yet are pruned.
func (g *Graph) Exits(name string) map[string]string {
	room, ok := g.rooms[name]
	if !ok {
		return nil
	}
	exits := make(map[string]string, len(room.Exits))
	for dir, target := range room.Exits {
		if _, ok := g.rooms[target]; ok {
			exits[dir] = target
		}
	}
	return exits
}

// NearestTo returns the room, other than excluding, whose anchor is closest
// to pos on the ground plane, provided that distance is strictly less than
// maxDistance. Ties go to the room inserted first.
func (g *Graph) NearestTo(pos types.Vec3, excluding string, maxDistance float64) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	for _, name := range g.order {
		if name == excluding {
			continue
		}
		d := PlanarDistance(pos, g.rooms[name].Anchor)
		if d < bestDist && d < maxDistance {
			best = name
			bestDist = d
		}
	}
	return best, best != ""
}

// Names returns room names in insertion order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Rooms returns copies of all rooms in insertion order.
func (g *Graph) Rooms() []types.RoomDef {
	out := make([]types.RoomDef, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, copyRoom(g.rooms[name]))
	}
	return out
}

// Len returns the number of rooms.
func (g *Graph) Len() int {
	return len(g.order)
}

// PlanarDistance is the Euclidean distance between a and b ignoring height.
func PlanarDistance(a, b types.Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

func copyRoom(r types.RoomDef) types.RoomDef {
	if r.Exits != nil {
		exits := make(map[string]string, len(r.Exits))
		for dir, target := range r.Exits {
			exits[dir] = target
		}
		r.Exits = exits
	}
	if r.Aliases != nil {
		r.Aliases = append([]string(nil), r.Aliases...)
	}
	return r
}
