// Package resolve maps room names typed by the player to room graph keys.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/madori/engine/parser"
	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/types"
)

// AmbiguityError indicates multiple rooms matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, "、")
	return fmt.Sprintf("どの部屋? %s (%s)", e.Name, names)
}

// NotFoundError indicates no room matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%qという部屋は見当たらない", e.Name)
}

// Room resolves a player-typed name to a room in the graph.
// Exact matches on the name or an alias win over partial word matches.
// Candidates are reported in graph order.
func Room(g *rooms.Graph, name string) (string, error) {
	// 1. Canonical key.
	if g.Has(name) {
		return name, nil
	}

	query := parser.Normalize(name)
	if query == "" {
		return "", &NotFoundError{Name: name}
	}

	// 2. Folded name or alias.
	var exact, partial []string
	for _, room := range g.Rooms() {
		switch {
		case matchesExact(room, query):
			exact = append(exact, room.Name)
		case matchesWord(room, query):
			partial = append(partial, room.Name)
		}
	}

	matches := exact
	if len(matches) == 0 {
		// 3. Word-based partial match: "living" matches "living room".
		matches = partial
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

func matchesExact(room types.RoomDef, query string) bool {
	if parser.Normalize(room.Name) == query {
		return true
	}
	for _, alias := range room.Aliases {
		a := parser.Normalize(alias)
		if a == query {
			return true
		}
		// "living room" also matches alias "living_room".
		if strings.ReplaceAll(query, " ", "_") == a {
			return true
		}
	}
	return false
}

func matchesWord(room types.RoomDef, query string) bool {
	for _, alias := range room.Aliases {
		for _, word := range strings.Fields(parser.Normalize(alias)) {
			if word == query {
				return true
			}
		}
	}
	return false
}
