// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"

	"github.com/nathoo/madori/types"
)

var directionExpansions = map[string]string{
	"n":  "north",
	"s":  "south",
	"e":  "east",
	"w":  "west",
	"北":  "north",
	"南":  "south",
	"東":  "east",
	"西":  "west",
	"前":  "north",
	"後ろ": "south",
	"右":  "east",
	"左":  "west",
}

// Full direction names that are standalone shortcuts for "go <dir>".
var directionNames = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
}

var verbAliases = map[string]string{
	// Look
	"l":  "look",
	"見る": "look",

	// Examine / interact
	"x":       "examine",
	"inspect": "examine",
	"check":   "examine",
	"search":  "examine",
	"touch":   "examine",
	"use":     "examine",
	"enter":   "examine",
	"select":  "examine",
	"調べる":     "examine",

	// Movement
	"walk":  "go",
	"move":  "go",
	"step":  "go",
	"歩く":    "go",
	"進む":    "go",

	// Blueprint
	"m":         "map",
	"blueprint": "map",
	"地図":        "map",
	"見取り図":      "map",

	// Miscellaneous
	"inv":  "inventory",
	"i":    "inventory",
	"持ち物":  "inventory",
	"time": "clock",
	"時計":   "clock",
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "at": true, "into": true,
}

var folder = cases.Fold()

// Normalize folds full-width characters and case so that IME input such as
// "ＥＸＡＭＩＮＥ" matches "examine".
func Normalize(s string) string {
	return folder.String(width.Fold.String(strings.TrimSpace(s)))
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = Normalize(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(input)

	// Direction shortcut: bare "n", "south 3", "北" → go <direction>.
	if dir, ok := direction(words[0]); ok && len(words) <= 2 {
		return types.Intent{Verb: "go", Object: dir, Count: count(words[1:])}
	}

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripFillers(words[1:])

	if verb == "go" {
		if len(rest) == 0 {
			return types.Intent{Verb: "go"}
		}
		dir, ok := direction(rest[0])
		if !ok {
			// "go <room>" is a direct select of that room.
			return types.Intent{Verb: "examine", Object: strings.Join(rest, " ")}
		}
		return types.Intent{Verb: "go", Object: dir, Count: count(rest[1:])}
	}

	return types.Intent{
		Verb:   verb,
		Object: strings.Join(rest, " "),
	}
}

func direction(word string) (string, bool) {
	if dir, ok := directionExpansions[word]; ok {
		return dir, true
	}
	if directionNames[word] {
		return word, true
	}
	return "", false
}

// count parses an optional repeat count. Missing or invalid counts are 0.
func count(words []string) int {
	if len(words) == 0 {
		return 0
	}
	n, err := strconv.Atoi(words[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// expandMultiWordVerbs handles "look at", "look around" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "in" {
			return append([]string{"examine"}, words[2:]...)
		}
		if words[1] == "around" {
			return []string{"look"}
		}
	case "go", "walk":
		if words[1] == "to" || words[1] == "into" {
			return append([]string{"examine"}, words[2:]...)
		}
	}

	return words
}

// stripFillers removes articles and filler prepositions from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}
