package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":            true,
	"desync":         true,
	"change_chapter": true,
	"add_room":       true,
	"relocate":       true,
	"give_item":      true,
	"emit_event":     true,
	"stop":           true,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"chapter_is":       true,
	"chapter_at_least": true,
	"in_room":          true,
	"visited":          true,
	"has_item":         true,
	"desync_above":     true,
	"steps_above":      true,
	"not":              true,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}

	base := map[string]bool{}
	for _, room := range defs.Rooms {
		base[room.Name] = true
	}
	known := func(name string) bool {
		_, anomaly := defs.Anomalies[name]
		return base[name] || anomaly
	}

	// Start room exists and is present from the beginning.
	if defs.Game.Start == "" {
		ve.Errors = append(ve.Errors, "Game.start is required")
	} else if !base[defs.Game.Start] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start room %q not found in defined rooms", defs.Game.Start))
	}

	if defs.Game.ChapterSteps[3] < defs.Game.ChapterSteps[2] {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Game.progress: chapter 3 needs %d steps, fewer than chapter 2 (%d)",
			defs.Game.ChapterSteps[3], defs.Game.ChapterSteps[2]))
	}

	// Exit targets valid. Exits to anomalies stay hidden until inserted.
	checkExits := func(room types.RoomDef) {
		for dir, target := range room.Exits {
			if !known(target) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q exit %q points to undefined room %q", room.Name, dir, target))
			}
		}
	}
	for _, room := range defs.Rooms {
		checkExits(room)
	}
	for _, room := range defs.Anomalies {
		checkExits(room)
	}

	// Action IDs unique; (chapter, room) must name a real pair.
	actionIDs := map[string]bool{}
	added := map[string]bool{}
	for _, action := range defs.Actions {
		if actionIDs[action.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate action ID %q", action.ID))
		}
		actionIDs[action.ID] = true

		if action.Chapter < 1 || action.Chapter >= state.FinalChapter {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"action %q: chapter %d outside 1..%d", action.ID, action.Chapter, state.FinalChapter-1))
		}
		if !known(action.Room) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"action %q references undefined room %q", action.ID, action.Room))
		}
		validateConditions(action.Conditions, known, ve)
		validateEffects(action.Effects, defs, known, ve, added)
	}

	for _, handler := range defs.Handlers {
		validateConditions(handler.Conditions, known, ve)
		validateEffects(handler.Effects, defs, known, ve, added)
	}

	// Warnings: anomalies nothing ever inserts.
	for name := range defs.Anomalies {
		if !added[name] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"anomaly %q is never added by any effect", name))
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateConditions(conditions []types.Condition, known func(string) bool, ve *ValidationError) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"unknown condition type %q", cond.Type))
		}

		switch cond.Type {
		case "in_room", "visited":
			if room, ok := cond.Params["room"].(string); ok && !known(room) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"condition %s references undefined room %q", cond.Type, room))
			}
		case "not":
			if cond.Inner != nil {
				validateConditions([]types.Condition{*cond.Inner}, known, ve)
			}
		}
	}
}

func validateEffects(effects []types.Effect, defs *state.Defs, known func(string) bool, ve *ValidationError, added map[string]bool) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"unknown effect type %q", eff.Type))
		}

		switch eff.Type {
		case "add_room":
			room, _ := eff.Params["room"].(string)
			if _, ok := defs.Anomalies[room]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"effect add_room references undefined anomaly %q", room))
			}
			added[room] = true
		case "relocate":
			rooms, ok := eff.Params["rooms"].(map[string]any)
			if !ok {
				ve.Errors = append(ve.Errors, "effect relocate needs a table of room anchors")
				continue
			}
			for name, anchor := range rooms {
				if !known(name) {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"effect relocate references undefined room %q", name))
				}
				if arr, ok := anchor.([]any); ok && len(arr) != 3 {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"effect relocate: anchor for %q needs 3 coordinates", name))
				}
			}
		case "change_chapter":
			if n, ok := eff.Params["chapter"].(int); !ok || n < 1 || n > state.FinalChapter {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"effect change_chapter: chapter %v outside 1..%d", eff.Params["chapter"], state.FinalChapter))
			}
		}
	}
}
