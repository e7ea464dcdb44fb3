package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

func validDefs() *state.Defs {
	g := types.GameDef{Title: "Test", Start: "玄関"}
	state.ApplyDefaults(&g)
	return &state.Defs{
		Game: g,
		Rooms: []types.RoomDef{
			{Name: "玄関", Exits: map[string]string{"東": "居間"}},
			{Name: "居間", Exits: map[string]string{"西": "玄関", "東": "赤い部屋"}},
		},
		Anomalies: map[string]types.RoomDef{
			"赤い部屋": {Name: "赤い部屋", Exits: map[string]string{"西": "居間"}, Anomalous: true},
		},
		Actions: []types.ActionDef{
			{ID: "red", Chapter: 2, Room: "居間", Effects: []types.Effect{
				{Type: "add_room", Params: map[string]any{"room": "赤い部屋"}},
				{Type: "change_chapter", Params: map[string]any{"chapter": 2}},
			}},
		},
	}
}

// validationErrors runs validate and returns the collected error strings.
func validationErrors(t *testing.T, defs *state.Defs) []string {
	t.Helper()
	err := validate(defs)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

func expectError(t *testing.T, errs []string, substr string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return
		}
	}
	t.Errorf("expected an error containing %q, got %v", substr, errs)
}

func TestValidate_ValidDefs(t *testing.T) {
	if errs := validationErrors(t, validDefs()); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_MissingStartRoom(t *testing.T) {
	defs := validDefs()
	defs.Game.Start = "屋根裏"
	expectError(t, validationErrors(t, defs), `start room "屋根裏"`)
}

func TestValidate_StartRoomCannotBeAnomaly(t *testing.T) {
	defs := validDefs()
	defs.Game.Start = "赤い部屋"
	expectError(t, validationErrors(t, defs), `start room "赤い部屋"`)
}

func TestValidate_EmptyTitle(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	expectError(t, validationErrors(t, defs), "title is required")
}

func TestValidate_ProgressOrder(t *testing.T) {
	defs := validDefs()
	defs.Game.ChapterSteps = map[int]int{2: 8, 3: 4}
	expectError(t, validationErrors(t, defs), "Game.progress")
}

func TestValidate_InvalidExitTarget(t *testing.T) {
	defs := validDefs()
	defs.Rooms[0].Exits["北"] = "庭"
	expectError(t, validationErrors(t, defs), `undefined room "庭"`)
}

func TestValidate_AnomalyExitTarget(t *testing.T) {
	defs := validDefs()
	red := defs.Anomalies["赤い部屋"]
	red.Exits["北"] = "庭"
	defs.Anomalies["赤い部屋"] = red
	expectError(t, validationErrors(t, defs), `room "赤い部屋" exit "北"`)
}

func TestValidate_DuplicateActionID(t *testing.T) {
	defs := validDefs()
	defs.Actions = append(defs.Actions, types.ActionDef{ID: "red", Chapter: 1, Room: "玄関"})
	expectError(t, validationErrors(t, defs), `duplicate action ID "red"`)
}

func TestValidate_ActionChapterRange(t *testing.T) {
	for _, chapter := range []int{0, 4} {
		defs := validDefs()
		defs.Actions[0].Chapter = chapter
		expectError(t, validationErrors(t, defs), "outside 1..3")
	}
}

func TestValidate_ActionUndefinedRoom(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Room = "屋根裏"
	expectError(t, validationErrors(t, defs), `references undefined room "屋根裏"`)
}

func TestValidate_UnknownEffectType(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Effects = append(defs.Actions[0].Effects, types.Effect{Type: "explode"})
	expectError(t, validationErrors(t, defs), `unknown effect type "explode"`)
}

func TestValidate_UnknownConditionType(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Conditions = []types.Condition{{Type: "moon_full"}}
	expectError(t, validationErrors(t, defs), `unknown condition type "moon_full"`)
}

func TestValidate_UndefinedRoomInCondition(t *testing.T) {
	defs := validDefs()
	inner := types.Condition{Type: "visited", Params: map[string]any{"room": "屋根裏"}}
	defs.Handlers = []types.EventHandler{{
		EventType:  "chapter_changed",
		Conditions: []types.Condition{{Type: "not", Negate: true, Inner: &inner}},
	}}
	expectError(t, validationErrors(t, defs), `condition visited references undefined room "屋根裏"`)
}

func TestValidate_AddRoomNeedsAnomaly(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Effects[0].Params["room"] = "玄関"
	expectError(t, validationErrors(t, defs), `undefined anomaly "玄関"`)
}

func TestValidate_Relocate(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Effects = append(defs.Actions[0].Effects, types.Effect{
		Type: "relocate",
		Params: map[string]any{"rooms": map[string]any{
			"屋根裏": []any{0, 0, 0},
			"玄関":  []any{1, 2},
		}},
	})
	errs := validationErrors(t, defs)
	expectError(t, errs, `relocate references undefined room "屋根裏"`)
	expectError(t, errs, `anchor for "玄関" needs 3 coordinates`)
}

func TestValidate_ChangeChapterRange(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Effects[1].Params["chapter"] = 7
	expectError(t, validationErrors(t, defs), "change_chapter")
}

func TestValidate_UnusedAnomaly_Warning(t *testing.T) {
	defs := validDefs()
	defs.Actions[0].Effects = defs.Actions[0].Effects[1:]

	err := validate(defs)
	if err != nil {
		t.Fatalf("unused anomaly should only warn: %v", err)
	}
}
