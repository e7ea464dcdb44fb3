package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nathoo/madori/types"
)

func TestLoadDefault(t *testing.T) {
	defs, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}

	if defs.Game.Title != "見取り図" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if defs.Game.Start != "玄関" {
		t.Errorf("Start = %q", defs.Game.Start)
	}
	if defs.Game.StartClock != 23*60+40 {
		t.Errorf("StartClock = %d", defs.Game.StartClock)
	}
	if len(defs.Game.StartInventory) != 1 || defs.Game.StartInventory[0] != "古い見取り図" {
		t.Errorf("StartInventory = %v", defs.Game.StartInventory)
	}
	if len(defs.Game.Blueprint.FakeNames) != 7 {
		t.Errorf("FakeNames = %v", defs.Game.Blueprint.FakeNames)
	}

	want := []string{"玄関", "廊下", "居間", "台所", "物置", "階段", "二階廊下", "寝室", "子ども部屋"}
	if len(defs.Rooms) != len(want) {
		t.Fatalf("expected %d rooms, got %d", len(want), len(defs.Rooms))
	}
	for i, room := range defs.Rooms {
		if room.Name != want[i] {
			t.Errorf("room %d = %q, want %q", i, room.Name, want[i])
		}
	}
	if defs.Rooms[3].Anchor != (types.Vec3{X: 20, Z: 10}) {
		t.Errorf("台所 anchor = %+v", defs.Rooms[3].Anchor)
	}
	if defs.Rooms[6].Anchor != (types.Vec3{X: 10, Y: 5, Z: 15}) {
		t.Errorf("二階廊下 anchor = %+v", defs.Rooms[6].Anchor)
	}

	red, ok := defs.Anomalies["赤い部屋"]
	if !ok {
		t.Fatal("anomaly 赤い部屋 missing")
	}
	if red.Anchor != (types.Vec3{X: 30}) || red.Exits["西"] != "居間" || red.Color != 0x8b0000 {
		t.Errorf("赤い部屋 = %+v", red)
	}

	if len(defs.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(defs.Actions))
	}
	pairs := map[string]int{"玄関": 1, "居間": 2, "物置": 3}
	for _, a := range defs.Actions {
		if pairs[a.Room] != a.Chapter {
			t.Errorf("action %q at (%d, %s)", a.ID, a.Chapter, a.Room)
		}
	}
	if len(defs.Handlers) != 2 {
		t.Errorf("expected 2 handlers, got %d", len(defs.Handlers))
	}
}

func TestLoad_Minimal(t *testing.T) {
	defs, err := Load("testdata/minimal")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if defs.Game.Title != "Minimal House" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	if len(defs.Rooms) != 1 || defs.Rooms[0].Description != "A bare hall." {
		t.Errorf("Rooms = %+v", defs.Rooms)
	}
	if defs.Game.Ending.AfterSteps != 12 {
		t.Errorf("ending defaults not applied: %+v", defs.Game.Ending)
	}
}

func TestLoad_InvalidRefs_Fails(t *testing.T) {
	_, err := Load("testdata/bad_refs")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	for _, want := range []string{
		`start room "attic"`,
		`undefined room "nowhere"`,
		`chapter 5`,
		`undefined room "cellar"`,
		`undefined anomaly "hall"`,
		`unknown effect type "teleport"`,
	} {
		if !strings.Contains(ve.Error(), want) {
			t.Errorf("error missing %q:\n%s", want, ve.Error())
		}
	}
}

func TestLoad_FileOrdering(t *testing.T) {
	defs, err := Load("testdata/ordered")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs.Rooms) != 2 || defs.Rooms[0].Name != "a" || defs.Rooms[1].Name != "b" {
		t.Errorf("Rooms = %+v", defs.Rooms)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/does_not_exist"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadFS_NoLuaFiles(t *testing.T) {
	fsys := fstest.MapFS{"world/readme.txt": {Data: []byte("hi")}}
	_, err := LoadFS(fsys, "world")
	if err == nil || !strings.Contains(err.Error(), "no .lua files") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFS_BadLuaSyntax(t *testing.T) {
	fsys := fstest.MapFS{"world/game.lua": {Data: []byte(`Game { title = `)}}
	_, err := LoadFS(fsys, "world")
	if err == nil || !strings.Contains(err.Error(), "game.lua") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFS_NoGameDef(t *testing.T) {
	fsys := fstest.MapFS{"world/rooms.lua": {Data: []byte(`Room "a" { anchor = { 0, 0, 0 } }`)}}
	_, err := LoadFS(fsys, "world")
	if err == nil || !strings.Contains(err.Error(), "Game{}") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFS_SandboxEnforced(t *testing.T) {
	scripts := []string{
		`os.execute("true")`,
		`io.open("/etc/passwd")`,
		`dofile("x.lua")`,
		`math.randomseed(1)`,
		`local x = math.random()`,
	}
	for _, src := range scripts {
		fsys := fstest.MapFS{"world/game.lua": {Data: []byte(src)}}
		if _, err := LoadFS(fsys, "world"); err == nil {
			t.Errorf("expected sandbox error for %q", src)
		}
	}
}
