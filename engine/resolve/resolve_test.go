package resolve

import (
	"errors"
	"testing"

	"github.com/nathoo/madori/engine/rooms"
	"github.com/nathoo/madori/types"
)

func testGraph(t *testing.T) *rooms.Graph {
	t.Helper()
	g, err := rooms.New([]types.RoomDef{
		{Name: "玄関", Aliases: []string{"entrance", "genkan"}},
		{Name: "廊下", Aliases: []string{"hallway", "corridor"}},
		{Name: "居間", Aliases: []string{"living room"}},
		{Name: "二階廊下", Aliases: []string{"upstairs hallway", "landing"}},
		{Name: "子ども部屋", Aliases: []string{"kids room"}},
		{Name: "寝室", Aliases: []string{"bedroom"}},
	})
	if err != nil {
		t.Fatalf("rooms.New: %v", err)
	}
	return g
}

func TestRoom(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical key", "玄関", "玄関"},
		{"alias", "entrance", "玄関"},
		{"alias uppercase", "ENTRANCE", "玄関"},
		{"alias full-width", "ｇｅｎｋａｎ", "玄関"},
		{"multi-word alias", "living room", "居間"},
		{"partial word", "living", "居間"},
		{"exact beats partial", "hallway", "廊下"},
		{"upstairs", "upstairs", "二階廊下"},
		{"surrounding spaces", "  bedroom ", "寝室"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Room(g, tt.input)
			if err != nil {
				t.Fatalf("Room(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Room(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoom_NotFound(t *testing.T) {
	g := testGraph(t)

	for _, input := range []string{"attic", "", "赤い部屋"} {
		_, err := Room(g, input)
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Errorf("Room(%q): expected NotFoundError, got %v", input, err)
		}
	}
}

func TestRoom_Ambiguous(t *testing.T) {
	g := testGraph(t)

	_, err := Room(g, "room")
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("candidates = %v, want 2", amb.Candidates)
	}
	// Graph order.
	if amb.Candidates[0] != "居間" || amb.Candidates[1] != "子ども部屋" {
		t.Errorf("candidates = %v, want [居間 子ども部屋]", amb.Candidates)
	}
}

func TestRoom_AddedRoomResolves(t *testing.T) {
	g := testGraph(t)
	if err := g.Add(types.RoomDef{Name: "赤い部屋", Aliases: []string{"red room"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := Room(g, "red")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "赤い部屋" {
		t.Errorf("got %q, want 赤い部屋", got)
	}
}
