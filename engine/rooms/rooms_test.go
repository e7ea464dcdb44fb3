package rooms

import (
	"testing"

	"github.com/nathoo/madori/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func house(t *testing.T) *Graph {
	t.Helper()
	g, err := New([]types.RoomDef{
		{Name: "玄関", Anchor: types.Vec3{X: 0}, Exits: map[string]string{"東": "廊下"}},
		{Name: "廊下", Anchor: types.Vec3{X: 10}, Exits: map[string]string{"西": "玄関", "東": "居間"}},
		{Name: "居間", Anchor: types.Vec3{X: 20}, Exits: map[string]string{"西": "廊下", "東": "赤い部屋"}},
		{Name: "二階廊下", Anchor: types.Vec3{X: 10, Y: 5, Z: 15}},
	})
	require.NoError(t, err)
	return g
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]types.RoomDef{{Name: "玄関"}, {Name: "玄関"}})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGet(t *testing.T) {
	g := house(t)

	room, err := g.Get("廊下")
	require.NoError(t, err)
	assert.Equal(t, types.Vec3{X: 10}, room.Anchor)

	_, err = g.Get("屋根裏")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	g := house(t)

	room, err := g.Get("廊下")
	require.NoError(t, err)
	room.Exits["北"] = "屋根裏"
	room.Anchor = types.Vec3{X: 99}

	again, err := g.Get("廊下")
	require.NoError(t, err)
	assert.NotContains(t, again.Exits, "北")
	assert.Equal(t, types.Vec3{X: 10}, again.Anchor)
}

func TestAdd(t *testing.T) {
	g := house(t)

	require.NoError(t, g.Add(types.RoomDef{Name: "赤い部屋", Anchor: types.Vec3{X: 30}}))
	assert.True(t, g.Has("赤い部屋"))
	assert.Equal(t, []string{"玄関", "廊下", "居間", "二階廊下", "赤い部屋"}, g.Names())

	err := g.Add(types.RoomDef{Name: "赤い部屋", Anchor: types.Vec3{X: 99}})
	require.ErrorIs(t, err, ErrAlreadyExists)

	// The failed insert leaves the original untouched.
	room, _ := g.Get("赤い部屋")
	assert.Equal(t, types.Vec3{X: 30}, room.Anchor)
	assert.Equal(t, 5, g.Len())
}

func TestAdd_EmptyName(t *testing.T) {
	var g Graph
	assert.Error(t, g.Add(types.RoomDef{}))
	assert.Equal(t, 0, g.Len())
}

func TestRelocate(t *testing.T) {
	g := house(t)

	require.NoError(t, g.Relocate("廊下", types.Vec3{X: 15, Z: 5}))
	room, err := g.Get("廊下")
	require.NoError(t, err)
	assert.Equal(t, types.Vec3{X: 15, Z: 5}, room.Anchor)
	assert.Equal(t, "玄関", room.Exits["西"], "exits survive relocation")

	assert.ErrorIs(t, g.Relocate("屋根裏", types.Vec3{}), ErrNotFound)
}

func TestExits_PrunesMissingTargets(t *testing.T) {
	g := house(t)

	assert.Equal(t, map[string]string{"西": "廊下"}, g.Exits("居間"))

	require.NoError(t, g.Add(types.RoomDef{Name: "赤い部屋"}))
	assert.Equal(t, map[string]string{"西": "廊下", "東": "赤い部屋"}, g.Exits("居間"))

	assert.Nil(t, g.Exits("屋根裏"))
}

func TestNearestTo(t *testing.T) {
	g := house(t)

	tests := []struct {
		name      string
		pos       types.Vec3
		excluding string
		max       float64
		want      string
		found     bool
	}{
		{"closest wins", types.Vec3{X: 8}, "", 6, "廊下", true},
		{"excluded room skipped", types.Vec3{X: 9}, "廊下", 20, "玄関", true},
		{"height ignored", types.Vec3{X: 10, Y: 40, Z: 14}, "", 2, "二階廊下", true},
		{"strictly below max", types.Vec3{X: 4}, "", 6, "玄関", true},
		{"exactly max is too far", types.Vec3{X: 4}, "玄関", 6, "", false},
		{"tie goes to first inserted", types.Vec3{X: 5}, "", 6, "玄関", true},
		{"nothing in range", types.Vec3{X: 50, Z: 50}, "", 6, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.NearestTo(tt.pos, tt.excluding, tt.max)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestTo_NoRoomInRangeAfterLeaving(t *testing.T) {
	// Standing in the gap between Entrance and Hallway: far from Entrance
	// but not close enough to anything else.
	g, err := New([]types.RoomDef{
		{Name: "玄関", Anchor: types.Vec3{}},
		{Name: "廊下", Anchor: types.Vec3{X: 20}},
	})
	require.NoError(t, err)

	_, ok := g.NearestTo(types.Vec3{X: 7}, "玄関", 6)
	assert.False(t, ok)
}

func TestRooms_OrderAndCopies(t *testing.T) {
	g := house(t)

	list := g.Rooms()
	require.Len(t, list, 4)
	assert.Equal(t, "玄関", list[0].Name)
	assert.Equal(t, "二階廊下", list[3].Name)

	list[0].Exits["南"] = "庭"
	room, _ := g.Get("玄関")
	assert.NotContains(t, room.Exits, "南")
}

func TestPlanarDistance(t *testing.T) {
	assert.InDelta(t, 5.0, PlanarDistance(types.Vec3{}, types.Vec3{X: 3, Y: 100, Z: 4}), 1e-9)
}
