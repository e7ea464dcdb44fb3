package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_Empty(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, []string{"どうする?"}, e.Step("   ").Output)
}

func TestStep_Unknown(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, []string{"何をすればいいのかわからない。"}, e.Step("dance").Output)
}

func TestStep_Look(t *testing.T) {
	e := newEngine(t)
	out := e.Step("look").Output
	assert.Equal(t, []string{"【玄関】", "湿った靴の匂い。", "出口: 東: 廊下"}, out)
}

func TestStep_InfoCommands(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, []string{"持ち物: 古い見取り図"}, e.Step("i").Output)
	assert.Equal(t, []string{"時刻: 23:40"}, e.Step("time").Output)
	assert.Equal(t, []string{"見取り図: 玄関"}, e.Step("map").Output)
}

func TestStep_WalkEast(t *testing.T) {
	e := newEngine(t)

	// Stride 2.5: two strides stay inside the entrance radius.
	out := e.Step("e 2").Output
	assert.Equal(t, []string{"東へ歩いた。"}, out)
	assert.Equal(t, "玄関", e.State.CurrentRoom)

	out = e.Step("east").Output
	assert.Equal(t, "廊下", e.State.CurrentRoom)
	assert.Equal(t, 1, e.State.Steps)
	assert.Contains(t, out, "【廊下】")
}

func TestStep_WalkCountCapped(t *testing.T) {
	e := newEngine(t)
	e.Step("w 100")
	assert.InDelta(t, -float64(maxStrides)*e.Defs.Game.Stride, e.State.Position.X, 1e-9)
}

func TestStep_GoWithoutDirection(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, []string{"どちらへ?"}, e.Step("go").Output)
}

func TestStep_ExamineTarget(t *testing.T) {
	e := newEngine(t)

	out := e.Step("examine").Output
	assert.Equal(t, []string{"図面が少し重くなった"}, out)
	assert.Equal(t, 5, e.State.Desync)
}

func TestStep_ExamineByAlias(t *testing.T) {
	e := newEngine(t)
	e.Step("e 3") // now in 廊下 at x=7.5

	out := e.Step("x hallway").Output
	assert.Equal(t, []string{"特に何も起こらない。"}, out)

	out = e.Step("examine kitchen").Output
	assert.Equal(t, []string{"台所は遠すぎて手が届かない。"}, out)
	assert.Equal(t, "廊下", e.State.CurrentRoom)
}

func TestStep_ExamineUnknownRoom(t *testing.T) {
	e := newEngine(t)
	out := e.Step("examine attic").Output
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "attic")
}

func TestStep_Stairs(t *testing.T) {
	e := newEngine(t)
	_, err := e.Interact("階段")
	require.NoError(t, err)

	out := e.Step("go up").Output
	assert.Equal(t, []string{"二階廊下に移動しました"}, out)
	assert.Equal(t, "二階廊下", e.State.CurrentRoom)

	out = e.Step("上").Output
	assert.Equal(t, []string{"そちらには行けない。"}, out)

	e.Step("下")
	assert.Equal(t, "階段", e.State.CurrentRoom)
}

func TestStep_AfterEnding(t *testing.T) {
	e := newEngine(t)
	_, err := e.EndGame()
	require.NoError(t, err)

	assert.Equal(t, []string{"視界は固定されている。"}, e.Step("examine").Output)
	assert.Equal(t, []string{"視界は固定されている。"}, e.Step("n").Output)
	assert.Equal(t, []string{"時刻: 23:40"}, e.Step("clock").Output, "read-only commands still work")
}

func TestSortedExits(t *testing.T) {
	got := sortedExits(map[string]string{"下": "a", "西": "b", "北": "c", "奥": "d"})
	assert.Equal(t, []string{"北", "西", "下", "奥"}, got)
}
