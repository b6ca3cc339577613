package frame

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := Default()
	require.Equal(t, 4, c.Len())

	ids := []string{}
	for _, f := range c.All() {
		ids = append(ids, f.ID)
	}
	require.Equal(t, []string{"normal-4-grid", "normal-2-vertical", "special-4-vertical", "special-1-full"}, ids)

	f, ok := c.Lookup("special-1-full")
	require.True(t, ok)
	require.Equal(t, 1, f.Shots)
	require.Equal(t, CategorySpecial, f.Category)
	require.Equal(t, LayoutVertical, f.Layout)

	_, ok = c.Lookup("nope")
	require.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	t.Parallel()

	c := Default()
	all := c.All()
	all[0].ID = "mutated"
	f, ok := c.Lookup("normal-4-grid")
	require.True(t, ok)
	require.Equal(t, "normal-4-grid", f.ID)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty": `frames: []`,
		"shots": `frames:
  - {id: a, shots: 3, category: normal, layout: vertical, style: {background: ["#fff"], slot_aspect: [1, 1]}}`,
		"grid odd": `frames:
  - {id: a, shots: 1, category: normal, layout: grid, style: {background: ["#fff"], slot_aspect: [1, 1]}}`,
		"duplicate": `frames:
  - {id: a, shots: 1, category: normal, layout: vertical, style: {background: ["#fff"], slot_aspect: [1, 1]}}
  - {id: a, shots: 2, category: normal, layout: vertical, style: {background: ["#fff"], slot_aspect: [1, 1]}}`,
		"colour": `frames:
  - {id: a, shots: 1, category: normal, layout: vertical, style: {background: ["blue"], slot_aspect: [1, 1]}}`,
		"category": `frames:
  - {id: a, shots: 1, category: gold, layout: vertical, style: {background: ["#fff"], slot_aspect: [1, 1]}}`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
	}
}

func TestSlotsGridRowMajor(t *testing.T) {
	t.Parallel()

	f, _ := Default().Lookup("normal-4-grid")
	slots := f.Slots(320)
	require.Len(t, slots, 4)
	// 320 - 2*12 - 8 = 288 / 2 = 144 wide, 3:4 => 192 tall
	require.Equal(t, image.Rect(12, 12, 156, 204), slots[0])
	require.Equal(t, image.Rect(164, 12, 308, 204), slots[1])
	require.Equal(t, image.Rect(12, 212, 156, 404), slots[2])
	require.Equal(t, image.Pt(320, 416), f.Size(320))
}

func TestSlotsVertical(t *testing.T) {
	t.Parallel()

	f, _ := Default().Lookup("normal-2-vertical")
	slots := f.Slots(320)
	require.Len(t, slots, 2)
	require.Equal(t, 296, slots[0].Dx())
	require.Equal(t, 222, slots[0].Dy())
	require.Equal(t, slots[0].Max.Y+8, slots[1].Min.Y)
	require.Equal(t, slots[1].Max.Y+12, f.Size(320).Y)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	c := Default()
	got, ok := c.Suggest("normal-4-grd")
	require.True(t, ok)
	require.Equal(t, "normal-4-grid", got)

	_, ok = c.Suggest("completely-unrelated-identifier")
	require.False(t, ok)
}

func TestParseHex(t *testing.T) {
	t.Parallel()

	c, err := ParseHex("#1d4ed8")
	require.NoError(t, err)
	require.Equal(t, uint8(0x1d), c.R)
	require.Equal(t, uint8(0x4e), c.G)
	require.Equal(t, uint8(0xd8), c.B)

	c, err = ParseHex("#fff")
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), c.G)

	_, err = ParseHex("#12")
	require.Error(t, err)
}
