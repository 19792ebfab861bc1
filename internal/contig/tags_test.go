package contig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taggedContig(t *testing.T) *Contig {
	t.Helper()
	c := New("tags", nil, nil, nil)
	c.growRight(20)
	require.NoError(t, c.AddTag("A", 2, 5, ""))
	require.NoError(t, c.AddTag("B", 8, 8, ""))
	require.NoError(t, c.AddTag("C", 12, 19, ""))
	c.SetMarker("left", 3)
	c.SetMarker("right", 8)
	return c
}

func tagRanges(c *Contig) map[string][2]int {
	out := make(map[string][2]int)
	for _, tag := range c.Tags() {
		out[tag.ID] = [2]int{tag.From, tag.To}
	}
	return out
}

func TestInsertColumnsShiftsAtAndAfter(t *testing.T) {
	c := taggedContig(t)
	c.insertColumns(8, 1)

	assert.Equal(t, map[string][2]int{
		"A": {2, 5},
		"B": {9, 9},
		"C": {13, 20},
	}, tagRanges(c))

	pos, _ := c.Marker("left")
	assert.Equal(t, 3, pos)
	pos, _ = c.Marker("right")
	assert.Equal(t, 9, pos)
}

func TestInsertThenDeleteRestores(t *testing.T) {
	c := taggedContig(t)
	before := c.Tags()

	for _, at := range []int{0, 2, 5, 8, 12, 19} {
		c.insertColumns(at, 1)
		c.deleteColumns(at, 1)
	}
	assert.Equal(t, before, c.Tags())
	pos, _ := c.Marker("right")
	assert.Equal(t, 8, pos)
}

func TestFrontTrimDropsTags(t *testing.T) {
	c := taggedContig(t)
	c.deleteColumns(0, 6)

	assert.Equal(t, map[string][2]int{
		"B": {2, 2},
		"C": {6, 13},
	}, tagRanges(c))
	pos, _ := c.Marker("left")
	assert.Equal(t, 0, pos)
}

func TestBackTrimClampsTags(t *testing.T) {
	c := taggedContig(t)
	c.deleteColumns(15, 5)

	assert.Equal(t, map[string][2]int{
		"A": {2, 5},
		"B": {8, 8},
		"C": {12, 14},
	}, tagRanges(c))
}

func TestAddTagClamps(t *testing.T) {
	c := New("tags", nil, nil, nil)
	c.growRight(10)

	require.NoError(t, c.AddTag(TagForcedMerge, -3, 30, "zone"))
	assert.Equal(t, Tag{ID: TagForcedMerge, From: 0, To: 9, Comment: "zone"}, c.Tags()[0])
	assert.True(t, c.tagCovers(TagForcedMerge, 0, 10))

	require.Error(t, c.AddTag("X", 5, 4, ""))
	require.Error(t, c.AddTag("X", 10, 12, ""))
}
