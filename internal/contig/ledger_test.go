package contig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offsets(l *Ledger) []int {
	var out []int
	for _, p := range l.All() {
		out = append(out, p.Offset)
	}
	return out
}

func TestLedgerPlace(t *testing.T) {
	l := NewLedger()
	assert.Equal(t, 0, l.Place(1, 10, 1, 5))
	assert.Equal(t, 0, l.Place(2, 0, 1, 20))
	assert.Equal(t, 2, l.Place(3, 10, -1, 8))
	assert.Equal(t, 3, l.Place(4, 12, 1, 3))

	assert.Equal(t, []int{0, 10, 10, 12}, offsets(l))
	assert.Equal(t, 1, l.At(1).ReadID)
	assert.Equal(t, 3, l.At(2).ReadID)
	assert.Equal(t, 20, l.Longest())

	p, ok := l.LookupByID(3)
	require.True(t, ok)
	assert.Equal(t, 2, l.Index(p))
	assert.Equal(t, -1, p.Dir)
}

func TestLedgerRemove(t *testing.T) {
	l := NewLedger()
	l.Place(1, 0, 1, 5)
	l.Place(2, 3, 1, 5)
	l.Place(3, 6, 1, 5)

	next := l.Remove(1)
	assert.Equal(t, 1, next)
	assert.Equal(t, 3, l.At(next).ReadID)
	_, ok := l.LookupByID(2)
	assert.False(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestLedgerShiftFrom(t *testing.T) {
	l := NewLedger()
	l.Place(1, 0, 1, 5)
	l.Place(2, 4, 1, 5)
	l.Place(3, 9, 1, 5)

	l.ShiftFrom(4, 1)
	assert.Equal(t, []int{0, 5, 10}, offsets(l))

	l.ShiftFrom(6, -1)
	assert.Equal(t, []int{0, 5, 9}, offsets(l))
}

func TestLedgerCovering(t *testing.T) {
	l := NewLedger()
	l.Place(1, 0, 1, 30)
	l.Place(2, 5, 1, 4)
	l.Place(3, 10, 1, 4)
	l.Place(4, 20, 1, 4)

	ids := func(ps []*Placed) []int {
		var out []int
		for _, p := range ps {
			out = append(out, p.ReadID)
		}
		return out
	}

	assert.Equal(t, []int{1, 2}, ids(l.Covering(7)))
	assert.Equal(t, []int{1}, ids(l.Covering(9)))
	assert.Equal(t, []int{1, 3}, ids(l.Covering(10)))
	assert.Empty(t, l.Covering(30))
	assert.Equal(t, 0, l.FirstCovering(12))

	assert.Equal(t, []int{1, 2, 3}, l.CoveringRange(8, 11))
	assert.Empty(t, l.CoveringRange(30, 40))
}
