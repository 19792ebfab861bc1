package readpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRead(t *testing.T, p *Pool, name, bases string) *Read {
	t.Helper()
	id, err := p.Add(&Read{Name: name, Bases: []byte(bases)})
	require.NoError(t, err)
	r, ok := p.Read(id)
	require.True(t, ok)
	return r
}

func TestAdd(t *testing.T) {
	p := New()

	r := addRead(t, p, "r1", "acgtn")
	assert.Equal(t, 0, r.ID)
	assert.Equal(t, "ACGTN", string(r.Bases))
	assert.Equal(t, 5, r.RightClip)
	assert.Equal(t, 1, r.Multiplier())

	_, err := p.Add(&Read{Name: "r1", Bases: []byte("ACGT")})
	require.Error(t, err)

	_, err = p.Add(&Read{Name: "bad", Bases: []byte("ACQT")})
	require.Error(t, err)

	_, err = p.Add(&Read{Name: "quals", Bases: []byte("ACGT"), Quals: []byte{30}})
	require.Error(t, err)

	_, err = p.Add(&Read{Name: "clips", Bases: []byte("ACGT"), LeftClip: 3, RightClip: 2})
	require.Error(t, err)

	got, ok := p.ByName("r1")
	require.True(t, ok)
	assert.Same(t, r, got)
	assert.Equal(t, 1, p.Len())
}

func TestPlaced(t *testing.T) {
	p := New()
	id, err := p.Add(&Read{Name: "r", Bases: []byte("TTACGGA"), Quals: []byte{1, 2, 3, 4, 5, 6, 7}, LeftClip: 2, RightClip: 6})
	require.NoError(t, err)
	r, _ := p.Read(id)

	assert.Equal(t, "ACGG", string(r.Placed(1)))
	assert.Equal(t, "CCGT", string(r.Placed(-1)))
	assert.Equal(t, []byte{3, 4, 5, 6}, r.PlacedQuals(1))
	assert.Equal(t, []byte{6, 5, 4, 3}, r.PlacedQuals(-1))
}

func TestInsertAndDeleteGap(t *testing.T) {
	tests := []struct {
		name string
		dir  int
		pos  int
		want string
	}{
		{"forward middle", 1, 2, "AC*GTA"},
		{"forward front", 1, 0, "*ACGTA"},
		{"forward end", 1, 5, "ACGTA*"},
		{"reverse middle", -1, 2, "ACG*TA"},
		{"reverse front", -1, 0, "ACGTA*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			r := addRead(t, p, "r", "ACGTA")
			before := string(r.Placed(tt.dir))

			require.NoError(t, p.InsertGap(r.ID, tt.dir, tt.pos))
			assert.Equal(t, tt.want, string(r.Bases))
			assert.Equal(t, 6, r.Len())
			assert.Equal(t, byte('*'), r.Placed(tt.dir)[tt.pos])

			require.NoError(t, p.DeleteGap(r.ID, tt.dir, tt.pos))
			assert.Equal(t, before, string(r.Placed(tt.dir)))
		})
	}
}

func TestGapCommandErrors(t *testing.T) {
	p := New()
	r := addRead(t, p, "r", "ACGT")

	err := p.InsertGap(99, 1, 0)
	assert.IsType(t, &ReadNotFoundError{}, err)

	err = p.InsertGap(r.ID, 1, 5)
	assert.IsType(t, &PositionError{}, err)

	err = p.DeleteGap(r.ID, 1, 1)
	assert.IsType(t, &NotAGapError{}, err)
}

func TestGapQuality(t *testing.T) {
	p := New()
	id, err := p.Add(&Read{Name: "q", Bases: []byte("ACGT"), Quals: []byte{30, 10, 40, 20}})
	require.NoError(t, err)
	r, _ := p.Read(id)

	require.NoError(t, p.InsertGap(id, 1, 2))
	assert.Equal(t, []byte{30, 10, 10, 40, 20}, r.Quals)
}

func TestUngap(t *testing.T) {
	p := New()
	id, err := p.Add(&Read{Name: "g", Bases: []byte("A*CG*T*A"), LeftClip: 2, RightClip: 7})
	require.NoError(t, err)
	r, _ := p.Read(id)

	require.NoError(t, p.Ungap(id))
	assert.Equal(t, "ACGTA", string(r.Bases))
	assert.Equal(t, 1, r.LeftClip)
	assert.Equal(t, 4, r.RightClip)
	assert.Equal(t, "CGT", string(r.Clipped()))
}

func TestParseSeqType(t *testing.T) {
	for i := SeqType(0); i < NumSeqTypes; i++ {
		got, err := ParseSeqType(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	_, err := ParseSeqType("nanopore")
	require.Error(t, err)
}

func TestSetClips(t *testing.T) {
	p := New()
	id, err := p.Add(&Read{Name: "c", Bases: []byte("ACGTACGT")})
	require.NoError(t, err)
	r, _ := p.Read(id)

	require.NoError(t, p.SetClips(id, 2, 6))
	assert.Equal(t, "GTAC", string(r.Clipped()))

	require.Error(t, p.SetClips(id, 5, 4))
	require.Error(t, p.SetClips(id, 0, 9))
	require.Error(t, p.SetClips(42, 0, 1))
}
