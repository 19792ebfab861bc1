package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		bases   string
		wantErr bool
		errType interface{}
	}{
		{name: "valid read", bases: "ATGCATGC"},
		{name: "lowercase", bases: "atgcatgc"},
		{name: "ambiguity codes", bases: "ATRYNX"},
		{name: "padded", bases: "AT*GC"},
		{name: "empty sequence", bases: "", wantErr: true, errType: &EmptySequenceError{}},
		{name: "invalid base Z", bases: "ATGCZ", wantErr: true, errType: &InvalidBaseError{}},
		{name: "aligner gap is not a pad", bases: "AT-GC", wantErr: true, errType: &InvalidBaseError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := New(tt.bases)

			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, tt.errType, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.bases), seq.Len())
		})
	}
}

func TestGCContent(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		want     float64
	}{
		{"all GC", "GCGCGC", 1.0},
		{"all AT", "ATATAT", 0.0},
		{"mixed", "ATGC", 0.5},
		{"with N", "ATGCN", 0.4},
		{"gaps ignored", "AT**GC", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := New(tt.sequence)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, seq.GCContent(), 0.0001)
		})
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ACGT", "ACGT"},
		{"AAAC", "GTTT"},
		{"AC*GT", "AC*GT"},
		{"RYN", "NRY"},
		{"acgt", "acgt"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, string(ReverseComplement([]byte(tt.in))))
		})
	}
}

func TestIUPACMembers(t *testing.T) {
	assert.Equal(t, "A", IUPACMembers('A'))
	assert.Equal(t, "AG", IUPACMembers('R'))
	assert.Equal(t, "ACGT", IUPACMembers('N'))
	assert.Equal(t, "", IUPACMembers(Gap))
	assert.True(t, IsBase('N'))
	assert.False(t, IsBase(Gap))
	assert.True(t, IsUnambiguous('T'))
	assert.False(t, IsUnambiguous('Y'))
}

func TestUngap(t *testing.T) {
	assert.Equal(t, "ACGT", string(Ungap([]byte("A*C**GT*"))))
	assert.Equal(t, 3, CountGaps([]byte("A*C*G*")))
}

func TestCountAmbiguous(t *testing.T) {
	seq, err := New("ACNRT*")
	require.NoError(t, err)
	assert.Equal(t, 2, seq.CountAmbiguous())
}

func TestToFASTA(t *testing.T) {
	seq, err := WithID("ACGT", "contig1")
	require.NoError(t, err)
	assert.Equal(t, ">contig1\nACGT\n", seq.ToFASTA())

	_, err = WithID("ACGT", "")
	require.Error(t, err)
}
