package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.IsType(t, &EmptyScoresError{}, err)

	_, err = New([]int{30, -1})
	require.Error(t, err)
	assert.IsType(t, &ScoreOutOfRangeError{}, err)

	s, err := New([]int{10, 20, 30})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, s.Average(), 0.0001)
	assert.Equal(t, 30, s.Max())
}

func TestFromPhred33(t *testing.T) {
	s, err := FromPhred33("!+5?")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30}, s.Values)
	assert.Equal(t, []byte{0, 10, 20, 30}, s.Bytes())

	_, err = FromPhred33(" ")
	require.Error(t, err)
	assert.IsType(t, &InvalidEncodingError{}, err)
}

func TestSlice(t *testing.T) {
	s, err := New([]int{1, 2, 3, 4})
	require.NoError(t, err)

	sub, err := s.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, sub.Values)

	_, err = s.Slice(3, 3)
	require.Error(t, err)
}

func TestSlidingWindowTrim(t *testing.T) {
	tests := []struct {
		name      string
		scores    []int
		wantLeft  int
		wantRight int
	}{
		{"all good", []int{30, 30, 30, 30, 30, 30}, 0, 6},
		{"bad head", []int{2, 2, 30, 30, 30, 30, 30, 30}, 1, 8},
		{"bad tail", []int{30, 30, 30, 30, 30, 2, 2, 2}, 0, 6},
		{"all bad", []int{2, 2, 2, 2, 2}, 0, 0},
	}

	f := &Filter{WindowSize: 4, MinWindowQuality: 20, MinLength: 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.scores)
			require.NoError(t, err)
			left, right := f.SlidingWindowTrim(s)
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantRight, right)
		})
	}
}

func TestClip(t *testing.T) {
	f := &Filter{WindowSize: 2, MinWindowQuality: 20, MinLength: 3}

	s, _ := New([]int{30, 30, 30, 30})
	left, right, ok := f.Clip(s)
	assert.True(t, ok)
	assert.Equal(t, 0, left)
	assert.Equal(t, 4, right)

	s, _ = New([]int{30, 30, 2, 2})
	_, _, ok = f.Clip(s)
	assert.False(t, ok)
}

func TestErrorProbability(t *testing.T) {
	assert.InDelta(t, 0.01, ErrorProbability(20), 1e-9)
	assert.InDelta(t, 1.0, ErrorProbability(0), 1e-9)
}
