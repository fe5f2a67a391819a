package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeEmpty(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		empty bool
		count int
	}{
		{"zero value", Range{}, true, 0},
		{"inverted", Range{First: 5, Last: 4}, true, 0},
		{"single", Range{First: 3, Last: 3}, false, 1},
		{"span", Range{First: 2, Last: 9}, false, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.r.IsEmpty())
			assert.Equal(t, tt.count, tt.r.Count())
		})
	}
}

func TestTextRangeAt(t *testing.T) {
	r := At(New(4, 6))
	assert.True(t, r.IsEmpty())
	assert.Equal(t, New(4, 6), r.First())
	assert.Equal(t, TextCount{}, r.Count())
	assert.Equal(t, New(4, 6), r.BeyondLast())
}

func TestTextRangeUnion(t *testing.T) {
	a := NewRange(New(2, 2), NewCount(3, 4))
	b := NewRange(New(8, 9), NewCount(2, 2))

	u := a.Union(b)
	assert.Equal(t, Range{First: 2, Last: 9}, u.CharRange)
	assert.Equal(t, Range{First: 2, Last: 10}, u.ByteRange)

	assert.Equal(t, a, a.Union(TextRange{}))
	assert.Equal(t, b, TextRange{}.Union(b))
}

func TestAdvanceRetreat(t *testing.T) {
	s := "Fourscøre and seven years ago..."

	i := Advance(s, New(5, 5), 6)
	assert.Equal(t, New(11, 12), i)

	i = Retreat(s, i, 7)
	assert.Equal(t, New(4, 4), i)

	assert.Equal(t, End(s), Advance(s, New(30, 31), 10))
	assert.Equal(t, Start(), Retreat(s, New(3, 3), 10))
}

func TestRetreatFromBeyondEnd(t *testing.T) {
	s := "héllo"

	assert.Equal(t, New(5, 6), Retreat(s, New(40, 90), 1))
	assert.Equal(t, End(s), Retreat(s, New(40, 90), 0))
	assert.Equal(t, New(2, 2), Retreat(s, New(40, 90), 4))
}

func TestFromCharAndByte(t *testing.T) {
	s := "bîgbøld"

	assert.Equal(t, New(3, 4), FromChar(s, 3))
	assert.Equal(t, New(6, 8), FromChar(s, 6))
	assert.Equal(t, End(s), FromChar(s, 50))

	assert.Equal(t, New(3, 4), FromByte(s, 3))
	assert.Equal(t, New(1, 1), FromByte(s, 0))
}

func TestRangeFromChars(t *testing.T) {
	s := "bîgbøldnormal"

	r := RangeFromChars(s, 2, 6)
	require.False(t, r.IsEmpty())
	assert.Equal(t, "îgbøl", Slice(s, r))
	assert.Equal(t, NewCount(5, 7), r.Count())

	empty := RangeFromChars(s, 4, 3)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, New(4, 5), empty.First())
}

func TestRuneAtAndBefore(t *testing.T) {
	s := "aøb"

	r, size := RuneAt(s, New(2, 2))
	assert.Equal(t, 'ø', r)
	assert.Equal(t, 2, size)

	r, size = RuneBefore(s, New(3, 4))
	assert.Equal(t, 'ø', r)
	assert.Equal(t, 2, size)

	_, size = RuneBefore(s, Start())
	assert.Zero(t, size)

	_, size = RuneAt(s, End(s))
	assert.Zero(t, size)
}

func TestASCIIIndicesMatch(t *testing.T) {
	s := "plain ascii text\nwith lines"
	for c := 1; c <= len(s)+1; c++ {
		i := FromChar(s, c)
		require.Equal(t, i.CharIndex, i.ByteIndex, "index %d", c)
	}
}
