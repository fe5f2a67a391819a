package index

import "fmt"

// Range is a closed, 1-based span [First, Last] in one coordinate system.
// Last < First means the range is empty. The zero value is empty.
type Range struct {
	First int
	Last  int
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.First, r.Last)
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.First < 1 || r.Last < r.First
}

// Count returns the number of elements covered.
func (r Range) Count() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains returns true if i is within the range.
func (r Range) Contains(i int) bool {
	return !r.IsEmpty() && r.First <= i && i <= r.Last
}

// ContainsRange returns true if other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return !other.IsEmpty() && r.Contains(other.First) && r.Contains(other.Last)
}

// TextRange is a span in both coordinate systems. CharRange and ByteRange
// always describe the same underlying text.
//
// An empty TextRange may still carry an anchor (First) so that it can
// describe an insertion point; use At to build one. The zero value is
// "nothing".
type TextRange struct {
	CharRange Range
	ByteRange Range
}

// NewRange creates the range starting at first and covering count.
func NewRange(first TextIndex, count TextCount) TextRange {
	return TextRange{
		CharRange: Range{First: first.CharIndex, Last: first.CharIndex + count.CharCount - 1},
		ByteRange: Range{First: first.ByteIndex, Last: first.ByteIndex + count.ByteCount - 1},
	}
}

// Between creates the range from first up to, but not including, beyondLast.
func Between(first, beyondLast TextIndex) TextRange {
	return NewRange(first, first.Distance(beyondLast))
}

// At creates an empty range anchored at i.
func At(i TextIndex) TextRange {
	return NewRange(i, TextCount{})
}

// String returns a human-readable representation of the range.
func (r TextRange) String() string {
	return fmt.Sprintf("%s%s", r.CharRange, r.ByteRange)
}

// IsEmpty returns true if the range covers no characters.
func (r TextRange) IsEmpty() bool {
	return r.CharRange.IsEmpty()
}

// First returns the index of the first character (or the anchor).
func (r TextRange) First() TextIndex {
	return TextIndex{CharIndex: r.CharRange.First, ByteIndex: r.ByteRange.First}
}

// BeyondLast returns the index just after the last character.
func (r TextRange) BeyondLast() TextIndex {
	return TextIndex{CharIndex: r.CharRange.Last + 1, ByteIndex: r.ByteRange.Last + 1}
}

// Count returns the size of the range.
func (r TextRange) Count() TextCount {
	if r.CharRange.Last < r.CharRange.First {
		return TextCount{}
	}
	return TextCount{CharCount: r.CharRange.Count(), ByteCount: r.ByteRange.Count()}
}

// Contains returns true if the character index lies within the range.
func (r TextRange) Contains(i TextIndex) bool {
	return r.CharRange.Contains(i.CharIndex)
}

// Extend grows the range by count at its end.
func (r TextRange) Extend(count TextCount) TextRange {
	r.CharRange.Last += count.CharCount
	r.ByteRange.Last += count.ByteCount
	return r
}

// Union returns the smallest range covering both ranges.
// An empty operand is ignored.
func (r TextRange) Union(other TextRange) TextRange {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	if other.CharRange.First < r.CharRange.First {
		r.CharRange.First = other.CharRange.First
		r.ByteRange.First = other.ByteRange.First
	}
	if other.CharRange.Last > r.CharRange.Last {
		r.CharRange.Last = other.CharRange.Last
		r.ByteRange.Last = other.ByteRange.Last
	}
	return r
}
