// Package index defines the dual character/byte coordinate system used by the
// styled text engine.
//
// Every position is carried as a TextIndex holding both a 1-based character
// index and the matching 1-based byte index into the UTF-8 text. For pure
// ASCII text the two are always equal; after the first multi-byte character
// the byte index runs ahead of the character index. Spans and deltas use
// TextCount, closed spans use TextRange.
package index

import (
	"fmt"
	"unicode/utf8"
)

// TextIndex is a 1-based position in both coordinate systems.
// The position one past the last character is valid and means "at end".
type TextIndex struct {
	CharIndex int
	ByteIndex int
}

// New creates a TextIndex.
func New(charIndex, byteIndex int) TextIndex {
	return TextIndex{CharIndex: charIndex, ByteIndex: byteIndex}
}

// Start returns the first position of any text.
func Start() TextIndex {
	return TextIndex{CharIndex: 1, ByteIndex: 1}
}

// String returns a human-readable representation of the index.
func (i TextIndex) String() string {
	return fmt.Sprintf("(%d,%d)", i.CharIndex, i.ByteIndex)
}

// Add shifts the index by a count.
func (i TextIndex) Add(c TextCount) TextIndex {
	return TextIndex{CharIndex: i.CharIndex + c.CharCount, ByteIndex: i.ByteIndex + c.ByteCount}
}

// Sub shifts the index back by a count.
func (i TextIndex) Sub(c TextCount) TextIndex {
	return TextIndex{CharIndex: i.CharIndex - c.CharCount, ByteIndex: i.ByteIndex - c.ByteCount}
}

// Distance returns the count from i up to other.
func (i TextIndex) Distance(other TextIndex) TextCount {
	return TextCount{CharCount: other.CharIndex - i.CharIndex, ByteCount: other.ByteIndex - i.ByteIndex}
}

// Compare orders indices by character position.
func (i TextIndex) Compare(other TextIndex) int {
	switch {
	case i.CharIndex < other.CharIndex:
		return -1
	case i.CharIndex > other.CharIndex:
		return 1
	default:
		return 0
	}
}

// Before returns true if i comes before other.
func (i TextIndex) Before(other TextIndex) bool {
	return i.Compare(other) < 0
}

// After returns true if i comes after other.
func (i TextIndex) After(other TextIndex) bool {
	return i.Compare(other) > 0
}

// IsValid returns true if both coordinates are positive.
func (i TextIndex) IsValid() bool {
	return i.CharIndex >= 1 && i.ByteIndex >= 1
}

// Offset returns the 0-based byte offset of the position.
func (i TextIndex) Offset() int {
	return i.ByteIndex - 1
}

// TextCount is a size or delta in both coordinate systems.
// It is signed when used as an edit delta.
type TextCount struct {
	CharCount int
	ByteCount int
}

// NewCount creates a TextCount.
func NewCount(charCount, byteCount int) TextCount {
	return TextCount{CharCount: charCount, ByteCount: byteCount}
}

// CountOf measures a string.
func CountOf(s string) TextCount {
	return TextCount{CharCount: utf8.RuneCountInString(s), ByteCount: len(s)}
}

// String returns a human-readable representation of the count.
func (c TextCount) String() string {
	return fmt.Sprintf("{%d,%d}", c.CharCount, c.ByteCount)
}

// Add returns the sum of two counts.
func (c TextCount) Add(other TextCount) TextCount {
	return TextCount{CharCount: c.CharCount + other.CharCount, ByteCount: c.ByteCount + other.ByteCount}
}

// Sub returns the difference of two counts.
func (c TextCount) Sub(other TextCount) TextCount {
	return TextCount{CharCount: c.CharCount - other.CharCount, ByteCount: c.ByteCount - other.ByteCount}
}

// Neg returns the negated count.
func (c TextCount) Neg() TextCount {
	return TextCount{CharCount: -c.CharCount, ByteCount: -c.ByteCount}
}

// IsZero returns true if nothing is counted.
func (c TextCount) IsZero() bool {
	return c.CharCount == 0 && c.ByteCount == 0
}
