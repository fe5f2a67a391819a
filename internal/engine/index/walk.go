package index

import "unicode/utf8"

// End returns the index one past the last character of s.
func End(s string) TextIndex {
	return TextIndex{CharIndex: utf8.RuneCountInString(s) + 1, ByteIndex: len(s) + 1}
}

// Advance moves from by n characters toward the end of s.
// The result is clamped to End(s).
func Advance(s string, from TextIndex, n int) TextIndex {
	off := from.Offset()
	for n > 0 && off < len(s) {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
		from.CharIndex++
		n--
	}
	from.ByteIndex = off + 1
	return from
}

// Retreat moves from by n characters toward the start of s.
// The result is clamped to Start().
func Retreat(s string, from TextIndex, n int) TextIndex {
	if from.Offset() > len(s) {
		from = End(s)
	}
	off := from.Offset()
	for n > 0 && off > 0 {
		_, size := utf8.DecodeLastRuneInString(s[:off])
		off -= size
		from.CharIndex--
		n--
	}
	from.ByteIndex = off + 1
	return from
}

// RuneAt decodes the character at i.
// It returns utf8.RuneError and 0 at or beyond the end.
func RuneAt(s string, i TextIndex) (rune, int) {
	off := i.Offset()
	if off < 0 || off >= len(s) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(s[off:])
}

// RuneBefore decodes the character just before i.
// It returns utf8.RuneError and 0 at the start.
func RuneBefore(s string, i TextIndex) (rune, int) {
	off := i.Offset()
	if off <= 0 || off > len(s) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeLastRuneInString(s[:off])
}

// Slice returns the text covered by r.
func Slice(s string, r TextRange) string {
	if r.IsEmpty() {
		return ""
	}
	return s[r.ByteRange.First-1 : r.ByteRange.Last]
}

// FromChar builds the TextIndex for a character index by scanning s.
// Character indices beyond the end clamp to End(s).
func FromChar(s string, charIndex int) TextIndex {
	if charIndex <= 1 {
		return Start()
	}
	return Advance(s, Start(), charIndex-1)
}

// FromByte builds the TextIndex for a 0-based byte offset that falls on a
// character boundary.
func FromByte(s string, offset int) TextIndex {
	if offset > len(s) {
		offset = len(s)
	}
	return TextIndex{CharIndex: utf8.RuneCountInString(s[:offset]) + 1, ByteIndex: offset + 1}
}

// RangeFromChars builds a TextRange for the closed character range
// [first, last]. An empty character range yields an anchored empty range.
func RangeFromChars(s string, first, last int) TextRange {
	start := FromChar(s, first)
	if last < first {
		return At(start)
	}
	end := Advance(s, start, last-first+1)
	return Between(start, end)
}
