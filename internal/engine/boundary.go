package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/styledtext/internal/engine/index"
)

// IsCharacterInWord reports whether r is a word character.
func (t *StyledText) IsCharacterInWord(r rune) bool {
	return t.isWordChar(r)
}

// clampToLast returns i, or the index of the last character when i lies
// at or beyond it.
func (t *StyledText) clampToLast(i index.TextIndex) index.TextIndex {
	if n := t.CharCount(); i.CharIndex >= n {
		return index.Retreat(t.text, t.GetBeyondEnd(), 1)
	}
	return i
}

// afterChar returns the byte offset just after the character at i.
func (t *StyledText) afterChar(i index.TextIndex) int {
	_, size := index.RuneAt(t.text, i)
	return i.Offset() + size
}

// GetWordStart returns the first character of the word holding i.
// When i is not on a word character, the scan first moves back over the
// non-word characters.
func (t *StyledText) GetWordStart(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() || i.CharIndex <= 1 {
		return index.Start()
	}
	i = t.clampToLast(i)

	s := t.text
	off := t.afterChar(i)
	if r, _ := utf8.DecodeLastRuneInString(s[:off]); !t.isWordChar(r) {
		for off > 0 {
			r, size := utf8.DecodeLastRuneInString(s[:off])
			if t.isWordChar(r) {
				break
			}
			off -= size
		}
	}
	for off > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:off])
		if !t.isWordChar(r) {
			break
		}
		off -= size
	}
	return index.FromByte(s, off)
}

// GetWordEnd returns the last character of the word holding i.
// When i is not on a word character, the scan first moves forward over the
// non-word characters.
func (t *StyledText) GetWordEnd(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() {
		return index.Start()
	}
	if i.CharIndex >= t.CharCount() {
		return t.clampToLast(i)
	}
	if i.CharIndex < 1 {
		i = index.Start()
	}

	s := t.text
	off := i.Offset()
	if r, _ := utf8.DecodeRuneInString(s[off:]); !t.isWordChar(r) {
		for off < len(s) {
			r, size := utf8.DecodeRuneInString(s[off:])
			if t.isWordChar(r) {
				break
			}
			off += size
		}
	}
	for off < len(s) {
		r, size := utf8.DecodeRuneInString(s[off:])
		if !t.isWordChar(r) {
			break
		}
		off += size
	}
	return index.Retreat(s, index.FromByte(s, off), 1)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// GetPartialWordStart is like GetWordStart but also stops at case changes
// and at transitions between letters and digits.
func (t *StyledText) GetPartialWordStart(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() || i.CharIndex <= 1 {
		return index.Start()
	}
	i = t.clampToLast(i)

	s := t.text
	off := t.afterChar(i)
	prev, size := utf8.DecodeLastRuneInString(s[:off])
	off -= size
	for !isAlnum(prev) {
		if off == 0 {
			return index.Start()
		}
		prev, size = utf8.DecodeLastRuneInString(s[:off])
		off -= size
	}

	foundLower := unicode.IsLower(prev)
	for off > 0 {
		c, size := utf8.DecodeLastRuneInString(s[:off])
		foundLower = foundLower || unicode.IsLower(c)
		if !isAlnum(c) ||
			(unicode.IsUpper(prev) && unicode.IsLower(c)) ||
			(unicode.IsUpper(prev) && unicode.IsUpper(c) && foundLower) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(c)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(c)) {
			break
		}
		off -= size
		prev = c
	}
	return index.FromByte(s, off)
}

// GetPartialWordEnd is like GetWordEnd but also stops at case changes and
// at transitions between letters and digits. "ABCGood" splits as "ABC" and
// "Good".
func (t *StyledText) GetPartialWordEnd(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() {
		return index.Start()
	}
	if i.CharIndex >= t.CharCount() {
		return t.clampToLast(i)
	}
	if i.CharIndex < 1 {
		i = index.Start()
	}

	s := t.text
	off := i.Offset()
	prev, size := utf8.DecodeRuneInString(s[off:])
	off += size
	for !isAlnum(prev) {
		if off >= len(s) {
			return t.clampToLast(t.GetBeyondEnd())
		}
		prev, size = utf8.DecodeRuneInString(s[off:])
		off += size
	}

	for off < len(s) {
		c, size := utf8.DecodeRuneInString(s[off:])
		upperBeforeLower := false
		if off+size < len(s) {
			c2, _ := utf8.DecodeRuneInString(s[off+size:])
			upperBeforeLower = unicode.IsUpper(prev) && unicode.IsUpper(c) && unicode.IsLower(c2)
		}
		if !isAlnum(c) ||
			(unicode.IsLower(prev) && unicode.IsUpper(c)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(c)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(c)) ||
			upperBeforeLower {
			break
		}
		off += size
		prev = c
	}
	return index.Retreat(s, index.FromByte(s, off), 1)
}

// GetLineStart returns the first character of the line holding i.
func (t *StyledText) GetLineStart(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() || i.CharIndex <= 1 {
		return index.Start()
	}
	off := i.Offset()
	if off > len(t.text) {
		off = len(t.text)
	}
	nl := strings.LastIndexByte(t.text[:off], '\n')
	return index.FromByte(t.text, nl+1)
}

// GetLineEnd returns the newline that ends the line holding i, or the last
// character when the line is not terminated.
func (t *StyledText) GetLineEnd(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() {
		return index.Start()
	}
	if i.CharIndex >= t.CharCount() {
		return t.clampToLast(i)
	}
	if i.CharIndex < 1 {
		i = index.Start()
	}
	off := i.Offset()
	if nl := strings.IndexByte(t.text[off:], '\n'); nl >= 0 {
		return index.FromByte(t.text, off+nl)
	}
	return t.clampToLast(t.GetBeyondEnd())
}

// isBlankLine reports whether the line starting at byte offset off holds
// nothing but spaces and tabs.
func isBlankLine(s string, off int) bool {
	for ; off < len(s); off++ {
		switch s[off] {
		case ' ', '\t':
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// GetParagraphStart returns the first character of the paragraph holding
// i. A paragraph is a maximal run of non-blank lines; a blank line is its
// own paragraph.
func (t *StyledText) GetParagraphStart(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() || i.CharIndex <= 1 {
		return index.Start()
	}
	start := t.GetLineStart(i)
	s := t.text
	off := start.Offset()
	if isBlankLine(s, off) {
		return start
	}
	for off > 0 {
		// off-1 is the newline ending the previous line
		prev := strings.LastIndexByte(s[:off-1], '\n') + 1
		if isBlankLine(s, prev) {
			break
		}
		off = prev
	}
	return index.FromByte(s, off)
}

// GetParagraphEnd returns the last character of the paragraph holding i,
// including the newline that ends its last line.
func (t *StyledText) GetParagraphEnd(i index.TextIndex) index.TextIndex {
	if t.IsEmpty() {
		return index.Start()
	}
	if i.CharIndex < 1 {
		i = index.Start()
	}
	if i.CharIndex > t.CharCount() {
		i = t.clampToLast(i)
	}
	s := t.text
	lineStart := t.GetLineStart(i).Offset()
	blank := isBlankLine(s, lineStart)

	end := t.GetLineEnd(i).Offset() // offset of the newline or last char
	for !blank && s[end] == '\n' && end+1 < len(s) {
		next := end + 1
		if isBlankLine(s, next) {
			break
		}
		nl := strings.IndexByte(s[next:], '\n')
		if nl < 0 {
			_, size := utf8.DecodeLastRuneInString(s)
			end = len(s) - size
			break
		}
		end = next + nl
	}
	return index.FromByte(s, end)
}

// GetColumnForChar returns the 1-based column of i on the line starting at
// lineStart. Tabs advance to the next multiple of TabCharCount.
func (t *StyledText) GetColumnForChar(lineStart, i index.TextIndex) int {
	if i.CharIndex > t.CharCount() && t.EndsWithNewline() {
		return 1
	}
	s := t.text
	end := i.Offset()
	if end > len(s) {
		end = len(s)
	}
	col := 1
	for off := lineStart.Offset(); off < end; {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == '\t' {
			col += t.tabWidth(col)
		} else {
			col++
		}
		off += size
	}
	return col
}

// tabWidth returns the number of columns a tab at col occupies.
func (t *StyledText) tabWidth(col int) int {
	return t.tabCharCount - ((col - 1) % t.tabCharCount)
}

// AdjustTextIndex moves i by charDelta characters. The result is clamped to
// the buffer.
func (t *StyledText) AdjustTextIndex(i index.TextIndex, charDelta int) index.TextIndex {
	if charDelta >= 0 {
		return index.Advance(t.text, i, charDelta)
	}
	return index.Retreat(t.text, i, -charDelta)
}
