package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// CalcInsertionFont returns the style that text typed at i should get.
// At the start of a line that is the style of the first character on it,
// otherwise the style of the character before i.
func (t *StyledText) CalcInsertionFont(i index.TextIndex) style.Style {
	n := t.CharCount()
	if n == 0 {
		return t.DefaultStyle()
	}
	if i.CharIndex <= 1 {
		return t.styles.At(1)
	}
	if prev, _ := index.RuneBefore(t.text, i); prev == '\n' && i.CharIndex <= n {
		return t.styles.At(i.CharIndex)
	}
	return t.styles.At(min(i.CharIndex-1, n))
}

// replace swaps r for text as a new undo step and sends TextChanged.
func (t *StyledText) replace(kind recordKind, desc string, r index.TextRange, text string, rs []Run) index.TextRange {
	rec := t.newRecord(kind, desc, r)
	newRange := t.replaceRaw(r, text, rs)
	rec.count = newRange.Count()
	t.history.Push(rec)
	t.broadcastTextChanged(newRange, newRange.Count().Sub(r.Count()), !r.IsEmpty())
	return newRange
}

// InsertCharacter types c over at with style st and returns the size of
// what was inserted. Typing at the caret of the previous keystroke adds to
// the same undo step. Illegal characters are ignored and '\r' becomes '\n'.
func (t *StyledText) InsertCharacter(at index.TextRange, c rune, st style.Style) index.TextCount {
	t.checkRange(at)
	if c == '\r' {
		c = '\n'
	}
	if !utf8.ValidRune(c) || isIllegal(c, utf8.RuneLen(c)) {
		return index.TextCount{}
	}

	s := string(c)
	if c == '\n' && t.autoIndent {
		s += t.indentBefore(at.First())
	}

	var rec *undoRecord
	if at.IsEmpty() {
		rec = t.typingAt(at.First())
	}
	isNew := rec == nil
	if isNew {
		rec = t.newRecord(kindTyping, "Typing", at)
		rec.count = index.TextCount{}
	}

	newRange := t.replaceRaw(at, s, runs.Fill(st, utf8.RuneCountInString(s)))
	rec.count = rec.count.Add(newRange.Count())
	t.push(rec, isNew)

	t.broadcastTextChanged(newRange, newRange.Count().Sub(at.Count()), !at.IsEmpty())
	return newRange.Count()
}

// indentBefore returns the spaces and tabs that start the line holding i,
// up to i.
func (t *StyledText) indentBefore(i index.TextIndex) string {
	start := t.GetLineStart(i).Offset()
	end := min(i.Offset(), len(t.text))
	j := start
	for j < end && (t.text[j] == ' ' || t.text[j] == '\t') {
		j++
	}
	return t.text[start:j]
}

// Copy returns the text and styles covered by r.
func (t *StyledText) Copy(r index.TextRange) (string, []Run, bool) {
	if r.IsEmpty() {
		return "", nil, false
	}
	t.checkRange(r)
	return index.Slice(t.text, r), t.stylesIn(r), true
}

// Paste replaces at with text and returns the range of the new text.
// nil styles, or a buffer that does not paste styled, give the text the
// insertion style. Otherwise styles must cover every character of text.
// The text is cleaned before insertion. Paste always starts a new undo
// step.
func (t *StyledText) Paste(at index.TextRange, text string, styles []Run) index.TextRange {
	t.checkRange(at)

	var st *runs.Array[style.Style]
	if styles != nil && t.pasteStyled {
		st = runs.FromRuns(styles)
		if n := utf8.RuneCountInString(text); st.Len() != n {
			panic("engine: pasted styles do not cover the text")
		}
	}
	clean, illegal := cleanText(text, st)
	if illegal {
		t.logger.Debug("dropped illegal characters from paste")
	}
	if clean == "" && at.IsEmpty() {
		return index.At(at.First())
	}

	var rs []Run
	if st != nil {
		rs = st.Runs()
	} else {
		rs = runs.Fill(t.CalcInsertionFont(at.First()), utf8.RuneCountInString(clean))
	}
	return t.replace(kindPaste, "Paste", at, clean, rs)
}

// DeleteText removes r as a new undo step.
func (t *StyledText) DeleteText(r index.TextRange) {
	if r.IsEmpty() {
		return
	}
	t.checkRange(r)
	t.replace(kindPaste, "Delete", r, "", nil)
}

// BackwardDelete deletes the character before caret and returns the new
// caret together with what was removed. With deleteToTabStop, whitespace
// back to the previous tab stop goes in one step.
func (t *StyledText) BackwardDelete(lineStart, caret index.TextIndex, deleteToTabStop bool) (index.TextIndex, string, []Run) {
	if caret.CharIndex <= 1 {
		return index.Start(), "", nil
	}
	t.checkIndex(caret)

	first := index.Retreat(t.text, caret, 1)
	if deleteToTabStop {
		if start, ok := t.tabStopBefore(lineStart, caret); ok {
			first = start
		}
	}

	d := index.Between(first, caret)
	text := index.Slice(t.text, d)
	styles := t.stylesIn(d)

	rec := t.typingAt(caret)
	isNew := rec == nil
	if isNew {
		rec = t.newRecord(kindTyping, "Typing", d)
		rec.count = index.TextCount{}
	} else {
		rec.addBackwardDelete(d, text, styles)
	}

	t.replaceRaw(d, "", nil)
	t.push(rec, isNew)

	t.broadcastTextChanged(index.At(first), d.Count().Neg(), true)
	return first, text, styles
}

// tabStopBefore returns where a delete back to the previous tab stop
// starts. It fails unless caret sits on a tab stop right after whitespace
// that reaches back a whole stop.
func (t *StyledText) tabStopBefore(lineStart, caret index.TextIndex) (index.TextIndex, bool) {
	prev, _ := index.RuneBefore(t.text, caret)
	if prev != ' ' && prev != '\t' {
		return caret, false
	}
	if (t.GetColumnForChar(lineStart, caret)-1)%t.tabCharCount != 0 {
		return caret, false
	}

	pos := caret
	for deleted := 0; deleted < t.tabCharCount && pos.CharIndex > 1; {
		r, _ := index.RuneBefore(t.text, pos)
		switch r {
		case ' ':
			deleted++
		case '\t':
			deleted += t.tabWidth(t.GetColumnForChar(lineStart, pos))
		default:
			return caret, false
		}
		pos = index.Retreat(t.text, pos, 1)
	}
	return pos, true
}

// ForwardDelete deletes the character at caret and returns what was
// removed. With deleteToTabStop, spaces up to the next tab stop go in one
// step; a tab ends the run and is deleted with it.
func (t *StyledText) ForwardDelete(lineStart, caret index.TextIndex, deleteToTabStop bool) (string, []Run) {
	if caret.CharIndex > t.CharCount() {
		return "", nil
	}
	t.checkIndex(caret)

	end := index.Advance(t.text, caret, 1)
	if deleteToTabStop {
		if stop, ok := t.tabStopAfter(lineStart, caret); ok {
			end = stop
		}
	}

	d := index.Between(caret, end)
	text := index.Slice(t.text, d)
	styles := t.stylesIn(d)

	rec := t.typingAt(caret)
	isNew := rec == nil
	if isNew {
		rec = t.newRecord(kindTyping, "Typing", d)
		rec.count = index.TextCount{}
	} else {
		rec.addForwardDelete(text, styles)
	}

	t.replaceRaw(d, "", nil)
	t.push(rec, isNew)

	t.broadcastTextChanged(index.At(caret), d.Count().Neg(), true)
	return text, styles
}

// tabStopAfter returns where a delete forward to the next tab stop ends.
func (t *StyledText) tabStopAfter(lineStart, caret index.TextIndex) (index.TextIndex, bool) {
	next, _ := index.RuneAt(t.text, caret)
	if next != ' ' && next != '\t' {
		return caret, false
	}
	if (t.GetColumnForChar(lineStart, caret)-1)%t.tabCharCount != 0 {
		return caret, false
	}

	pos := caret
	for deleted := 0; deleted < t.tabCharCount; deleted++ {
		r, size := index.RuneAt(t.text, pos)
		if size == 0 {
			break
		}
		switch r {
		case ' ':
		case '\t':
			return index.Advance(t.text, pos, 1), true
		default:
			return caret, false
		}
		pos = index.Advance(t.text, pos, 1)
	}
	return pos, true
}

// MoveText moves src so that it starts at dest, or copies it there when
// keepSource is set. dest is an index in the text before the move. The result
// is the range of the text at its new location. A move fails when dest
// lies inside src or right after it.
func (t *StyledText) MoveText(src index.TextRange, dest index.TextIndex, keepSource bool) (index.TextRange, bool) {
	if src.IsEmpty() {
		return index.TextRange{}, false
	}
	t.checkRange(src)
	t.checkIndex(dest)

	text := index.Slice(t.text, src)
	rs := t.stylesIn(src)
	if keepSource {
		return t.replace(kindPaste, "Copy", index.At(dest), text, rs), true
	}

	srcFirst, srcEnd := src.First(), src.BeyondLast()
	if srcFirst.CharIndex <= dest.CharIndex && dest.CharIndex <= srcEnd.CharIndex {
		return index.TextRange{}, false
	}

	var span index.TextRange
	var newText string
	var newRuns []Run
	if dest.Before(srcFirst) {
		span = index.Between(dest, srcEnd)
		between := index.Between(dest, srcFirst)
		newText = text + index.Slice(t.text, between)
		newRuns = append(rs, t.stylesIn(between)...)
	} else {
		span = index.Between(srcFirst, dest)
		between := index.Between(srcEnd, dest)
		newText = index.Slice(t.text, between) + text
		newRuns = append(t.stylesIn(between), rs...)
		dest = dest.Sub(src.Count())
	}

	rec := t.newRecord(kindMove, "Move", span)
	t.replaceRaw(span, newText, newRuns)
	t.history.Push(rec)

	t.broadcastTextChanged(span, index.TextCount{}, false)
	return index.NewRange(dest, src.Count()), true
}

// InsertSpacesForTab pastes spaces at caret up to the next tab stop.
func (t *StyledText) InsertSpacesForTab(lineStart, caret index.TextIndex) index.TextRange {
	col := t.GetColumnForChar(lineStart, caret)
	return t.Paste(index.At(caret), strings.Repeat(" ", t.tabWidth(col)), nil)
}
