package script

import (
	"regexp"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/styledtext/internal/engine"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// docModule implements the doc table.
type docModule struct {
	doc *engine.StyledText
}

func registerDocModule(L *lua.LState, doc *engine.StyledText) {
	m := &docModule{doc: doc}
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":  m.text,
		"len":   m.charLen,
		"bytes": m.byteLen,
		"sub":   m.sub,

		"insert": m.insert,
		"paste":  m.paste,
		"delete": m.delete,

		"search":      m.search,
		"replace_all": m.replaceAll,

		"indent":           m.indent,
		"outdent":          m.outdent,
		"clean_whitespace": m.cleanWhitespace,

		"set_bold":      m.setBold,
		"set_italic":    m.setItalic,
		"set_underline": m.setUnderline,
		"set_color":     m.setColor,
		"set_font":      m.setFont,

		"undo": m.undo,
		"redo": m.redo,

		"word_start":      m.boundary((*engine.StyledText).GetWordStart),
		"word_end":        m.boundary((*engine.StyledText).GetWordEnd),
		"paragraph_start": m.boundary((*engine.StyledText).GetParagraphStart),
		"paragraph_end":   m.boundary((*engine.StyledText).GetParagraphEnd),
	})
	L.SetGlobal("doc", mod)
}

// ============================================================================
// Argument helpers
// ============================================================================

// checkIndex reads a character index that may point one past the end.
func (m *docModule) checkIndex(L *lua.LState, n int) index.TextIndex {
	c := L.CheckInt(n)
	if c < 1 || c > m.doc.CharCount()+1 {
		L.ArgError(n, "index out of range")
	}
	return m.doc.CharToTextIndex(c)
}

// checkRange reads the closed range first, last at positions n and n+1.
// last may be first-1 for an empty range.
func (m *docModule) checkRange(L *lua.LState, n int) index.TextRange {
	first, last := L.CheckInt(n), L.CheckInt(n+1)
	if first < 1 || first > m.doc.CharCount()+1 {
		L.ArgError(n, "index out of range")
	}
	if last < first-1 || last > m.doc.CharCount() {
		L.ArgError(n+1, "index out of range")
	}
	return m.doc.CharToTextRange(index.Range{First: first, Last: last})
}

// optRange reads an optional range, defaulting to the whole text.
func (m *docModule) optRange(L *lua.LState, n int) index.TextRange {
	if L.Get(n) == lua.LNil {
		return m.doc.CharToTextRange(index.Range{First: 1, Last: m.doc.CharCount()})
	}
	return m.checkRange(L, n)
}

// pushRange pushes first, last, or a single nil for an empty range.
func pushRange(L *lua.LState, r index.TextRange) int {
	if r.IsEmpty() {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(r.CharRange.First))
	L.Push(lua.LNumber(r.CharRange.Last))
	return 2
}

func compile(L *lua.LState, pattern string) *regexp.Regexp {
	re, err := engine.CompilePattern(pattern, engine.SearchOptions{})
	if err != nil {
		L.RaiseError("bad pattern: %v", err)
	}
	return re
}

// ============================================================================
// Reading
// ============================================================================

// text() -> string
func (m *docModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Text()))
	return 1
}

// len() -> number of characters
func (m *docModule) charLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.CharCount()))
	return 1
}

// bytes() -> number of bytes
func (m *docModule) byteLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.ByteCount()))
	return 1
}

// sub(first, last) -> string
func (m *docModule) sub(L *lua.LState) int {
	r := m.checkRange(L, 1)
	L.Push(lua.LString(index.Slice(m.doc.Text(), r)))
	return 1
}

// ============================================================================
// Editing
// ============================================================================

// insert(at, s) -> first, last
func (m *docModule) insert(L *lua.LState) int {
	at := m.checkIndex(L, 1)
	return pushRange(L, m.doc.Paste(index.At(at), L.CheckString(2), nil))
}

// paste(first, last, s) -> first, last
func (m *docModule) paste(L *lua.LState) int {
	r := m.checkRange(L, 1)
	return pushRange(L, m.doc.Paste(r, L.CheckString(3), nil))
}

// delete(first, last)
func (m *docModule) delete(L *lua.LState) int {
	m.doc.DeleteText(m.checkRange(L, 1))
	return 0
}

// ============================================================================
// Search and replace
// ============================================================================

// search(pattern, start, [entire_word], [wrap], [backward]) -> first, last, wrapped
func (m *docModule) search(L *lua.LState) int {
	re := compile(L, L.CheckString(1))
	start := m.checkIndex(L, 2)
	entireWord := L.OptBool(3, false)
	wrap := L.OptBool(4, false)
	backward := L.OptBool(5, false)

	var match engine.Match
	var wrapped bool
	if backward {
		match, wrapped = m.doc.SearchBackward(start, re, entireWord, wrap)
	} else {
		match, wrapped = m.doc.SearchForward(start, re, entireWord, wrap)
	}
	if match.IsEmpty() {
		L.Push(lua.LNil)
		return 1
	}

	r := match.Range()
	L.Push(lua.LNumber(r.CharRange.First))
	L.Push(lua.LNumber(r.CharRange.Last))
	L.Push(lua.LBool(wrapped))
	return 3
}

// replace_all(pattern, template, [first], [last], [preserve_case]) -> first, last
func (m *docModule) replaceAll(L *lua.LState) int {
	re := compile(L, L.CheckString(1))
	template := L.CheckString(2)
	r := m.optRange(L, 3)
	preserveCase := L.OptBool(5, false)

	got, err := m.doc.ReplaceAllInRange(r, re, false, template, nil, preserveCase)
	if err != nil {
		L.RaiseError("replace_all: %v", err)
	}
	return pushRange(L, got)
}

// ============================================================================
// Tab shifts
// ============================================================================

// indent(first, last, n) -> first, last
func (m *docModule) indent(L *lua.LState) int {
	r := m.checkRange(L, 1)
	return pushRange(L, m.doc.Indent(r, L.OptInt(3, 1)))
}

// outdent(first, last, n, [force]) -> first, last
func (m *docModule) outdent(L *lua.LState) int {
	r := m.checkRange(L, 1)
	return pushRange(L, m.doc.Outdent(r, L.OptInt(3, 1), L.OptBool(4, false)))
}

// clean_whitespace(first, last, [align]) -> first, last
func (m *docModule) cleanWhitespace(L *lua.LState) int {
	r := m.checkRange(L, 1)
	return pushRange(L, m.doc.CleanWhitespace(r, L.OptBool(3, false)))
}

// ============================================================================
// Styling
// ============================================================================

// set_bold(first, last, on)
func (m *docModule) setBold(L *lua.LState) int {
	m.doc.SetFontBold(m.checkRange(L, 1), L.OptBool(3, true), false)
	return 0
}

// set_italic(first, last, on)
func (m *docModule) setItalic(L *lua.LState) int {
	m.doc.SetFontItalic(m.checkRange(L, 1), L.OptBool(3, true), false)
	return 0
}

// set_underline(first, last, n)
func (m *docModule) setUnderline(L *lua.LState) int {
	r := m.checkRange(L, 1)
	n := L.OptInt(3, 1)
	if n < 0 {
		L.ArgError(3, "underline count must not be negative")
	}
	m.doc.SetFontUnderline(r, n, false)
	return 0
}

// set_color(first, last, "#rrggbb")
func (m *docModule) setColor(L *lua.LState) int {
	r := m.checkRange(L, 1)
	c, err := style.ParseColor(L.CheckString(3))
	if err != nil {
		L.ArgError(3, err.Error())
	}
	m.doc.SetFontColor(r, c, false)
	return 0
}

// set_font(first, last, name, [size])
func (m *docModule) setFont(L *lua.LState) int {
	r := m.checkRange(L, 1)
	name := L.CheckString(3)
	if name == "" {
		L.ArgError(3, "font name must not be empty")
	}
	size := L.OptInt(4, 0)
	if size < 0 {
		L.ArgError(4, "font size must be positive")
	}

	m.doc.SetFontName(r, name, false)
	if size > 0 {
		m.doc.SetFontSize(r, size, false)
	}
	return 0
}

// ============================================================================
// Undo and boundaries
// ============================================================================

// undo()
func (m *docModule) undo(L *lua.LState) int {
	m.doc.Undo()
	return 0
}

// redo()
func (m *docModule) redo(L *lua.LState) int {
	m.doc.Redo()
	return 0
}

// boundary wraps a TextIndex query as fn(i) -> index.
func (m *docModule) boundary(fn func(*engine.StyledText, index.TextIndex) index.TextIndex) lua.LGFunction {
	return func(L *lua.LState) int {
		i := m.checkIndex(L, 1)
		L.Push(lua.LNumber(fn(m.doc, i).CharIndex))
		return 1
	}
}
