package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/styledtext/internal/engine/history"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// The font setters restyle a range. With clearUndo the undo history is
// dropped instead of recording the change; use it when styles are
// controlled by the program rather than the user. Repeated changes to the
// same range form a single undo step.

// SetFont gives every character in r the style st.
func (t *StyledText) SetFont(r index.TextRange, st style.Style, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(style.Style) style.Style { return st })
}

// SetFontName changes the font name in r.
func (t *StyledText) SetFontName(r index.TextRange, name string, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithName(name) })
}

// SetFontSize changes the font size in r.
func (t *StyledText) SetFontSize(r index.TextRange, size int, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithSize(size) })
}

// SetFontBold turns bold on or off in r.
func (t *StyledText) SetFontBold(r index.TextRange, on, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithBold(on) })
}

// SetFontItalic turns italic on or off in r.
func (t *StyledText) SetFontItalic(r index.TextRange, on, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithItalic(on) })
}

// SetFontUnderline sets the number of underlines in r.
func (t *StyledText) SetFontUnderline(r index.TextRange, count int, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithUnderline(count) })
}

// SetFontStrike turns strike-through on or off in r.
func (t *StyledText) SetFontStrike(r index.TextRange, on, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithStrike(on) })
}

// SetFontColor changes the color in r.
func (t *StyledText) SetFontColor(r index.TextRange, c tcell.Color, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithColor(c) })
}

// SetFontStyle replaces the attributes in r and keeps each font.
func (t *StyledText) SetFontStyle(r index.TextRange, attrs style.Attributes, clearUndo bool) {
	t.applyStyle(r, clearUndo, func(s style.Style) style.Style { return s.WithAttributes(attrs) })
}

func (t *StyledText) applyStyle(r index.TextRange, clearUndo bool, fn func(style.Style) style.Style) {
	if r.IsEmpty() {
		return
	}
	t.checkRange(r)

	if clearUndo {
		t.ClearUndo()
	} else {
		rec, isNew := t.styleRecord(r)
		t.push(rec, isNew)
	}

	t.styles.Apply(r.CharRange.First, r.Count().CharCount, fn)
	t.broadcastTextChanged(r, index.TextCount{}, false)
}

// SetAllFontNameAndSize switches the whole text to one font and size and
// keeps every other attribute. Undo steps are rewritten to the new font as
// well, so undo never brings the old font back. No undo step is recorded.
func (t *StyledText) SetAllFontNameAndSize(name string, size int, clearUndo bool) {
	if clearUndo {
		t.ClearUndo()
	}
	restyle := func(s style.Style) style.Style { return s.WithName(name).WithSize(size) }

	if n := t.CharCount(); n > 0 {
		t.styles.Apply(1, n, restyle)
	}
	t.history.Walk(func(c history.Command) {
		if rec, ok := c.(*undoRecord); ok {
			for i := range rec.styles {
				rec.styles[i].Value = restyle(rec.styles[i].Value)
			}
		}
	})

	if t.IsEmpty() {
		return
	}
	t.broadcastTextChanged(index.Between(index.Start(), t.GetBeyondEnd()), index.TextCount{}, false)
}
