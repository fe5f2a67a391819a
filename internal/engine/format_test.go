package engine

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

func TestFontSetters(t *testing.T) {
	st := newText(t, "abcdef")
	r := chars(st, 2, 4)
	red := style.RGB(255, 0, 0)

	st.SetFontName(r, "Menlo", true)
	st.SetFontSize(r, 18, true)
	st.SetFontBold(r, true, true)
	st.SetFontItalic(r, true, true)
	st.SetFontUnderline(r, 2, true)
	st.SetFontStrike(r, true, true)
	st.SetFontColor(r, red, true)

	want := style.Style{
		Name: "Menlo", Size: 18,
		Bold: true, Italic: true, Strike: true, Underline: 2,
		Color: red,
	}
	assert.Equal(t, want, st.StyleAt(3))
	assert.Equal(t, st.DefaultStyle(), st.StyleAt(1))
	assert.Equal(t, st.DefaultStyle(), st.StyleAt(5))
	assert.Equal(t, 3, st.RunCount())

	_, canUndo, _ := st.HasMultipleUndo()
	assert.False(t, canUndo, "clearUndo drops history")
}

func TestSetFontAndStyle(t *testing.T) {
	st := newText(t, "abc")
	big := st.DefaultStyle().WithSize(30)

	st.SetFont(chars(st, 1, 3), big, false)
	assert.Equal(t, 1, st.RunCount())
	assert.Equal(t, 30, st.StyleAt(2).Size)

	st.SetFontStyle(chars(st, 2, 2), style.Attributes{Italic: true, Color: tcell.ColorDefault}, false)
	got := st.StyleAt(2)
	assert.True(t, got.Italic)
	assert.Equal(t, 30, got.Size, "font is kept")
	assert.Equal(t, tcell.ColorDefault, got.Color)
}

func TestSetFontNotifies(t *testing.T) {
	st := newText(t, "abcdef")
	rec := record(st)

	st.SetFontBold(chars(st, 2, 3), true, false)
	require.Equal(t, []Kind{TextChanged}, rec.kinds())
	ch := rec.last().Change
	assert.Equal(t, index.Range{First: 2, Last: 3}, ch.Range.CharRange)
	assert.Equal(t, 0, ch.CharDelta)

	rec.reset()
	st.SetFontBold(index.At(at(st, 2)), true, false)
	assert.Empty(t, rec.msgs)
}

func TestStyleChangesOnSameRangeCoalesce(t *testing.T) {
	st := newText(t, "abcdef")

	st.SetFontBold(chars(st, 1, 3), true, false)
	st.SetFontItalic(chars(st, 1, 3), true, false)
	st.SetFontBold(chars(st, 2, 3), false, false)

	st.Undo()
	assert.True(t, st.StyleAt(1).Italic)
	assert.True(t, st.StyleAt(2).Italic)
	assert.True(t, st.StyleAt(2).Bold)

	st.Undo()
	assert.Equal(t, 1, st.RunCount())
	assert.False(t, st.StyleAt(2).Bold)
	assert.False(t, st.StyleAt(2).Italic)

	desc, ok := st.RedoDescription()
	require.True(t, ok)
	assert.Equal(t, "Change style", desc)
}

func TestSetAllFontNameAndSize(t *testing.T) {
	st := styledSample(t)
	rec := record(st)

	st.SetAllFontNameAndSize("foo", 24, false)

	require.Equal(t, []Kind{TextChanged}, rec.kinds())
	assert.Equal(t, 4, st.RunCount())
	assert.Equal(t, 24, st.StyleAt(2).Size)
	assert.Equal(t, "foo", st.StyleAt(2).Name)
	assert.True(t, st.StyleAt(5).Bold)
	assert.False(t, st.StyleAt(10).Bold)
	assert.Equal(t, 2, st.StyleAt(16).Underline)
}

func TestSetAllFontNameAndSizeRewritesUndo(t *testing.T) {
	st := styledSample(t)
	st.DeleteText(chars(st, 1, 4))

	st.SetAllFontNameAndSize("foo", 24, false)
	st.Undo()

	require.Equal(t, "bîgbøldnormaldouble underline", st.Text())
	for _, c := range []int{1, 4, 10, 20} {
		assert.Equal(t, "foo", st.StyleAt(c).Name, "char %d", c)
		assert.Equal(t, 24, st.StyleAt(c).Size, "char %d", c)
	}
	assert.True(t, st.StyleAt(4).Bold)
}

func TestSetAllFontNameAndSizeOnEmptyBuffer(t *testing.T) {
	st := New()
	rec := record(st)
	st.SetAllFontNameAndSize("foo", 24, true)
	assert.Empty(t, rec.msgs)
}
