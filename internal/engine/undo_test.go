package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/styledtext/internal/engine/index"
)

// ============================================================================
// Undo Modes
// ============================================================================

func TestUndoDisabled(t *testing.T) {
	st := newText(t, "abc", WithUndoDepth(0))
	rec := record(st)

	st.DeleteText(chars(st, 1, 1))
	assert.False(t, st.HasSingleUndo())
	ok, _, _ := st.HasMultipleUndo()
	assert.False(t, ok)

	rec.reset()
	st.Undo()
	st.Redo()
	assert.Equal(t, "bc", st.Text())
	assert.Empty(t, rec.msgs)
}

func TestSingleUndoToggles(t *testing.T) {
	st := newText(t, "abc", WithUndoDepth(1))
	assert.False(t, st.HasSingleUndo())

	st.DeleteText(chars(st, 1, 1))
	assert.True(t, st.HasSingleUndo())

	st.Undo()
	assert.Equal(t, "abc", st.Text())
	st.Undo()
	assert.Equal(t, "bc", st.Text())
	st.Redo()
	assert.Equal(t, "abc", st.Text())
}

func TestUndoDepthLimit(t *testing.T) {
	st := newText(t, "", WithUndoDepth(2))
	for _, s := range []string{"a", "b", "c"} {
		st.Paste(index.At(st.GetBeyondEnd()), s, nil)
	}

	st.Undo()
	st.Undo()
	st.Undo()
	assert.Equal(t, "a", st.Text())
}

func TestSetUndoDepthSwitchesMode(t *testing.T) {
	st := newText(t, "abc")
	st.DeleteText(chars(st, 1, 1))

	st.SetUndoDepth(50)
	_, canUndo, _ := st.HasMultipleUndo()
	assert.True(t, canUndo, "same mode keeps history")

	st.SetUndoDepth(1)
	assert.Equal(t, 1, st.UndoDepth())
	assert.False(t, st.HasSingleUndo(), "mode change clears history")
}

func TestNothingToUndo(t *testing.T) {
	st := newText(t, "abc")
	rec := record(st)

	st.Undo()
	st.Redo()
	assert.Empty(t, rec.msgs)

	_, ok := st.UndoDescription()
	assert.False(t, ok)
	_, ok = st.RedoDescription()
	assert.False(t, ok)
}

// ============================================================================
// Notifications
// ============================================================================

func TestUndoFinished(t *testing.T) {
	st := newText(t, "ab")
	st.Paste(index.At(st.GetBeyondEnd()), "xyz", nil)
	rec := record(st)

	st.Undo()
	require.Equal(t, []Kind{TextChanged, UndoFinished}, rec.kinds())
	assert.Equal(t, -3, rec.msgs[0].Change.CharDelta)
	fin := rec.last().Change
	assert.True(t, fin.Range.IsEmpty())
	assert.Equal(t, index.New(3, 3), fin.Range.First())

	rec.reset()
	st.Redo()
	require.Equal(t, []Kind{TextChanged, UndoFinished}, rec.kinds())
	assert.Equal(t, index.Range{First: 3, Last: 5}, rec.last().Change.Range.CharRange)
}

// ============================================================================
// Groups
// ============================================================================

func TestGroupIsOneStep(t *testing.T) {
	st := newText(t, "abc")
	rec := record(st)

	st.BeginGroup("Script")
	st.Paste(index.At(st.GetBeyondEnd()), "def", nil)
	st.DeleteText(chars(st, 1, 2))
	st.SetFontBold(chars(st, 1, 2), true, false)
	st.EndGroup()
	require.Equal(t, "cdef", st.Text())

	desc, ok := st.UndoDescription()
	require.True(t, ok)
	assert.Equal(t, "Script", desc)

	rec.reset()
	st.Undo()
	assert.Equal(t, "abc", st.Text())
	assert.False(t, st.StyleAt(1).Bold)
	require.Equal(t, []Kind{TextChanged, UndoFinished}, rec.kinds())
	changed := rec.msgs[0].Change
	assert.Equal(t, index.Range{First: 1, Last: 3}, changed.Range.CharRange)
	assert.Equal(t, -1, changed.CharDelta)
	assert.Equal(t, -1, changed.ByteDelta)
	assert.Equal(t, changed.Range, rec.last().Change.Range)

	_, canUndo, _ := st.HasMultipleUndo()
	assert.False(t, canUndo)

	rec.reset()
	st.Redo()
	assert.Equal(t, "cdef", st.Text())
	assert.True(t, st.StyleAt(1).Bold)
	require.Equal(t, []Kind{TextChanged, UndoFinished}, rec.kinds())
	changed = rec.msgs[0].Change
	assert.Equal(t, index.Range{First: 1, Last: 4}, changed.Range.CharRange)
	assert.Equal(t, 1, changed.CharDelta)
}

func TestGroupedUndoReportsOneChange(t *testing.T) {
	st := newText(t, "one two")
	rec := record(st)

	st.BeginGroup("Two pastes")
	st.Paste(chars(st, 5, 7), "2", nil)
	st.Paste(chars(st, 1, 3), "1", nil)
	st.EndGroup()
	require.Equal(t, "1 2", st.Text())

	rec.reset()
	st.Undo()
	assert.Equal(t, "one two", st.Text())
	require.Equal(t, []Kind{TextChanged, UndoFinished}, rec.kinds())
	assert.Equal(t, index.Range{First: 1, Last: 7}, rec.msgs[0].Change.Range.CharRange)
	assert.Equal(t, 4, rec.msgs[0].Change.CharDelta)
	assert.Equal(t, index.Range{First: 1, Last: 7}, rec.last().Change.Range.CharRange)
}

func TestTypingInsideGroupCoalesces(t *testing.T) {
	st := newText(t, "")
	def := st.DefaultStyle()

	st.BeginGroup("Macro")
	for _, c := range "hi" {
		st.InsertCharacter(index.At(st.GetBeyondEnd()), c, def)
	}
	st.EndGroup()

	desc, _ := st.UndoDescription()
	assert.Equal(t, "Typing", desc, "a single command is pushed as is")
	st.Undo()
	assert.Equal(t, "", st.Text())
}

func TestUndoClosesOpenGroup(t *testing.T) {
	st := newText(t, "abc")
	st.BeginGroup("open")
	st.DeleteText(chars(st, 1, 1))
	st.DeleteText(chars(st, 1, 1))

	st.Undo()
	assert.Equal(t, "abc", st.Text())
}

// ============================================================================
// Save Location
// ============================================================================

func TestSaveLocation(t *testing.T) {
	st := newText(t, "abc")
	st.SetLastSaveLocation()
	assert.True(t, st.IsAtLastSaveLocation())

	st.DeleteText(chars(st, 1, 1))
	assert.False(t, st.IsAtLastSaveLocation())

	st.Undo()
	assert.True(t, st.IsAtLastSaveLocation())

	st.Redo()
	assert.False(t, st.IsAtLastSaveLocation())

	st.SetLastSaveLocation()
	assert.True(t, st.IsAtLastSaveLocation())
	st.Undo()
	assert.False(t, st.IsAtLastSaveLocation())
}

func TestClearLastSaveLocation(t *testing.T) {
	st := newText(t, "abc")
	st.SetLastSaveLocation()
	require.True(t, st.IsAtLastSaveLocation())

	st.ClearLastSaveLocation()
	assert.False(t, st.IsAtLastSaveLocation())

	st.DeleteText(chars(st, 1, 1))
	st.Undo()
	assert.False(t, st.IsAtLastSaveLocation())
}

func TestGroupKeepsEditsOnError(t *testing.T) {
	st := newText(t, "abc")
	boom := errors.New("boom")

	err := st.Group("Partial", func() error {
		st.Paste(index.At(st.GetBeyondEnd()), "d", nil)
		st.Paste(index.At(st.GetBeyondEnd()), "e", nil)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "abcde", st.Text())

	desc, ok := st.UndoDescription()
	require.True(t, ok)
	assert.Equal(t, "Partial", desc)

	st.Undo()
	assert.Equal(t, "abc", st.Text())
}

func TestSaveLocationStopsTyping(t *testing.T) {
	st := newText(t, "")
	def := st.DefaultStyle()

	st.InsertCharacter(index.At(st.GetBeyondEnd()), 'a', def)
	st.SetLastSaveLocation()
	st.InsertCharacter(index.At(st.GetBeyondEnd()), 'b', def)

	st.Undo()
	assert.Equal(t, "a", st.Text())
	assert.True(t, st.IsAtLastSaveLocation())
}

func TestClearUndo(t *testing.T) {
	st := newText(t, "abc")
	st.DeleteText(chars(st, 1, 1))
	st.ClearUndo()

	_, canUndo, canRedo := st.HasMultipleUndo()
	assert.False(t, canUndo)
	assert.False(t, canRedo)
}
