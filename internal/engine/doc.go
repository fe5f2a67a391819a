// Package engine provides a styled text buffer.
//
// A StyledText holds UTF-8 text together with a run-length encoded stream of
// styles, one style per character. Every edit goes through the buffer's edit
// API, which keeps both streams in step, records an undo step and notifies
// subscribers.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - index: dual character/byte positions, counts and ranges
//   - runs: generic run-length encoded arrays
//   - style: the Style value, font managers and style predicates
//   - history: bounded undo/redo with single and multiple modes
//
// # Positions
//
// All positions are 1-based TextIndex values that carry both the character
// index and the byte index of the same place in the text. Pure ASCII text
// has equal character and byte indices. Ranges are closed; an empty range
// anchored at an index is an insertion point.
//
// # Thread Safety
//
// A StyledText is not safe for concurrent use. Its owner serializes access,
// and subscribers are called synchronously from inside the mutating call.
//
// # Basic Usage
//
//	t := engine.New()
//	_ = t.SetText("Hello", nil)
//
//	// Type at the end
//	end := t.GetBeyondEnd()
//	t.InsertCharacter(index.At(end), '!', t.CalcInsertionFont(end))
//
//	// Make "Hello" bold
//	t.SetFontBold(t.CharToTextRange(index.Range{First: 1, Last: 5}), true, false)
//
//	t.Undo() // drops the bold
//	t.Undo() // removes "!"
//
// # Undo
//
// Consecutive keystrokes at the same caret, repeated style changes to the same
// range and repeated tab shifts from the same start index are folded into one
// undo step. Scripted edits may be grouped with BeginGroup and EndGroup.
//
// # Notifications
//
// Observers register with Subscribe. Every logical edit produces exactly one
// TextChanged message; Undo and Redo also produce UndoFinished. Bulk loads
// produce WillBeBusy followed by TextSet.
package engine
