package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine/history"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
)

// recordKind says which edits may fold into an undo record.
type recordKind uint8

const (
	kindTyping recordKind = iota + 1
	kindStyle
	kindPaste
	kindTabShift
	kindMove
)

// undoRecord reverts one edit. The span [first, first+count) currently
// holds the edited text; text and styles hold what stood there before.
// Undo swaps the two, so the same record serves for redo.
type undoRecord struct {
	t      *StyledText
	kind   recordKind
	desc   string
	first  index.TextIndex
	count  index.TextCount
	text   string
	styles []Run
}

// newRecord captures the current content of r.
func (t *StyledText) newRecord(kind recordKind, desc string, r index.TextRange) *undoRecord {
	rec := &undoRecord{t: t, kind: kind, desc: desc, first: r.First(), count: r.Count()}
	if !r.IsEmpty() {
		rec.text = index.Slice(t.text, r)
		rec.styles = t.stylesIn(r)
	}
	return rec
}

// Undo implements history.Command.
func (u *undoRecord) Undo() error {
	t := u.t
	cur := index.NewRange(u.first, u.count)
	if end := u.first.Add(u.count); end.CharIndex > t.CharCount()+1 || end.ByteIndex > len(t.text)+1 {
		return fmt.Errorf("%w: undo span %s beyond %s", ErrInvalidRange, cur, t.GetBeyondEnd())
	}

	curText := index.Slice(t.text, cur)
	var curStyles []Run
	if !cur.IsEmpty() {
		curStyles = t.stylesIn(cur)
	}

	restored := t.replaceRaw(cur, u.text, u.styles)
	delta := restored.Count().Sub(u.count)
	u.text, u.styles, u.count = curText, curStyles, restored.Count()

	if t.pending != nil {
		t.pending.add(restored, delta)
		return nil
	}
	t.broadcastTextChanged(restored, delta, delta.CharCount < 0)
	return nil
}

// pendingChange merges the records replayed by one undo or redo, so that a
// grouped step is reported as a single change. first and end bound the
// touched text in current coordinates.
type pendingChange struct {
	first, end index.TextIndex
	delta      index.TextCount
	seen       bool
}

// add folds in an edit that now covers r and changed the size by delta.
func (p *pendingChange) add(r index.TextRange, delta index.TextCount) {
	s, newEnd := r.First(), r.BeyondLast()
	p.delta = p.delta.Add(delta)
	if !p.seen {
		p.first, p.end, p.seen = s, newEnd, true
		return
	}

	oldEnd := newEnd.Sub(delta)
	switch {
	case p.first.Compare(s) <= 0:
	case p.first.Compare(oldEnd) >= 0:
		p.first = p.first.Add(delta)
	default:
		p.first = s
	}
	switch {
	case p.end.Compare(oldEnd) >= 0:
		p.end = p.end.Add(delta)
	case p.end.Compare(s) <= 0:
	default:
		p.end = newEnd
	}

	if s.Before(p.first) {
		p.first = s
	}
	if newEnd.After(p.end) {
		p.end = newEnd
	}
}

// Description implements history.Command.
func (u *undoRecord) Description() string {
	return u.desc
}

// caret returns the index just after the edited span.
func (u *undoRecord) caret() index.TextIndex {
	return u.first.Add(u.count)
}

// typingAt returns the active typing record whose caret is at i.
func (t *StyledText) typingAt(i index.TextIndex) *undoRecord {
	rec := t.currentRecord(kindTyping)
	if rec == nil || rec.caret() != i {
		return nil
	}
	return rec
}

// currentRecord returns the active record if it has the given kind.
func (t *StyledText) currentRecord(kind recordKind) *undoRecord {
	cmd, ok := t.history.Current()
	if !ok {
		return nil
	}
	rec, ok := cmd.(*undoRecord)
	if !ok || rec.kind != kind {
		return nil
	}
	return rec
}

// addBackwardDelete folds a deletion of d, ending at the caret, into a
// typing record. Characters typed in this step simply vanish; characters
// that were there before are remembered.
func (u *undoRecord) addBackwardDelete(d index.TextRange, text string, styles []Run) {
	del := d.Count()
	if del.CharCount <= u.count.CharCount {
		u.count = u.count.Sub(del)
		return
	}
	before := d.First().Distance(u.first)
	u.text = text[:before.ByteCount] + u.text
	u.styles = append(runs.FromRuns(styles).Slice(1, before.CharCount), u.styles...)
	u.first = d.First()
	u.count = index.TextCount{}
}

// addForwardDelete folds a deletion just after the caret into a typing
// record.
func (u *undoRecord) addForwardDelete(text string, styles []Run) {
	u.text += text
	u.styles = append(u.styles, styles...)
}

// extendTo grows a tab shift record so that it covers r as well.
func (u *undoRecord) extendTo(r index.TextRange) {
	end := u.caret()
	want := r.BeyondLast()
	if r.IsEmpty() || want.CharIndex <= end.CharIndex {
		return
	}
	extra := index.Between(end, want)
	u.text += index.Slice(u.t.text, extra)
	u.styles = append(u.styles, u.t.stylesIn(extra)...)
	u.count = u.count.Add(extra.Count())
}

// tabShiftRecord returns the record for a tab shift over r, reusing the
// active one when it starts at the same index.
func (t *StyledText) tabShiftRecord(desc string, r index.TextRange) (*undoRecord, bool) {
	if rec := t.currentRecord(kindTabShift); rec != nil && rec.first == r.First() {
		rec.extendTo(r)
		return rec, false
	}
	return t.newRecord(kindTabShift, desc, r), true
}

// styleRecord returns the record for a style change over r, reusing the
// active one when it covers the same range.
func (t *StyledText) styleRecord(r index.TextRange) (*undoRecord, bool) {
	if rec := t.currentRecord(kindStyle); rec != nil && rec.first == r.First() && rec.count == r.Count() {
		return rec, false
	}
	return t.newRecord(kindStyle, "Change style", r), true
}

// push adds a new record to the history.
func (t *StyledText) push(rec *undoRecord, isNew bool) {
	if isNew {
		t.history.Push(rec)
	}
}

// ============================================================================
// Undo API
// ============================================================================

// Undo reverts the last undo step. It does nothing when there is none.
func (t *StyledText) Undo() {
	t.runHistory(t.history.Undo, history.ErrNothingToUndo)
}

// Redo re-applies the last undone step. It does nothing when there is none.
func (t *StyledText) Redo() {
	t.runHistory(t.history.Redo, history.ErrNothingToRedo)
}

func (t *StyledText) runHistory(fn func() error, empty error) {
	t.lastChange = index.TextRange{}
	p := &pendingChange{}
	t.pending = p
	err := fn()
	t.pending = nil

	if p.seen {
		t.broadcastTextChanged(index.Between(p.first, p.end), p.delta, p.delta.CharCount < 0)
	}
	if err != nil {
		if !errors.Is(err, empty) {
			t.logger.Error("undo failed", zap.Error(err))
		}
		return
	}
	t.broadcast(Message{Kind: UndoFinished, Change: Change{Range: t.lastChange}})
}

// HasSingleUndo reports whether the buffer keeps a single toggling undo
// step and holds one.
func (t *StyledText) HasSingleUndo() bool {
	return t.history.HasSingle()
}

// HasMultipleUndo reports whether the buffer keeps multiple undo steps, and
// if so whether undo and redo are available.
func (t *StyledText) HasMultipleUndo() (ok, canUndo, canRedo bool) {
	return t.history.HasMultiple()
}

// UndoDepth returns the number of undo steps kept.
func (t *StyledText) UndoDepth() int {
	return t.history.Depth()
}

// SetUndoDepth changes the number of undo steps kept. Switching between
// none, single and multiple undo clears the history.
func (t *StyledText) SetUndoDepth(depth int) {
	t.logger.Debug("undo depth changed", zap.Int("from", t.history.Depth()), zap.Int("to", depth))
	t.history.SetDepth(depth)
}

// DeactivateCurrentUndo makes the next edit start a new undo step.
func (t *StyledText) DeactivateCurrentUndo() {
	t.history.Deactivate()
}

// ClearUndo forgets every undo step.
func (t *StyledText) ClearUndo() {
	t.history.Clear()
}

// BeginGroup starts collecting edits into a single undo step.
func (t *StyledText) BeginGroup(name string) {
	t.history.BeginGroup(name)
}

// EndGroup finishes the undo step started by BeginGroup.
func (t *StyledText) EndGroup() {
	t.history.EndGroup()
}

// Group runs fn with every edit it makes collected into one undo step
// named name. The step is kept when fn fails, since its edits stay applied.
func (t *StyledText) Group(name string, fn func() error) error {
	return t.history.Transaction(name, fn)
}

// SetLastSaveLocation records the current state as saved.
func (t *StyledText) SetLastSaveLocation() {
	t.history.MarkSaved()
}

// ClearLastSaveLocation forgets the save location, e.g. after the file
// was deleted, so the buffer never reports itself as saved.
func (t *StyledText) ClearLastSaveLocation() {
	t.history.ForgetSaved()
}

// IsAtLastSaveLocation reports whether the text matches the last save.
func (t *StyledText) IsAtLastSaveLocation() bool {
	return t.history.IsAtSaved()
}

// UndoDescription returns the description of the next undo step.
func (t *StyledText) UndoDescription() (string, bool) {
	info, ok := t.history.PeekUndo()
	return info.Description, ok
}

// RedoDescription returns the description of the next redo step.
func (t *StyledText) RedoDescription() (string, bool) {
	info, ok := t.history.PeekRedo()
	return info.Description, ok
}

var _ history.Command = (*undoRecord)(nil)
