package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultDepth is the depth used when none is configured.
const DefaultDepth = 100

// Mode is the storage strategy selected by the depth.
type Mode uint8

const (
	ModeDisabled Mode = iota // depth 0
	ModeSingle               // depth 1, Undo toggles one command
	ModeMultiple             // depth > 1
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeSingle:
		return "single"
	default:
		return "multiple"
	}
}

// ModeForDepth returns the mode a depth selects.
func ModeForDepth(depth int) Mode {
	switch {
	case depth <= 0:
		return ModeDisabled
	case depth == 1:
		return ModeSingle
	default:
		return ModeMultiple
	}
}

// undoEntry wraps a command with metadata.
type undoEntry struct {
	command   Command
	timestamp time.Time
	active    bool
}

// History manages undo/redo state for one document.
// It is not safe for concurrent use; the owning document serializes access.
type History struct {
	// entries[:firstRedo] can be undone, entries[firstRedo:] can be redone.
	entries   []*undoEntry
	firstRedo int
	depth     int

	// Grouping state
	groupDepth int
	groupName  string
	group      []*undoEntry

	// Last save location: firstRedo and the entry just below it.
	saveIndex int
	saveEntry *undoEntry
}

// New creates a history holding at most depth commands.
func New(depth int) *History {
	if depth < 0 {
		depth = 0
	}
	return &History{depth: depth}
}

// Depth returns the configured depth.
func (h *History) Depth() int {
	return h.depth
}

// Mode returns the storage mode.
func (h *History) Mode() Mode {
	return ModeForDepth(h.depth)
}

// SetDepth changes the depth. Switching between modes clears the history;
// shrinking a multiple-mode history drops the oldest commands.
func (h *History) SetDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	oldMode := h.Mode()
	h.depth = depth
	if h.Mode() != oldMode {
		h.Clear()
		return
	}
	h.clearOutdated()
}

// Push records a command that has just been applied.
func (h *History) Push(cmd Command) {
	e := &undoEntry{command: cmd, timestamp: time.Now(), active: true}
	if h.groupDepth > 0 {
		h.group = append(h.group, e)
		return
	}
	h.pushEntry(e)
}

func (h *History) pushEntry(e *undoEntry) {
	switch h.Mode() {
	case ModeDisabled:
		return
	case ModeSingle:
		wasSaved := h.IsAtSaved()
		h.entries = []*undoEntry{e}
		h.firstRedo = 1
		if wasSaved {
			h.saveIndex, h.saveEntry = 0, nil
		} else {
			h.saveIndex = -1
		}
	default:
		// Clear redo entries
		h.entries = append(h.entries[:h.firstRedo], e)
		if h.saveIndex > h.firstRedo {
			h.saveIndex = -1
		}
		h.firstRedo++
		h.clearOutdated()
	}
}

// clearOutdated drops the oldest entries beyond the depth. If a redo entry
// would have to go, everything is cleared.
func (h *History) clearOutdated() {
	if h.Mode() != ModeMultiple {
		return
	}
	for len(h.entries) > h.depth {
		if h.firstRedo == 0 {
			h.Clear()
			return
		}
		h.entries = h.entries[1:]
		h.firstRedo--
		h.saveIndex--
		if h.saveIndex < 0 {
			h.saveIndex, h.saveEntry = -1, nil
		}
	}
}

// Current returns the active command that follow-up edits may fold into.
func (h *History) Current() (Command, bool) {
	if h.groupDepth > 0 {
		if n := len(h.group); n > 0 && h.group[n-1].active {
			return h.group[n-1].command, true
		}
		return nil, false
	}
	// A command with redo entries above it can no longer grow.
	if h.Mode() == ModeMultiple && h.firstRedo < len(h.entries) {
		return nil, false
	}
	e := h.undoEntry()
	if e == nil || !e.active {
		return nil, false
	}
	return e.command, true
}

// Deactivate stops the current command from absorbing further edits.
func (h *History) Deactivate() {
	if n := len(h.group); h.groupDepth > 0 && n > 0 {
		h.group[n-1].active = false
	}
	if e := h.undoEntry(); e != nil {
		e.active = false
	}
}

func (h *History) undoEntry() *undoEntry {
	if h.Mode() == ModeSingle {
		if len(h.entries) == 0 {
			return nil
		}
		return h.entries[0]
	}
	if h.firstRedo == 0 {
		return nil
	}
	return h.entries[h.firstRedo-1]
}

// Undo reverts the most recent command. An open group is closed first.
func (h *History) Undo() error {
	h.closeGroups()

	switch h.Mode() {
	case ModeDisabled:
		return ErrNothingToUndo
	case ModeSingle:
		return h.toggleSingle(ErrNothingToUndo)
	}

	if h.firstRedo == 0 {
		return ErrNothingToUndo
	}
	e := h.entries[h.firstRedo-1]
	e.active = false
	if err := e.command.Undo(); err != nil {
		return err
	}
	h.firstRedo--
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() error {
	h.closeGroups()

	switch h.Mode() {
	case ModeDisabled:
		return ErrNothingToRedo
	case ModeSingle:
		return h.toggleSingle(ErrNothingToRedo)
	}

	if h.firstRedo >= len(h.entries) {
		return ErrNothingToRedo
	}
	e := h.entries[h.firstRedo]
	e.active = false
	if err := e.command.Undo(); err != nil {
		return err
	}
	h.firstRedo++
	return nil
}

func (h *History) toggleSingle(empty error) error {
	if len(h.entries) == 0 {
		return empty
	}
	e := h.entries[0]
	e.active = false
	if err := e.command.Undo(); err != nil {
		return err
	}
	h.firstRedo = 1 - h.firstRedo
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	if h.Mode() == ModeSingle {
		return len(h.entries) > 0
	}
	return h.firstRedo > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	if h.Mode() == ModeSingle {
		return len(h.entries) > 0
	}
	return h.firstRedo < len(h.entries)
}

// HasSingle reports whether the history is in single mode and holds a
// command. Whether that command is currently an undo or a redo is not
// distinguished.
func (h *History) HasSingle() bool {
	return h.Mode() == ModeSingle && len(h.entries) > 0
}

// HasMultiple reports whether the history is in multiple mode, and if so
// whether undo and redo are available.
func (h *History) HasMultiple() (ok, canUndo, canRedo bool) {
	if h.Mode() != ModeMultiple {
		return false, false, false
	}
	return true, h.CanUndo(), h.CanRedo()
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	if h.Mode() == ModeSingle {
		return len(h.entries)
	}
	return h.firstRedo
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	if h.Mode() == ModeSingle {
		return len(h.entries)
	}
	return len(h.entries) - h.firstRedo
}

// Clear removes all undo/redo history, including an open group.
// The last save location is forgotten unless nothing was recorded.
func (h *History) Clear() {
	saved := h.IsAtSaved()
	h.entries = nil
	h.firstRedo = 0
	h.groupDepth = 0
	h.group = nil
	h.saveIndex, h.saveEntry = -1, nil
	if saved {
		h.saveIndex = 0
	}
}

// MarkSaved records the current position as the last save location.
// The current command is deactivated so later edits start a new step.
func (h *History) MarkSaved() {
	h.closeGroups()
	h.Deactivate()
	h.saveIndex = h.firstRedo
	h.saveEntry = h.undoEntry()
	if h.Mode() == ModeSingle && h.firstRedo == 0 {
		h.saveEntry = nil
	}
}

// ForgetSaved forgets the last save location.
func (h *History) ForgetSaved() {
	h.saveIndex, h.saveEntry = -1, nil
}

// IsAtSaved reports whether the document is at the last save location.
func (h *History) IsAtSaved() bool {
	if h.saveIndex < 0 || h.saveIndex != h.firstRedo {
		return false
	}
	cur := h.undoEntry()
	if h.Mode() == ModeSingle && h.firstRedo == 0 {
		cur = nil
	}
	return cur == h.saveEntry
}

// PeekUndo returns info about the next undo operation without applying it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if !h.CanUndo() {
		return OperationInfo{}, false
	}
	e := h.undoEntry()
	if h.Mode() == ModeSingle {
		e = h.entries[0]
	}
	return OperationInfo{Description: e.command.Description(), Timestamp: e.timestamp}, true
}

// PeekRedo returns info about the next redo operation without applying it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if !h.CanRedo() {
		return OperationInfo{}, false
	}
	e := h.entries[0]
	if h.Mode() == ModeMultiple {
		e = h.entries[h.firstRedo]
	}
	return OperationInfo{Description: e.command.Description(), Timestamp: e.timestamp}, true
}

// Walk calls fn for every stored command, including those of an open
// group. Compound commands are entered rather than passed to fn.
func (h *History) Walk(fn func(Command)) {
	var visit func(Command)
	visit = func(c Command) {
		if cc, ok := c.(*CompoundCommand); ok {
			for _, sub := range cc.Commands {
				visit(sub)
			}
			return
		}
		fn(c)
	}
	for _, e := range h.entries {
		visit(e.command)
	}
	for _, e := range h.group {
		visit(e.command)
	}
}
