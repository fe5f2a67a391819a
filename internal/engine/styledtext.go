package engine

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine/history"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// Run is one run of the style stream.
type Run = runs.Run[style.Style]

// StyledText is UTF-8 text with one style per character.
//
// StyledText is not safe for concurrent use.
type StyledText struct {
	id     uuid.UUID
	text   string
	styles *runs.Array[style.Style]

	fonts   style.FontManager
	history *history.History
	logger  *zap.Logger

	// Configuration
	undoDepth        int
	isWordChar       WordCharFunc
	tabCharCount     int
	tabInsertsSpaces bool
	autoIndent       bool
	pasteStyled      bool
	adjuster         StyleAdjuster

	subscribers    []subscriber
	nextSubscriber int

	// range reported by the most recent TextChanged, for UndoFinished
	lastChange index.TextRange
	// collects the edits of an undo or redo in progress
	pending *pendingChange
}

// New creates an empty styled text buffer.
func New(opts ...Option) *StyledText {
	t := &StyledText{
		id:           uuid.New(),
		styles:       runs.New[style.Style](),
		fonts:        style.DefaultManager(),
		logger:       zap.NewNop(),
		undoDepth:    DefaultUndoDepth,
		isWordChar:   DefaultWordChar,
		tabCharCount: DefaultTabCharCount,
		pasteStyled:  true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.history = history.New(t.undoDepth)
	t.logger = t.logger.With(zap.String("doc", t.id.String()))
	return t
}

// DefaultWordChar accepts letters, digits and underscore.
func DefaultWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ID returns the buffer's identity. It is the source of every notification.
func (t *StyledText) ID() uuid.UUID {
	return t.id
}

// ============================================================================
// Read queries
// ============================================================================

// Text returns the full text.
func (t *StyledText) Text() string {
	return t.text
}

// IsEmpty returns true if the buffer holds no characters.
func (t *StyledText) IsEmpty() bool {
	return len(t.text) == 0
}

// CharCount returns the number of characters.
func (t *StyledText) CharCount() int {
	return t.styles.Len()
}

// ByteCount returns the number of bytes.
func (t *StyledText) ByteCount() int {
	return len(t.text)
}

// EndsWithNewline returns true if the last character is a newline.
func (t *StyledText) EndsWithNewline() bool {
	return strings.HasSuffix(t.text, "\n")
}

// GetBeyondEnd returns the index just after the last character.
func (t *StyledText) GetBeyondEnd() index.TextIndex {
	return index.New(t.CharCount()+1, len(t.text)+1)
}

// Styles returns a copy of the style runs.
func (t *StyledText) Styles() []Run {
	return t.styles.Runs()
}

// StyleAt returns the style of the character at charIndex.
func (t *StyledText) StyleAt(charIndex int) style.Style {
	return t.styles.At(charIndex)
}

// RunCount returns the number of style runs.
func (t *StyledText) RunCount() int {
	return t.styles.RunCount()
}

// DefaultStyle returns the font manager's default style.
func (t *StyledText) DefaultStyle() style.Style {
	return t.fonts.DefaultStyle()
}

// FontManager returns the font manager.
func (t *StyledText) FontManager() style.FontManager {
	return t.fonts
}

// CharToTextIndex builds the dual index for a character index.
func (t *StyledText) CharToTextIndex(charIndex int) index.TextIndex {
	return index.FromChar(t.text, charIndex)
}

// CharToTextRange builds the dual range for a character range.
func (t *StyledText) CharToTextRange(r index.Range) index.TextRange {
	return index.RangeFromChars(t.text, r.First, r.Last)
}

// Logger returns the buffer's logger.
func (t *StyledText) Logger() *zap.Logger {
	return t.logger
}

// ============================================================================
// Settings
// ============================================================================

// TabCharCount returns the number of columns between tab stops.
func (t *StyledText) TabCharCount() int {
	return t.tabCharCount
}

// SetTabCharCount sets the number of columns between tab stops.
func (t *StyledText) SetTabCharCount(n int) {
	if n > 0 {
		t.tabCharCount = n
	}
}

// TabInsertsSpaces reports whether tab shifts use spaces.
func (t *StyledText) TabInsertsSpaces() bool {
	return t.tabInsertsSpaces
}

// SetTabInsertsSpaces sets whether tab shifts use spaces.
func (t *StyledText) SetTabInsertsSpaces(on bool) {
	t.tabInsertsSpaces = on
}

// AutoIndent reports whether typed newlines copy the previous indentation.
func (t *StyledText) AutoIndent() bool {
	return t.autoIndent
}

// SetAutoIndent sets whether typed newlines copy the previous indentation.
func (t *StyledText) SetAutoIndent(on bool) {
	t.autoIndent = on
}

// PasteStyled reports whether Paste keeps the styles it is given.
func (t *StyledText) PasteStyled() bool {
	return t.pasteStyled
}

// SetPasteStyled sets whether Paste keeps the styles it is given.
func (t *StyledText) SetPasteStyled(on bool) {
	t.pasteStyled = on
}

// ============================================================================
// Bulk content
// ============================================================================

// SetText replaces the whole content and clears the undo history.
// nil styles give every character the default style; otherwise the runs
// must cover every character of text. Carriage returns are normalized to
// newlines. Text holding illegal control characters is rejected without
// any change.
func (t *StyledText) SetText(text string, styles []Run) error {
	var st *runs.Array[style.Style]
	if styles != nil {
		if n, want := runs.Total(styles), utf8.RuneCountInString(text); n != want {
			return fmt.Errorf("%w: styles cover %d characters, text has %d", ErrInvalidRange, n, want)
		}
		st = runs.FromRuns(styles)
	}

	clean, illegal := cleanText(text, st)
	if illegal {
		t.logger.Debug("rejected text with illegal characters", zap.Int("bytes", len(text)))
		return ErrIllegalCharacters
	}
	t.setContent(clean, st)
	return nil
}

// setContent installs clean text and sends TextSet.
func (t *StyledText) setContent(text string, st *runs.Array[style.Style]) {
	n := utf8.RuneCountInString(text)
	if st == nil {
		t.styles.Reset(runs.Fill(t.fonts.DefaultStyle(), n))
	} else {
		t.styles.Reset(st.Runs())
	}
	t.text = text
	t.history.Clear()
	t.broadcast(Message{Kind: TextSet})
}

// CleanText normalizes newlines and removes illegal characters.
// It reports whether anything illegal was removed.
func CleanText(text string) (string, bool) {
	return cleanText(text, nil)
}

// ContainsIllegalChars reports whether text holds characters a buffer
// will not accept: 0x00-0x08, 0x0B, 0x0E-0x1F, 0x7F and invalid UTF-8.
func ContainsIllegalChars(text string) bool {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isIllegal(r, size) {
			return true
		}
		i += size
	}
	return false
}

func isIllegal(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return true
	}
	switch {
	case r == '\t', r == '\n', r == '\f', r == '\r':
		return false
	case r < 0x20, r == 0x7f:
		return true
	}
	return false
}

// cleanText converts "\r\n" and "\r" to "\n" and drops illegal characters.
// When st is not nil, the styles of dropped characters are removed from it.
func cleanText(text string, st *runs.Array[style.Style]) (string, bool) {
	if !strings.ContainsRune(text, '\r') && !ContainsIllegalChars(text) {
		return text, false
	}

	var b strings.Builder
	b.Grow(len(text))
	illegal := false
	charIndex := 0 // position in st of the current character
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		charIndex++
		drop := false
		switch {
		case r == '\r' && i+1 < len(text) && text[i+1] == '\n':
			drop = true
		case r == '\r':
			b.WriteByte('\n')
		case isIllegal(r, size):
			illegal = true
			drop = true
		default:
			b.WriteString(text[i : i+size])
		}
		if drop {
			if st != nil {
				st.Remove(charIndex, 1)
			}
			charIndex--
		}
		i += size
	}
	return b.String(), illegal
}

// ============================================================================
// Internals
// ============================================================================

// replaceRaw swaps the text and styles covered by r for text and rs.
// It neither records undo nor notifies. The runs in rs must cover every
// character of text. It returns the range of the new text.
func (t *StyledText) replaceRaw(r index.TextRange, text string, rs []Run) index.TextRange {
	if n, want := runs.Total(rs), utf8.RuneCountInString(text); n != want {
		panic(fmt.Sprintf("engine: styles cover %d characters, text has %d", n, want))
	}
	first := r.First()
	count := r.Count()
	off := first.Offset()
	t.text = t.text[:off] + text + t.text[off+count.ByteCount:]
	t.styles.Remove(first.CharIndex, count.CharCount)
	t.styles.InsertRuns(first.CharIndex, rs)
	return index.NewRange(first, index.CountOf(text))
}

// checkIndex panics unless i is a position in the buffer, including the
// position just after the last character.
func (t *StyledText) checkIndex(i index.TextIndex) {
	end := t.GetBeyondEnd()
	off := i.Offset()
	if i.CharIndex < 1 || i.CharIndex > end.CharIndex ||
		off < 0 || off > len(t.text) ||
		(off < len(t.text) && !utf8.RuneStart(t.text[off])) {
		panic(fmt.Sprintf("engine: invalid range: index %s outside %s", i, end))
	}
}

// checkRange panics unless r lies within the buffer. An empty range must
// still be anchored at a valid index.
func (t *StyledText) checkRange(r index.TextRange) {
	t.checkIndex(r.First())
	if !r.IsEmpty() {
		t.checkIndex(r.BeyondLast())
	}
}

// stylesIn returns the runs covering r.
func (t *StyledText) stylesIn(r index.TextRange) []Run {
	return t.styles.Slice(r.CharRange.First, r.Count().CharCount)
}
