package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine/history"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// Default configuration values.
const (
	DefaultTabCharCount = 8
	DefaultUndoDepth    = history.DefaultDepth
)

// WordCharFunc reports whether a character belongs to a word.
type WordCharFunc func(r rune) bool

// StyleAdjuster may restyle text after an edit and before TextChanged is
// broadcast. It receives the changed range and may widen recalc (what the
// adjuster restyled) and redraw (what observers must repaint). deletion is
// true when the edit removed text. The adjuster must not change the number
// of styled characters.
type StyleAdjuster func(text string, styles *runs.Array[style.Style], recalc, redraw *index.TextRange, deletion bool)

// Option configures a StyledText during creation.
type Option func(*StyledText)

// WithFontManager sets the font manager that supplies the default style.
func WithFontManager(m style.FontManager) Option {
	return func(t *StyledText) {
		if m != nil {
			t.fonts = m
		}
	}
}

// WithUndoDepth sets the number of undo steps kept.
// 0 disables undo, 1 keeps a single toggling step.
func WithUndoDepth(depth int) Option {
	return func(t *StyledText) {
		t.undoDepth = depth
	}
}

// WithTabCharCount sets the number of columns between tab stops.
func WithTabCharCount(n int) Option {
	return func(t *StyledText) {
		if n > 0 {
			t.tabCharCount = n
		}
	}
}

// WithTabInsertsSpaces makes tab shifts and whitespace cleanup use spaces.
func WithTabInsertsSpaces(on bool) Option {
	return func(t *StyledText) {
		t.tabInsertsSpaces = on
	}
}

// WithAutoIndent copies the leading whitespace of the previous line after a
// typed newline.
func WithAutoIndent(on bool) Option {
	return func(t *StyledText) {
		t.autoIndent = on
	}
}

// WithPasteStyled controls whether Paste keeps the styles it is given.
// When off, pasted text takes the insertion style.
func WithPasteStyled(on bool) Option {
	return func(t *StyledText) {
		t.pasteStyled = on
	}
}

// WithWordCharFunc replaces the word character classification.
func WithWordCharFunc(fn WordCharFunc) Option {
	return func(t *StyledText) {
		if fn != nil {
			t.isWordChar = fn
		}
	}
}

// WithStyleAdjuster installs a hook that restyles text after each edit.
func WithStyleAdjuster(fn StyleAdjuster) Option {
	return func(t *StyledText) {
		t.adjuster = fn
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *StyledText) {
		if l != nil {
			t.logger = l
		}
	}
}
