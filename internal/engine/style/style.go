// Package style defines the character style carried by each run of a styled
// text buffer, together with the font manager that supplies defaults and the
// predicates used by style search.
package style

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Style describes how a run of characters is drawn.
// Style is comparable so that equal neighbouring runs can be merged.
type Style struct {
	Name      string
	Size      int
	Bold      bool
	Italic    bool
	Strike    bool
	Underline int // number of underlines, 0 for none
	Color     tcell.Color
}

// String returns a compact description, e.g. "Courier 12 B U2 #ff0000".
func (s Style) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", s.Name, s.Size)
	if s.Bold {
		b.WriteString(" B")
	}
	if s.Italic {
		b.WriteString(" I")
	}
	if s.Strike {
		b.WriteString(" S")
	}
	if s.Underline > 0 {
		fmt.Fprintf(&b, " U%d", s.Underline)
	}
	b.WriteString(" ")
	b.WriteString(ColorHex(s.Color))
	return b.String()
}

// WithName returns a copy using the named font.
func (s Style) WithName(name string) Style {
	s.Name = name
	return s
}

// WithSize returns a copy with the given size.
func (s Style) WithSize(size int) Style {
	s.Size = size
	return s
}

// WithBold returns a copy with bold set.
func (s Style) WithBold(on bool) Style {
	s.Bold = on
	return s
}

// WithItalic returns a copy with italic set.
func (s Style) WithItalic(on bool) Style {
	s.Italic = on
	return s
}

// WithStrike returns a copy with strike-through set.
func (s Style) WithStrike(on bool) Style {
	s.Strike = on
	return s
}

// WithUnderline returns a copy with the underline count set.
func (s Style) WithUnderline(count int) Style {
	if count < 0 {
		count = 0
	}
	s.Underline = count
	return s
}

// WithColor returns a copy using the given color.
func (s Style) WithColor(c tcell.Color) Style {
	s.Color = Normalize(c)
	return s
}

// Attributes is the part of a style that is independent of the font.
type Attributes struct {
	Bold      bool
	Italic    bool
	Strike    bool
	Underline int
	Color     tcell.Color
}

// Attributes returns the font-independent part of s.
func (s Style) Attributes() Attributes {
	return Attributes{Bold: s.Bold, Italic: s.Italic, Strike: s.Strike, Underline: s.Underline, Color: s.Color}
}

// WithAttributes returns a copy carrying attrs.
func (s Style) WithAttributes(attrs Attributes) Style {
	s.Bold = attrs.Bold
	s.Italic = attrs.Italic
	s.Strike = attrs.Strike
	s.Underline = attrs.Underline
	s.Color = Normalize(attrs.Color)
	return s
}

// Terminal converts the style to a tcell style for terminal front ends.
// Font name and size have no terminal equivalent and are dropped.
func (s Style) Terminal() tcell.Style {
	ts := tcell.StyleDefault
	if s.Color != tcell.ColorDefault {
		ts = ts.Foreground(s.Color)
	}
	if s.Bold {
		ts = ts.Bold(true)
	}
	if s.Italic {
		ts = ts.Italic(true)
	}
	if s.Underline > 0 {
		ts = ts.Underline(true)
	}
	if s.Strike {
		ts = ts.StrikeThrough(true)
	}
	return ts
}

// FromTerminal converts a tcell style back onto base, keeping base's font.
func FromTerminal(base Style, ts tcell.Style) Style {
	fg, _, attrs := ts.Decompose()
	s := base
	s.Bold = attrs&tcell.AttrBold != 0
	s.Italic = attrs&tcell.AttrItalic != 0
	s.Strike = attrs&tcell.AttrStrikeThrough != 0
	s.Underline = 0
	if attrs&tcell.AttrUnderline != 0 {
		s.Underline = 1
	}
	if fg != tcell.ColorDefault {
		s.Color = Normalize(fg)
	}
	return s
}
