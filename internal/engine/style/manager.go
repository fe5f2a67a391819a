package style

import "github.com/gdamore/tcell/v2"

// Default font settings.
const (
	DefaultFontName = "Courier"
	DefaultFontSize = 12
)

// FontManager supplies the default style and printable font names.
// A manager may be shared by several buffers; it is passed in explicitly.
type FontManager interface {
	// DefaultStyle returns the style of text with no explicit styling.
	DefaultStyle() Style

	// DisplayName returns the name shown to users for a style's font.
	DisplayName(s Style) string
}

// Manager is a FontManager with a fixed default style.
type Manager struct {
	def Style
}

// NewManager creates a manager whose default style uses the given font.
func NewManager(name string, size int, color tcell.Color) *Manager {
	if name == "" {
		name = DefaultFontName
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	return &Manager{def: Style{Name: name, Size: size, Color: Normalize(color)}}
}

// DefaultManager returns a manager using DefaultFontName and DefaultFontSize.
func DefaultManager() *Manager {
	return NewManager(DefaultFontName, DefaultFontSize, Black)
}

// DefaultStyle implements FontManager.
func (m *Manager) DefaultStyle() Style {
	return m.def
}

// DisplayName implements FontManager.
func (m *Manager) DisplayName(s Style) string {
	if s.Name == "" {
		return m.def.Name
	}
	return s.Name
}

// Predicate selects styles during style search.
type Predicate func(Style) bool

// IsBold matches bold text.
func IsBold(s Style) bool { return s.Bold }

// IsItalic matches italic text.
func IsItalic(s Style) bool { return s.Italic }

// IsUnderlined matches text with at least one underline.
func IsUnderlined(s Style) bool { return s.Underline > 0 }

// IsStrike matches struck-through text.
func IsStrike(s Style) bool { return s.Strike }

// SizeIs matches a font size.
func SizeIs(size int) Predicate {
	return func(s Style) bool { return s.Size == size }
}

// NameIs matches a font name.
func NameIs(name string) Predicate {
	return func(s Style) bool { return s.Name == name }
}

// ColorIs matches a color.
func ColorIs(c tcell.Color) Predicate {
	c = Normalize(c)
	return func(s Style) bool { return s.Color == c }
}

// All matches when every predicate matches.
func All(preds ...Predicate) Predicate {
	return func(s Style) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}
