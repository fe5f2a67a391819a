package style

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDefaults(t *testing.T) {
	m := NewManager("", 0, tcell.ColorDefault)
	def := m.DefaultStyle()

	assert.Equal(t, DefaultFontName, def.Name)
	assert.Equal(t, DefaultFontSize, def.Size)
	assert.Equal(t, DefaultFontName, m.DisplayName(Style{}))
	assert.Equal(t, "foo", m.DisplayName(def.WithName("foo")))
}

func TestWithSettersCopy(t *testing.T) {
	base := DefaultManager().DefaultStyle()
	bold := base.WithBold(true).WithUnderline(2)

	assert.False(t, base.Bold)
	assert.True(t, bold.Bold)
	assert.Equal(t, 2, bold.Underline)
	assert.Zero(t, base.WithUnderline(-3).Underline)
	assert.NotEqual(t, base, bold)
	assert.Equal(t, base, bold.WithBold(false).WithUnderline(0))
}

func TestColorRoundTrip(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)

	r, g, b := Components(c)
	assert.Equal(t, [3]uint8{255, 128, 0}, [3]uint8{r, g, b})
	assert.Equal(t, "#ff8000", ColorHex(c))

	_, err = ParseColor("orange")
	assert.Error(t, err)
}

func TestNormalizePaletteColor(t *testing.T) {
	n := Normalize(tcell.ColorRed)
	assert.True(t, n.IsRGB())
	assert.Equal(t, n, Normalize(n))
	assert.Equal(t, tcell.ColorDefault, Normalize(tcell.ColorDefault))
}

func TestTerminalConversion(t *testing.T) {
	s := DefaultManager().DefaultStyle().WithBold(true).WithItalic(true).WithUnderline(1).WithColor(RGB(10, 20, 30))

	back := FromTerminal(s.WithBold(false).WithItalic(false).WithUnderline(0), s.Terminal())
	assert.Equal(t, s, back)
}

func TestPredicates(t *testing.T) {
	s := Style{Name: "foo", Size: 20, Bold: true}

	assert.True(t, IsBold(s))
	assert.False(t, IsItalic(s))
	assert.True(t, SizeIs(20)(s))
	assert.True(t, NameIs("foo")(s))
	assert.True(t, All(IsBold, SizeIs(20))(s))
	assert.False(t, All(IsBold, IsUnderlined)(s))
}

func TestString(t *testing.T) {
	s := Style{Name: "Courier", Size: 12, Bold: true, Underline: 2, Color: RGB(255, 0, 0)}
	assert.Equal(t, "Courier 12 B U2 #ff0000", s.String())
}
