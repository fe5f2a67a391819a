package view

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/styledtext/internal/engine"
	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

func newPager(t *testing.T, text string, width, height int) (*Pager, tcell.SimulationScreen, *engine.StyledText) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(width, height)
	t.Cleanup(s.Fini)

	doc := engine.New()
	require.NoError(t, doc.SetText(text, nil))
	p := New(s, doc, "test")
	t.Cleanup(p.Close)
	return p, s, doc
}

// row reads the runes on row y, trailing blanks trimmed.
func row(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	rs := make([]rune, 0, w)
	for x := 0; x < w; x++ {
		mainc, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		rs = append(rs, mainc)
	}
	end := len(rs)
	for end > 0 && (rs[end-1] == ' ' || rs[end-1] == 0) {
		end--
	}
	return string(rs[:end])
}

func cellStyle(s tcell.SimulationScreen, x, y int) tcell.Style {
	_, _, st, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return st
}

// ============================================================================
// Drawing
// ============================================================================

func TestDrawLines(t *testing.T) {
	p, s, _ := newPager(t, "one\ntwo\nthree", 30, 5)
	p.Draw()

	assert.Equal(t, "one", row(s, 0))
	assert.Equal(t, "two", row(s, 1))
	assert.Equal(t, "three", row(s, 2))
	assert.Equal(t, "", row(s, 3))
	assert.Equal(t, " test  1-3/3  13 chars", row(s, 4))
}

func TestDrawClipsStatus(t *testing.T) {
	p, s, _ := newPager(t, "one\ntwo\nthree", 20, 5)
	p.Draw()

	assert.Equal(t, " test  1-3/3  13 cha", row(s, 4))
}

func TestDrawExpandsTabs(t *testing.T) {
	p, s, doc := newPager(t, "a\tb", 20, 3)
	doc.SetTabCharCount(4)
	p.Draw()

	assert.Equal(t, "a   b", row(s, 0))
}

func TestDrawStyles(t *testing.T) {
	p, s, doc := newPager(t, "plain bold", 20, 3)
	doc.SetFontBold(doc.CharToTextRange(index.Range{First: 7, Last: 10}), true, false)
	doc.SetFontColor(doc.CharToTextRange(index.Range{First: 1, Last: 1}), style.RGB(255, 0, 0), false)
	p.Draw()

	_, _, attrs := cellStyle(s, 6, 0).Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)
	_, _, attrs = cellStyle(s, 1, 0).Decompose()
	assert.Zero(t, attrs&tcell.AttrBold)

	fg, _, _ := cellStyle(s, 0, 0).Decompose()
	assert.Equal(t, style.RGB(255, 0, 0), fg)
}

func TestDrawWideAndCombining(t *testing.T) {
	p, s, doc := newPager(t, "日本x\ne\u0301y", 20, 3)
	doc.SetFontBold(doc.CharToTextRange(index.Range{First: 3, Last: 3}), true, false)
	p.Draw()

	mainc, _, _, width := s.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, '日', mainc)
	assert.Equal(t, 2, width)
	mainc, _, st, _ := s.GetContent(4, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'x', mainc)
	_, _, attrs := st.Decompose()
	assert.NotZero(t, attrs&tcell.AttrBold)

	mainc, combc, _, _ := s.GetContent(0, 1) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'e', mainc)
	assert.Equal(t, []rune{'\u0301'}, combc)
	mainc, _, _, _ = s.GetContent(1, 1) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, 'y', mainc)
}

func TestDrawClipsLongLines(t *testing.T) {
	p, s, _ := newPager(t, "abcdefghij", 4, 2)
	p.Draw()
	assert.Equal(t, "abcd", row(s, 0))
}

func TestRedrawAfterEdit(t *testing.T) {
	p, s, doc := newPager(t, "one", 20, 4)
	p.Draw()
	require.Equal(t, 1, p.LineCount())

	doc.Paste(index.At(doc.GetBeyondEnd()), "\ntwo", nil)
	p.Draw()
	assert.Equal(t, 2, p.LineCount())
	assert.Equal(t, "two", row(s, 1))

	doc.Undo()
	p.Draw()
	assert.Equal(t, "", row(s, 1))
}

// ============================================================================
// Scrolling
// ============================================================================

func TestScroll(t *testing.T) {
	p, s, _ := newPager(t, "1\n2\n3\n4\n5\n6", 10, 4)

	p.Scroll(2)
	assert.Equal(t, 2, p.Top())
	p.Draw()
	assert.Equal(t, "3", row(s, 0))

	p.Scroll(10)
	assert.Equal(t, 3, p.Top(), "last page stays full")

	p.Scroll(-10)
	assert.Equal(t, 0, p.Top())
}

func TestScrollShortBuffer(t *testing.T) {
	p, _, _ := newPager(t, "only", 10, 4)
	p.Scroll(5)
	assert.Equal(t, 0, p.Top())
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name    string
		ev      *tcell.EventKey
		wantTop int
		quit    bool
	}{
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 1, false},
		{"j", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), 1, false},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), 3, false},
		{"end", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), 6, false},
		{"G", tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone), 6, false},
		{"up at top", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), 0, false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), 0, true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newPager(t, "1\n2\n3\n4\n5\n6\n7\n8\n9", 10, 4)
			assert.Equal(t, tt.quit, p.HandleKey(tt.ev))
			assert.Equal(t, tt.wantTop, p.Top())
		})
	}
}

// ============================================================================
// Event loop
// ============================================================================

func TestRunQuitsOnKey(t *testing.T) {
	p, s, _ := newPager(t, "abc", 10, 3)

	errc := make(chan error, 1)
	go func() { errc <- p.Run(context.Background()) }()

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunPostAndCancel(t *testing.T) {
	p, s, doc := newPager(t, "old", 10, 3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	done := make(chan struct{})
	require.NoError(t, p.Post(func() {
		_ = doc.SetText("new", nil)
		close(done)
	}))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("posted function did not run")
	}

	require.Eventually(t, func() bool {
		return row(s, 0) == "new"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
