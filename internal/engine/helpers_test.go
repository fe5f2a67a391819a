package engine

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func newText(t *testing.T, s string, opts ...Option) *StyledText {
	t.Helper()
	st := New(opts...)
	require.NoError(t, st.SetText(s, nil))
	return st
}

// chars returns the range covering characters first..last.
func chars(st *StyledText, first, last int) index.TextRange {
	return st.CharToTextRange(index.Range{First: first, Last: last})
}

// at returns the index of character c.
func at(st *StyledText, c int) index.TextIndex {
	return st.CharToTextIndex(c)
}

// recorder collects notifications.
type recorder struct {
	msgs []Message
}

func record(st *StyledText) *recorder {
	r := &recorder{}
	st.Subscribe(func(m Message) { r.msgs = append(r.msgs, m) })
	return r
}

func (r *recorder) kinds() []Kind {
	out := make([]Kind, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Kind
	}
	return out
}

func (r *recorder) last() Message {
	return r.msgs[len(r.msgs)-1]
}

func (r *recorder) reset() {
	r.msgs = nil
}

// styledSample builds "bîgbøldnormaldouble underline" with a big font on
// "bîg", bold "bøld" and a double underline on "double underline".
func styledSample(t *testing.T, opts ...Option) *StyledText {
	t.Helper()
	st := newText(t, "bîgbøldnormaldouble underline", opts...)
	st.SetFontSize(chars(st, 1, 3), 20, true)
	st.SetFontBold(chars(st, 4, 7), true, true)
	st.SetFontUnderline(chars(st, 14, 29), 2, true)
	require.Equal(t, 4, st.RunCount())
	return st
}

// styledLines builds "bîg\nbøld\n\t   normal\ndouble underline" styled like
// styledSample.
func styledLines(t *testing.T, opts ...Option) *StyledText {
	t.Helper()
	st := newText(t, "bîg\nbøld\n\t   normal\ndouble underline", opts...)
	st.SetFontSize(chars(st, 1, 3), 20, true)
	st.SetFontBold(chars(st, 5, 8), true, true)
	st.SetFontUnderline(chars(st, 16, 31), 2, true)
	return st
}

func bigFont(s style.Style) bool { return s.Size == 20 }

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := CompilePattern(pattern, SearchOptions{})
	require.NoError(t, err)
	return re
}
