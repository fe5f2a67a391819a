package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeText(b *testing.B, lines int) *StyledText {
	b.Helper()
	var sb strings.Builder
	line := "\tfüür score and seven years ago " + strings.Repeat("x", 48) + "\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	st := New()
	if err := st.SetText(sb.String(), nil); err != nil {
		b.Fatal(err)
	}
	n := st.CharCount()
	for c := 1; c < n; c += 997 {
		st.SetFontBold(st.CharToTextRange(index.Range{First: c, Last: min(c+10, n)}), true, true)
	}
	return st
}

// ============================================================================
// Query Benchmarks
// ============================================================================

func BenchmarkStyleAt(b *testing.B) {
	st := setupLargeText(b, 10000)
	n := st.CharCount()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = st.StyleAt(i%n + 1)
	}
}

func BenchmarkGetWordStart(b *testing.B) {
	st := setupLargeText(b, 1000)
	i := st.CharToTextIndex(st.CharCount() / 2)
	b.ResetTimer()

	for j := 0; j < b.N; j++ {
		_ = st.GetWordStart(i)
	}
}

func BenchmarkSearchForward(b *testing.B) {
	st := setupLargeText(b, 1000)
	re, err := CompilePattern("seven", SearchOptions{})
	if err != nil {
		b.Fatal(err)
	}
	start := st.CharToTextIndex(st.CharCount() / 2)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = st.SearchForward(start, re, true, true)
	}
}

func BenchmarkSearchForwardStyle(b *testing.B) {
	st := setupLargeText(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = st.SearchForwardStyle(style.IsItalic, index.Start(), true)
	}
}

// ============================================================================
// Edit Benchmarks
// ============================================================================

func BenchmarkTyping(b *testing.B) {
	st := setupLargeText(b, 1000)
	def := st.DefaultStyle()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		st.InsertCharacter(index.At(st.GetBeyondEnd()), 'x', def)
	}
}

func BenchmarkPasteUndo(b *testing.B) {
	st := setupLargeText(b, 1000)
	dest := index.At(st.CharToTextIndex(st.CharCount() / 2))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		st.Paste(dest, "pasted text", nil)
		st.Undo()
	}
}

func BenchmarkIndent(b *testing.B) {
	st := setupLargeText(b, 1000)
	r := st.CharToTextRange(index.Range{First: 1, Last: 5000})
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		st.Indent(r, 1)
		st.Undo()
	}
}

// ============================================================================
// Serialization Benchmarks
// ============================================================================

func BenchmarkWritePrivateFormat(b *testing.B) {
	st := setupLargeText(b, 1000)
	var buf bytes.Buffer
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := st.WritePrivateFormat(&buf, PrivateFormatVersion, index.TextRange{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadPrivateFormat(b *testing.B) {
	src := setupLargeText(b, 1000)
	var buf bytes.Buffer
	if err := src.WritePrivateFormat(&buf, PrivateFormatVersion, index.TextRange{}); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, _, err := ReadPrivateFormatText(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}
