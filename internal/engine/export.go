package engine

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// ExportJSON writes a JSON view of the text and style runs covered by sub,
// or of the whole buffer when sub is empty. It is meant for tooling; the
// private format is the lossless one.
//
//	{"id": "...", "first": 1, "chars": 4, "bytes": 5, "text": "...",
//	 "runs": [{"first": 1, "count": 2, "font": "Courier", "size": 12,
//	           "bold": true, "italic": false, "strike": false,
//	           "underline": 0, "color": "#000000"}],
//	 "undo": {"depth": 100, "can_undo": true, "can_redo": false,
//	          "saved": false}}
func (t *StyledText) ExportJSON(w io.Writer, sub index.TextRange) error {
	if sub.IsEmpty() {
		sub = index.Between(index.Start(), t.GetBeyondEnd())
	} else {
		t.checkRange(sub)
	}

	text := index.Slice(t.text, sub)
	var rs []Run
	if !sub.IsEmpty() {
		rs = t.stylesIn(sub)
	}

	doc := "{}"
	set := func(path string, v any) error {
		var err error
		doc, err = sjson.Set(doc, path, v)
		return err
	}

	fields := []struct {
		path string
		v    any
	}{
		{"id", t.id.String()},
		{"first", sub.CharRange.First},
		{"chars", sub.Count().CharCount},
		{"bytes", sub.Count().ByteCount},
		{"text", text},
		{"runs", []any{}},
		{"undo.depth", t.history.Depth()},
		{"undo.can_undo", t.history.CanUndo()},
		{"undo.can_redo", t.history.CanRedo()},
		{"undo.saved", t.history.IsAtSaved()},
	}
	for _, f := range fields {
		if err := set(f.path, f.v); err != nil {
			return fmt.Errorf("export %s: %w", f.path, err)
		}
	}

	first := sub.CharRange.First
	for i, r := range rs {
		if err := set(fmt.Sprintf("runs.%d", i), runJSON(first, r.Length, r.Value, t.fonts)); err != nil {
			return fmt.Errorf("export run %d: %w", i, err)
		}
		first += r.Length
	}

	if _, err := io.WriteString(w, doc); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func runJSON(first, count int, s style.Style, fonts style.FontManager) map[string]any {
	return map[string]any{
		"first":     first,
		"count":     count,
		"font":      fonts.DisplayName(s),
		"size":      s.Size,
		"bold":      s.Bold,
		"italic":    s.Italic,
		"strike":    s.Strike,
		"underline": s.Underline,
		"color":     style.ColorHex(s.Color),
	}
}
