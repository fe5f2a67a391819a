package engine

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// PlainTextFormat is a line ending convention.
type PlainTextFormat uint8

const (
	UNIXText PlainTextFormat = iota // "\n"
	DOSText                         // "\r\n"
	MacText                         // "\r"
)

// String returns the format name.
func (f PlainTextFormat) String() string {
	switch f {
	case DOSText:
		return "dos"
	case MacText:
		return "mac"
	default:
		return "unix"
	}
}

// ParsePlainTextFormat parses "unix", "dos" or "mac".
func ParsePlainTextFormat(s string) (PlainTextFormat, error) {
	switch strings.ToLower(s) {
	case "unix":
		return UNIXText, nil
	case "dos":
		return DOSText, nil
	case "mac":
		return MacText, nil
	}
	return UNIXText, fmt.Errorf("unknown line ending format %q", s)
}

// DetectPlainTextFormat returns the line endings used by text.
func DetectPlainTextFormat(text string) PlainTextFormat {
	switch {
	case strings.Contains(text, "\r\n"):
		return DOSText
	case strings.Contains(text, "\r"):
		return MacText
	}
	return UNIXText
}

// ReadPlainText replaces the content with text read from r and returns the
// line endings it used. Newlines are stored as "\n". Content holding
// illegal characters is treated as binary: it fails with ErrBinaryContent
// and leaves the buffer alone, unless acceptBinary is set, in which case
// the illegal characters are dropped. The undo history is cleared.
func (t *StyledText) ReadPlainText(r io.Reader, acceptBinary bool) (PlainTextFormat, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return UNIXText, fmt.Errorf("read plain text: %w", err)
	}
	text := string(data)

	format := DetectPlainTextFormat(text)
	if ContainsIllegalChars(text) {
		if !acceptBinary {
			t.logger.Debug("rejected binary content", zap.Int("bytes", len(data)))
			return UNIXText, ErrBinaryContent
		}
		format = UNIXText
	}

	t.logger.Debug("reading plain text", zap.Int("bytes", len(data)), zap.Stringer("format", format))
	t.broadcast(Message{Kind: WillBeBusy})

	clean, _ := cleanText(text, nil)
	t.setContent(clean, nil)
	return format, nil
}

// WritePlainText writes the text to w with the given line endings.
func (t *StyledText) WritePlainText(w io.Writer, format PlainTextFormat) error {
	text := t.text
	switch format {
	case DOSText:
		text = strings.ReplaceAll(text, "\n", "\r\n")
	case MacText:
		text = strings.ReplaceAll(text, "\n", "\r")
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write plain text: %w", err)
	}
	return nil
}
