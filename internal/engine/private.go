package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// PrivateFormatVersion is the newest private format this package writes.
//
// Version 1 is a sequence of space separated tokens:
//
//	version charCount <raw UTF-8 text>
//	fontCount "name"...
//	colorCount r g b...
//	runCount {charCount fontIndex size flags underlineCount colorIndex}...
//
// Indices are 1-based. flags holds the letters B, I and S, or "-" for none.
// The terminal default color is written as -1 -1 -1.
const PrivateFormatVersion = 1

// WritePrivateFormat writes the text and styles covered by sub in the
// private format. An empty sub writes the whole buffer.
func (t *StyledText) WritePrivateFormat(w io.Writer, version int, sub index.TextRange) error {
	if sub.IsEmpty() {
		return WritePrivateFormatText(w, version, t.text, t.styles.Runs())
	}
	t.checkRange(sub)
	return WritePrivateFormatText(w, version, index.Slice(t.text, sub), t.stylesIn(sub))
}

// WritePrivateFormatText writes text with its styles in the private format.
func WritePrivateFormatText(w io.Writer, version int, text string, styles []Run) error {
	if version < 1 || version > PrivateFormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	n := utf8.RuneCountInString(text)
	if runs.Total(styles) != n {
		return fmt.Errorf("%w: styles cover %d characters, text has %d", ErrInvalidRange, runs.Total(styles), n)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d", version, n)
	if n > 0 {
		bw.WriteByte(' ')
		bw.WriteString(text)
	}

	var fonts []string
	var colors []tcell.Color
	for _, r := range styles {
		if !slices.Contains(fonts, r.Value.Name) {
			fonts = append(fonts, r.Value.Name)
		}
		if c := style.Normalize(r.Value.Color); !slices.Contains(colors, c) {
			colors = append(colors, c)
		}
	}
	slices.Sort(fonts)
	slices.Sort(colors)

	fmt.Fprintf(bw, " %d", len(fonts))
	for _, name := range fonts {
		fmt.Fprintf(bw, " %s", strconv.Quote(name))
	}

	fmt.Fprintf(bw, " %d", len(colors))
	for _, c := range colors {
		if c == tcell.ColorDefault {
			bw.WriteString(" -1 -1 -1")
			continue
		}
		r, g, b := style.Components(c)
		fmt.Fprintf(bw, " %d %d %d", r, g, b)
	}

	fmt.Fprintf(bw, " %d", len(styles))
	for _, r := range styles {
		s := r.Value
		fmt.Fprintf(bw, " %d %d %d %s %d %d",
			r.Length,
			slices.Index(fonts, s.Name)+1,
			s.Size,
			formatFlags(s),
			s.Underline,
			slices.Index(colors, style.Normalize(s.Color))+1,
		)
	}
	return bw.Flush()
}

func formatFlags(s style.Style) string {
	var b strings.Builder
	if s.Bold {
		b.WriteByte('B')
	}
	if s.Italic {
		b.WriteByte('I')
	}
	if s.Strike {
		b.WriteByte('S')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// ReadPrivateFormat replaces the content with text read from r in the
// private format. Nothing changes when the stream cannot be read. The undo
// history is cleared.
func (t *StyledText) ReadPrivateFormat(r io.Reader) error {
	t.broadcast(Message{Kind: WillBeBusy})

	text, styles, err := ReadPrivateFormatText(r)
	if err != nil {
		t.logger.Debug("rejected private format", zap.Error(err))
		return err
	}
	t.logger.Debug("read private format", zap.Int("bytes", len(text)), zap.Int("runs", len(styles)))
	if len(styles) == 0 {
		styles = nil
	}
	return t.SetText(text, styles)
}

// ReadPrivateFormatText parses a private format stream without touching any
// buffer, e.g. to paste styled text from another document.
func ReadPrivateFormatText(r io.Reader) (string, []Run, error) {
	p := &privateReader{r: bufio.NewReader(r)}

	version, err := p.int("version")
	if err != nil {
		return "", nil, err
	}
	if version > PrivateFormatVersion {
		return "", nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if version < 1 {
		return "", nil, p.fail("version must be positive")
	}

	charCount, err := p.int("character count")
	if err != nil {
		return "", nil, err
	}
	text := ""
	if charCount > 0 {
		if text, err = p.text(charCount); err != nil {
			return "", nil, err
		}
	}

	fontCount, err := p.int("font count")
	if err != nil {
		return "", nil, err
	}
	// Counts come from the stream; the tables grow as entries are read.
	var fonts []string
	for i := 0; i < fontCount; i++ {
		name, err := p.quoted("font name")
		if err != nil {
			return "", nil, err
		}
		fonts = append(fonts, name)
	}

	colorCount, err := p.int("color count")
	if err != nil {
		return "", nil, err
	}
	var colors []tcell.Color
	for i := 0; i < colorCount; i++ {
		c, err := p.color()
		if err != nil {
			return "", nil, err
		}
		colors = append(colors, c)
	}

	runCount, err := p.int("run count")
	if err != nil {
		return "", nil, err
	}
	if runCount > charCount {
		return "", nil, p.fail(fmt.Sprintf("%d runs cannot cover %d characters", runCount, charCount))
	}
	styles := make([]Run, 0, runCount)
	for i := 0; i < runCount; i++ {
		run, err := p.run(fonts, colors)
		if err != nil {
			return "", nil, err
		}
		styles = append(styles, run)
	}
	if total := runs.Total(styles); total != charCount {
		return "", nil, p.fail(fmt.Sprintf("runs cover %d characters, text has %d", total, charCount))
	}
	return text, styles, nil
}

// privateReader reads private format tokens and tracks the offset for
// error reports.
type privateReader struct {
	r   *bufio.Reader
	off int64
}

func (p *privateReader) fail(reason string) error {
	return &FormatError{Offset: p.off, Reason: reason}
}

func (p *privateReader) readByte() (byte, error) {
	c, err := p.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, p.fail("unexpected end of input")
		}
		return 0, fmt.Errorf("read private format: %w", err)
	}
	p.off++
	return c, nil
}

func (p *privateReader) skipSpace() error {
	for {
		c, err := p.readByte()
		if err != nil {
			return err
		}
		if c != ' ' && c != '\n' && c != '\t' && c != '\r' {
			p.r.UnreadByte()
			p.off--
			return nil
		}
	}
}

// token returns the next run of non-space bytes.
func (p *privateReader) token(what string) (string, error) {
	if err := p.skipSpace(); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		c, err := p.r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read private format: %w", err)
		}
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			p.r.UnreadByte()
			break
		}
		p.off++
		b.WriteByte(c)
	}
	if b.Len() == 0 {
		return "", p.fail("missing " + what)
	}
	return b.String(), nil
}

func (p *privateReader) int(what string) (int, error) {
	start := p.off
	tok, err := p.token(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &FormatError{Offset: start, Reason: fmt.Sprintf("%s: %q is not a number", what, tok)}
	}
	if n < 0 && what != "color component" {
		return 0, &FormatError{Offset: start, Reason: fmt.Sprintf("%s is negative", what)}
	}
	return n, nil
}

// text reads exactly n characters after a single separating space.
func (p *privateReader) text(n int) (string, error) {
	if c, err := p.readByte(); err != nil {
		return "", err
	} else if c != ' ' {
		return "", p.fail("expected space before text")
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		r, size, err := p.r.ReadRune()
		if err != nil {
			return "", p.fail("text shorter than its character count")
		}
		p.off += int64(size)
		b.WriteRune(r)
	}
	return b.String(), nil
}

// quoted reads a Go quoted string.
func (p *privateReader) quoted(what string) (string, error) {
	if err := p.skipSpace(); err != nil {
		return "", err
	}
	start := p.off
	c, err := p.readByte()
	if err != nil {
		return "", err
	}
	if c != '"' {
		return "", &FormatError{Offset: start, Reason: what + " must be quoted"}
	}
	var b strings.Builder
	b.WriteByte('"')
	for escaped := false; ; {
		c, err := p.readByte()
		if err != nil {
			return "", err
		}
		b.WriteByte(c)
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			break
		}
	}
	s, err := strconv.Unquote(b.String())
	if err != nil {
		return "", &FormatError{Offset: start, Reason: fmt.Sprintf("bad %s: %v", what, err)}
	}
	return s, nil
}

func (p *privateReader) color() (tcell.Color, error) {
	var rgb [3]int
	for i := range rgb {
		v, err := p.int("color component")
		if err != nil {
			return tcell.ColorDefault, err
		}
		if v < -1 || v > 255 {
			return tcell.ColorDefault, p.fail(fmt.Sprintf("color component %d out of range", v))
		}
		rgb[i] = v
	}
	if rgb == [3]int{-1, -1, -1} {
		return tcell.ColorDefault, nil
	}
	if rgb[0] < 0 || rgb[1] < 0 || rgb[2] < 0 {
		return tcell.ColorDefault, p.fail("color component out of range")
	}
	return style.RGB(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])), nil
}

func (p *privateReader) run(fonts []string, colors []tcell.Color) (Run, error) {
	length, err := p.int("run length")
	if err != nil {
		return Run{}, err
	}
	if length == 0 {
		return Run{}, p.fail("empty run")
	}
	fontIndex, err := p.int("font index")
	if err != nil {
		return Run{}, err
	}
	if fontIndex < 1 || fontIndex > len(fonts) {
		return Run{}, p.fail(fmt.Sprintf("font index %d out of range", fontIndex))
	}
	size, err := p.int("font size")
	if err != nil {
		return Run{}, err
	}
	flags, err := p.token("style flags")
	if err != nil {
		return Run{}, err
	}
	underline, err := p.int("underline count")
	if err != nil {
		return Run{}, err
	}
	colorIndex, err := p.int("color index")
	if err != nil {
		return Run{}, err
	}
	if colorIndex < 1 || colorIndex > len(colors) {
		return Run{}, p.fail(fmt.Sprintf("color index %d out of range", colorIndex))
	}

	s := style.Style{
		Name:      fonts[fontIndex-1],
		Size:      size,
		Underline: underline,
		Color:     colors[colorIndex-1],
	}
	if flags != "-" {
		for _, f := range flags {
			switch f {
			case 'B':
				s.Bold = true
			case 'I':
				s.Italic = true
			case 'S':
				s.Strike = true
			default:
				return Run{}, p.fail(fmt.Sprintf("unknown style flag %q", f))
			}
		}
	}
	return Run{Value: s, Length: length}, nil
}
