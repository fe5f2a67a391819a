package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// segment is a span of lines being rewritten.
type segment struct {
	rng    index.TextRange
	text   string
	styles *runs.Array[style.Style]

	// atLineStart is set when the segment begins at the start of a line.
	atLineStart bool
}

// segmentLine is one line of a segment, including its newline.
type segmentLine struct {
	text    string
	charOff int // characters before the line within the segment
	start   bool
}

func (t *StyledText) newSegment(rng index.TextRange) segment {
	prev, _ := index.RuneBefore(t.text, rng.First())
	return segment{
		rng:         rng,
		text:        index.Slice(t.text, rng),
		styles:      runs.FromRuns(t.stylesIn(rng)),
		atLineStart: rng.First().CharIndex == 1 || prev == '\n',
	}
}

// shiftSegment extends r to the end of its last line.
func (t *StyledText) shiftSegment(r index.TextRange) (segment, bool) {
	first := r.First()
	if first.CharIndex < 1 || first.CharIndex > t.CharCount() {
		return segment{}, false
	}
	t.checkRange(r)
	last := first
	if !r.IsEmpty() {
		last = index.Retreat(t.text, r.BeyondLast(), 1)
	}
	end := index.Advance(t.text, t.GetLineEnd(last), 1)
	return t.newSegment(index.Between(first, end)), true
}

// lines splits the segment into lines.
func (s segment) lines() []segmentLine {
	var out []segmentLine
	off := 0
	for i, l := range strings.SplitAfter(s.text, "\n") {
		if l == "" {
			continue
		}
		out = append(out, segmentLine{text: l, charOff: off, start: i > 0 || s.atLineStart})
		off += utf8.RuneCountInString(l)
	}
	return out
}

// stylesOf returns the styles of n characters starting skip characters
// into l.
func (s segment) stylesOf(l segmentLine, skip, n int) []Run {
	return s.styles.Slice(l.charOff+skip+1, n)
}

// segmentBuilder accumulates rewritten text with its styles.
type segmentBuilder struct {
	text strings.Builder
	runs []Run
}

func (b *segmentBuilder) add(s string, rs []Run) {
	b.text.WriteString(s)
	b.runs = append(b.runs, rs...)
}

// repeat adds n copies of the single-byte string c in style st.
func (b *segmentBuilder) repeat(c string, n int, st style.Style) {
	if n <= 0 {
		return
	}
	b.text.WriteString(strings.Repeat(c, n))
	b.runs = append(b.runs, runs.Fill(st, n)...)
}

// applyTabShift replaces the segment with the rewritten text as part of a
// tab shift record and sends TextChanged.
func (t *StyledText) applyTabShift(desc string, seg segment, b *segmentBuilder) index.TextRange {
	rec, isNew := t.tabShiftRecord(desc, seg.rng)
	newRange := t.replaceRaw(seg.rng, b.text.String(), b.runs)
	delta := newRange.Count().Sub(seg.rng.Count())
	rec.count = rec.count.Add(delta)
	t.push(rec, isNew)

	t.broadcastTextChanged(newRange, delta, delta.CharCount < 0)
	return newRange
}

// Indent shifts every line of r right by count tab stops and returns the
// range of the shifted lines. Empty lines are left alone. Repeated shifts
// starting at the same index form a single undo step.
func (t *StyledText) Indent(r index.TextRange, count int) index.TextRange {
	seg, ok := t.shiftSegment(r)
	if !ok || count <= 0 {
		return index.TextRange{}
	}

	unit, n := "\t", count
	if t.tabInsertsSpaces {
		unit, n = " ", count*t.tabCharCount
	}

	var b segmentBuilder
	inserted := false
	for _, l := range seg.lines() {
		if l.start && l.text != "\n" {
			b.repeat(unit, n, seg.styles.At(l.charOff+1))
			inserted = true
		}
		b.add(l.text, seg.stylesOf(l, 0, utf8.RuneCountInString(l.text)))
	}
	if !inserted {
		return index.TextRange{}
	}
	return t.applyTabShift("Indent", seg, &b)
}

// Outdent shifts every line of r left by count tab stops and returns the
// range of the shifted lines. A line gives up one stop when it starts with
// TabCharCount spaces, or fewer spaces followed by a tab.
//
// When some line is short of count stops nothing happens, unless count is
// 1 and every line starts with at least one space, in which case the
// common leading spaces go. force removes as much as each line has.
func (t *StyledText) Outdent(r index.TextRange, count int, force bool) index.TextRange {
	seg, ok := t.shiftSegment(r)
	if !ok || count <= 0 {
		return index.TextRange{}
	}
	lines := seg.lines()
	stop := t.tabCharCount

	insufficient := false
	prefix := -1
	for _, l := range lines {
		if !l.start || l.text == "\n" {
			continue
		}
		s, p := l.text, 0
		for j := 1; j <= count; j++ {
			spaces := 0
			for spaces < stop && p < len(s) && s[p] == ' ' {
				spaces++
				p++
			}
			if p >= len(s) {
				break
			}
			if j == 1 && (prefix < 0 || spaces < prefix) {
				prefix = spaces
			}
			if spaces >= stop {
				continue
			}
			if s[p] == '\t' {
				p++
				continue
			}
			if s[p] != '\n' {
				insufficient = true
			}
			break
		}
	}

	width := stop
	switch {
	case insufficient && prefix > 0 && count == 1:
		width = prefix
	case insufficient && !force:
		return index.TextRange{}
	}

	var b segmentBuilder
	removed := false
	for _, l := range lines {
		n := utf8.RuneCountInString(l.text)
		if !l.start || l.text == "\n" {
			b.add(l.text, seg.stylesOf(l, 0, n))
			continue
		}
		s, p := l.text, 0
		for j := 1; j <= count; j++ {
			spaces := 0
			for spaces < width && p < len(s) && s[p] == ' ' {
				spaces++
				p++
			}
			if p >= len(s) || spaces >= width {
				continue
			}
			if s[p] != '\t' {
				break
			}
			p++
		}
		removed = removed || p > 0
		// leading whitespace is ASCII, so p counts characters too
		b.add(s[p:], seg.stylesOf(l, p, n-p))
	}
	if !removed {
		return index.TextRange{}
	}
	return t.applyTabShift("Outdent", seg, &b)
}

// CleanWhitespace strips trailing whitespace from every line of r and
// rewrites leading whitespace for the tab policy. With alignTabs a partial
// stop is rounded: up to half a stop is dropped, more becomes a full stop.
// The whole call is one undo step. It returns the range of the rewritten
// lines.
func (t *StyledText) CleanWhitespace(r index.TextRange, alignTabs bool) index.TextRange {
	first := r.First()
	if t.IsEmpty() || first.CharIndex < 1 || first.CharIndex > t.CharCount() {
		return index.TextRange{}
	}
	t.checkRange(r)
	last := first
	if !r.IsEmpty() {
		last = index.Retreat(t.text, r.BeyondLast(), 1)
	}
	seg := t.newSegment(index.Between(
		t.GetLineStart(first),
		index.Advance(t.text, t.GetLineEnd(last), 1),
	))

	var b segmentBuilder
	for _, l := range seg.lines() {
		t.cleanLine(&b, seg, l, alignTabs)
	}
	if b.text.String() == seg.text {
		return seg.rng
	}
	return t.replace(kindPaste, "Clean whitespace", seg.rng, b.text.String(), b.runs)
}

func (t *StyledText) cleanLine(b *segmentBuilder, seg segment, l segmentLine, align bool) {
	body, nl := strings.CutSuffix(l.text, "\n")
	body = strings.TrimRight(body, " \t")
	lead := len(body) - len(strings.TrimLeft(body, " \t"))
	at := func(k int) style.Style { return seg.styles.At(l.charOff + k + 1) }

	stop := t.tabCharCount
	if t.tabInsertsSpaces {
		n := 0 // columns past the last stop
		for k := 0; k < lead; k++ {
			if body[k] == '\t' {
				b.repeat(" ", stop-n, at(k))
				n = 0
				continue
			}
			b.repeat(" ", 1, at(k))
			n = (n + 1) % stop
		}
		if align && n > 0 {
			if n <= stop/2 {
				b.trim(n)
			} else {
				b.repeat(" ", stop-n, at(lead))
			}
		}
	} else {
		pending, from := 0, 0 // spaces since the last stop and where they began
		for k := 0; k < lead; k++ {
			if body[k] == '\t' {
				b.repeat("\t", 1, at(k))
				pending = 0
				continue
			}
			if pending == 0 {
				from = k
			}
			pending++
			if pending == stop {
				b.repeat("\t", 1, at(from))
				pending = 0
			}
		}
		switch {
		case pending == 0:
		case !align:
			b.add(strings.Repeat(" ", pending), seg.stylesOf(l, from, pending))
		case pending > stop/2:
			b.repeat("\t", 1, at(from))
		}
	}

	rest := body[lead:]
	b.add(rest, seg.stylesOf(l, lead, utf8.RuneCountInString(rest)))
	if nl {
		b.add("\n", seg.stylesOf(l, utf8.RuneCountInString(l.text)-1, 1))
	}
}

// trim removes the last n single-byte characters.
func (b *segmentBuilder) trim(n int) {
	s := b.text.String()
	b.text.Reset()
	b.text.WriteString(s[:len(s)-n])

	rs := runs.FromRuns(b.runs)
	rs.Remove(rs.Len()-n+1, n)
	b.runs = rs.Runs()
}
