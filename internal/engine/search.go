package engine

import (
	"regexp"
	"strings"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/style"
)

// SearchOptions controls how a search pattern is compiled.
type SearchOptions struct {
	CaseInsensitive bool // (?i)
	SingleLine      bool // (?s): . matches newline
	Literal         bool // the pattern is plain text, not a regexp
}

// CompilePattern compiles a search pattern.
func CompilePattern(pattern string, opts SearchOptions) (*regexp.Regexp, error) {
	if opts.Literal {
		pattern = regexp.QuoteMeta(pattern)
	}
	var flags strings.Builder
	if opts.CaseInsensitive {
		flags.WriteString("i")
	}
	if opts.SingleLine {
		flags.WriteString("s")
	}
	if flags.Len() > 0 {
		pattern = "(?" + flags.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}

// Match is the result of a regexp search. The zero value is an empty match.
type Match struct {
	rng     index.TextRange
	groups  []index.TextRange // group ranges, [0] is the whole match
	subject string
	offsets []int // byte offsets into subject, as returned by regexp
	re      *regexp.Regexp
}

// IsEmpty returns true if nothing was found.
func (m Match) IsEmpty() bool {
	return m.re == nil
}

// Range returns the range of the whole match.
func (m Match) Range() index.TextRange {
	return m.rng
}

// String returns the matched text.
func (m Match) String() string {
	if m.IsEmpty() {
		return ""
	}
	return m.subject[m.offsets[0]:m.offsets[1]]
}

// SubmatchCount returns the number of capture groups.
func (m Match) SubmatchCount() int {
	if m.IsEmpty() {
		return 0
	}
	return len(m.groups) - 1
}

// Submatch returns the range of capture group i. Group 0 is the whole match.
// An unmatched group yields an empty range.
func (m Match) Submatch(i int) index.TextRange {
	if i < 0 || i >= len(m.groups) {
		return index.TextRange{}
	}
	return m.groups[i]
}

// SubmatchString returns the text of capture group i.
func (m Match) SubmatchString(i int) string {
	if i < 0 || i >= len(m.groups) || m.offsets[2*i] < 0 {
		return ""
	}
	return m.subject[m.offsets[2*i]:m.offsets[2*i+1]]
}

// Regexp returns the pattern that produced the match.
func (m Match) Regexp() *regexp.Regexp {
	return m.re
}

func newMatch(re *regexp.Regexp, subject string, offsets []int) Match {
	m := Match{subject: subject, offsets: offsets, re: re}
	m.groups = make([]index.TextRange, len(offsets)/2)
	for i := range m.groups {
		b, e := offsets[2*i], offsets[2*i+1]
		if b < 0 {
			continue
		}
		m.groups[i] = index.Between(index.FromByte(subject, b), index.FromByte(subject, e))
	}
	m.rng = m.groups[0]
	return m
}

// Interpolator expands a replacement template for a match.
type Interpolator interface {
	Interpolate(template string, m Match) string
}

// RegexInterpolator expands $1 and ${name} references with regexp.Expand.
// A numeric reference ends at the last digit, so "$1UR" is group 1
// followed by "UR".
type RegexInterpolator struct{}

// Interpolate implements Interpolator.
func (RegexInterpolator) Interpolate(template string, m Match) string {
	if m.IsEmpty() {
		return template
	}
	return string(m.re.ExpandString(nil, bracketGroupNumbers(template), m.subject, m.offsets))
}

// bracketGroupNumbers rewrites $N as ${N}.
func bracketGroupNumbers(template string) string {
	if !strings.Contains(template, "$") {
		return template
	}
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next == '$':
			b.WriteString("$$")
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			b.WriteString("${")
			b.WriteString(template[i+1 : j])
			b.WriteString("}")
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsEntireWord reports whether r covers exactly one complete word.
func (t *StyledText) IsEntireWord(r index.TextRange) bool {
	if r.IsEmpty() {
		return false
	}
	return t.isEntireWord(t.text, r.ByteRange.First-1, r.ByteRange.Last)
}

// isEntireWord checks the byte span [b, e) of s.
func (t *StyledText) isEntireWord(s string, b, e int) bool {
	if b >= e {
		return false
	}
	if before, size := index.RuneBefore(s, index.New(0, b+1)); size > 0 && t.isWordChar(before) {
		return false
	}
	if after, size := index.RuneAt(s, index.New(0, e+1)); size > 0 && t.isWordChar(after) {
		return false
	}
	for _, r := range s[b:e] {
		if !t.isWordChar(r) {
			return false
		}
	}
	return true
}

// matchFrom returns the first match of re starting at or after byte
// offset from, or nil. The rune before from is kept as context for \b.
func (t *StyledText) matchFrom(re *regexp.Regexp, from int) []int {
	if from > len(t.text) {
		return nil
	}
	ctx := from
	if _, size := index.RuneBefore(t.text, index.New(0, from+1)); size > 0 {
		ctx -= size
	}
	swallowed := false
	for _, loc := range re.FindAllStringSubmatchIndex(t.text[ctx:], 2) {
		if loc[0]+ctx >= from {
			return shift(loc, ctx)
		}
		if loc[1]+ctx > from {
			// A match in the context rune swallowed from.
			swallowed = true
			break
		}
	}
	if !swallowed {
		return nil
	}
	loc := re.FindStringSubmatchIndex(t.text[from:])
	if loc == nil {
		return nil
	}
	return shift(loc, from)
}

func shift(loc []int, by int) []int {
	for k := range loc {
		if loc[k] >= 0 {
			loc[k] += by
		}
	}
	return loc
}

// nextFrom steps past a match that began at b and ended at e.
func (t *StyledText) nextFrom(b, e int) int {
	if e > b {
		return e
	}
	if _, size := index.RuneAt(t.text, index.New(0, b+1)); size > 0 {
		return b + size
	}
	return b + 1
}

// firstMatch returns the first acceptable match starting in [from, to).
func (t *StyledText) firstMatch(re *regexp.Regexp, entireWord bool, from, to int) []int {
	for p := from; p <= len(t.text); {
		loc := t.matchFrom(re, p)
		if loc == nil || loc[0] >= to {
			return nil
		}
		if !entireWord || t.isEntireWord(t.text, loc[0], loc[1]) {
			return loc
		}
		p = t.nextFrom(loc[0], loc[1])
	}
	return nil
}

// lastMatch returns the acceptable match with the latest start that ends
// at or before byte offset limit. Overlapping matches are all considered.
func (t *StyledText) lastMatch(re *regexp.Regexp, entireWord bool, limit int) []int {
	var best []int
	for p := 0; p <= limit; {
		loc := t.matchFrom(re, p)
		if loc == nil || loc[0] > limit {
			break
		}
		if loc[1] <= limit && (!entireWord || t.isEntireWord(t.text, loc[0], loc[1])) {
			best = loc
		}
		p = t.nextFrom(loc[0], loc[0])
	}
	return best
}

// SearchForward returns the first match starting at or after start.
// With wrap set, a failed search resumes from the beginning and only
// matches starting before start are considered; wrapped reports this.
func (t *StyledText) SearchForward(start index.TextIndex, re *regexp.Regexp, entireWord, wrap bool) (m Match, wrapped bool) {
	end := len(t.text) + 1
	if start.CharIndex > t.CharCount() {
		if !wrap {
			return Match{}, false
		}
		if loc := t.firstMatch(re, entireWord, 0, end); loc != nil {
			return newMatch(re, t.text, loc), true
		}
		return Match{}, false
	}

	from := start.Offset()
	if loc := t.firstMatch(re, entireWord, from, end); loc != nil {
		return newMatch(re, t.text, loc), false
	}
	if wrap && start.CharIndex > 1 {
		if loc := t.firstMatch(re, entireWord, 0, from); loc != nil {
			return newMatch(re, t.text, loc), true
		}
	}
	return Match{}, false
}

// SearchBackward returns the last match that ends before start.
// With wrap set, a failed search resumes from the end; wrapped reports
// this. At the beginning of the buffer a wrapping search covers the whole
// text.
func (t *StyledText) SearchBackward(start index.TextIndex, re *regexp.Regexp, entireWord, wrap bool) (m Match, wrapped bool) {
	if start.CharIndex <= 1 {
		if !wrap {
			return Match{}, false
		}
		if loc := t.lastMatch(re, entireWord, len(t.text)); loc != nil {
			return newMatch(re, t.text, loc), true
		}
		return Match{}, false
	}

	limit := min(start.Offset(), len(t.text))
	if loc := t.lastMatch(re, entireWord, limit); loc != nil {
		return newMatch(re, t.text, loc), false
	}
	if wrap && start.CharIndex <= t.CharCount() {
		if loc := t.lastMatch(re, entireWord, len(t.text)); loc != nil {
			return newMatch(re, t.text, loc), true
		}
	}
	return Match{}, false
}

// runStarts returns the runs and the character index where each one starts.
func (t *StyledText) runStarts() ([]Run, []int) {
	rs := t.styles.Runs()
	starts := make([]int, len(rs))
	pos := 1
	for k, r := range rs {
		starts[k] = pos
		pos += r.Length
	}
	return rs, starts
}

// runIndexAt returns the index of the run holding charIndex, or len(rs)
// beyond the end.
func runIndexAt(rs []Run, starts []int, charIndex int) int {
	for k := range rs {
		if charIndex < starts[k]+rs[k].Length {
			return k
		}
	}
	return len(rs)
}

func (t *StyledText) runRange(rs []Run, starts []int, k int) index.TextRange {
	return t.CharToTextRange(index.Range{First: starts[k], Last: starts[k] + rs[k].Length - 1})
}

// SearchForwardStyle returns the first whole run after start whose style
// satisfies pred. A run that start falls inside is skipped.
func (t *StyledText) SearchForwardStyle(pred style.Predicate, start index.TextIndex, wrap bool) (r index.TextRange, wrapped, found bool) {
	rs, starts := t.runStarts()
	k := runIndexAt(rs, starts, start.CharIndex)
	if k < len(rs) && starts[k] < start.CharIndex {
		k++
	}
	if k >= len(rs) {
		if !wrap {
			return index.TextRange{}, false, false
		}
		k = 0
		wrapped = true
	}

	for ; k < len(rs); k++ {
		if pred(rs[k].Value) {
			return t.runRange(rs, starts, k), wrapped, true
		}
	}
	if !wrap || wrapped {
		return index.TextRange{}, wrapped, false
	}

	for k = 0; k < len(rs) && starts[k] < start.CharIndex; k++ {
		if pred(rs[k].Value) {
			return t.runRange(rs, starts, k), true, true
		}
	}
	return index.TextRange{}, true, false
}

// SearchBackwardStyle returns the last whole run before start whose style
// satisfies pred. The run holding start is skipped.
func (t *StyledText) SearchBackwardStyle(pred style.Predicate, start index.TextIndex, wrap bool) (r index.TextRange, wrapped, found bool) {
	rs, starts := t.runStarts()
	pivot := runIndexAt(rs, starts, start.CharIndex)
	k := pivot
	if k == 0 {
		if !wrap {
			return index.TextRange{}, false, false
		}
		k = len(rs)
		wrapped = true
	}

	for k--; k >= 0; k-- {
		if pred(rs[k].Value) {
			return t.runRange(rs, starts, k), wrapped, true
		}
	}
	if !wrap || wrapped {
		return index.TextRange{}, wrapped, false
	}

	for k = len(rs) - 1; k >= pivot; k-- {
		if pred(rs[k].Value) {
			return t.runRange(rs, starts, k), true, true
		}
	}
	return index.TextRange{}, true, false
}
