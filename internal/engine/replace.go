package engine

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/styledtext/internal/engine/index"
	"github.com/dshills/styledtext/internal/engine/runs"
	"github.com/dshills/styledtext/internal/engine/style"
)

// ReplaceMatch replaces m with the expanded template and returns the size
// of the replacement. A nil interpolator means RegexInterpolator.
// With preserveCase, the replacement copies the case of the matched text.
func (t *StyledText) ReplaceMatch(m Match, template string, interp Interpolator, preserveCase bool) index.TextCount {
	if m.IsEmpty() {
		return index.TextCount{}
	}
	repl := prepareReplacement(m, template, interp, preserveCase)
	return t.Paste(m.Range(), repl, nil).Count()
}

func prepareReplacement(m Match, template string, interp Interpolator, preserveCase bool) string {
	if interp == nil {
		interp = RegexInterpolator{}
	}
	repl := interp.Interpolate(template, m)
	if preserveCase {
		repl = MatchCase(repl, m.String())
	}
	return repl
}

// ReplaceAllInRange replaces every match of re inside r and returns the
// range of the result. All replacements form one undo step. When nothing
// matches, the result is empty and the buffer is left alone.
func (t *StyledText) ReplaceAllInRange(r index.TextRange, re *regexp.Regexp, entireWord bool, template string, interp Interpolator, preserveCase bool) (index.TextRange, error) {
	if r.IsEmpty() {
		return index.TextRange{}, nil
	}
	if end := r.BeyondLast(); r.CharRange.First < 1 || end.CharIndex > t.CharCount()+1 || end.ByteIndex > len(t.text)+1 {
		return index.TextRange{}, fmt.Errorf("%w: replace in %s beyond %s", ErrInvalidRange, r, t.GetBeyondEnd())
	}

	sub := index.Slice(t.text, r)
	subStyles := runs.FromRuns(t.stylesIn(r))

	var (
		b       strings.Builder
		rs      []Run
		last    style.Style
		prev    int // end of the previous match in sub
		charPos = 1 // index in subStyles of sub[prev]
		changed bool
	)
	keep := func(s string) {
		if s == "" {
			return
		}
		n := utf8.RuneCountInString(s)
		kept := subStyles.Slice(charPos, n)
		b.WriteString(s)
		rs = append(rs, kept...)
		last = kept[len(kept)-1].Value
		charPos += n
	}

	for _, offs := range re.FindAllStringSubmatchIndex(sub, -1) {
		if entireWord && !t.isEntireWord(sub, offs[0], offs[1]) {
			continue
		}
		keep(sub[prev:offs[0]])

		// insertion style: the character before, or the match itself at a
		// line start
		st := last
		if b.Len() == 0 || strings.HasSuffix(b.String(), "\n") {
			switch {
			case charPos <= subStyles.Len():
				st = subStyles.At(charPos)
			case b.Len() == 0:
				st = t.CalcInsertionFont(r.First())
			}
		}

		m := newMatch(re, sub, offs)
		repl := prepareReplacement(m, template, interp, preserveCase)
		if n := utf8.RuneCountInString(repl); n > 0 {
			b.WriteString(repl)
			rs = append(rs, runs.Fill(st, n)...)
			last = st
		}
		charPos += utf8.RuneCountInString(sub[offs[0]:offs[1]])
		prev = offs[1]
		changed = true
	}
	if !changed {
		return index.TextRange{}, nil
	}
	keep(sub[prev:])

	newRuns := runs.FromRuns(rs)
	clean, _ := cleanText(b.String(), newRuns)
	return t.replace(kindPaste, "Replace all", r, clean, newRuns.Runs()), nil
}

// MatchCase adjusts the case of repl to follow source. When both have the
// same number of characters, case is copied character by character.
// Otherwise the first character follows the first character of source,
// and the rest follows the rest of source if its letters share one case.
func MatchCase(repl, source string) string {
	src, dst := []rune(source), []rune(repl)
	if len(src) == 0 || len(dst) == 0 {
		return repl
	}
	if len(src) == len(dst) {
		for i, c := range src {
			dst[i] = caseLike(c, dst[i])
		}
		return string(dst)
	}

	head := string(caseLike(src[0], dst[0]))
	rest := string(dst[1:])
	switch letterCase(src[1:]) {
	case unicode.UpperCase:
		rest = cases.Upper(language.Und).String(rest)
	case unicode.LowerCase:
		rest = cases.Lower(language.Und).String(rest)
	}
	return head + rest
}

func caseLike(model, c rune) rune {
	switch {
	case unicode.IsUpper(model):
		return unicode.ToUpper(c)
	case unicode.IsLower(model):
		return unicode.ToLower(c)
	}
	return c
}

// letterCase returns unicode.UpperCase or unicode.LowerCase when every
// letter in rs has that case, and -1 otherwise.
func letterCase(rs []rune) int {
	upper, lower := false, false
	for _, c := range rs {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		}
	}
	switch {
	case upper && !lower:
		return unicode.UpperCase
	case lower && !upper:
		return unicode.LowerCase
	}
	return -1
}
