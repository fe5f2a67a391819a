// Package view draws a styled text buffer on a terminal screen.
//
// The Pager is read-only: it scrolls through the buffer and redraws when
// the buffer reports a change. Font names and sizes have no terminal
// equivalent; bold, italic, underline, strike and color are shown.
package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/styledtext/internal/engine"
)

// Pager shows a buffer on a tcell screen.
type Pager struct {
	screen tcell.Screen
	doc    *engine.StyledText
	title  string

	top   int    // first visible line, 0-based
	lines []line // layout of the buffer, rebuilt on change
	stale bool

	unsubscribe func()
}

// line is one newline-separated line of the buffer.
type line struct {
	text  string
	first int // 1-based character index of the first character
}

// New creates a pager showing doc on screen. The screen must already be
// initialized. title is shown in the status line.
func New(screen tcell.Screen, doc *engine.StyledText, title string) *Pager {
	p := &Pager{
		screen: screen,
		doc:    doc,
		title:  title,
		stale:  true,
	}
	p.unsubscribe = doc.Subscribe(func(m engine.Message) {
		if m.Kind != engine.WillBeBusy {
			p.stale = true
		}
	})
	return p
}

// Close stops listening to the buffer.
func (p *Pager) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

// Top returns the first visible line, counting from 0.
func (p *Pager) Top() int {
	return p.top
}

// LineCount returns the number of lines in the buffer. An empty buffer
// and a buffer ending in a newline both have an empty last line.
func (p *Pager) LineCount() int {
	p.layout()
	return len(p.lines)
}

func (p *Pager) layout() {
	if !p.stale {
		return
	}
	p.lines = p.lines[:0]
	first := 1
	for _, s := range strings.Split(p.doc.Text(), "\n") {
		p.lines = append(p.lines, line{text: s, first: first})
		first += len([]rune(s)) + 1
	}
	p.stale = false
	p.clampTop()
}

// pageHeight is the number of text rows; the last row is the status line.
func (p *Pager) pageHeight() int {
	_, h := p.screen.Size()
	if h <= 1 {
		return 1
	}
	return h - 1
}

func (p *Pager) clampTop() {
	maxTop := len(p.lines) - p.pageHeight()
	if p.top > maxTop {
		p.top = maxTop
	}
	if p.top < 0 {
		p.top = 0
	}
}

// Scroll moves the view by n lines, down for positive n.
func (p *Pager) Scroll(n int) {
	p.layout()
	p.top += n
	p.clampTop()
}

// Draw renders the visible lines and the status line.
func (p *Pager) Draw() {
	p.layout()
	p.screen.Clear()

	height := p.pageHeight()
	for row := 0; row < height && p.top+row < len(p.lines); row++ {
		p.drawLine(row, p.lines[p.top+row])
	}
	p.drawStatus(height)
	p.screen.Show()
}

func (p *Pager) drawLine(y int, ln line) {
	width, _ := p.screen.Size()
	tab := p.doc.TabCharCount()
	c := ln.first
	x := 0

	g := uniseg.NewGraphemes(ln.text)
	for g.Next() && x < width {
		rs := g.Runes()
		st := p.doc.StyleAt(c).Terminal()
		c += len(rs)

		if rs[0] == '\t' {
			next := (x/tab + 1) * tab
			for ; x < next && x < width; x++ {
				p.screen.SetContent(x, y, ' ', nil, st)
			}
			continue
		}

		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		p.screen.SetContent(x, y, rs[0], rs[1:], st)
		x += w
	}
}

func (p *Pager) drawStatus(y int) {
	width, _ := p.screen.Size()
	st := tcell.StyleDefault.Reverse(true)

	last := p.top + p.pageHeight()
	if last > len(p.lines) {
		last = len(p.lines)
	}
	status := fmt.Sprintf(" %s  %d-%d/%d  %d chars", p.title, p.top+1, last, len(p.lines), p.doc.CharCount())

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		p.screen.SetContent(x, y, r, nil, st)
		x += uniseg.StringWidth(string(r))
	}
	for ; x < width; x++ {
		p.screen.SetContent(x, y, ' ', nil, st)
	}
}

// HandleKey applies a key event and reports whether the pager should quit.
func (p *Pager) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		p.Scroll(-1)
	case tcell.KeyDown, tcell.KeyEnter:
		p.Scroll(1)
	case tcell.KeyPgUp:
		p.Scroll(-p.pageHeight())
	case tcell.KeyPgDn:
		p.Scroll(p.pageHeight())
	case tcell.KeyHome:
		p.Scroll(-p.LineCount())
	case tcell.KeyEnd:
		p.Scroll(p.LineCount())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			p.Scroll(-1)
		case 'j':
			p.Scroll(1)
		case ' ':
			p.Scroll(p.pageHeight())
		case 'b':
			p.Scroll(-p.pageHeight())
		case 'g':
			p.Scroll(-p.LineCount())
		case 'G':
			p.Scroll(p.LineCount())
		}
	}
	return false
}

// Post runs fn on the event loop and redraws. It is safe to call from any
// goroutine, e.g. a file watcher reloading the buffer.
func (p *Pager) Post(fn func()) error {
	return p.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run draws the buffer and handles events until the user quits or ctx is
// done.
func (p *Pager) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = p.Post(nil)
	})
	defer stop()

	p.Draw()
	for {
		if ctx.Err() != nil {
			return nil
		}
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			p.screen.Sync()
			p.clampTop()
		case *tcell.EventKey:
			if p.HandleKey(ev) {
				return nil
			}
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok && fn != nil {
				fn()
			}
		}
		p.Draw()
	}
}
