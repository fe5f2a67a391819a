package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/styledtext/internal/engine/index"
)

// Kind identifies a notification.
type Kind uint8

const (
	// TextSet is sent after the whole content was replaced.
	TextSet Kind = iota + 1
	// WillBeBusy is sent before a bulk load that may take a while.
	WillBeBusy
	// TextChanged is sent once per logical edit.
	TextChanged
	// UndoFinished is sent after Undo or Redo completed.
	UndoFinished
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case TextSet:
		return "TextSet"
	case WillBeBusy:
		return "WillBeBusy"
	case TextChanged:
		return "TextChanged"
	case UndoFinished:
		return "UndoFinished"
	default:
		return "Unknown"
	}
}

// Change describes the effect of one edit.
type Change struct {
	// Range is the text that now stands where the edit happened.
	// It is an empty range anchored at the edit point for deletions.
	Range index.TextRange

	// RedrawRange is additional text restyled by the style adjuster.
	// It is empty unless the adjuster widened the affected span.
	RedrawRange index.TextRange

	// CharDelta and ByteDelta give the change in buffer size.
	CharDelta int
	ByteDelta int
}

// Message is a notification sent to subscribers.
type Message struct {
	Kind      Kind
	Source    uuid.UUID // ID of the buffer that sent the message
	Timestamp time.Time

	// Change is set for TextChanged. For UndoFinished only Range is set.
	Change Change
}

type subscriber struct {
	id int
	fn func(Message)
}

// Subscribe registers fn for every notification. The returned function
// removes the subscription.
func (t *StyledText) Subscribe(fn func(Message)) (unsubscribe func()) {
	t.nextSubscriber++
	id := t.nextSubscriber
	t.subscribers = append(t.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range t.subscribers {
			if s.id == id {
				t.subscribers = append(t.subscribers[:i:i], t.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (t *StyledText) broadcast(m Message) {
	m.Source = t.id
	m.Timestamp = time.Now()
	// Subscribers may unsubscribe while being notified.
	subs := append([]subscriber(nil), t.subscribers...)
	for _, s := range subs {
		s.fn(m)
	}
}

// broadcastTextChanged runs the style adjuster over r and sends TextChanged.
func (t *StyledText) broadcastTextChanged(r index.TextRange, delta index.TextCount, deletion bool) {
	recalc, redraw := r, r
	if t.adjuster != nil && t.styles.Len() > 0 {
		t.adjuster(t.text, t.styles, &recalc, &redraw, deletion)
	}
	if redraw.IsEmpty() || recalc.CharRange.ContainsRange(redraw.CharRange) {
		redraw = index.TextRange{}
	}
	t.lastChange = recalc
	t.broadcast(Message{
		Kind: TextChanged,
		Change: Change{
			Range:       recalc,
			RedrawRange: redraw,
			CharDelta:   delta.CharCount,
			ByteDelta:   delta.ByteCount,
		},
	})
}
