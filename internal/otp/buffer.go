// Package otp implements the one-time-code entry buffer and the resend
// cooldown as explicit state machines. The transitions are pure; thin
// adapters map real key events and timer ticks onto them.
package otp

import (
	"strings"
)

const DefaultLength = 5

// Event describes the outcome of a buffer transition: where focus should
// move, and whether the code is complete.
type Event struct {
	// Focus is the cell index that should hold focus after the transition
	Focus int

	// Done is set when the transition filled the last empty cell
	Done bool

	// Code carries the concatenated digits when Done is set
	Code string
}

// Buffer is a fixed-width sequence of single-digit cells. The zero rune
// marks an empty cell.
type Buffer struct {
	cells []rune
	focus int
}

func NewBuffer(length int) *Buffer {
	if length <= 0 {
		length = DefaultLength
	}
	return &Buffer{cells: make([]rune, length)}
}

func (b *Buffer) Len() int { return len(b.cells) }

// Focus returns the index of the currently focused cell.
func (b *Buffer) Focus() int { return b.focus }

// Code returns the concatenation of all non-empty cells in index order.
func (b *Buffer) Code() string {
	var sb strings.Builder
	for _, c := range b.cells {
		if c != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// Complete reports whether every cell holds a digit.
func (b *Buffer) Complete() bool {
	for _, c := range b.cells {
		if c == 0 {
			return false
		}
	}
	return true
}

// Digit writes ch at index. Non-digit input is rejected with no state
// change. On accept, focus advances to the next cell; filling the last
// empty cell completes the code.
func (b *Buffer) Digit(index int, ch rune) Event {
	if index < 0 || index >= len(b.cells) || !isDigit(ch) {
		return Event{Focus: b.focus}
	}

	b.cells[index] = ch
	if index < len(b.cells)-1 {
		b.focus = index + 1
	} else {
		b.focus = index
	}

	return b.event()
}

// Backspace clears a cell. A non-empty cell is cleared in place, focus
// unchanged. An already-empty cell (other than the first) clears the
// previous cell instead and moves focus onto it.
func (b *Buffer) Backspace(index int) Event {
	if index < 0 || index >= len(b.cells) {
		return Event{Focus: b.focus}
	}

	switch {
	case b.cells[index] != 0:
		b.cells[index] = 0
		b.focus = index
	case index > 0:
		b.cells[index-1] = 0
		b.focus = index - 1
	}

	return Event{Focus: b.focus}
}

// Paste overwrites the buffer from text. An empty paste, or a single
// non-digit anywhere in the pasted text, makes it a no-op. A short paste leaves
// trailing cells empty; extra digits beyond the buffer width are dropped.
func (b *Buffer) Paste(text string) Event {
	chars := []rune(text)
	if len(chars) == 0 {
		return Event{Focus: b.focus}
	}
	for _, ch := range chars {
		if !isDigit(ch) {
			return Event{Focus: b.focus}
		}
	}
	if len(chars) > len(b.cells) {
		chars = chars[:len(b.cells)]
	}

	for i := range b.cells {
		if i < len(chars) {
			b.cells[i] = chars[i]
		} else {
			b.cells[i] = 0
		}
	}
	b.focus = min(len(chars), len(b.cells)-1)

	return b.event()
}

// SetValue re-derives every cell from an externally supplied string,
// padding missing positions with empty cells. Non-digit characters leave
// their cell empty.
func (b *Buffer) SetValue(value string) {
	chars := []rune(value)
	for i := range b.cells {
		if i < len(chars) && isDigit(chars[i]) {
			b.cells[i] = chars[i]
		} else {
			b.cells[i] = 0
		}
	}
	b.focus = 0
}

// Reset empties every cell, e.g. when a new code is requested.
func (b *Buffer) Reset() {
	for i := range b.cells {
		b.cells[i] = 0
	}
	b.focus = 0
}

func (b *Buffer) event() Event {
	e := Event{Focus: b.focus}
	if b.Complete() {
		e.Done = true
		e.Code = b.Code()
	}
	return e
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
