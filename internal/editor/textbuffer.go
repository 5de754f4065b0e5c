package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JackWReid/fieldpad/internal/keys"
)

// ErrValueTooLarge is returned when a value does not fit the buffer grid.
var ErrValueTooLarge = errors.New("value does not fit the editor")

// Outcome reports what applying one event did to a modal editor.
type Outcome int

const (
	Applied   Outcome = iota // State changed (or a no-op); keep editing
	Rejected                 // Refused; state unchanged, ring the bell
	Accepted                 // Editing finished; commit the result
	Cancelled                // Editing abandoned; keep the original value
)

// TextBuffer is a fixed grid of maxLines lines, none longer than maxColumns
// runes, with a cursor that always sits within the current line.
type TextBuffer struct {
	lines      [][]rune
	line       int
	col        int
	maxLines   int
	maxColumns int
	tabWidth   int
	original   string
}

// NewTextBuffer splits value on line breaks into a grid. Lines wider than
// maxColumns are wrapped; if the result needs more than maxLines lines the
// value is refused rather than truncated.
func NewTextBuffer(value string, maxLines, maxColumns, tabWidth int) (*TextBuffer, error) {
	b := &TextBuffer{
		lines:      make([][]rune, maxLines),
		maxLines:   maxLines,
		maxColumns: maxColumns,
		tabWidth:   tabWidth,
		original:   value,
	}
	if value == "" {
		return b, nil
	}

	n := 0
	for _, text := range strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n") {
		runes := []rune(text)
		for {
			if n >= maxLines {
				return nil, fmt.Errorf("%w: more than %d lines of %d columns", ErrValueTooLarge, maxLines, maxColumns)
			}
			chunk := runes
			if len(chunk) > maxColumns {
				chunk = runes[:maxColumns]
			}
			b.lines[n] = append([]rune(nil), chunk...)
			n++
			runes = runes[len(chunk):]
			if len(runes) == 0 {
				break
			}
		}
	}
	return b, nil
}

// Cursor returns the 0-based line and column.
func (b *TextBuffer) Cursor() (line, col int) { return b.line, b.col }

// Lines returns the grid contents, including empty lines.
func (b *TextBuffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// Capacity returns maxLines and maxColumns.
func (b *TextBuffer) Capacity() (lines, columns int) { return b.maxLines, b.maxColumns }

// Apply runs one key event against the buffer.
func (b *TextBuffer) Apply(ev keys.Event) Outcome {
	var ok bool
	switch ev.Op {
	case keys.OpUp:
		ok = b.Up()
	case keys.OpDown:
		ok = b.Down()
	case keys.OpLeft:
		ok = b.Left()
	case keys.OpRight:
		ok = b.Right()
	case keys.OpInsert:
		ok = b.Insert(ev.Rune)
	case keys.OpEnter:
		ok = b.Enter()
	case keys.OpDelete:
		ok = b.Delete()
	case keys.OpAccept:
		return Accepted
	case keys.OpExit:
		return Cancelled
	default:
		return Rejected
	}
	if !ok {
		return Rejected
	}
	return Applied
}

func (b *TextBuffer) Up() bool {
	if b.line == 0 {
		return false
	}
	b.line--
	b.clampCol()
	return true
}

// Down only moves onto a line that already has content.
func (b *TextBuffer) Down() bool {
	if b.line+1 >= b.maxLines || len(b.lines[b.line+1]) == 0 {
		return false
	}
	b.line++
	b.clampCol()
	return true
}

func (b *TextBuffer) Left() bool {
	if b.col == 0 {
		return false
	}
	b.col--
	return true
}

func (b *TextBuffer) Right() bool {
	if b.col >= len(b.lines[b.line]) {
		return false
	}
	b.col++
	return true
}

// Enter moves to the start of the next line without splitting the current one.
func (b *TextBuffer) Enter() bool {
	if b.line+1 >= b.maxLines {
		return false
	}
	b.line++
	b.col = 0
	return true
}

// Insert splices r at the cursor. A full line wraps the insertion to the
// start of the next line with room. Tabs expand to tabWidth spaces and are
// inserted whole or not at all.
func (b *TextBuffer) Insert(r rune) bool {
	if r != '\t' {
		return b.insertRune(r)
	}
	saved := b.snapshot()
	for i := 0; i < b.tabWidth; i++ {
		if !b.insertRune(' ') {
			b.restore(saved)
			return false
		}
	}
	return true
}

func (b *TextBuffer) insertRune(r rune) bool {
	line, col := b.line, b.col
	for {
		cur := b.lines[line]
		if col < b.maxColumns-1 && len(cur) < b.maxColumns {
			next := make([]rune, 0, len(cur)+1)
			next = append(next, cur[:col]...)
			next = append(next, r)
			next = append(next, cur[col:]...)
			b.lines[line] = next
			b.line, b.col = line, col+1
			return true
		}
		if line+1 >= b.maxLines {
			return false
		}
		line++
		col = 0
	}
}

// Delete removes the rune left of the cursor. At column 0 it merges the
// current line onto the end of the previous one, but only when the result
// fits in maxColumns; the vacated line is left empty.
func (b *TextBuffer) Delete() bool {
	cur := b.lines[b.line]
	if b.col > 0 {
		b.lines[b.line] = append(cur[:b.col-1:b.col-1], cur[b.col:]...)
		b.col--
		return true
	}
	if b.line == 0 {
		return false
	}
	prev := b.lines[b.line-1]
	if len(prev)+len(cur) > b.maxColumns {
		return false
	}
	b.lines[b.line-1] = append(prev[:len(prev):len(prev)], cur...)
	b.lines[b.line] = nil
	b.line--
	b.col = len(prev)
	return true
}

// Accept returns the non-empty lines joined by newlines. Empty lines are
// dropped wherever they occur.
func (b *TextBuffer) Accept() string {
	var out []string
	for _, l := range b.lines {
		if len(l) > 0 {
			out = append(out, string(l))
		}
	}
	return strings.Join(out, "\n")
}

// Cancel returns the value the buffer was opened with.
func (b *TextBuffer) Cancel() string { return b.original }

func (b *TextBuffer) clampCol() {
	if n := len(b.lines[b.line]); b.col > n {
		b.col = n
	}
}

type bufferState struct {
	lines     [][]rune
	line, col int
}

func (b *TextBuffer) snapshot() bufferState {
	lines := make([][]rune, len(b.lines))
	for i, l := range b.lines {
		lines[i] = append([]rune(nil), l...)
	}
	return bufferState{lines: lines, line: b.line, col: b.col}
}

func (b *TextBuffer) restore(s bufferState) {
	b.lines, b.line, b.col = s.lines, s.line, s.col
}
