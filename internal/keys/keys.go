package keys

import (
	"time"
	"unicode/utf8"
)

// Operation is a logical editor command produced from raw input.
type Operation int

const (
	OpNone Operation = iota
	OpUp
	OpDown
	OpLeft
	OpRight
	OpEdit   // Navigator: edit the selected field
	OpSave   // Navigator: save the record
	OpExit   // Escape: leave the current mode without committing
	OpEnter  // Text buffer: move to the next line
	OpDelete // Backspace
	OpAccept // Text buffer: commit the buffer
	OpInsert // Printable character, carried in Event.Rune
)

func (o Operation) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpUp:
		return "up"
	case OpDown:
		return "down"
	case OpLeft:
		return "left"
	case OpRight:
		return "right"
	case OpEdit:
		return "edit"
	case OpSave:
		return "save"
	case OpExit:
		return "exit"
	case OpEnter:
		return "enter"
	case OpDelete:
		return "delete"
	case OpAccept:
		return "accept"
	case OpInsert:
		return "insert"
	}
	return "unknown"
}

// Event is one dispatched key event.
type Event struct {
	Op      Operation
	Rune    rune   // Set for OpInsert
	Unbound bool   // No binding matched; Op is OpNone
	Seq     []byte // Raw bytes consumed
}

// ByteSource delivers raw input one byte at a time. A timeout <= 0 blocks.
// ok is false when the timeout elapsed before a byte arrived.
type ByteSource interface {
	ReadByteTimeout(timeout time.Duration) (b byte, ok bool, err error)
}

// Reader turns raw bytes into Events using longest-match lookup against a
// binding table. Bytes read past the end of a match are kept for the next call.
type Reader struct {
	src     ByteSource
	pending []byte
}

func NewReader(src ByteSource) *Reader {
	return &Reader{src: src}
}

// Next blocks until a binding in t is recognised. When a complete binding is
// also the prefix of a longer one (a lone ESC versus an arrow key), Next waits
// up to timeout for more input before firing the shorter binding.
func (r *Reader) Next(t *Table, timeout time.Duration) (Event, error) {
	var seq []byte
	var best Event
	bestLen := 0

	for {
		b, ok, err := r.next(len(seq) > 0, timeout)
		if err != nil {
			return Event{}, err
		}
		if !ok {
			return r.settle(seq, best, bestLen), nil
		}

		if len(seq) == 0 && b >= 0xC0 && t.utf8Op != OpNone {
			return r.readRune(t, b, timeout)
		}

		seq = append(seq, b)
		op, exact, prefix := t.lookup(seq)
		if exact {
			best = Event{Op: op, Seq: append([]byte(nil), seq...)}
			if len(seq) == 1 {
				best.Rune = rune(seq[0])
			}
			bestLen = len(seq)
		}
		if prefix {
			continue
		}
		if bestLen == len(seq) {
			return best, nil
		}
		if len(seq) > 1 && seq[0] == 0x1b && (seq[1] == '[' || seq[1] == 'O') {
			return r.drainEscape(seq, timeout)
		}
		return r.settle(seq, best, bestLen), nil
	}
}

func (r *Reader) next(inSequence bool, timeout time.Duration) (byte, bool, error) {
	if len(r.pending) > 0 {
		b := r.pending[0]
		r.pending = r.pending[1:]
		return b, true, nil
	}
	if !inSequence {
		timeout = 0
	}
	return r.src.ReadByteTimeout(timeout)
}

// settle resolves a sequence that stopped matching: the longest complete
// binding fires and any bytes after it are pushed back.
func (r *Reader) settle(seq []byte, best Event, bestLen int) Event {
	if bestLen > 0 {
		rest := append([]byte(nil), seq[bestLen:]...)
		r.pending = append(rest, r.pending...)
		return best
	}
	return Event{Unbound: true, Seq: seq}
}

// drainEscape consumes the rest of an unrecognised CSI/SS3 sequence so its
// trailing bytes are not misread as separate keys.
func (r *Reader) drainEscape(seq []byte, timeout time.Duration) (Event, error) {
	for len(seq) < 3 || !isFinalByte(seq[len(seq)-1]) {
		b, ok, err := r.next(true, timeout)
		if err != nil {
			return Event{}, err
		}
		if !ok {
			break
		}
		seq = append(seq, b)
	}
	return Event{Unbound: true, Seq: seq}, nil
}

func (r *Reader) readRune(t *Table, lead byte, timeout time.Duration) (Event, error) {
	seq := []byte{lead}
	want := 2
	switch {
	case lead >= 0xF0:
		want = 4
	case lead >= 0xE0:
		want = 3
	}
	for len(seq) < want {
		b, ok, err := r.next(true, timeout)
		if err != nil {
			return Event{}, err
		}
		if !ok {
			return Event{Unbound: true, Seq: seq}, nil
		}
		seq = append(seq, b)
	}
	ch, size := utf8.DecodeRune(seq)
	if ch == utf8.RuneError && size <= 1 {
		return Event{Unbound: true, Seq: seq}, nil
	}
	return Event{Op: t.utf8Op, Rune: ch, Seq: seq}, nil
}

func isFinalByte(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}
