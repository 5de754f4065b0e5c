package keys

import "bytes"

// Binding maps a literal byte sequence to an Operation.
type Binding struct {
	Seq []byte
	Op  Operation
}

type byteRange struct {
	lo, hi byte
	op     Operation
}

// Table is a per-mode set of bindings. Literal bindings win over ranges.
type Table struct {
	Name     string
	bindings []Binding
	ranges   []byteRange
	utf8Op   Operation
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// Bind adds a literal sequence.
func (t *Table) Bind(seq string, op Operation) *Table {
	t.bindings = append(t.bindings, Binding{Seq: []byte(seq), Op: op})
	return t
}

// BindRange binds every single byte in [lo, hi].
func (t *Table) BindRange(lo, hi byte, op Operation) *Table {
	t.ranges = append(t.ranges, byteRange{lo: lo, hi: hi, op: op})
	return t
}

// BindUTF8 binds multi-byte UTF-8 characters; the decoded rune is reported
// in Event.Rune.
func (t *Table) BindUTF8(op Operation) *Table {
	t.utf8Op = op
	return t
}

// lookup reports the operation bound to seq (if exact) and whether seq is a
// proper prefix of a longer binding.
func (t *Table) lookup(seq []byte) (op Operation, exact bool, prefix bool) {
	for _, b := range t.bindings {
		switch {
		case bytes.Equal(b.Seq, seq):
			op, exact = b.Op, true
		case len(b.Seq) > len(seq) && bytes.HasPrefix(b.Seq, seq):
			prefix = true
		}
	}
	if !exact && len(seq) == 1 {
		for _, r := range t.ranges {
			if seq[0] >= r.lo && seq[0] <= r.hi {
				op, exact = r.op, true
				break
			}
		}
	}
	return op, exact, prefix
}

func bindArrows(t *Table, up, down, left, right Operation) *Table {
	for _, intro := range []string{"\x1b[", "\x1bO"} {
		if up != OpNone {
			t.Bind(intro+"A", up)
		}
		if down != OpNone {
			t.Bind(intro+"B", down)
		}
		if right != OpNone {
			t.Bind(intro+"C", right)
		}
		if left != OpNone {
			t.Bind(intro+"D", left)
		}
	}
	return t
}

// Control bytes used by the default tables.
const (
	ctrlC     = "\x03"
	ctrlD     = "\x04"
	ctrlS     = "\x13"
	escape    = "\x1b"
	enter     = "\r"
	newline   = "\n"
	tab       = "\t"
	backspace = "\x7f"
	ctrlH     = "\x08"
)

// NavigatorTable binds the field navigator: arrows or k/j move, Enter edits,
// Ctrl-S saves, Escape or Ctrl-C exits.
func NavigatorTable() *Table {
	t := NewTable("navigator")
	bindArrows(t, OpUp, OpDown, OpNone, OpNone)
	return t.
		Bind("k", OpUp).
		Bind("j", OpDown).
		Bind(enter, OpEdit).
		Bind(newline, OpEdit).
		Bind(ctrlS, OpSave).
		Bind(escape, OpExit).
		Bind(ctrlC, OpExit)
}

// TextBufferTable binds the multi-line editor. Ctrl-D accepts the buffer.
func TextBufferTable() *Table {
	t := NewTable("textbuffer")
	bindArrows(t, OpUp, OpDown, OpLeft, OpRight)
	return t.
		Bind(enter, OpEnter).
		Bind(newline, OpEnter).
		Bind(backspace, OpDelete).
		Bind(ctrlH, OpDelete).
		Bind(ctrlD, OpAccept).
		Bind(escape, OpExit).
		Bind(ctrlC, OpExit).
		Bind(tab, OpInsert).
		BindRange(0x20, 0x7e, OpInsert).
		BindUTF8(OpInsert)
}

// LineInputTable binds single-line field editing. Enter commits.
func LineInputTable() *Table {
	t := NewTable("lineinput")
	bindArrows(t, OpNone, OpNone, OpLeft, OpRight)
	return t.
		Bind(enter, OpEnter).
		Bind(newline, OpEnter).
		Bind(backspace, OpDelete).
		Bind(ctrlH, OpDelete).
		Bind(escape, OpExit).
		Bind(ctrlC, OpExit).
		BindRange(0x20, 0x7e, OpInsert).
		BindUTF8(OpInsert)
}

// AnyKeyTable accepts any single key, used to acknowledge a message.
func AnyKeyTable() *Table {
	t := NewTable("anykey")
	bindArrows(t, OpAccept, OpAccept, OpAccept, OpAccept)
	return t.
		BindRange(0x00, 0xff, OpAccept).
		BindUTF8(OpAccept)
}
