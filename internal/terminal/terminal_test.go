package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/xo/terminfo"

	"github.com/JackWReid/fieldpad/internal/keys"
)

func newPipeTerminal(t *testing.T) (*Terminal, *os.File, *bytes.Buffer) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	out := &bytes.Buffer{}
	term := newTerminal(r, int(r.Fd()), out, -1, ANSI)
	term.getSize = func() (int, int, error) { return 80, 24, nil }
	if err := term.querySize(); err != nil {
		t.Fatal(err)
	}
	return term, w, out
}

func TestMoveToIsOneBased(t *testing.T) {
	if got := ANSI.MoveTo(1, 1); got != "\x1b[1;1H" {
		t.Errorf("MoveTo(1,1) = %q", got)
	}
	if got := ANSI.MoveTo(12, 40); got != "\x1b[12;40H" {
		t.Errorf("MoveTo(12,40) = %q", got)
	}
}

func TestCapsFromTerminfo(t *testing.T) {
	ti := &terminfo.Terminfo{
		Strings: map[int][]byte{
			terminfo.CursorInvisible: []byte("\x1b[?25l"),
			terminfo.CursorNormal:    []byte("\x1b[?12l\x1b[?25h"),
			terminfo.ClearScreen:     []byte("\x1b[H\x1b[2J$<50>"),
			terminfo.Bell:            []byte("\x07"),
		},
	}
	c := capsFrom(ti)
	if c.ShowCursor != "\x1b[?12l\x1b[?25h" {
		t.Errorf("ShowCursor = %q", c.ShowCursor)
	}
	if c.Clear != "\x1b[H\x1b[2J" {
		t.Errorf("Clear should have padding stripped, got %q", c.Clear)
	}
	// Missing entries fall back to ANSI.
	if c.SaveCursor != ANSI.SaveCursor {
		t.Errorf("SaveCursor = %q, want fallback", c.SaveCursor)
	}
	if c.EnterAltScreen != ANSI.EnterAltScreen {
		t.Errorf("EnterAltScreen = %q, want fallback", c.EnterAltScreen)
	}
}

func TestReadByteTimeout(t *testing.T) {
	term, _, _ := newPipeTerminal(t)
	start := time.Now()
	_, ok, err := term.ReadByteTimeout(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected timeout")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("returned before the timeout elapsed")
	}
}

func TestReadEventFromPipe(t *testing.T) {
	term, w, _ := newPipeTerminal(t)
	w.Write([]byte("\x1b[Bk"))

	ev, err := term.ReadEvent(keys.NavigatorTable(), 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Op != keys.OpDown {
		t.Errorf("expected down, got %s", ev.Op)
	}
	ev, err = term.ReadEvent(keys.NavigatorTable(), 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Op != keys.OpUp {
		t.Errorf("expected up, got %s", ev.Op)
	}
}

func TestReadByteEOF(t *testing.T) {
	term, w, _ := newPipeTerminal(t)
	w.Close()
	_, _, err := term.ReadByteTimeout(0)
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestResizeCallbackRunsBetweenReads(t *testing.T) {
	term, w, _ := newPipeTerminal(t)
	calls := 0
	term.OnResize(func() { calls++ })

	term.getSize = func() (int, int, error) { return 100, 30, nil }
	term.sigwinch <- syscall.SIGWINCH
	w.Write([]byte("x"))

	b, ok, err := term.ReadByteTimeout(0)
	if err != nil || !ok || b != 'x' {
		t.Fatalf("ReadByteTimeout = %q %v %v", b, ok, err)
	}
	// The signal and byte race in the select; a second short read drains
	// whichever one is left.
	term.ReadByteTimeout(10 * time.Millisecond)

	if calls != 1 {
		t.Errorf("resize callback ran %d times, want 1", calls)
	}
	rows, cols := term.Size()
	if rows != 30 || cols != 100 {
		t.Errorf("Size = %dx%d, want 30x100", rows, cols)
	}
}

func TestResizeUnchangedSkipsCallback(t *testing.T) {
	term, _, _ := newPipeTerminal(t)
	calls := 0
	term.OnResize(func() { calls++ })
	term.sigwinch <- syscall.SIGWINCH
	term.ReadByteTimeout(10 * time.Millisecond)
	if calls != 0 {
		t.Errorf("callback should not run when the size is unchanged")
	}
}

func TestWrite(t *testing.T) {
	term, _, out := newPipeTerminal(t)
	term.Write(term.Caps().Bell)
	if out.String() != "\a" {
		t.Errorf("got %q", out.String())
	}
}

func TestEnterRawFailsOnPipe(t *testing.T) {
	term, _, _ := newPipeTerminal(t)
	if _, err := term.EnterRaw(); err == nil {
		t.Error("EnterRaw should fail when stdin is not a terminal")
	}
}
