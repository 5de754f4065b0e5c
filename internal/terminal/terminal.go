package terminal

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/JackWReid/fieldpad/internal/keys"
)

// ErrNotTerminal is returned when stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Guard is the raw-mode token returned by EnterRaw. Release restores the
// attributes saved at entry; calling it more than once is a no-op.
type Guard interface {
	Release() error
}

// Terminal manages raw mode, the alternate screen, terminal dimensions and
// keyboard input for the editor.
type Terminal struct {
	in    io.Reader
	inFd  int
	out   io.Writer
	outFd int
	caps  Caps

	width  int
	height int

	sigwinch  chan os.Signal
	onResize  []func()
	input     chan inputByte
	pumpOnce  sync.Once
	reader    *keys.Reader
	getSize   func() (int, int, error)
	stopWatch func()
}

type inputByte struct {
	b   byte
	err error
}

// New opens the controlling terminal on stdin/stdout.
func New() (*Terminal, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	t := newTerminal(os.Stdin, int(os.Stdin.Fd()), os.Stdout, int(os.Stdout.Fd()), LoadCaps())

	// Query size.
	if err := t.querySize(); err != nil {
		return nil, err
	}

	// Listen for resize signals.
	signal.Notify(t.sigwinch, syscall.SIGWINCH)
	t.stopWatch = func() { signal.Stop(t.sigwinch) }
	return t, nil
}

func newTerminal(in io.Reader, inFd int, out io.Writer, outFd int, caps Caps) *Terminal {
	t := &Terminal{
		in:       in,
		inFd:     inFd,
		out:      out,
		outFd:    outFd,
		caps:     caps,
		sigwinch: make(chan os.Signal, 1),
		input:    make(chan inputByte, 64),
	}
	t.getSize = func() (int, int, error) { return term.GetSize(t.outFd) }
	t.reader = keys.NewReader(t)
	return t
}

func (t *Terminal) querySize() error {
	w, h, err := t.getSize()
	if err != nil {
		return err
	}
	t.width, t.height = w, h
	return nil
}

// Resize re-queries terminal dimensions. Returns true if the size changed.
func (t *Terminal) Resize() bool {
	w, h, err := t.getSize()
	if err != nil {
		return false
	}
	changed := w != t.width || h != t.height
	t.width = w
	t.height = h
	return changed
}

// Size returns the current terminal size as rows, columns.
func (t *Terminal) Size() (rows, cols int) { return t.height, t.width }

// Caps returns the resolved control-sequence capabilities.
func (t *Terminal) Caps() Caps { return t.caps }

// OnResize registers a callback run after the terminal size changes. Callbacks
// run on the goroutine that is reading input, between reads.
func (t *Terminal) OnResize(fn func()) {
	t.onResize = append(t.onResize, fn)
}

// Write sends text or control sequences to the terminal.
func (t *Terminal) Write(s string) {
	io.WriteString(t.out, s)
}

// Close stops resize notifications.
func (t *Terminal) Close() {
	if t.stopWatch != nil {
		t.stopWatch()
	}
}

// EnterRaw switches to raw mode and the alternate screen. The returned guard
// must be released exactly once on every exit path.
func (t *Terminal) EnterRaw() (Guard, error) {
	oldState, err := term.MakeRaw(t.inFd)
	if err != nil {
		return nil, err
	}
	t.Write(t.caps.EnterAltScreen + t.caps.HideCursor)
	return &rawMode{t: t, state: oldState}, nil
}

type rawMode struct {
	t     *Terminal
	state *term.State
	once  sync.Once
}

func (r *rawMode) Release() error {
	var err error
	r.once.Do(func() {
		// Show cursor and leave the alternate screen buffer.
		r.t.Write(r.t.caps.ShowCursor + r.t.caps.ExitAltScreen)
		err = term.Restore(r.t.inFd, r.state)
	})
	return err
}

// ReadEvent blocks until the next key event bound in table.
func (t *Terminal) ReadEvent(table *keys.Table, timeout time.Duration) (keys.Event, error) {
	return t.reader.Next(table, timeout)
}

// ReadByteTimeout reads one input byte. A timeout <= 0 blocks. Resize
// signals that arrive while waiting are handled here, on the caller's
// goroutine.
func (t *Terminal) ReadByteTimeout(timeout time.Duration) (byte, bool, error) {
	t.pumpOnce.Do(func() { go t.pump() })

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	for {
		select {
		case in := <-t.input:
			if in.err != nil {
				return 0, false, in.err
			}
			return in.b, true, nil
		case <-t.sigwinch:
			if t.Resize() {
				for _, fn := range t.onResize {
					fn()
				}
			}
		case <-deadline:
			return 0, false, nil
		}
	}
}

// pump copies stdin into the input channel so reads can time out.
func (t *Terminal) pump() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			t.input <- inputByte{b: b}
		}
		if err != nil {
			t.input <- inputByte{err: err}
			return
		}
	}
}
