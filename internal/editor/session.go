package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JackWReid/fieldpad/internal/form"
	"github.com/JackWReid/fieldpad/internal/keys"
	"github.com/JackWReid/fieldpad/internal/logging"
	"github.com/JackWReid/fieldpad/internal/save"
	"github.com/JackWReid/fieldpad/internal/terminal"
)

// Port is the terminal as the session sees it.
type Port interface {
	EnterRaw() (terminal.Guard, error)
	Write(s string)
	ReadEvent(table *keys.Table, timeout time.Duration) (keys.Event, error)
	Size() (rows, cols int)
	OnResize(fn func())
	Caps() terminal.Caps
}

// Options tunes the editors.
type Options struct {
	EscapeTimeout time.Duration
	TabWidth      int
	MaxLines      int // Upper bound on text buffer lines; the screen may allow fewer
	ColumnMargin  int // Columns kept free to the right of the text buffer
}

func DefaultOptions() Options {
	return Options{
		EscapeTimeout: 50 * time.Millisecond,
		TabWidth:      4,
		MaxLines:      16,
		ColumnMargin:  2,
	}
}

// Result is what the session produced.
type Result struct {
	Saved  bool
	Record form.Record // Valid when Saved
}

// FatalError is an unexpected failure recovered inside the session.
type FatalError struct {
	Value interface{}
	Stack []string // Innermost frames first
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Value)
}

func (e *FatalError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Rows used by the text editor besides the grid: title, status and help.
const textChrome = 3

// Frames kept in a fatal error's trace.
const traceDepth = 6

// Session runs one interactive editing session over a form.
type Session struct {
	port     Port
	nav      *Navigator
	saver    save.Saver
	opts     Options
	renderer *Renderer
	view     Viewport
	status   StatusBar
	state    State
	result   Result

	rows, cols int
	screen     func() Frame

	navKeys  *keys.Table
	lineKeys *keys.Table
	textKeys *keys.Table
	anyKeys  *keys.Table
}

func NewSession(port Port, f *form.Form, saver save.Saver, opts Options) *Session {
	return &Session{
		port:     port,
		nav:      NewNavigator(f),
		saver:    saver,
		opts:     opts,
		renderer: NewRenderer(port.Caps()),
		navKeys:  keys.NavigatorTable(),
		lineKeys: keys.LineInputTable(),
		textKeys: keys.TextBufferTable(),
		anyKeys:  keys.AnyKeyTable(),
	}
}

// State returns the current navigator state.
func (s *Session) State() State { return s.state }

// Navigator exposes the selection for callers that inspect the session.
func (s *Session) Navigator() *Navigator { return s.nav }

// Run takes over the terminal until the user saves or exits. Raw mode is
// released before Run returns on every path, including panics, which come
// back as *FatalError after the user has seen the diagnostic.
func (s *Session) Run(ctx context.Context) (res Result, err error) {
	guard, err := s.port.EnterRaw()
	if err != nil {
		return Result{}, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, s.fail(guard, &FatalError{Value: r, Stack: trace(debug.Stack())})
		}
		if rerr := guard.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("failed to restore terminal: %w", rerr)
		}
		s.state = StateExited
	}()

	s.rows, s.cols = s.port.Size()
	s.port.OnResize(s.resize)
	s.state = StateIdle
	s.screen = s.formScreen(nil)
	s.draw()
	logging.Info("Session started",
		zap.Int("fields", s.nav.Form().Len()),
		zap.Int("rows", s.rows),
		zap.Int("cols", s.cols))

	for s.state != StateExited {
		if err := s.step(ctx); err != nil {
			return Result{}, s.fail(guard, err)
		}
	}
	logging.Info("Session finished", zap.Bool("saved", s.result.Saved))
	return s.result, nil
}

// step reads one navigator key and dispatches it.
func (s *Session) step(ctx context.Context) error {
	ev, err := s.port.ReadEvent(s.navKeys, s.opts.EscapeTimeout)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	hadStatus := s.status.Active()
	s.status.ClearMessage()

	redraw, err := s.dispatch(ctx, ev)
	if err != nil {
		return err
	}
	if s.state != StateExited && (redraw || hadStatus) {
		s.draw()
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context, ev keys.Event) (bool, error) {
	switch ev.Op {
	case keys.OpUp:
		return s.nav.Move(-1), nil
	case keys.OpDown:
		return s.nav.Move(1), nil
	case keys.OpEdit:
		return true, s.edit()
	case keys.OpSave:
		return true, s.save(ctx)
	case keys.OpExit:
		logging.Info("Session cancelled")
		s.state = StateExited
		return false, nil
	}
	s.bell(ev)
	return false, nil
}

func (s *Session) edit() error {
	switch e := s.nav.Current().(type) {
	case *form.Field:
		return s.editField(e)
	case *form.MultiLineField:
		return s.editText(e)
	case *form.Heading, *form.Blank:
		// Not selectable.
	}
	return nil
}

func (s *Session) editField(f *form.Field) error {
	in := NewLineInput(f.Value, s.lineCapacity())
	s.enter(StateEditingSingleLine, s.formScreen(in))
	defer s.enter(StateIdle, s.formScreen(nil))

	for {
		s.draw()
		ev, err := s.port.ReadEvent(s.lineKeys, s.opts.EscapeTimeout)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		switch in.Apply(ev) {
		case Rejected:
			s.bell(ev)
		case Accepted:
			f.Value = in.Value()
			logging.Debug("Field updated", zap.String("label", f.Label))
			return nil
		case Cancelled:
			return nil
		}
	}
}

func (s *Session) editText(m *form.MultiLineField) error {
	maxLines := min(s.opts.MaxLines, s.rows-textChrome)
	if maxLines < 1 {
		maxLines = 1
	}
	maxCols := s.cols - s.opts.ColumnMargin
	if maxCols < 2 {
		maxCols = 2
	}
	tb, err := NewTextBuffer(m.Value, maxLines, maxCols, s.opts.TabWidth)
	if err != nil {
		logging.Warn("Value too large to edit", zap.String("label", m.Label), zap.Error(err))
		s.status.SetMessage(StatusError, fmt.Sprintf("%s: %v", m.Label, err))
		s.port.Write(s.port.Caps().Bell)
		return nil
	}

	title := "Editing " + m.Label
	s.enter(StateEditingMultiLine, func() Frame { return TextFrame(title, tb, s.cols, &s.status) })
	defer s.enter(StateIdle, s.formScreen(nil))

	for {
		s.draw()
		ev, err := s.port.ReadEvent(s.textKeys, s.opts.EscapeTimeout)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		switch tb.Apply(ev) {
		case Rejected:
			s.bell(ev)
		case Accepted:
			m.Value = tb.Accept()
			logging.Debug("Field updated", zap.String("label", m.Label))
			return nil
		case Cancelled:
			m.Value = tb.Cancel()
			return nil
		}
	}
}

// save hands the record to the saver. Success ends the session; a failure is
// shown until the next key and leaves every value as it was.
func (s *Session) save(ctx context.Context) error {
	s.state = StateSaving
	rec := s.nav.Form().Record()
	s.status.SetMessage(StatusInfo, "Saving...")
	s.port.Write(s.renderer.StatusLine(s.status.Format(s.cols), s.rows))

	start := time.Now()
	err := s.callSaver(ctx, rec)
	if err == nil {
		logging.Info("Record saved",
			zap.Int("entries", len(rec.Entries)),
			zap.Duration("took", time.Since(start)))
		s.status.SetMessage(StatusSuccess, "Saved")
		s.draw()
		s.result = Result{Saved: true, Record: rec}
		s.state = StateExited
		return nil
	}

	se := save.AsError(err)
	logging.Warn("Save failed",
		zap.String("kind", se.Kind.String()),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	s.status.SetMessage(StatusError, fmt.Sprintf("%s: %s (press any key)", se.Kind, se.Message))
	s.draw()
	s.port.Write(s.port.Caps().Bell)
	if _, err := s.port.ReadEvent(s.anyKeys, s.opts.EscapeTimeout); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	s.status.ClearMessage()
	s.state = StateIdle
	return nil
}

// callSaver turns a panicking saver into an unexpected save error.
func (s *Session) callSaver(ctx context.Context, rec form.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Saver panicked", zap.Any("panic", r))
			err = save.NewUnexpectedError(fmt.Sprint(r), nil)
		}
	}()
	return s.saver.Save(ctx, rec)
}

// fail restores the terminal, shows err and waits for a key so the message
// is not lost when the caller exits.
func (s *Session) fail(guard terminal.Guard, err error) error {
	logging.Error("Session failed", zap.Error(err))
	s.state = StateExited
	if rerr := guard.Release(); rerr != nil {
		logging.Warn("Failed to restore terminal", zap.Error(rerr))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "fieldpad: %v\n", err)
	var fe *FatalError
	if errors.As(err, &fe) {
		for _, frame := range fe.Stack {
			fmt.Fprintf(&b, "    at %s\n", frame)
		}
	}
	if errors.Is(err, io.EOF) {
		s.port.Write(b.String())
		return err
	}
	b.WriteString("Press Enter to exit.\n")
	s.port.Write(b.String())
	if _, rerr := s.port.ReadEvent(s.anyKeys, s.opts.EscapeTimeout); rerr != nil {
		logging.Debug("No acknowledgement", zap.Error(rerr))
	}
	return err
}

func (s *Session) enter(state State, screen func() Frame) {
	logging.Debug("State change", zap.Stringer("from", s.state), zap.Stringer("to", state))
	s.state = state
	s.screen = screen
}

func (s *Session) formScreen(in *LineInput) func() Frame {
	return func() Frame {
		s.view.Height = s.rows
		s.view.EnsureVisible(s.nav.Form().Row(s.nav.Selected()))
		return FormFrame(s.nav, &s.view, s.cols, in, &s.status)
	}
}

// lineCapacity is how many runes fit right of the value column.
func (s *Session) lineCapacity() int {
	n := s.cols - form.ValueColumn(s.nav.Form().LabelWidth) - 1
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Session) draw() {
	s.port.Write(s.renderer.Compose(s.screen(), s.rows))
}

// resize re-reads the screen size and redraws whatever is showing.
func (s *Session) resize() {
	s.rows, s.cols = s.port.Size()
	logging.Debug("Terminal resized", zap.Int("rows", s.rows), zap.Int("cols", s.cols))
	if s.screen != nil && s.state != StateExited {
		s.draw()
	}
}

func (s *Session) bell(ev keys.Event) {
	logging.Debug("Rejected key", zap.Stringer("op", ev.Op), zap.Binary("seq", ev.Seq))
	s.port.Write(s.port.Caps().Bell)
}

// trace reduces a debug.Stack dump to the function names of the frames
// above the panic.
func trace(stack []byte) []string {
	var frames []string
	lines := strings.Split(string(stack), "\n")
	skipping := true
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "goroutine ") {
			continue
		}
		if skipping {
			if strings.HasPrefix(line, "panic(") {
				skipping = false
			}
			continue
		}
		frames = append(frames, line)
		if len(frames) == traceDepth {
			break
		}
	}
	if len(frames) == 0 {
		for _, line := range lines {
			if line != "" && !strings.HasPrefix(line, "\t") && !strings.HasPrefix(line, "goroutine ") {
				frames = append(frames, line)
				if len(frames) == traceDepth {
					break
				}
			}
		}
	}
	return frames
}
