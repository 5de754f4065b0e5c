package editor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/JackWReid/fieldpad/internal/form"
	"github.com/JackWReid/fieldpad/internal/terminal"
)

func TestComposeContainsLines(t *testing.T) {
	r := NewRenderer(terminal.ANSI)
	frame := r.Compose(Frame{
		Lines:     []string{"", "  Name : report"},
		Status:    " Saved",
		Help:      " Esc quit",
		CursorRow: 2,
		CursorCol: 10,
	}, 10)

	if !strings.HasPrefix(frame, terminal.ANSI.HideCursor+terminal.ANSI.Home+terminal.ANSI.Clear) {
		t.Errorf("frame should hide the cursor and clear first: %q", frame)
	}
	if !strings.Contains(frame, terminal.ANSI.MoveTo(2, 1)+"  Name : report") {
		t.Error("body line not placed on row 2")
	}
	if !strings.Contains(frame, terminal.ANSI.MoveTo(9, 1)+" Saved") {
		t.Error("status should sit on the second to last row")
	}
	if !strings.Contains(frame, terminal.ANSI.MoveTo(10, 1)+" Esc quit") {
		t.Error("help should sit on the last row")
	}
	if !strings.HasSuffix(frame, terminal.ANSI.MoveTo(2, 10)+terminal.ANSI.ShowCursor) {
		t.Errorf("frame should end by placing and showing the cursor: %q", frame)
	}
}

func TestComposeDropsRowsUnderStatus(t *testing.T) {
	r := NewRenderer(terminal.ANSI)
	lines := []string{"one", "two", "three", "four"}
	frame := r.Compose(Frame{Lines: lines, CursorRow: 4, CursorCol: 1}, 4)

	if strings.Contains(frame, "three") || strings.Contains(frame, "four") {
		t.Error("rows overlapping the status line should be dropped")
	}
	if !strings.Contains(frame, terminal.ANSI.MoveTo(2, 1)) {
		t.Error("cursor should be clamped into the body")
	}
}

func TestFormFrameCursor(t *testing.T) {
	f := buildForm(t,
		form.Item{Heading: "Query"},
		form.Item{Field: "Name"},
		form.Item{Field: "Database"},
	)
	nav := NewNavigator(f)
	nav.Move(1)
	status := &StatusBar{}

	vp := &Viewport{Height: 24}
	fr := FormFrame(nav, vp, 80, nil, status)
	if len(fr.Lines) != 4 {
		t.Fatalf("expected padding row plus 3 elements, got %d", len(fr.Lines))
	}
	if fr.CursorRow != 4 {
		t.Errorf("CursorRow = %d, want 4", fr.CursorRow)
	}
	valueCol := form.ValueColumn(f.LabelWidth) + 1
	if fr.CursorCol != valueCol {
		t.Errorf("CursorCol = %d, want %d", fr.CursorCol, valueCol)
	}
	if !strings.Contains(ansi.Strip(fr.Help), "Ctrl-S save") {
		t.Errorf("help = %q", fr.Help)
	}

	in := NewLineInput("postgres", 40)
	in.Apply(insert('x'))
	in.Apply(insert('y'))
	fr = FormFrame(nav, vp, 80, in, status)
	if fr.CursorCol != valueCol+2 {
		t.Errorf("editing CursorCol = %d, want %d", fr.CursorCol, valueCol+2)
	}
	if !strings.Contains(ansi.Strip(fr.Lines[3]), "xypostgres") {
		t.Errorf("edited line = %q", ansi.Strip(fr.Lines[3]))
	}
	if !strings.Contains(ansi.Strip(fr.Help), "Esc cancel") {
		t.Errorf("help = %q", fr.Help)
	}
}

func TestTextFrame(t *testing.T) {
	tb, err := NewTextBuffer("SELECT 1\nFROM t", 4, 20, 4)
	if err != nil {
		t.Fatal(err)
	}
	tb.Down()
	tb.Right()
	fr := TextFrame("Editing Query", tb, 40, &StatusBar{})

	if len(fr.Lines) != 5 {
		t.Fatalf("expected title plus 4 grid rows, got %d", len(fr.Lines))
	}
	if !strings.Contains(ansi.Strip(fr.Lines[0]), "Editing Query") {
		t.Errorf("title = %q", fr.Lines[0])
	}
	if fr.Lines[2] != "FROM t" {
		t.Errorf("row 2 = %q", fr.Lines[2])
	}
	if fr.CursorRow != 3 || fr.CursorCol != 2 {
		t.Errorf("cursor = (%d,%d), want (3,2)", fr.CursorRow, fr.CursorCol)
	}
}

func TestStatusBarFormat(t *testing.T) {
	var s StatusBar
	if s.Format(20) != "" || s.Active() {
		t.Error("empty status should render nothing")
	}

	s.SetMessage(StatusError, "Conflict: name taken")
	got := ansi.Strip(s.Format(30))
	if got != " Conflict: name taken         " {
		t.Errorf("Format() = %q", got)
	}
	if w := len([]rune(ansi.Strip(s.Format(10)))); w != 10 {
		t.Errorf("truncated width = %d, want 10", w)
	}

	s.ClearMessage()
	if s.Active() {
		t.Error("ClearMessage should deactivate the status")
	}
}
