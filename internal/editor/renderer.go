package editor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/JackWReid/fieldpad/internal/form"
	"github.com/JackWReid/fieldpad/internal/terminal"
)

// Frame is everything on screen at one moment. Rows and columns are 1-based.
type Frame struct {
	Lines     []string // Body rows from the top of the screen
	Status    string
	Help      string
	CursorRow int
	CursorCol int
}

// FormFrame lays out the navigator screen through vp, which must already
// show the selected element. When edit is non-nil the selected field shows
// the input's value and the cursor sits inside it.
func FormFrame(nav *Navigator, vp *Viewport, width int, edit *LineInput, status *StatusBar) Frame {
	f := nav.Form()
	ctx := f.Context(width)
	selRow := f.Row(nav.Selected())

	lines := make([]string, 0, len(f.Elements)+1)
	if vp.TopPadding() > 0 {
		lines = append(lines, "")
	}
	end := min(vp.ScrollOffset+vp.VisibleLines(), len(f.Elements))
	for i := vp.ScrollOffset; i < end; i++ {
		e := f.Elements[i]
		if field, ok := e.(*form.Field); ok && i == selRow && edit != nil {
			lines = append(lines, field.Line(edit.Value(), ctx))
			continue
		}
		lines = append(lines, e.Render(ctx))
	}

	col := form.ValueColumn(f.LabelWidth) + 1
	help := helpNavigate
	if edit != nil {
		col += runewidth.StringWidth(edit.Prefix())
		help = helpLineInput
	}
	return Frame{
		Lines:     lines,
		Status:    status.Format(width),
		Help:      formatHelp(help, width),
		CursorRow: vp.ScreenRow(selRow),
		CursorCol: clamp(col, 1, width),
	}
}

// TextFrame lays out the multi-line editor: a title row, then the grid.
func TextFrame(title string, tb *TextBuffer, width int, status *StatusBar) Frame {
	heading := &form.Heading{Text: title, Style: form.Style{
		Foreground: form.DefaultHeadingFg,
		Background: form.DefaultHeadingBg,
	}}
	grid := tb.Lines()
	lines := make([]string, 0, len(grid)+1)
	lines = append(lines, heading.Render(form.RenderContext{Width: width}))
	for _, l := range grid {
		lines = append(lines, runewidth.Truncate(l, width, ""))
	}

	line, col := tb.Cursor()
	prefix := string([]rune(grid[line])[:col])
	return Frame{
		Lines:     lines,
		Status:    status.Format(width),
		Help:      formatHelp(helpTextEdit, width),
		CursorRow: line + 2,
		CursorCol: clamp(runewidth.StringWidth(prefix)+1, 1, width),
	}
}

// Renderer turns frames into a single write for the terminal.
type Renderer struct {
	buf  strings.Builder
	caps terminal.Caps
}

func NewRenderer(caps terminal.Caps) *Renderer {
	return &Renderer{caps: caps}
}

// Compose draws the whole screen: body, status line second from the bottom,
// help line at the bottom, then places the cursor. Body rows that would
// overlap the status line are dropped.
func (r *Renderer) Compose(f Frame, rows int) string {
	r.buf.Reset()

	r.buf.WriteString(r.caps.HideCursor)
	r.buf.WriteString(r.caps.Home)
	r.buf.WriteString(r.caps.Clear)

	body := rows - 2
	for i, line := range f.Lines {
		if i >= body {
			break
		}
		if line == "" {
			continue
		}
		r.buf.WriteString(r.caps.MoveTo(i+1, 1))
		r.buf.WriteString(line)
	}
	if rows >= 2 && f.Status != "" {
		r.buf.WriteString(r.caps.MoveTo(rows-1, 1))
		r.buf.WriteString(f.Status)
	}
	if rows >= 1 {
		r.buf.WriteString(r.caps.MoveTo(rows, 1))
		r.buf.WriteString(f.Help)
	}

	r.buf.WriteString(r.caps.MoveTo(clamp(f.CursorRow, 1, max(body, 1)), f.CursorCol))
	r.buf.WriteString(r.caps.ShowCursor)
	return r.buf.String()
}

// StatusLine redraws only the status row, leaving the cursor where it was.
func (r *Renderer) StatusLine(status string, rows int) string {
	if rows < 2 {
		return ""
	}
	r.buf.Reset()
	r.buf.WriteString(r.caps.SaveCursor)
	r.buf.WriteString(r.caps.MoveTo(rows-1, 1))
	r.buf.WriteString(status)
	r.buf.WriteString(r.caps.RestoreCursor)
	return r.buf.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
