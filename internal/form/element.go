package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Element is one row of a form screen. The concrete types are *Blank,
// *Heading, *Field and *MultiLineField; callers switch on them exhaustively.
type Element interface {
	Selectable() bool
	Render(ctx RenderContext) string
	isElement()
}

// RenderContext carries the layout shared by every row of a screen.
type RenderContext struct {
	Width      int // Terminal columns
	LabelWidth int // Longest label, so values line up
}

// Style is a foreground/background colour pair (lipgloss colour strings).
type Style struct {
	Foreground string
	Background string
}

const (
	markerSelected = "> "
	markerIdle     = "  "
	labelSep       = " : "
)

var (
	selectedLabel = lipgloss.NewStyle().Reverse(true)
	moreLines     = lipgloss.NewStyle().Faint(true)
)

// ValueColumn is the 0-based screen column where field values start.
func ValueColumn(labelWidth int) int {
	return len(markerIdle) + labelWidth + len(labelSep)
}

// Blank renders an empty row.
type Blank struct{}

func (*Blank) Selectable() bool                { return false }
func (*Blank) Render(ctx RenderContext) string { return "" }
func (*Blank) isElement()                      {}

// Heading is a non-selectable title row filling the screen width.
type Heading struct {
	Text  string
	Style Style
}

func (*Heading) Selectable() bool { return false }
func (*Heading) isElement()       {}

func (h *Heading) Render(ctx RenderContext) string {
	text := runewidth.Truncate(" "+h.Text, ctx.Width, "")
	text = runewidth.FillRight(text, ctx.Width)
	st := lipgloss.NewStyle().Bold(true)
	if h.Style.Foreground != "" {
		st = st.Foreground(lipgloss.Color(h.Style.Foreground))
	}
	if h.Style.Background != "" {
		st = st.Background(lipgloss.Color(h.Style.Background))
	}
	return st.Render(text)
}

// Field is a selectable single-line value.
type Field struct {
	Section  string // Slug of the heading above the field
	Label    string
	Value    string
	Selected bool
}

func (*Field) Selectable() bool { return true }
func (*Field) isElement()       {}

func (f *Field) Render(ctx RenderContext) string {
	return fieldLine(f.Label, f.Value, f.Selected, "", ctx)
}

// Line renders the field with value in place of f.Value, used while the
// value is being edited.
func (f *Field) Line(value string, ctx RenderContext) string {
	return fieldLine(f.Label, value, f.Selected, "", ctx)
}

// MultiLineField is a selectable value that may span several lines. Only the
// first line is shown.
type MultiLineField struct {
	Section  string
	Label    string
	Value    string
	Selected bool
}

func (*MultiLineField) Selectable() bool { return true }
func (*MultiLineField) isElement()       {}

func (m *MultiLineField) Render(ctx RenderContext) string {
	first, rest, more := strings.Cut(m.Value, "\n")
	suffix := ""
	if more && rest != "" {
		suffix = " …"
	}
	return fieldLine(m.Label, first, m.Selected, suffix, ctx)
}

func fieldLine(label, value string, selected bool, suffix string, ctx RenderContext) string {
	marker := markerIdle
	name := runewidth.FillRight(label, ctx.LabelWidth)
	if selected {
		marker = markerSelected
		name = selectedLabel.Render(name)
	}

	avail := ctx.Width - ValueColumn(ctx.LabelWidth)
	if avail < 0 {
		avail = 0
	}
	if suffix != "" && runewidth.StringWidth(value)+runewidth.StringWidth(suffix) > avail {
		value = runewidth.Truncate(value, avail-runewidth.StringWidth(suffix), "")
	} else {
		value = runewidth.Truncate(value, avail, "")
	}
	if suffix != "" {
		value += moreLines.Render(suffix)
	}
	return marker + name + labelSep + value
}
