package editor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusKind colours the status line.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusInfo            // Neutral progress, e.g. "Saving..."
	StatusSuccess
	StatusError
)

var (
	infoStyle    = lipgloss.NewStyle().Reverse(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// StatusBar holds the one-line message shown above the help line.
type StatusBar struct {
	Kind    StatusKind
	Message string
}

// SetMessage sets a message until the next key press clears it.
func (s *StatusBar) SetMessage(kind StatusKind, msg string) {
	s.Kind = kind
	s.Message = msg
}

// ClearMessage clears the status message.
func (s *StatusBar) ClearMessage() {
	s.Kind = StatusNone
	s.Message = ""
}

// Active reports whether a message is showing.
func (s *StatusBar) Active() bool { return s.Kind != StatusNone }

// Format returns the status line padded to width.
func (s *StatusBar) Format(width int) string {
	if !s.Active() {
		return ""
	}
	text := runewidth.FillRight(runewidth.Truncate(" "+s.Message, width, "…"), width)
	switch s.Kind {
	case StatusSuccess:
		return successStyle.Render(text)
	case StatusError:
		return errorStyle.Render(text)
	}
	return infoStyle.Render(text)
}

// Key hints for each screen.
const (
	helpNavigate  = "↑/k ↓/j move  Enter edit  Ctrl-S save  Esc quit"
	helpLineInput = "Enter done  Esc cancel"
	helpTextEdit  = "Enter next line  Ctrl-D done  Esc cancel"
)

func formatHelp(text string, width int) string {
	return helpStyle.Render(runewidth.Truncate(" "+text, width, ""))
}
