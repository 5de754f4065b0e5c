package terminal

import (
	"fmt"
	"regexp"

	"github.com/xo/terminfo"
)

// Caps holds the control sequences the editor needs, resolved from the
// terminfo database for $TERM.
type Caps struct {
	ShowCursor     string
	HideCursor     string
	Home           string
	Clear          string
	SaveCursor     string
	RestoreCursor  string
	Bell           string
	EnterAltScreen string
	ExitAltScreen  string
}

// ANSI is used when no terminfo entry can be loaded.
var ANSI = Caps{
	ShowCursor:     "\x1b[?25h",
	HideCursor:     "\x1b[?25l",
	Home:           "\x1b[H",
	Clear:          "\x1b[2J",
	SaveCursor:     "\x1b7",
	RestoreCursor:  "\x1b8",
	Bell:           "\a",
	EnterAltScreen: "\x1b[?1049h",
	ExitAltScreen:  "\x1b[?1049l",
}

// LoadCaps resolves capabilities for the current $TERM, falling back to ANSI
// for anything the entry does not define.
func LoadCaps() Caps {
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		return ANSI
	}
	return capsFrom(ti)
}

// padding matches terminfo delay specifications such as $<50>.
var padding = regexp.MustCompile(`\$<[0-9.*/]+>`)

func capsFrom(ti *terminfo.Terminfo) Caps {
	pick := func(id int, fallback string) string {
		if s, ok := ti.Strings[id]; ok && len(s) > 0 {
			return padding.ReplaceAllString(string(s), "")
		}
		return fallback
	}
	return Caps{
		ShowCursor:     pick(terminfo.CursorNormal, ANSI.ShowCursor),
		HideCursor:     pick(terminfo.CursorInvisible, ANSI.HideCursor),
		Home:           pick(terminfo.CursorHome, ANSI.Home),
		Clear:          pick(terminfo.ClearScreen, ANSI.Clear),
		SaveCursor:     pick(terminfo.SaveCursor, ANSI.SaveCursor),
		RestoreCursor:  pick(terminfo.RestoreCursor, ANSI.RestoreCursor),
		Bell:           pick(terminfo.Bell, ANSI.Bell),
		EnterAltScreen: pick(terminfo.EnterCaMode, ANSI.EnterAltScreen),
		ExitAltScreen:  pick(terminfo.ExitCaMode, ANSI.ExitAltScreen),
	}
}

// MoveTo positions the cursor at a 1-based row and column. Absolute
// positioning is always issued as a direct CUP sequence.
func (c Caps) MoveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}
