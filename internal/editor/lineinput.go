package editor

import "github.com/JackWReid/fieldpad/internal/keys"

// LineInput edits a single-line field value. The cursor starts at the
// beginning of the existing value.
type LineInput struct {
	runes []rune
	col   int
	max   int
}

// NewLineInput seeds the input with value; max caps the length in runes.
func NewLineInput(value string, max int) *LineInput {
	return &LineInput{runes: []rune(value), max: max}
}

func (in *LineInput) Value() string { return string(in.runes) }

// Cursor returns the rune offset of the cursor.
func (in *LineInput) Cursor() int { return in.col }

// Prefix returns the text left of the cursor.
func (in *LineInput) Prefix() string { return string(in.runes[:in.col]) }

// Apply runs one key event. Enter accepts, Escape cancels.
func (in *LineInput) Apply(ev keys.Event) Outcome {
	switch ev.Op {
	case keys.OpInsert:
		if len(in.runes) >= in.max {
			return Rejected
		}
		in.runes = append(in.runes[:in.col], append([]rune{ev.Rune}, in.runes[in.col:]...)...)
		in.col++
	case keys.OpDelete:
		if in.col == 0 {
			return Rejected
		}
		in.runes = append(in.runes[:in.col-1], in.runes[in.col:]...)
		in.col--
	case keys.OpLeft:
		if in.col == 0 {
			return Rejected
		}
		in.col--
	case keys.OpRight:
		if in.col >= len(in.runes) {
			return Rejected
		}
		in.col++
	case keys.OpEnter:
		return Accepted
	case keys.OpExit:
		return Cancelled
	default:
		return Rejected
	}
	return Applied
}
