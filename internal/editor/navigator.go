package editor

import "github.com/JackWReid/fieldpad/internal/form"

// State is the navigator's mode.
type State int

const (
	StateIdle State = iota
	StateEditingSingleLine
	StateEditingMultiLine
	StateSaving
	StateExited
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditingSingleLine:
		return "editing-single-line"
	case StateEditingMultiLine:
		return "editing-multi-line"
	case StateSaving:
		return "saving"
	case StateExited:
		return "exited"
	}
	return "unknown"
}

// Navigator tracks which selectable element has focus.
type Navigator struct {
	form     *form.Form
	selected int
}

func NewNavigator(f *form.Form) *Navigator {
	f.Select(0)
	return &Navigator{form: f}
}

func (n *Navigator) Form() *form.Form { return n.form }

// Selected returns the index into the selectable elements.
func (n *Navigator) Selected() int { return n.selected }

// Current returns the focused element.
func (n *Navigator) Current() form.Element { return n.form.At(n.selected) }

// Move shifts the selection by delta, clamped to the first and last field.
// It reports whether the selection changed.
func (n *Navigator) Move(delta int) bool {
	next := n.selected + delta
	if next < 0 {
		next = 0
	}
	if last := n.form.Len() - 1; next > last {
		next = last
	}
	if next == n.selected {
		return false
	}
	n.selected = next
	n.form.Select(next)
	return true
}
