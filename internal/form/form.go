package form

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/sajari/fuzzy"
)

// ErrNoSelectable is returned when a form has nothing the user can edit.
var ErrNoSelectable = errors.New("form has no selectable fields")

// Form is the element sequence of one editing session.
type Form struct {
	Elements   []Element
	LabelWidth int // Computed once; labels are fixed for the session

	selectable []int // Element indexes of selectable elements, in order
}

// New builds a form and selects its first field.
func New(elements []Element) (*Form, error) {
	f := &Form{Elements: elements}
	for i, e := range elements {
		if !e.Selectable() {
			continue
		}
		f.selectable = append(f.selectable, i)
		if w := runewidth.StringWidth(label(e)); w > f.LabelWidth {
			f.LabelWidth = w
		}
	}
	if len(f.selectable) == 0 {
		return nil, ErrNoSelectable
	}
	f.Select(0)
	return f, nil
}

// Len returns the number of selectable elements.
func (f *Form) Len() int { return len(f.selectable) }

// At returns the i-th selectable element.
func (f *Form) At(i int) Element { return f.Elements[f.selectable[i]] }

// Row returns the element index (screen row offset) of the i-th selectable
// element.
func (f *Form) Row(i int) int { return f.selectable[i] }

// Select marks the i-th selectable element as selected and clears the rest.
func (f *Form) Select(i int) {
	for n, idx := range f.selectable {
		switch e := f.Elements[idx].(type) {
		case *Field:
			e.Selected = n == i
		case *MultiLineField:
			e.Selected = n == i
		}
	}
}

// Context returns the render context for a screen of the given width.
func (f *Form) Context(width int) RenderContext {
	return RenderContext{Width: width, LabelWidth: f.LabelWidth}
}

// Record collects every field value by position.
func (f *Form) Record() Record {
	rec := Record{Entries: make([]Entry, 0, len(f.selectable))}
	for _, idx := range f.selectable {
		switch e := f.Elements[idx].(type) {
		case *Field:
			rec.Entries = append(rec.Entries, Entry{Section: e.Section, Label: e.Label, Value: e.Value})
		case *MultiLineField:
			rec.Entries = append(rec.Entries, Entry{Section: e.Section, Label: e.Label, Value: e.Value})
		}
	}
	return rec
}

// Set assigns value to the field whose key (section.label) matches. The
// error for an unknown key suggests the nearest field key.
func (f *Form) Set(key, value string) error {
	for _, idx := range f.selectable {
		switch e := f.Elements[idx].(type) {
		case *Field:
			if entryKey(e.Section, e.Label) == key {
				e.Value = value
				return nil
			}
		case *MultiLineField:
			if entryKey(e.Section, e.Label) == key {
				e.Value = value
				return nil
			}
		}
	}
	if near := f.nearestKey(key); near != "" && near != key {
		return fmt.Errorf("no field %q (did you mean %q?)", key, near)
	}
	return fmt.Errorf("no field %q", key)
}

// nearestKey returns the field key within two edits of key, if any.
func (f *Form) nearestKey(key string) string {
	rec := f.Record()
	keys := make([]string, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		keys = append(keys, e.Key())
	}
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	model.Train(keys)
	return model.SpellCheck(key)
}

func label(e Element) string {
	switch e := e.(type) {
	case *Field:
		return e.Label
	case *MultiLineField:
		return e.Label
	case *Heading, *Blank:
		return ""
	}
	return ""
}
