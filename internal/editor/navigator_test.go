package editor

import (
	"testing"

	"github.com/JackWReid/fieldpad/internal/form"
)

func buildForm(t *testing.T, items ...form.Item) *form.Form {
	t.Helper()
	f, err := form.Build(items)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return f
}

func TestNavigatorMoveClamps(t *testing.T) {
	f := buildForm(t,
		form.Item{Heading: "Top"},
		form.Item{Field: "A"},
		form.Item{Blank: true},
		form.Item{Field: "B"},
		form.Item{Multiline: "C"},
	)
	nav := NewNavigator(f)

	if nav.Move(-1) {
		t.Error("Move(-1) at the first field should report no change")
	}
	if !nav.Move(1) || nav.Selected() != 1 {
		t.Fatalf("Move(1) selected %d, want 1", nav.Selected())
	}
	if !nav.Move(1) || nav.Selected() != 2 {
		t.Fatalf("Move(1) selected %d, want 2", nav.Selected())
	}
	if nav.Move(1) {
		t.Error("Move(1) at the last field should report no change")
	}
	if _, ok := nav.Current().(*form.MultiLineField); !ok {
		t.Errorf("Current() = %T, want *form.MultiLineField", nav.Current())
	}
}

func TestNavigatorKeepsOneSelected(t *testing.T) {
	f := buildForm(t, form.Item{Field: "A"}, form.Item{Field: "B"}, form.Item{Field: "C"})
	nav := NewNavigator(f)
	nav.Move(2)

	for i := 0; i < f.Len(); i++ {
		selected := f.At(i).(*form.Field).Selected
		if selected != (i == 2) {
			t.Errorf("field %d Selected = %v", i, selected)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateEditingMultiLine.String() != "editing-multi-line" {
		t.Errorf("String() = %q", StateEditingMultiLine.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("String() = %q", State(42).String())
	}
}
