package editor

import (
	"testing"

	"github.com/JackWReid/fieldpad/internal/keys"
)

func insert(r rune) keys.Event { return keys.Event{Op: keys.OpInsert, Rune: r} }

func TestLineInputInsertsAtStart(t *testing.T) {
	in := NewLineInput("world", 20)
	if in.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", in.Cursor())
	}
	for _, r := range "hello " {
		if in.Apply(insert(r)) != Applied {
			t.Fatalf("insert %q rejected", r)
		}
	}
	if in.Value() != "hello world" {
		t.Errorf("Value() = %q", in.Value())
	}
	if in.Prefix() != "hello " {
		t.Errorf("Prefix() = %q", in.Prefix())
	}
}

func TestLineInputCapacity(t *testing.T) {
	in := NewLineInput("abc", 4)
	if in.Apply(insert('d')) != Applied {
		t.Fatal("insert within capacity rejected")
	}
	if in.Apply(insert('e')) != Rejected {
		t.Error("insert past capacity should be rejected")
	}
	if in.Value() != "dabc" {
		t.Errorf("Value() = %q", in.Value())
	}
}

func TestLineInputEditing(t *testing.T) {
	in := NewLineInput("abc", 10)
	steps := []struct {
		op   keys.Operation
		want Outcome
	}{
		{keys.OpDelete, Rejected},
		{keys.OpLeft, Rejected},
		{keys.OpRight, Applied},
		{keys.OpRight, Applied},
		{keys.OpDelete, Applied},
		{keys.OpRight, Applied},
		{keys.OpRight, Rejected},
	}
	for i, s := range steps {
		if got := in.Apply(keys.Event{Op: s.op}); got != s.want {
			t.Errorf("step %d (%s) = %d, want %d", i, s.op, got, s.want)
		}
	}
	if in.Value() != "ac" {
		t.Errorf("Value() = %q, want ac", in.Value())
	}
}

func TestLineInputFinish(t *testing.T) {
	in := NewLineInput("x", 10)
	if in.Apply(keys.Event{Op: keys.OpEnter}) != Accepted {
		t.Error("Enter should accept")
	}
	if in.Apply(keys.Event{Op: keys.OpExit}) != Cancelled {
		t.Error("Escape should cancel")
	}
	if in.Apply(keys.Event{Unbound: true}) != Rejected {
		t.Error("unbound key should be rejected")
	}
}
