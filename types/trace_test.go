package types

import (
	"errors"
	"testing"
)

func TestTrace(t *testing.T) {
	trace := NewTrace()
	if _, ok := trace.Last(); ok {
		t.Errorf("empty trace has no last transition")
	}
	if trace.Terminated() {
		t.Errorf("empty trace cannot be terminated")
	}

	s0 := NewVectorState([]float64{0}, false)
	s1 := NewVectorState([]float64{1}, false)
	s2 := NewVectorState([]float64{2}, true)
	trace.Append(s0, NamedAction("a"), 1.5, s1)
	trace.Append(s1, NamedAction("b"), -0.5, s2)

	if trace.Len() != 2 {
		t.Errorf("expected length 2, got %d", trace.Len())
	}
	if trace.Return() != 1 {
		t.Errorf("expected return 1, got %f", trace.Return())
	}
	if !trace.Terminated() {
		t.Errorf("expected the trace to be terminated")
	}
	tr, ok := trace.Get(0)
	if !ok || !tr.Valid() || tr.Action.Hash() != "a" || tr.Reward != 1.5 {
		t.Errorf("unexpected first transition %v", tr)
	}
	if _, ok := trace.Get(2); ok {
		t.Errorf("expected out of range")
	}
	if (Transition{State: s0, NextState: s1}).Valid() {
		t.Errorf("transition without action should not be valid")
	}
	malformed := []Transition{
		{Action: NamedAction("a"), NextState: s1},
		{State: s0, NextState: s1},
		{State: s0, Action: NamedAction("a")},
	}
	for i, tr := range malformed {
		if err := tr.Check(); !errors.Is(err, ErrMalformedTransition) {
			t.Errorf("case %d: expected ErrMalformedTransition, got %v", i, err)
		}
	}
	if err := tr.Check(); err != nil {
		t.Errorf("unexpected error %s", err)
	}
}
