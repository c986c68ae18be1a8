package chain

import (
	"errors"
	"math"
	"testing"

	"github.com/zeu5/simple-rl/types"
)

func TestChainStep(t *testing.T) {
	c, err := NewChainMDP(3, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != "chain-3" {
		t.Errorf("unexpected name %s", c.Name())
	}

	cases := []struct {
		action types.Action
		reward float64
		next   int
	}{
		{Forward, 0, 1},
		{Forward, 0, 2},
		{Forward, ForwardReward, 2},
		{Forward, ForwardReward, 2},
		{Reset, ResetReward, 0},
		{Reset, ResetReward, 0},
	}
	for i, tc := range cases {
		r, s, err := c.Step(tc.action)
		if err != nil {
			t.Fatalf("step %d: %s", i, err)
		}
		if r != tc.reward || s.(State).Num != tc.next || s.Terminal() {
			t.Errorf("step %d: got reward %f state %v", i, r, s)
		}
	}

	c.Step(Forward)
	c.Reset()
	if c.Current().Num != 0 {
		t.Errorf("expected reset to the first state, got %d", c.Current().Num)
	}
}

func TestChainInvalid(t *testing.T) {
	if _, err := NewChainMDP(0, 0.9); err == nil {
		t.Error("expected an error for an empty chain")
	}
	if _, err := NewChainMDP(3, 1); err == nil {
		t.Error("expected an error for discount 1")
	}
	c, _ := NewChainMDP(3, 0.9)
	if _, _, err := c.Step(types.NamedAction("jump")); !errors.Is(err, types.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
}

// OptimalQ satisfies the Bellman optimality equation of the chain
func TestOptimalQ(t *testing.T) {
	length, discount := 5, 0.9
	v := func(n int) float64 {
		return math.Max(OptimalQ(length, discount, n, Forward), OptimalQ(length, discount, n, Reset))
	}
	for n := 0; n < length; n++ {
		next, reward := n+1, 0.0
		if n == length-1 {
			next, reward = n, ForwardReward
		}
		if got, want := OptimalQ(length, discount, n, Forward), reward+discount*v(next); math.Abs(got-want) > 1e-9 {
			t.Errorf("forward at %d: got %f want %f", n, got, want)
		}
		if got, want := OptimalQ(length, discount, n, Reset), ResetReward+discount*v(0); math.Abs(got-want) > 1e-9 {
			t.Errorf("reset at %d: got %f want %f", n, got, want)
		}
	}
}
