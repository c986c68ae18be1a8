// Package chain implements the chain MDP: a line of states where moving
// forward from the last state pays off and resetting pays a little.
package chain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zeu5/simple-rl/types"
)

const (
	// ForwardReward is paid for moving forward from the last state
	ForwardReward = 1.0
	// ResetReward is paid for going back to the first state
	ResetReward = 0.01
)

var (
	Forward = types.NamedAction("forward")
	Reset   = types.NamedAction("reset")
)

// State is the position in the chain, starting from 0
type State struct {
	Num int
}

var _ types.State = State{}

func (s State) Features() []float64 {
	return []float64{float64(s.Num)}
}

// Terminal is always false, episodes end at the step limit
func (s State) Terminal() bool {
	return false
}

func (s State) Hash() string {
	return strconv.Itoa(s.Num)
}

func (s State) String() string {
	return "s." + strconv.Itoa(s.Num)
}

// ChainMDP of Length states
type ChainMDP struct {
	Length   int
	cur      int
	discount float64
}

var _ types.MDP = &ChainMDP{}

func NewChainMDP(length int, discount float64) (*ChainMDP, error) {
	if length <= 0 {
		return nil, fmt.Errorf("chain length should be positive, got %d", length)
	}
	if discount < 0 || discount >= 1 {
		return nil, fmt.Errorf("discount should be in [0, 1), got %f", discount)
	}
	return &ChainMDP{
		Length:   length,
		discount: discount,
	}, nil
}

func (c *ChainMDP) Name() string {
	return "chain-" + strconv.Itoa(c.Length)
}

func (c *ChainMDP) InitialState() types.State {
	return State{Num: 0}
}

func (c *ChainMDP) Actions() []types.Action {
	return []types.Action{Forward, Reset}
}

func (c *ChainMDP) Discount() float64 {
	return c.discount
}

// Current state of the chain
func (c *ChainMDP) Current() State {
	return State{Num: c.cur}
}

func (c *ChainMDP) Reset() {
	c.cur = 0
}

func (c *ChainMDP) Step(a types.Action) (float64, types.State, error) {
	if a == nil {
		return 0, nil, fmt.Errorf("%w: nil action", types.ErrInvalidAction)
	}
	switch a.Hash() {
	case Forward.Hash():
		reward := 0.0
		if c.cur == c.Length-1 {
			reward = ForwardReward
		} else {
			c.cur += 1
		}
		return reward, State{Num: c.cur}, nil
	case Reset.Hash():
		c.cur = 0
		return ResetReward, State{Num: c.cur}, nil
	}
	return 0, nil, fmt.Errorf("%w: %s", types.ErrInvalidAction, a.Hash())
}

// OptimalQ is the optimal value of taking the action at state n of a chain
// of the given length: always moving forward earns ForwardReward on every
// step once the last state is reached.
func OptimalQ(length int, discount float64, n int, a types.Action) float64 {
	// value of being at the last state and moving forward forever
	vLast := ForwardReward / (1 - discount)
	forward := func(n int) float64 {
		return math.Pow(discount, float64(length-1-n)) * vLast
	}
	if a.Hash() == Forward.Hash() {
		if n == length-1 {
			return vLast
		}
		return forward(n)
	}
	return ResetReward + discount*forward(0)
}
