package policies

import (
	"errors"
	"fmt"

	"github.com/zeu5/simple-rl/types"
)

// agentBase holds what every agent shares: identity, the legal actions, the
// discount and the previous state action pair that Act integrates lazily
type agentBase struct {
	name     string
	actions  []types.Action
	discount float64
	explorer *explorer

	prevState  types.State
	prevAction types.Action
	steps      int
}

func newAgentBase(name string, actions []types.Action, discount float64, explore ExploreConfig) (agentBase, error) {
	if len(actions) == 0 {
		return agentBase{}, fmt.Errorf("agent %s: no actions", name)
	}
	if discount < 0 || discount >= 1 {
		return agentBase{}, fmt.Errorf("agent %s: discount should be in [0, 1), got %f", name, discount)
	}
	if err := explore.Validate(); err != nil {
		return agentBase{}, fmt.Errorf("agent %s: %w", name, err)
	}
	a := make([]types.Action, len(actions))
	copy(a, actions)
	return agentBase{
		name:     name,
		actions:  a,
		discount: discount,
		explorer: newExplorer(explore),
	}, nil
}

func (b *agentBase) Name() string {
	return b.name
}

func (b *agentBase) Actions() []types.Action {
	return b.actions
}

func (b *agentBase) Discount() float64 {
	return b.discount
}

// act integrates the transition that led to state and then selects the next action
func (b *agentBase) act(state types.State, lastReward float64, q QFunc, update func(types.State, types.Action, float64, types.State) error) (types.Action, error) {
	if err := update(b.prevState, b.prevAction, lastReward, state); err != nil {
		return nil, err
	}
	action := b.explorer.choose(q, state, b.actions, b.steps)
	b.prevState = state
	b.prevAction = action
	b.steps += 1
	return action, nil
}

// transition checks the components of a transition and returns the ordinal
// of its action. Updates skip transitions failing with ErrMalformedTransition,
// see skipMalformed.
func (b *agentBase) transition(state types.State, action types.Action, nextState types.State) (int, error) {
	if err := (types.Transition{State: state, Action: action, NextState: nextState}).Check(); err != nil {
		return -1, err
	}
	i := types.ActionIndex(b.actions, action)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", types.ErrInvalidAction, action.Hash())
	}
	return i, nil
}

// skipMalformed recovers from ErrMalformedTransition, the update becomes a no-op
func skipMalformed(err error) error {
	if errors.Is(err, types.ErrMalformedTransition) {
		return nil
	}
	return err
}

func (b *agentBase) endOfEpisode() {
	b.prevState = nil
	b.prevAction = nil
}

func (b *agentBase) reset() {
	b.endOfEpisode()
	b.steps = 0
}
