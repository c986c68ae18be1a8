package policies

import (
	"github.com/zeu5/simple-rl/types"
)

// Random picks actions uniformly and never learns
type Random struct {
	agentBase
}

var _ types.Agent = &Random{}

// NewRandom creates a random agent. Only the seed of the exploration
// configuration is used.
func NewRandom(name string, actions []types.Action, discount float64, seed uint64) (*Random, error) {
	if name == "" {
		name = "random"
	}
	base, err := newAgentBase(name, actions, discount, ExploreConfig{Explore: EpsilonGreedy, Epsilon: 1, Seed: seed})
	if err != nil {
		return nil, err
	}
	return &Random{agentBase: base}, nil
}

func (r *Random) Act(state types.State, _ float64) (types.Action, error) {
	r.steps += 1
	return r.explorer.uniform(r.actions), nil
}

func (r *Random) Update(types.State, types.Action, float64, types.State) error {
	return nil
}

func (r *Random) EndOfEpisode() error {
	return nil
}

func (r *Random) EndOfInstance() {}

func (r *Random) Reset() {
	r.reset()
}
