package benchmarks

import (
	"fmt"

	"github.com/zeu5/simple-rl/policies"
	"github.com/zeu5/simple-rl/types"
)

// agentSeed gives each agent its own seed derived from the seed flag
func agentSeed(i int) uint64 {
	if seed == 0 {
		return 0
	}
	return seed + uint64(i)
}

func exploreConfig(i int) (policies.ExploreConfig, error) {
	e, err := policies.ParseExplore(explore)
	if err != nil {
		return policies.ExploreConfig{}, err
	}
	config := policies.DefaultExploreConfig()
	config.Explore = e
	config.Epsilon = epsilon
	config.Anneal = anneal
	config.Seed = agentSeed(i)
	return config, nil
}

// makeAgent creates the agent of the given kind for the MDP
func makeAgent(kind string, i int, mdp types.MDP) (types.Agent, error) {
	actions := mdp.Actions()
	discount := mdp.Discount()
	exploreCfg, err := exploreConfig(i)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "random":
		return policies.NewRandom("random", actions, discount, agentSeed(i))
	case "qlearner":
		config := policies.DefaultQLearningConfig()
		config.Discount = discount
		config.Alpha = alpha
		config.ExploreConfig = exploreCfg
		return policies.NewQLearning(actions, config)
	case "linear":
		config := policies.DefaultLinearConfig()
		config.Discount = discount
		config.Alpha = alpha
		config.ExploreConfig = exploreCfg
		return policies.NewLinear(actions, config)
	case "rmax":
		config := policies.DefaultRMaxConfig()
		config.Discount = discount
		return policies.NewRMax(actions, config)
	case "grad_boost":
		config := policies.DefaultGradientBoostingConfig()
		config.Discount = discount
		config.Seed = agentSeed(i)
		return policies.NewGradientBoosting(actions, config)
	}
	return nil, fmt.Errorf("unknown agent: %s", kind)
}

func makeAgents(kinds []string, mdp types.MDP) ([]types.Agent, error) {
	out := make([]types.Agent, 0, len(kinds))
	seen := make(map[string]bool)
	for i, kind := range kinds {
		if seen[kind] {
			return nil, fmt.Errorf("agent %s listed twice", kind)
		}
		seen[kind] = true
		agent, err := makeAgent(kind, i, mdp)
		if err != nil {
			return nil, err
		}
		out = append(out, agent)
	}
	return out, nil
}
