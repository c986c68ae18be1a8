package policies

import (
	"fmt"
	"math"
	"time"

	"github.com/zeu5/simple-rl/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Explore is the exploration strategy used to select actions
type Explore int

const (
	EpsilonGreedy Explore = iota
	Softmax
)

func (e Explore) String() string {
	switch e {
	case EpsilonGreedy:
		return "uniform"
	case Softmax:
		return "softmax"
	}
	return fmt.Sprintf("Explore(%d)", int(e))
}

// ParseExplore accepts "uniform" (or "epsilon") and "softmax"
func ParseExplore(s string) (Explore, error) {
	switch s {
	case "uniform", "epsilon", "egreedy":
		return EpsilonGreedy, nil
	case "softmax":
		return Softmax, nil
	}
	return EpsilonGreedy, fmt.Errorf("unknown exploration strategy: %s", s)
}

// annealing period in steps
const annealSteps = 200

// ExploreConfig configures action selection
type ExploreConfig struct {
	Explore     Explore
	Epsilon     float64 // probability of a uniformly random action
	Temperature float64 // softmax temperature
	// Anneal decays epsilon (and the learning rate of the agents that have
	// one) as x0 / (1 + steps/200)
	Anneal bool
	// Seed of the random source, 0 picks a time based seed
	Seed uint64
}

func DefaultExploreConfig() ExploreConfig {
	return ExploreConfig{
		Explore:     EpsilonGreedy,
		Epsilon:     0.1,
		Temperature: 1.0,
	}
}

func (c ExploreConfig) Validate() error {
	switch c.Explore {
	case EpsilonGreedy:
		if c.Epsilon < 0 || c.Epsilon > 1 {
			return fmt.Errorf("epsilon should be in [0, 1], got %f", c.Epsilon)
		}
	case Softmax:
		if c.Temperature <= 0 {
			return fmt.Errorf("temperature should be positive, got %f", c.Temperature)
		}
	default:
		return fmt.Errorf("invalid exploration strategy: %s", c.Explore)
	}
	return nil
}

// QFunc evaluates a state action pair
type QFunc func(types.State, types.Action) float64

// MaxQ is the largest value among the actions at s. Terminal (or absent)
// states are worth 0.
func MaxQ(q QFunc, s types.State, actions []types.Action) float64 {
	if s == nil || s.Terminal() || len(actions) == 0 {
		return 0
	}
	_, val := Greedy(q, s, actions)
	return val
}

// Greedy returns the action with the largest value, ties go to the action
// that comes first in the ordering
func Greedy(q QFunc, s types.State, actions []types.Action) (types.Action, float64) {
	var best types.Action
	bestVal := math.Inf(-1)
	for _, a := range actions {
		val := q(s, a)
		if best == nil || val > bestVal {
			best = a
			bestVal = val
		}
	}
	return best, bestVal
}

func anneal(x0 float64, steps int) float64 {
	return x0 / (1 + float64(steps/annealSteps))
}

type explorer struct {
	config ExploreConfig
	source rand.Source
	rand   *rand.Rand
}

func newExplorer(config ExploreConfig) *explorer {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	source := rand.NewSource(seed)
	return &explorer{
		config: config,
		source: source,
		rand:   rand.New(source),
	}
}

func (e *explorer) epsilon(steps int) float64 {
	if e.config.Anneal {
		return anneal(e.config.Epsilon, steps)
	}
	return e.config.Epsilon
}

func (e *explorer) uniform(actions []types.Action) types.Action {
	return actions[e.rand.Intn(len(actions))]
}

// choose an action at the state given the number of steps taken so far
func (e *explorer) choose(q QFunc, s types.State, actions []types.Action, steps int) types.Action {
	switch e.config.Explore {
	case Softmax:
		return e.softmax(q, s, actions)
	default:
		if e.rand.Float64() < e.epsilon(steps) {
			return e.uniform(actions)
		}
		a, _ := Greedy(q, s, actions)
		return a
	}
}

func (e *explorer) softmax(q QFunc, s types.State, actions []types.Action) types.Action {
	vals := make([]float64, len(actions))
	maxVal := math.Inf(-1)
	for i, a := range actions {
		vals[i] = q(s, a) / e.config.Temperature
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}
	sum := 0.0
	for i, v := range vals {
		vals[i] = math.Exp(v - maxVal)
		sum += vals[i]
	}
	for i := range vals {
		vals[i] /= sum
	}
	i, ok := sampleuv.NewWeighted(vals, e.source).Take()
	if !ok {
		a, _ := Greedy(q, s, actions)
		return a
	}
	return actions[i]
}
