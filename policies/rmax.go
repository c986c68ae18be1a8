package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/simple-rl/types"
)

// RMaxConfig configures the RMax agent
type RMaxConfig struct {
	Name     string
	Discount float64
	// M is the number of visits after which a state action pair is known
	M int
	// RMax is the largest reward of the MDP
	RMax float64
	// Epsilon is the convergence threshold of value iteration
	Epsilon float64
	// MaxIterations bounds value iteration
	MaxIterations int
}

func DefaultRMaxConfig() RMaxConfig {
	return RMaxConfig{
		Name:          "rmax",
		Discount:      0.95,
		M:             5,
		RMax:          1.0,
		Epsilon:       0.01,
		MaxIterations: 1000,
	}
}

func (c RMaxConfig) Validate() error {
	if c.M <= 0 {
		return fmt.Errorf("m should be positive, got %d", c.M)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon should be positive, got %f", c.Epsilon)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max iterations should be positive, got %d", c.MaxIterations)
	}
	return nil
}

// rmaxPair holds the statistics of a state action pair
type rmaxPair struct {
	count     int
	totalR    float64
	nextCount map[string]int
}

// RMax is model based. Pairs visited fewer than M times are assumed to be
// worth RMax/(1-γ). Once a pair becomes known the values of the learned model
// are recomputed with value iteration.
type RMax struct {
	agentBase
	m             int
	vmax          float64
	epsilon       float64
	maxIterations int

	model  map[string]map[string]*rmaxPair
	states map[string]types.State
	qTable *QTable
}

var _ types.Agent = &RMax{}
var _ types.QValuer = &RMax{}

func NewRMax(actions []types.Action, config RMaxConfig) (*RMax, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	base, err := newAgentBase(config.Name, actions, config.Discount, ExploreConfig{Explore: EpsilonGreedy})
	if err != nil {
		return nil, err
	}
	return &RMax{
		agentBase:     base,
		m:             config.M,
		vmax:          config.RMax / (1 - config.Discount),
		epsilon:       config.Epsilon,
		maxIterations: config.MaxIterations,
		model:         make(map[string]map[string]*rmaxPair),
		states:        make(map[string]types.State),
		qTable:        NewQTable(),
	}, nil
}

func (r *RMax) pair(state, action string) *rmaxPair {
	if _, ok := r.model[state]; !ok {
		r.model[state] = make(map[string]*rmaxPair)
	}
	p, ok := r.model[state][action]
	if !ok {
		p = &rmaxPair{nextCount: make(map[string]int)}
		r.model[state][action] = p
	}
	return p
}

func (r *RMax) known(state, action string) bool {
	p, ok := r.model[state][action]
	return ok && p.count >= r.m
}

// Known reports whether the pair was visited at least M times
func (r *RMax) Known(state types.State, action types.Action) bool {
	return r.known(state.Hash(), action.Hash())
}

func (r *RMax) QValue(state types.State, action types.Action) float64 {
	return r.qValue(state.Hash(), action.Hash())
}

func (r *RMax) qValue(state, action string) float64 {
	if !r.known(state, action) {
		return r.vmax
	}
	return r.qTable.Get(state, action, r.vmax)
}

func (r *RMax) value(state string) float64 {
	if s, ok := r.states[state]; ok && s.Terminal() {
		return 0
	}
	best := math.Inf(-1)
	for _, a := range r.actions {
		if v := r.qValue(state, a.Hash()); v > best {
			best = v
		}
	}
	return best
}

func (r *RMax) Act(state types.State, lastReward float64) (types.Action, error) {
	if err := r.Update(r.prevState, r.prevAction, lastReward, state); err != nil {
		return nil, err
	}
	action, _ := Greedy(r.QValue, state, r.actions)
	r.prevState = state
	r.prevAction = action
	r.steps += 1
	return action, nil
}

func (r *RMax) Update(state types.State, action types.Action, reward float64, nextState types.State) error {
	if _, err := r.transition(state, action, nextState); err != nil {
		return skipMalformed(err)
	}
	stateHash, actionHash, nextHash := state.Hash(), action.Hash(), nextState.Hash()
	r.states[stateHash] = state
	r.states[nextHash] = nextState

	p := r.pair(stateHash, actionHash)
	p.count += 1
	p.totalR += reward
	p.nextCount[nextHash] += 1
	if p.count == r.m {
		r.valueIteration()
	}
	return nil
}

// valueIteration recomputes the values of the known pairs until the largest
// change is below epsilon
func (r *RMax) valueIteration() {
	for i := 0; i < r.maxIterations; i++ {
		maxDiff := 0.0
		for s, actions := range r.model {
			for a, p := range actions {
				if p.count < r.m {
					continue
				}
				q := p.totalR / float64(p.count)
				for next, c := range p.nextCount {
					q += r.discount * float64(c) / float64(p.count) * r.value(next)
				}
				diff := math.Abs(q - r.qTable.Get(s, a, r.vmax))
				if diff > maxDiff {
					maxDiff = diff
				}
				r.qTable.Set(s, a, q)
			}
		}
		if maxDiff < r.epsilon {
			return
		}
	}
}

func (r *RMax) EndOfEpisode() error {
	r.endOfEpisode()
	return nil
}

func (r *RMax) EndOfInstance() {}

func (r *RMax) Reset() {
	r.reset()
	r.model = make(map[string]map[string]*rmaxPair)
	r.states = make(map[string]types.State)
	r.qTable = NewQTable()
}
