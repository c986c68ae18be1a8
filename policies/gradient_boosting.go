package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/simple-rl/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regressor is a single stage least squares boosting model: a constant
// plus a shrunk regression tree fitted on the residuals of the constant
type Regressor struct {
	Init      float64         `json:"init"`
	Shrinkage float64         `json:"shrinkage"`
	Tree      *RegressionTree `json:"tree"`
	// Width of the feature vectors the regressor was trained on, the last
	// column holds the action ordinal
	Width int `json:"width"`
}

// FitRegressor fits a regressor on the rows of x, all of the same length
func FitRegressor(x [][]float64, y []float64, maxDepth int, shrinkage float64) (*Regressor, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d samples for %d targets", types.ErrDegenerateFit, len(x), len(y))
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non finite target %f", types.ErrDegenerateFit, v)
		}
	}
	init := stat.Mean(y, nil)
	residuals := make([]float64, len(y))
	copy(residuals, y)
	floats.AddConst(-init, residuals)

	r := &Regressor{
		Init:      init,
		Shrinkage: shrinkage,
		Tree:      FitRegressionTree(x, residuals, maxDepth),
		Width:     len(x[0]),
	}
	if v := r.Predict(x[0]); math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: prediction %f", types.ErrDegenerateFit, v)
	}
	return r, nil
}

// Predict evaluates the regressor on a padded feature vector whose last
// element is the action ordinal. Vectors longer than the training width
// keep their action in the last element, the extra state features were
// zero for every training sample and are not read.
func (r *Regressor) Predict(phi []float64) float64 {
	x := make([]float64, r.Width)
	if len(phi) > 0 && r.Width > 0 {
		copy(x[:r.Width-1], phi[:len(phi)-1])
		x[r.Width-1] = phi[len(phi)-1]
	}
	return r.Init + r.Shrinkage*r.Tree.Predict(x)
}

// Ensemble is the value function of the gradient boosting agent. It is a
// plain record, the agent owns it and passes it to the fit and query functions.
type Ensemble struct {
	Regressors []*Regressor `json:"regressors"`
	// MaxFeatures is the largest number of state features observed so far
	MaxFeatures int `json:"max_features"`
}

// Pad extends the state features with zeros to the largest observed length
// and appends the action ordinal
func (e *Ensemble) Pad(features []float64, action int) []float64 {
	n := e.MaxFeatures
	if len(features) > n {
		n = len(features)
	}
	phi := make([]float64, n+1)
	copy(phi, features)
	phi[n] = float64(action)
	return phi
}

// Observe accounts for the length of the features. cap bounds the length,
// 0 for no bound.
func (e *Ensemble) Observe(features []float64, cap int) error {
	if cap > 0 && len(features) > cap {
		return fmt.Errorf("%w: state has %d features, at most %d supported", types.ErrFeatureDimension, len(features), cap)
	}
	if len(features) > e.MaxFeatures {
		e.MaxFeatures = len(features)
	}
	return nil
}

// Value is the sum of the regressors at the padded features, 0 without regressors
func (e *Ensemble) Value(features []float64, action int) float64 {
	if len(e.Regressors) == 0 {
		return 0
	}
	phi := e.Pad(features, action)
	sum := 0.0
	for _, r := range e.Regressors {
		sum += r.Predict(phi)
	}
	return sum
}

// Add fits one regressor on the samples and appends it
func (e *Ensemble) Add(x [][]float64, y []float64, maxDepth int, shrinkage float64) error {
	r, err := FitRegressor(x, y, maxDepth, shrinkage)
	if err != nil {
		return err
	}
	e.Regressors = append(e.Regressors, r)
	return nil
}

// GradientBoostingConfig configures the ensemble Q learner
type GradientBoostingConfig struct {
	Name     string
	Discount float64
	// Shrinkage (learning rate) of each regressor
	Shrinkage float64
	// MaxDepth of the regression trees, 0 to use the number of actions
	MaxDepth int
	// MaxFeatures caps the number of state features, 0 for no cap
	MaxFeatures int
	ExploreConfig
}

func DefaultGradientBoostingConfig() GradientBoostingConfig {
	explore := DefaultExploreConfig()
	explore.Explore = Softmax
	return GradientBoostingConfig{
		Name:          "grad_boost",
		Discount:      0.95,
		Shrinkage:     0.1,
		ExploreConfig: explore,
	}
}

func (c GradientBoostingConfig) Validate() error {
	if c.Shrinkage <= 0 {
		return fmt.Errorf("shrinkage should be positive, got %f", c.Shrinkage)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth should not be negative, got %d", c.MaxDepth)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("max features should not be negative, got %d", c.MaxFeatures)
	}
	return nil
}

// GradientBoosting approximates Q with an additive ensemble of regressors.
// Transitions are buffered during the episode and a single regressor is
// fitted on their Bellman residuals at the end of the episode.
type GradientBoosting struct {
	agentBase
	shrinkage   float64
	maxDepth    int
	maxFeatures int

	ensemble *Ensemble
	episode  []types.Transition
}

var _ types.Agent = &GradientBoosting{}
var _ types.QValuer = &GradientBoosting{}

func NewGradientBoosting(actions []types.Action, config GradientBoostingConfig) (*GradientBoosting, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	base, err := newAgentBase(config.Name, actions, config.Discount, config.ExploreConfig)
	if err != nil {
		return nil, err
	}
	maxDepth := config.MaxDepth
	if maxDepth == 0 {
		maxDepth = len(actions)
	}
	return &GradientBoosting{
		agentBase:   base,
		shrinkage:   config.Shrinkage,
		maxDepth:    maxDepth,
		maxFeatures: config.MaxFeatures,
		ensemble:    &Ensemble{},
		episode:     make([]types.Transition, 0),
	}, nil
}

// Ensemble returns the value function, owned by the agent
func (g *GradientBoosting) Ensemble() *Ensemble {
	return g.ensemble
}

// Buffered is the number of transitions waiting for the end of the episode
func (g *GradientBoosting) Buffered() int {
	return len(g.episode)
}

// QValue is 0 for actions outside of the legal set
func (g *GradientBoosting) QValue(state types.State, action types.Action) float64 {
	i := types.ActionIndex(g.actions, action)
	if i < 0 {
		return 0
	}
	return g.ensemble.Value(state.Features(), i)
}

func (g *GradientBoosting) Act(state types.State, lastReward float64) (types.Action, error) {
	return g.act(state, lastReward, g.QValue, g.Update)
}

// Update buffers the transition
func (g *GradientBoosting) Update(state types.State, action types.Action, reward float64, nextState types.State) error {
	if _, err := g.transition(state, action, nextState); err != nil {
		return skipMalformed(err)
	}
	if err := g.ensemble.Observe(state.Features(), g.maxFeatures); err != nil {
		return err
	}
	g.episode = append(g.episode, types.Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
	})
	return nil
}

// EndOfEpisode fits a new regressor on the residuals
// r + γ max_b Q(s', b) - Q(s, a) of the buffered transitions
func (g *GradientBoosting) EndOfEpisode() error {
	defer func() {
		g.episode = make([]types.Transition, 0)
		g.endOfEpisode()
	}()
	if len(g.episode) == 0 {
		return nil
	}

	x := make([][]float64, len(g.episode))
	y := make([]float64, len(g.episode))
	for i, t := range g.episode {
		a := types.ActionIndex(g.actions, t.Action)
		features := t.State.Features()
		x[i] = g.ensemble.Pad(features, a)
		y[i] = t.Reward + g.discount*MaxQ(g.QValue, t.NextState, g.actions) - g.ensemble.Value(features, a)
	}
	return g.ensemble.Add(x, y, g.maxDepth, g.shrinkage)
}

func (g *GradientBoosting) EndOfInstance() {}

func (g *GradientBoosting) Reset() {
	g.reset()
	g.ensemble = &Ensemble{}
	g.episode = make([]types.Transition, 0)
}
