package policies

import (
	"fmt"

	"github.com/zeu5/simple-rl/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearConfig configures the linear approximation Q learner
type LinearConfig struct {
	Name     string
	Alpha    float64
	Discount float64
	// MaxFeatures caps the number of state features, 0 for no cap
	MaxFeatures int
	ExploreConfig
}

func DefaultLinearConfig() LinearConfig {
	return LinearConfig{
		Name:          "linear-q",
		Alpha:         0.05,
		Discount:      0.95,
		ExploreConfig: DefaultExploreConfig(),
	}
}

func (c LinearConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha should be in (0, 1], got %f", c.Alpha)
	}
	if c.MaxFeatures < 0 {
		return fmt.Errorf("max features should not be negative, got %d", c.MaxFeatures)
	}
	return nil
}

// Linear approximates Q(s, a) as the dot product of the state features with
// a weight vector per action. Weights are rows of an actions x features
// matrix that grows when longer states are observed, shorter states are
// padded with zeros.
type Linear struct {
	agentBase
	alpha       float64
	anneal      bool
	maxFeatures int

	// nil until the first state is observed
	weights *mat.Dense
}

var _ types.Agent = &Linear{}
var _ types.QValuer = &Linear{}

func NewLinear(actions []types.Action, config LinearConfig) (*Linear, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	base, err := newAgentBase(config.Name, actions, config.Discount, config.ExploreConfig)
	if err != nil {
		return nil, err
	}
	return &Linear{
		agentBase:   base,
		alpha:       config.Alpha,
		anneal:      config.Anneal,
		maxFeatures: config.MaxFeatures,
	}, nil
}

// Weights returns a copy of the weight matrix, nil if nothing was learned yet
func (l *Linear) Weights() *mat.Dense {
	if l.weights == nil {
		return nil
	}
	return mat.DenseCopyOf(l.weights)
}

func (l *Linear) width() int {
	if l.weights == nil {
		return 0
	}
	_, c := l.weights.Dims()
	return c
}

// fit grows the weights to accommodate n features
func (l *Linear) fit(n int) error {
	if l.maxFeatures > 0 && n > l.maxFeatures {
		return fmt.Errorf("%w: state has %d features, at most %d supported", types.ErrFeatureDimension, n, l.maxFeatures)
	}
	cur := l.width()
	if n <= cur || n == 0 {
		return nil
	}
	weights := mat.NewDense(len(l.actions), n, nil)
	if l.weights != nil {
		weights.Slice(0, len(l.actions), 0, cur).(*mat.Dense).Copy(l.weights)
	}
	l.weights = weights
	return nil
}

// QValue is 0 until a state has been observed. Features beyond the learned
// width carry no weight.
func (l *Linear) QValue(state types.State, action types.Action) float64 {
	i := types.ActionIndex(l.actions, action)
	if i < 0 || l.weights == nil {
		return 0
	}
	phi := state.Features()
	w := l.weights.RawRowView(i)
	if len(phi) > len(w) {
		phi = phi[:len(w)]
	}
	return floats.Dot(w[:len(phi)], phi)
}

// QValues computes the values of all actions at once
func (l *Linear) QValues(state types.State) []float64 {
	if l.weights == nil {
		return make([]float64, len(l.actions))
	}
	phi := make([]float64, l.width())
	copy(phi, state.Features())
	var out mat.VecDense
	out.MulVec(l.weights, mat.NewVecDense(len(phi), phi))
	return mat.Col(nil, 0, &out)
}

func (l *Linear) learningRate() float64 {
	if l.anneal {
		return anneal(l.alpha, l.steps)
	}
	return l.alpha
}

func (l *Linear) Act(state types.State, lastReward float64) (types.Action, error) {
	if err := l.fit(len(state.Features())); err != nil {
		return nil, err
	}
	return l.act(state, lastReward, l.QValue, l.Update)
}

func (l *Linear) Update(state types.State, action types.Action, reward float64, nextState types.State) error {
	i, err := l.transition(state, action, nextState)
	if err != nil {
		return skipMalformed(err)
	}
	phi := state.Features()
	if err := l.fit(len(phi)); err != nil {
		return err
	}
	if l.weights == nil {
		// no features, nothing to learn
		return nil
	}

	delta := reward + l.discount*MaxQ(l.QValue, nextState, l.actions) - l.QValue(state, action)
	w := l.weights.RawRowView(i)
	floats.AddScaled(w[:len(phi)], l.learningRate()*delta, phi)
	return nil
}

func (l *Linear) EndOfEpisode() error {
	l.endOfEpisode()
	return nil
}

func (l *Linear) EndOfInstance() {}

func (l *Linear) Reset() {
	l.reset()
	l.weights = nil
}
