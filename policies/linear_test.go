package policies

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/zeu5/simple-rl/types"
)

// twoStepMDP visits x1 = [1, 0] then x2 = [0, 1] and terminates. The reward
// of action a at x is wStar[a] . x
type twoStepMDP struct {
	step  int
	wStar [][]float64
}

var twoStepActions = []types.Action{types.NamedAction("zero"), types.NamedAction("one")}

func newTwoStepMDP() *twoStepMDP {
	return &twoStepMDP{wStar: [][]float64{{1, 2}, {3, -1}}}
}

func (m *twoStepMDP) state(step int) types.State {
	switch step {
	case 0:
		return types.NewVectorState([]float64{1, 0}, false)
	case 1:
		return types.NewVectorState([]float64{0, 1}, false)
	}
	return types.NewVectorState([]float64{0, 0}, true)
}

func (m *twoStepMDP) Name() string              { return "two-step" }
func (m *twoStepMDP) InitialState() types.State { return m.state(0) }
func (m *twoStepMDP) Actions() []types.Action   { return twoStepActions }
func (m *twoStepMDP) Discount() float64         { return 0.5 }
func (m *twoStepMDP) Reset()                    { m.step = 0 }

func (m *twoStepMDP) Step(a types.Action) (float64, types.State, error) {
	i := types.ActionIndex(twoStepActions, a)
	if i < 0 {
		return 0, nil, types.ErrInvalidAction
	}
	if m.step >= 2 {
		return 0, nil, types.ErrStepAfterTerminal
	}
	x := m.state(m.step).Features()
	reward := m.wStar[i][0]*x[0] + m.wStar[i][1]*x[1]
	m.step += 1
	return reward, m.state(m.step), nil
}

func TestLinearConvergence(t *testing.T) {
	mdp := newTwoStepMDP()
	config := DefaultLinearConfig()
	config.Alpha = 0.2
	config.Discount = mdp.Discount()
	config.Epsilon = 0.5
	config.Seed = 11
	agent, err := NewLinear(mdp.Actions(), config)
	if err != nil {
		t.Fatal(err)
	}

	for episode := 0; episode < 2000; episode++ {
		state := mdp.InitialState()
		reward := 0.0
		var last types.Transition
		for !state.Terminal() {
			action, err := agent.Act(state, reward)
			if err != nil {
				t.Fatal(err)
			}
			r, next, err := mdp.Step(action)
			if err != nil {
				t.Fatal(err)
			}
			last = types.Transition{State: state, Action: action, Reward: r, NextState: next}
			reward, state = r, next
		}
		if err := agent.Update(last.State, last.Action, last.Reward, last.NextState); err != nil {
			t.Fatal(err)
		}
		agent.EndOfEpisode()
		mdp.Reset()
	}

	// Q*(x2, a) = wStar[a][1], Q*(x1, a) = wStar[a][0] + 0.5 * max(2, -1)
	expected := [][]float64{{2, 2}, {4, -1}}
	weights := agent.Weights()
	for a, row := range expected {
		for j, w := range row {
			if got := weights.At(a, j); math.Abs(got-w) > 1e-3 {
				t.Errorf("theta[%d][%d]: expected %f, got %f", a, j, w, got)
			}
		}
	}

	q := agent.QValues(mdp.state(0))
	if math.Abs(q[1]-4) > 1e-3 {
		t.Errorf("expected Q(x1, one) = 4, got %f", q[1])
	}
}

func TestLinearGrowsWithLongerStates(t *testing.T) {
	config := DefaultLinearConfig()
	config.Alpha = 1
	config.Discount = 0
	agent, err := NewLinear(abc, config)
	if err != nil {
		t.Fatal(err)
	}
	short := types.NewVectorState([]float64{1}, false)
	long := types.NewVectorState([]float64{1, 2}, false)

	if err := agent.Update(short, actionA, 1, short); err != nil {
		t.Fatal(err)
	}
	if err := agent.Update(long, actionA, 0, long); err != nil {
		t.Fatal(err)
	}
	r, c := agent.Weights().Dims()
	if r != 3 || c != 2 {
		t.Fatalf("expected 3x2 weights, got %dx%d", r, c)
	}
	// the short state is padded with zeros
	if v := agent.QValue(short, actionA); v != agent.Weights().At(0, 0) {
		t.Errorf("expected padded evaluation, got %f", v)
	}
}

func TestLinearFeatureCap(t *testing.T) {
	config := DefaultLinearConfig()
	config.MaxFeatures = 2
	agent, err := NewLinear(abc, config)
	if err != nil {
		t.Fatal(err)
	}
	s := types.NewVectorState([]float64{1, 2, 3}, false)
	_, err = agent.Act(s, 0)
	if !errors.Is(err, types.ErrFeatureDimension) {
		t.Errorf("expected a feature dimension error, got %v", err)
	}
}

func TestLinearDriverRun(t *testing.T) {
	mdp := newTwoStepMDP()
	config := DefaultLinearConfig()
	config.Discount = mdp.Discount()
	config.Seed = 5
	agent, err := NewLinear(mdp.Actions(), config)
	if err != nil {
		t.Fatal(err)
	}
	comparison := types.NewComparison(&types.ComparisonConfig{Instances: 2, Episodes: 3, Steps: 5}, mdp, nil)
	comparison.AddAgent(agent)
	if err := comparison.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if agent.Weights() != nil {
		t.Errorf("expected the agent to be reset")
	}
}
