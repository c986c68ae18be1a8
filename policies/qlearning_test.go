package policies

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/zeu5/simple-rl/chain"
	"github.com/zeu5/simple-rl/types"
)

// qCapture records Q values of the first state at the end of each instance
type qCapture struct {
	types.NoopRecorder
	state  types.State
	values []map[string]float64
}

func (q *qCapture) EndOfInstance(agent types.Agent, _ int) {
	valuer := agent.(types.QValuer)
	vals := make(map[string]float64)
	for _, a := range agent.Actions() {
		vals[a.Hash()] = valuer.QValue(q.state, a)
	}
	q.values = append(q.values, vals)
}

// A greedy learner settles on the reset loop before it sees the end of the
// chain. Q learning is off policy, a uniform behaviour still converges to
// the optimal values. The chain is deterministic so alpha can be 1.
func TestQLearningChainConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("long running")
	}
	mdp, err := chain.NewChainMDP(15, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	config := DefaultQLearningConfig()
	config.Alpha = 1
	config.Epsilon = 1
	config.Seed = 42
	agent, err := NewQLearning(mdp.Actions(), config)
	if err != nil {
		t.Fatal(err)
	}

	capture := &qCapture{state: mdp.InitialState()}
	comparison := types.NewComparison(&types.ComparisonConfig{
		Instances: 1,
		Episodes:  10000,
		Steps:     1000,
	}, mdp, capture)
	comparison.AddAgent(agent)
	if err := comparison.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(capture.values) != 1 {
		t.Fatalf("expected values of one instance, got %d", len(capture.values))
	}

	forward := math.Pow(0.95, 14) * 20
	reset := 0.01 + 0.95*forward
	if v := capture.values[0]["forward"]; math.Abs(v-forward) > 1e-2 {
		t.Errorf("Q(0, forward): expected %f, got %f", forward, v)
	}
	if v := capture.values[0]["reset"]; math.Abs(v-reset) > 1e-2 {
		t.Errorf("Q(0, reset): expected %f, got %f", reset, v)
	}
	if o := chain.OptimalQ(15, 0.95, 0, chain.Forward); math.Abs(o-forward) > 1e-9 {
		t.Errorf("optimal Q mismatch: %f and %f", o, forward)
	}

	// the agent is reset after the instance
	if v := agent.QValue(mdp.InitialState(), chain.Forward); v != 0 {
		t.Errorf("expected a reset agent, got Q = %f", v)
	}
}

func TestQLearningUpdate(t *testing.T) {
	s0 := types.NewVectorState([]float64{0}, false)
	s1 := types.NewVectorState([]float64{1}, false)
	end := types.NewVectorState([]float64{2}, true)

	config := DefaultQLearningConfig()
	config.Alpha = 0.5
	config.Discount = 0.9
	agent, err := NewQLearning(abc, config)
	if err != nil {
		t.Fatal(err)
	}

	if err := agent.Update(s1, actionB, 2, s0); err != nil {
		t.Fatal(err)
	}
	if v := agent.QValue(s1, actionB); v != 1 {
		t.Errorf("expected 1, got %f", v)
	}
	// 0 + 0.5 * (1 + 0.9 * 1 - 0)
	if err := agent.Update(s0, actionA, 1, s1); err != nil {
		t.Fatal(err)
	}
	if v := agent.QValue(s0, actionA); math.Abs(v-0.95) > 1e-12 {
		t.Errorf("expected 0.95, got %f", v)
	}
	// terminal next state contributes nothing
	if err := agent.Update(s0, actionC, 1, end); err != nil {
		t.Fatal(err)
	}
	if v := agent.QValue(s0, actionC); v != 0.5 {
		t.Errorf("expected 0.5, got %f", v)
	}
}

func TestQLearningMalformedTransitionIsNoop(t *testing.T) {
	agent, err := NewQLearning(abc, DefaultQLearningConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := types.NewVectorState([]float64{0}, false)
	if err := agent.Update(nil, actionA, 1, s); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if err := agent.Update(s, nil, 1, s); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if err := agent.Update(s, actionA, 1, nil); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if agent.qTable.Len() != 0 || agent.qTable.HasState(s.Hash()) {
		t.Errorf("expected an empty table")
	}
	if _, err := agent.transition(s, nil, s); !errors.Is(err, types.ErrMalformedTransition) {
		t.Errorf("expected ErrMalformedTransition, got %v", err)
	}
	if err := agent.Update(s, types.NamedAction("x"), 1, s); !errors.Is(err, types.ErrInvalidAction) {
		t.Errorf("expected an invalid action error, got %v", err)
	}
	if err := agent.Update(s, actionA, 1, s); err != nil {
		t.Fatal(err)
	}
	if !agent.qTable.HasState(s.Hash()) {
		t.Errorf("expected the state in the table")
	}
}

func TestQLearningResetKeepsConfiguration(t *testing.T) {
	config := DefaultQLearningConfig()
	config.Name = "q"
	config.Discount = 0.5
	agent, err := NewQLearning(abc, config)
	if err != nil {
		t.Fatal(err)
	}
	s := types.NewVectorState([]float64{0}, false)
	agent.Update(s, actionA, 1, s)
	agent.Reset()

	if agent.Name() != "q" || agent.Discount() != 0.5 || len(agent.Actions()) != 3 {
		t.Errorf("configuration changed by reset")
	}
	if v := agent.QValue(s, actionA); v != 0 {
		t.Errorf("expected the default value after reset, got %f", v)
	}
}

func TestQTableRecord(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", 1)
	q.Set("s", "a", 2)
	if v := q.Get("s", "a", 0); v != 2 {
		t.Errorf("expected the last value set, got %f", v)
	}
	if err := q.Record(filepath.Join(t.TempDir(), "q.json")); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
