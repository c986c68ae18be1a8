package policies

import (
	"math"
	"testing"

	"github.com/zeu5/simple-rl/types"
)

var (
	actionA = types.NamedAction("a")
	actionB = types.NamedAction("b")
	actionC = types.NamedAction("c")
	abc     = []types.Action{actionA, actionB, actionC}
)

func constQ(vals map[string]float64) QFunc {
	return func(_ types.State, a types.Action) float64 {
		return vals[a.Hash()]
	}
}

func TestGreedyTiesGoToFirstAction(t *testing.T) {
	s := types.NewVectorState([]float64{0}, false)
	a, val := Greedy(constQ(map[string]float64{"a": 1, "b": 2, "c": 2}), s, abc)
	if a != actionB {
		t.Errorf("expected action b, got %v", a)
	}
	if val != 2 {
		t.Errorf("expected value 2, got %f", val)
	}

	a, _ = Greedy(constQ(map[string]float64{}), s, abc)
	if a != actionA {
		t.Errorf("expected the first action on all ties, got %v", a)
	}
}

func TestMaxQTerminal(t *testing.T) {
	q := constQ(map[string]float64{"a": 5, "b": -1})
	if v := MaxQ(q, types.NewVectorState([]float64{1}, true), abc); v != 0 {
		t.Errorf("terminal state should be worth 0, got %f", v)
	}
	if v := MaxQ(q, nil, abc); v != 0 {
		t.Errorf("missing state should be worth 0, got %f", v)
	}
	if v := MaxQ(q, types.NewVectorState([]float64{1}, false), abc); v != 5 {
		t.Errorf("expected 5, got %f", v)
	}
}

func TestEpsilonZeroIsGreedy(t *testing.T) {
	e := newExplorer(ExploreConfig{Explore: EpsilonGreedy, Epsilon: 0, Seed: 1})
	s := types.NewVectorState([]float64{0}, false)
	q := constQ(map[string]float64{"c": 1})
	for i := 0; i < 100; i++ {
		if a := e.choose(q, s, abc, i); a != actionC {
			t.Fatalf("expected the greedy action c, got %v", a)
		}
	}
}

func TestSoftmaxPrefersLargerValues(t *testing.T) {
	e := newExplorer(ExploreConfig{Explore: Softmax, Temperature: 0.5, Seed: 7})
	s := types.NewVectorState([]float64{0}, false)
	q := constQ(map[string]float64{"a": 0, "b": 3, "c": 0})

	counts := make(map[types.Action]int)
	for i := 0; i < 1000; i++ {
		counts[e.choose(q, s, abc, i)] += 1
	}
	// p(b) = e^6 / (e^6 + 2) > 0.99
	if counts[actionB] < 950 {
		t.Errorf("expected b to dominate, got %v", counts)
	}
}

func TestSoftmaxHandlesLargeValues(t *testing.T) {
	e := newExplorer(ExploreConfig{Explore: Softmax, Temperature: 1, Seed: 3})
	s := types.NewVectorState([]float64{0}, false)
	q := constQ(map[string]float64{"a": 1e4, "b": 1e4 - 100})
	if a := e.choose(q, s, abc, 0); a != actionA {
		t.Errorf("expected a, got %v", a)
	}
}

func TestAnneal(t *testing.T) {
	cases := []struct {
		steps    int
		expected float64
	}{
		{0, 0.4},
		{199, 0.4},
		{200, 0.2},
		{600, 0.1},
	}
	for _, c := range cases {
		if v := anneal(0.4, c.steps); math.Abs(v-c.expected) > 1e-12 {
			t.Errorf("anneal(0.4, %d): expected %f, got %f", c.steps, c.expected, v)
		}
	}
}

func TestParseExplore(t *testing.T) {
	if e, err := ParseExplore("softmax"); err != nil || e != Softmax {
		t.Errorf("expected softmax, got %v %v", e, err)
	}
	if e, err := ParseExplore("uniform"); err != nil || e != EpsilonGreedy {
		t.Errorf("expected uniform, got %v %v", e, err)
	}
	if _, err := ParseExplore("boltzmann"); err == nil {
		t.Errorf("expected an error for an unknown strategy")
	}
}

func TestExploreConfigValidate(t *testing.T) {
	if err := (ExploreConfig{Explore: EpsilonGreedy, Epsilon: 1.5}).Validate(); err == nil {
		t.Errorf("expected an error for epsilon > 1")
	}
	if err := (ExploreConfig{Explore: Softmax}).Validate(); err == nil {
		t.Errorf("expected an error for a zero temperature")
	}
	if err := DefaultExploreConfig().Validate(); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
