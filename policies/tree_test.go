package policies

import (
	"math"
	"testing"
)

func TestRegressionTreeStep(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}
	y := []float64{1, 1, 1, 5, 5, 5}
	tree := FitRegressionTree(x, y, 1)

	if tree.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", tree.Depth())
	}
	if tree.Root.Feature != 0 || tree.Root.Threshold != 2.5 {
		t.Errorf("expected split at 2.5, got %d <= %f", tree.Root.Feature, tree.Root.Threshold)
	}
	for i, row := range x {
		if v := tree.Predict(row); v != y[i] {
			t.Errorf("predict(%v): expected %f, got %f", row, y[i], v)
		}
	}
}

func TestRegressionTreeDepthZeroIsMean(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	y := []float64{1, 2, 6}
	tree := FitRegressionTree(x, y, 0)
	if v := tree.Predict([]float64{7}); v != 3 {
		t.Errorf("expected the mean 3, got %f", v)
	}
}

func TestRegressionTreeRespectsMaxDepth(t *testing.T) {
	x := make([][]float64, 0)
	y := make([]float64, 0)
	for i := 0; i < 32; i++ {
		x = append(x, []float64{float64(i), float64(i % 3)})
		y = append(y, math.Sin(float64(i)))
	}
	for depth := 0; depth < 5; depth++ {
		if d := FitRegressionTree(x, y, depth).Depth(); d > depth {
			t.Errorf("expected depth at most %d, got %d", depth, d)
		}
	}
}

func TestRegressionTreeSecondFeature(t *testing.T) {
	x := [][]float64{{0, 0}, {0, 1}, {0, 0}, {0, 1}}
	y := []float64{-1, 1, -1, 1}
	tree := FitRegressionTree(x, y, 2)
	if tree.Root.Feature != 1 {
		t.Errorf("expected a split on feature 1, got %d", tree.Root.Feature)
	}
	if v := tree.Predict([]float64{0, 1}); v != 1 {
		t.Errorf("expected 1, got %f", v)
	}
	// missing features read as 0
	if v := tree.Predict([]float64{0}); v != -1 {
		t.Errorf("expected -1, got %f", v)
	}
}
