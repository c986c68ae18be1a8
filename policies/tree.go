package policies

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// treeNode is either a leaf with a value or a split on Feature <= Threshold
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value"`
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// RegressionTree is a least squares regression tree (CART)
type RegressionTree struct {
	Root     *treeNode `json:"root"`
	MaxDepth int       `json:"max_depth"`
}

// FitRegressionTree grows a tree of depth at most maxDepth minimizing the
// squared error. Nodes with less than two samples or no variance are leaves.
func FitRegressionTree(x [][]float64, y []float64, maxDepth int) *RegressionTree {
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	return &RegressionTree{
		Root:     grow(x, y, idx, maxDepth),
		MaxDepth: maxDepth,
	}
}

// Predict evaluates the tree. Missing features are read as 0.
func (t *RegressionTree) Predict(x []float64) float64 {
	n := t.Root
	for n != nil && !n.Leaf {
		v := 0.0
		if n.Feature < len(x) {
			v = x[n.Feature]
		}
		if v <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return 0
	}
	return n.Value
}

// Depth of the deepest leaf
func (t *RegressionTree) Depth() int {
	return depth(t.Root)
}

func depth(n *treeNode) int {
	if n == nil || n.Leaf {
		return 0
	}
	l, r := depth(n.Left), depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func grow(x [][]float64, y []float64, idx []int, maxDepth int) *treeNode {
	targets := make([]float64, len(idx))
	for i, j := range idx {
		targets[i] = y[j]
	}
	leaf := &treeNode{Leaf: true, Value: stat.Mean(targets, nil)}
	if maxDepth <= 0 || len(idx) < 2 || stat.Variance(targets, nil) == 0 {
		return leaf
	}

	feature, threshold, ok := bestSplit(x, y, idx)
	if !ok {
		return leaf
	}
	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, j := range idx {
		if x[j][feature] <= threshold {
			left = append(left, j)
		} else {
			right = append(right, j)
		}
	}
	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      grow(x, y, left, maxDepth-1),
		Right:     grow(x, y, right, maxDepth-1),
	}
}

// bestSplit finds the split with the smallest total squared error. Ties keep
// the lowest feature and threshold.
func bestSplit(x [][]float64, y []float64, idx []int) (int, float64, bool) {
	n := len(idx)
	features := len(x[idx[0]])

	bestFeature, bestThreshold := -1, 0.0
	bestErr := 0.0

	order := make([]int, n)
	values := make([]float64, n)
	prefix := make([]float64, n)
	prefixSq := make([]float64, n)

	for f := 0; f < features; f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return x[order[a]][f] < x[order[b]][f]
		})
		for i, j := range order {
			values[i] = y[j]
		}
		floats.CumSum(prefix, values)
		for i, v := range values {
			prefixSq[i] = v * v
		}
		floats.CumSum(prefixSq, prefixSq)
		total, totalSq := prefix[n-1], prefixSq[n-1]

		for i := 0; i < n-1; i++ {
			cur, next := x[order[i]][f], x[order[i+1]][f]
			if cur == next {
				continue
			}
			nl, nr := float64(i+1), float64(n-i-1)
			sl, sr := prefix[i], total-prefix[i]
			sqErr := (prefixSq[i] - sl*sl/nl) + (totalSq - prefixSq[i] - sr*sr/nr)
			if bestFeature < 0 || sqErr < bestErr {
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
				bestErr = sqErr
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}
