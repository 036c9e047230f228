// Package forest implements a random-forest regressor: an ensemble of
// CART regression trees grown on bootstrap samples with
// variance-reduction splits. The fitted ensemble serializes to a JSON
// artifact that the serving process loads once at startup.
package forest

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
)

// Node is a single regression tree node. Leaf nodes carry the mean
// target of their training subset; internal nodes route on
// feature <= threshold.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Forest is a fitted ensemble of regression trees.
type Forest struct {
	Trees       []*Node `json:"trees"`
	NumFeatures int     `json:"num_features"`
}

// Options controls ensemble fitting.
type Options struct {
	Trees    int   // Number of trees in the ensemble
	MaxDepth int   // Maximum tree depth (0 = grow to purity)
	MinLeaf  int   // Minimum samples per leaf (0 = 1)
	Seed     int64 // Base seed; each tree derives its own deterministic stream
	Workers  int   // Parallel tree builders (0 = 1)
}

// Fit trains a random forest on the given feature matrix and targets.
// Tree construction is parallel but deterministic for a fixed seed:
// each tree seeds its own generator from the base seed and tree index,
// so worker scheduling cannot change results.
func Fit(features [][]float64, targets []float64, opts Options) (*Forest, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	if len(features) != len(targets) {
		return nil, fmt.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}
	if opts.Trees <= 0 {
		return nil, fmt.Errorf("invalid tree count: %d", opts.Trees)
	}
	numFeatures := len(features[0])
	for i, row := range features {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(row), numFeatures)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	minLeaf := opts.MinLeaf
	if minLeaf <= 0 {
		minLeaf = 1
	}

	trees := make([]*Node, opts.Trees)
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				rng := rand.New(rand.NewSource(opts.Seed + int64(t)))
				indices := bootstrap(rng, len(features))
				trees[t] = buildTree(features, targets, indices, 0, opts.MaxDepth, minLeaf)
			}
		}()
	}

	for t := 0; t < opts.Trees; t++ {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return &Forest{Trees: trees, NumFeatures: numFeatures}, nil
}

// Predict returns the ensemble mean for one feature vector.
func (f *Forest) Predict(features []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest has no trees")
	}
	if len(features) != f.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", f.NumFeatures, len(features))
	}

	sum := 0.0
	for _, tree := range f.Trees {
		sum += predictNode(tree, features)
	}
	return sum / float64(len(f.Trees)), nil
}

func predictNode(n *Node, features []float64) float64 {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// Save writes the fitted ensemble to path as JSON.
func (f *Forest) Save(path string) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load reads a serialized ensemble from path.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode model file %s: %w", path, err)
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("model file %s contains no trees", path)
	}
	return &f, nil
}

// bootstrap draws n indices with replacement.
func bootstrap(rng *rand.Rand, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}

// buildTree grows a CART regression tree over the sample subset given
// by indices. Splits minimize the summed squared error of the two
// children; every feature is considered at every split.
func buildTree(features [][]float64, targets []float64, indices []int, depth, maxDepth, minLeaf int) *Node {
	mean := subsetMean(targets, indices)

	if len(indices) < 2*minLeaf || (maxDepth > 0 && depth >= maxDepth) || isPure(targets, indices) {
		return &Node{Leaf: true, Value: mean}
	}

	bestFeature, bestThreshold, found := bestSplit(features, targets, indices, minLeaf)
	if !found {
		return &Node{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, idx := range indices {
		if features[idx][bestFeature] <= bestThreshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &Node{Leaf: true, Value: mean}
	}

	return &Node{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      buildTree(features, targets, left, depth+1, maxDepth, minLeaf),
		Right:     buildTree(features, targets, right, depth+1, maxDepth, minLeaf),
		Value:     mean,
	}
}

// bestSplit scans every feature with a sort-and-sweep pass: after
// sorting the subset by one feature, prefix sums give each candidate
// split's SSE in constant time.
func bestSplit(features [][]float64, targets []float64, indices []int, minLeaf int) (int, float64, bool) {
	numFeatures := len(features[indices[0]])
	n := len(indices)

	bestScore := -1.0
	bestFeature := 0
	bestThreshold := 0.0
	found := false

	sorted := make([]int, n)
	for f := 0; f < numFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool {
			return features[sorted[i]][f] < features[sorted[j]][f]
		})

		// Running sums for the left partition; totals give the right.
		var totalSum, totalSqSum float64
		for _, idx := range sorted {
			totalSum += targets[idx]
			totalSqSum += targets[idx] * targets[idx]
		}

		var leftSum, leftSqSum float64
		for i := 0; i < n-1; i++ {
			idx := sorted[i]
			leftSum += targets[idx]
			leftSqSum += targets[idx] * targets[idx]

			leftCount := i + 1
			rightCount := n - leftCount
			if leftCount < minLeaf || rightCount < minLeaf {
				continue
			}

			// Cannot split between equal feature values
			cur := features[idx][f]
			next := features[sorted[i+1]][f]
			if cur == next {
				continue
			}

			rightSum := totalSum - leftSum
			rightSqSum := totalSqSum - leftSqSum

			leftSSE := leftSqSum - leftSum*leftSum/float64(leftCount)
			rightSSE := rightSqSum - rightSum*rightSum/float64(rightCount)
			totalSSE := totalSqSum - totalSum*totalSum/float64(n)

			gain := totalSSE - leftSSE - rightSSE
			if gain > bestScore {
				bestScore = gain
				bestFeature = f
				bestThreshold = (cur + next) / 2
				found = true
			}
		}
	}

	if !found || bestScore <= 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func subsetMean(targets []float64, indices []int) float64 {
	sum := 0.0
	for _, idx := range indices {
		sum += targets[idx]
	}
	return sum / float64(len(indices))
}

func isPure(targets []float64, indices []int) bool {
	first := targets[indices[0]]
	for _, idx := range indices[1:] {
		if targets[idx] != first {
			return false
		}
	}
	return true
}
