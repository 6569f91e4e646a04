// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import "sort"

// TreeNode is a node of a regression tree. Leaf nodes carry the mean target
// of the training rows that reached them; internal nodes route on
// Feature <= Threshold. Fields are exported for gob persistence.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
	Leaf      bool
}

// regressionTree fits a CART regression tree with squared-error splits.
type regressionTree struct {
	maxDepth       int
	minSamplesLeaf int
}

// fit grows a tree over the row indices in idx and returns its root.
func (t *regressionTree) fit(x [][]float64, y []float64, idx []int, depth int) *TreeNode {
	mean := meanAt(y, idx)
	if depth >= t.maxDepth || len(idx) < 2*t.minSamplesLeaf {
		return &TreeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := t.bestSplit(x, y, idx)
	if !ok {
		return &TreeNode{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.minSamplesLeaf || len(right) < t.minSamplesLeaf {
		return &TreeNode{Leaf: true, Value: mean}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.fit(x, y, left, depth+1),
		Right:     t.fit(x, y, right, depth+1),
	}
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two children. Candidate thresholds are midpoints
// between consecutive distinct sorted values.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	if len(idx) == 0 {
		return 0, 0, false
	}
	nFeatures := len(x[idx[0]])
	best := parentSSE(y, idx)
	ok = false

	order := make([]int, len(idx))
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return x[order[a]][f] < x[order[b]][f]
		})

		// Running sums from the left let each candidate split be evaluated
		// in O(1): SSE = sum(y²) - (sum(y))²/n for each side.
		var leftSum, leftSq float64
		totalSum, totalSq := sumsAt(y, idx)
		n := float64(len(order))

		for i := 0; i < len(order)-1; i++ {
			yi := y[order[i]]
			leftSum += yi
			leftSq += yi * yi

			cur, next := x[order[i]][f], x[order[i+1]][f]
			if cur == next {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			if int(nl) < t.minSamplesLeaf || int(nr) < t.minSamplesLeaf {
				continue
			}
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < best {
				best = sse
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// predict routes a row down the tree to its leaf value.
func (n *TreeNode) predict(row []float64) float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sumsAt(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

func parentSSE(y []float64, idx []int) float64 {
	sum, sq := sumsAt(y, idx)
	n := float64(len(idx))
	if n == 0 {
		return 0
	}
	return sq - sum*sum/n
}
