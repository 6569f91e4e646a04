// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"errors"
	"math"
	"math/rand"
)

// IsolationForestConfig contains configuration for the isolation forest.
type IsolationForestConfig struct {
	// NumTrees is the ensemble size. Typical range: 50-200.
	NumTrees int

	// SampleSize is the per-tree subsample size; capped at the dataset size.
	SampleSize int

	// Contamination is the expected fraction of anomalous rows in training
	// data. It sets the score offset that separates outliers from inliers.
	// Typical range: 0.01-0.2.
	Contamination float64

	// Seed drives the tree construction RNG.
	Seed int64
}

// DefaultIsolationForestConfig returns the default detector configuration.
func DefaultIsolationForestConfig() IsolationForestConfig {
	return IsolationForestConfig{
		NumTrees:      100,
		SampleSize:    256,
		Contamination: 0.1,
		Seed:          42,
	}
}

// IsoNode is a node of an isolation tree. Fields are exported for gob
// persistence.
type IsoNode struct {
	Feature   int
	Threshold float64
	Left      *IsoNode
	Right     *IsoNode
	Size      int
	Leaf      bool
}

// IsolationForest isolates anomalies by random recursive partitioning.
// Reference: "Isolation Forest" (Liu, Ting, Zhou, 2008).
//
// Anomalous points sit in sparse regions and isolate in few random splits,
// giving short average path lengths across the ensemble. ScoreSamples maps
// the averaged path length into [-1, 0]: more negative means more anomalous.
// The contamination quantile of training scores becomes the Offset below
// which Predict flags a row as an outlier.
//
// Fields are exported for gob persistence.
type IsolationForest struct {
	Config     IsolationForestConfig
	Trees      []*IsoNode
	SubSample  int
	Offset     float64
	NumColumns int
}

// NewIsolationForest creates a forest, filling zero config fields with
// defaults.
func NewIsolationForest(cfg IsolationForestConfig) *IsolationForest {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 256
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 0.5 {
		cfg.Contamination = 0.1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	return &IsolationForest{Config: cfg}
}

// Fit builds the ensemble and calibrates the outlier offset on the
// training rows.
func (f *IsolationForest) Fit(rows [][]float64) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return errors.New("isolation forest: empty input")
	}

	f.NumColumns = len(rows[0])
	f.SubSample = f.Config.SampleSize
	if f.SubSample > len(rows) {
		f.SubSample = len(rows)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(f.SubSample))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	rng := rand.New(rand.NewSource(f.Config.Seed))
	f.Trees = make([]*IsoNode, f.Config.NumTrees)
	for t := range f.Trees {
		sample := sampleRows(rows, f.SubSample, rng)
		f.Trees[t] = buildIsoTree(sample, 0, heightLimit, rng)
	}

	// Calibrate the offset so that roughly the contamination fraction of
	// training rows scores below it.
	scores, err := f.ScoreSamples(rows)
	if err != nil {
		return err
	}
	f.Offset = Quantile(scores, f.Config.Contamination)
	return nil
}

// ScoreSamples returns an anomaly score in [-1, 0] per row; more negative
// means more anomalous.
func (f *IsolationForest) ScoreSamples(rows [][]float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	norm := averagePathLength(float64(f.SubSample))
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != f.NumColumns {
			return nil, ErrDimensionMismatch
		}
		var total float64
		for _, tree := range f.Trees {
			total += pathLength(tree, row, 0)
		}
		mean := total / float64(len(f.Trees))
		out[i] = -math.Pow(2, -mean/norm)
	}
	return out, nil
}

// Predict returns -1 for outliers and 1 for inliers, using the calibrated
// contamination offset.
func (f *IsolationForest) Predict(rows [][]float64) ([]int, error) {
	scores, err := f.ScoreSamples(rows)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		if s < f.Offset {
			out[i] = -1
		} else {
			out[i] = 1
		}
	}
	return out, nil
}

func sampleRows(rows [][]float64, n int, rng *rand.Rand) [][]float64 {
	if n >= len(rows) {
		return rows
	}
	perm := rng.Perm(len(rows))
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = rows[perm[i]]
	}
	return out
}

func buildIsoTree(sample [][]float64, depth, heightLimit int, rng *rand.Rand) *IsoNode {
	if depth >= heightLimit || len(sample) <= 1 {
		return &IsoNode{Leaf: true, Size: len(sample)}
	}

	feature := rng.Intn(len(sample[0]))
	lo, hi := sample[0][feature], sample[0][feature]
	for _, row := range sample {
		if row[feature] < lo {
			lo = row[feature]
		}
		if row[feature] > hi {
			hi = row[feature]
		}
	}
	if lo == hi {
		return &IsoNode{Leaf: true, Size: len(sample)}
	}

	threshold := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range sample {
		if row[feature] < threshold {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &IsoNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildIsoTree(left, depth+1, heightLimit, rng),
		Right:     buildIsoTree(right, depth+1, heightLimit, rng),
		Size:      len(sample),
	}
}

func pathLength(node *IsoNode, row []float64, depth float64) float64 {
	for !node.Leaf {
		if row[node.Feature] < node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
		depth++
	}
	return depth + averagePathLength(float64(node.Size))
}

// averagePathLength is c(n): the expected path length of an unsuccessful
// BST search over n points, used to normalize isolation depths.
func averagePathLength(n float64) float64 {
	if n <= 1 {
		return 0
	}
	const eulerMascheroni = 0.5772156649
	h := math.Log(n-1) + eulerMascheroni
	return 2*h - 2*(n-1)/n
}
