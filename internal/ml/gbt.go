// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import "errors"

// GBTConfig contains configuration for gradient-boosted tree regression.
type GBTConfig struct {
	// NumStages is the number of boosting stages (trees).
	// Typical range: 50-500.
	NumStages int

	// LearningRate shrinks each tree's contribution.
	// Typical range: 0.01-0.3.
	LearningRate float64

	// MaxDepth limits individual tree depth. Shallow trees (2-4) are the
	// usual boosting regime.
	MaxDepth int

	// MinSamplesLeaf is the minimum rows per leaf.
	MinSamplesLeaf int
}

// DefaultGBTConfig returns the default boosting configuration.
func DefaultGBTConfig() GBTConfig {
	return GBTConfig{
		NumStages:      100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 2,
	}
}

// GBTRegressor implements gradient boosting for regression with
// squared-error loss.
// Reference: "Greedy Function Approximation: A Gradient Boosting Machine"
// (Friedman, 2001).
//
// Each stage fits a shallow regression tree to the residuals of the
// ensemble so far; predictions are the base value plus the learning-rate
// weighted sum of tree outputs. With squared-error loss the residuals are
// exact gradients and no row subsampling is used, so fitting is fully
// deterministic.
//
// Fields are exported for gob persistence.
type GBTRegressor struct {
	Config GBTConfig
	Base   float64
	Trees  []*TreeNode
}

// NewGBTRegressor creates a regressor, filling zero config fields with
// defaults.
func NewGBTRegressor(cfg GBTConfig) *GBTRegressor {
	if cfg.NumStages <= 0 {
		cfg.NumStages = 100
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	if cfg.MinSamplesLeaf <= 0 {
		cfg.MinSamplesLeaf = 2
	}
	return &GBTRegressor{Config: cfg}
}

// Fit trains the ensemble on the given rows and targets.
func (g *GBTRegressor) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return errors.New("gbt: input rows and targets must be non-empty and equal length")
	}

	g.Base = Mean(y)
	g.Trees = g.Trees[:0]

	current := make([]float64, len(y))
	for i := range current {
		current[i] = g.Base
	}

	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}

	residual := make([]float64, len(y))
	tree := &regressionTree{maxDepth: g.Config.MaxDepth, minSamplesLeaf: g.Config.MinSamplesLeaf}

	for stage := 0; stage < g.Config.NumStages; stage++ {
		for i := range residual {
			residual[i] = y[i] - current[i]
		}
		root := tree.fit(x, residual, idx, 0)
		g.Trees = append(g.Trees, root)

		for i, row := range x {
			current[i] += g.Config.LearningRate * root.predict(row)
		}
	}
	return nil
}

// Predict returns the ensemble prediction for one row.
func (g *GBTRegressor) Predict(row []float64) (float64, error) {
	if len(g.Trees) == 0 {
		return 0, ErrNotFitted
	}
	out := g.Base
	for _, t := range g.Trees {
		out += g.Config.LearningRate * t.predict(row)
	}
	return out, nil
}

// PredictBatch returns predictions for every row.
func (g *GBTRegressor) PredictBatch(rows [][]float64) ([]float64, error) {
	if len(g.Trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		p, err := g.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
