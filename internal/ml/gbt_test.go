// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestGBTRegressorFitsSimpleFunction(t *testing.T) {
	// y = 3x + noise-free offset; boosting should recover it closely.
	rng := rand.New(rand.NewSource(7))
	n := 200
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := rng.Float64() * 10
		x[i] = []float64{v}
		y[i] = 3*v + 5
	}

	g := NewGBTRegressor(DefaultGBTConfig())
	if err := g.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	preds, err := g.PredictBatch(x)
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if r2 := RSquared(y, preds); r2 < 0.95 {
		t.Errorf("training R^2 = %v, want >= 0.95", r2)
	}
}

func TestGBTRegressorDeterministic(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	y := []float64{2, 4, 6, 8, 10, 12, 14, 16}

	a := NewGBTRegressor(GBTConfig{NumStages: 20})
	b := NewGBTRegressor(GBTConfig{NumStages: 20})
	if err := a.Fit(x, y); err != nil {
		t.Fatalf("Fit a: %v", err)
	}
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("Fit b: %v", err)
	}

	for _, row := range x {
		pa, _ := a.Predict(row)
		pb, _ := b.Predict(row)
		if pa != pb {
			t.Fatalf("predictions differ for %v: %v vs %v", row, pa, pb)
		}
	}
}

func TestGBTRegressorConstantTarget(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []float64{7, 7, 7}
	g := NewGBTRegressor(GBTConfig{NumStages: 10})
	if err := g.Fit(x, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	p, err := g.Predict([]float64{99})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.Abs(p-7) > 1e-9 {
		t.Errorf("prediction = %v, want 7", p)
	}
}

func TestGBTRegressorNotFitted(t *testing.T) {
	g := NewGBTRegressor(DefaultGBTConfig())
	if _, err := g.Predict([]float64{1}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("err = %v, want ErrNotFitted", err)
	}
	if _, err := g.PredictBatch([][]float64{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("err = %v, want ErrNotFitted", err)
	}
}

func TestGBTRegressorBadInput(t *testing.T) {
	g := NewGBTRegressor(DefaultGBTConfig())
	if err := g.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if err := g.Fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestNewGBTRegressorDefaults(t *testing.T) {
	g := NewGBTRegressor(GBTConfig{})
	if g.Config.NumStages != 100 || g.Config.LearningRate != 0.1 || g.Config.MaxDepth != 3 {
		t.Errorf("defaults not applied: %+v", g.Config)
	}
}
