// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"errors"
	"math/rand"
	"testing"
)

// clusterWithOutliers builds a tight cluster around (0,0) plus a few points
// far outside it.
func clusterWithOutliers(n, outliers int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, 0, n+outliers)
	for i := 0; i < n; i++ {
		rows = append(rows, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}
	for i := 0; i < outliers; i++ {
		rows = append(rows, []float64{50 + rng.Float64(), 50 + rng.Float64()})
	}
	return rows
}

func TestIsolationForestScoresOutliersLower(t *testing.T) {
	rows := clusterWithOutliers(200, 5, 3)
	f := NewIsolationForest(DefaultIsolationForestConfig())
	if err := f.Fit(rows); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	scores, err := f.ScoreSamples(rows)
	if err != nil {
		t.Fatalf("ScoreSamples: %v", err)
	}
	for i, s := range scores {
		if s < -1 || s > 0 {
			t.Fatalf("score[%d] = %v, want in [-1, 0]", i, s)
		}
	}

	var inlierSum, outlierSum float64
	for i, s := range scores {
		if i < 200 {
			inlierSum += s
		} else {
			outlierSum += s
		}
	}
	inlierMean := inlierSum / 200
	outlierMean := outlierSum / 5
	if outlierMean >= inlierMean {
		t.Errorf("outlier mean score %v not below inlier mean %v", outlierMean, inlierMean)
	}
}

func TestIsolationForestPredictFlagsPlantedOutliers(t *testing.T) {
	rows := clusterWithOutliers(300, 6, 11)
	f := NewIsolationForest(IsolationForestConfig{
		NumTrees:      100,
		SampleSize:    256,
		Contamination: 0.05,
		Seed:          42,
	})
	if err := f.Fit(rows); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	labels, err := f.Predict(rows)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	flaggedOutliers := 0
	for i := 300; i < 306; i++ {
		if labels[i] == -1 {
			flaggedOutliers++
		}
	}
	if flaggedOutliers < 5 {
		t.Errorf("flagged %d/6 planted outliers, want >= 5", flaggedOutliers)
	}
}

func TestIsolationForestDeterministic(t *testing.T) {
	rows := clusterWithOutliers(100, 3, 5)
	cfg := DefaultIsolationForestConfig()

	a := NewIsolationForest(cfg)
	b := NewIsolationForest(cfg)
	if err := a.Fit(rows); err != nil {
		t.Fatalf("Fit a: %v", err)
	}
	if err := b.Fit(rows); err != nil {
		t.Fatalf("Fit b: %v", err)
	}
	if a.Offset != b.Offset {
		t.Fatalf("offsets differ: %v vs %v", a.Offset, b.Offset)
	}

	sa, _ := a.ScoreSamples(rows)
	sb, _ := b.ScoreSamples(rows)
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("score[%d] differs: %v vs %v", i, sa[i], sb[i])
		}
	}
}

func TestIsolationForestOffsetCalibration(t *testing.T) {
	rows := clusterWithOutliers(200, 0, 9)
	f := NewIsolationForest(IsolationForestConfig{Contamination: 0.1, Seed: 42})
	if err := f.Fit(rows); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	labels, err := f.Predict(rows)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	flagged := 0
	for _, l := range labels {
		if l == -1 {
			flagged++
		}
	}
	// Roughly the contamination fraction of training rows should be flagged.
	if flagged == 0 || flagged > 40 {
		t.Errorf("flagged %d/200 rows with contamination 0.1", flagged)
	}
}

func TestIsolationForestNotFitted(t *testing.T) {
	f := NewIsolationForest(DefaultIsolationForestConfig())
	if _, err := f.ScoreSamples([][]float64{{1, 2}}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("err = %v, want ErrNotFitted", err)
	}
}

func TestIsolationForestDimensionMismatch(t *testing.T) {
	f := NewIsolationForest(DefaultIsolationForestConfig())
	if err := f.Fit(clusterWithOutliers(50, 0, 1)); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := f.ScoreSamples([][]float64{{1, 2, 3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestIsolationForestEmptyInput(t *testing.T) {
	f := NewIsolationForest(DefaultIsolationForestConfig())
	if err := f.Fit(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
