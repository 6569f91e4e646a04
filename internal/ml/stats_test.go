// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 4},
		{"several", []float64{1, 2, 3, 4}, 2.5},
		{"negative", []float64{-2, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); got != tt.want {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSampleStd(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 0},
		{"known", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.138089935299395},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleStd(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SampleStd(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestRSquared(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	t.Run("perfect", func(t *testing.T) {
		if got := RSquared(observed, observed); math.Abs(got-1) > 1e-12 {
			t.Errorf("RSquared = %v, want 1", got)
		}
	})
	t.Run("mean_predictor", func(t *testing.T) {
		pred := []float64{2.5, 2.5, 2.5, 2.5}
		if got := RSquared(observed, pred); math.Abs(got) > 1e-12 {
			t.Errorf("RSquared = %v, want 0", got)
		}
	})
	t.Run("constant_target", func(t *testing.T) {
		if got := RSquared([]float64{3, 3, 3}, []float64{1, 2, 3}); got != 0 {
			t.Errorf("RSquared = %v, want 0", got)
		}
	})
	t.Run("length_mismatch", func(t *testing.T) {
		if got := RSquared(observed, []float64{1}); got != 0 {
			t.Errorf("RSquared = %v, want 0", got)
		}
	})
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2} // sorted: 1 2 3 4
	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"min", 0, 1},
		{"max", 1, 4},
		{"median", 0.5, 2.5},
		{"p25", 0.25, 1.75},
		{"p75", 0.75, 3.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(values, tt.q)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
	if got := Quantile(nil, 0.5); got != 0 {
		t.Errorf("Quantile(empty) = %v, want 0", got)
	}
}

func TestTrainTestSplit(t *testing.T) {
	train, test := TrainTestSplit(100, 0.2, 42)
	if len(test) != 20 {
		t.Fatalf("test size = %d, want 20", len(test))
	}
	if len(train) != 80 {
		t.Fatalf("train size = %d, want 80", len(train))
	}

	seen := make(map[int]bool, 100)
	for _, i := range append(append([]int{}, train...), test...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}
	if len(seen) != 100 {
		t.Fatalf("split covers %d indices, want 100", len(seen))
	}

	// Same inputs, same split.
	train2, test2 := TrainTestSplit(100, 0.2, 42)
	for i := range train {
		if train[i] != train2[i] {
			t.Fatal("split not deterministic for identical seed")
		}
	}
	for i := range test {
		if test[i] != test2[i] {
			t.Fatal("split not deterministic for identical seed")
		}
	}
}

func TestTrainTestSplitSmallN(t *testing.T) {
	train, test := TrainTestSplit(2, 0.2, 1)
	if len(test) != 1 || len(train) != 1 {
		t.Fatalf("split = %d/%d, want 1/1", len(train), len(test))
	}
}

func TestSelectRowsAndValues(t *testing.T) {
	rows := [][]float64{{1}, {2}, {3}}
	got := SelectRows(rows, []int{2, 0})
	if got[0][0] != 3 || got[1][0] != 1 {
		t.Errorf("SelectRows = %v", got)
	}
	vals := SelectValues([]float64{10, 20, 30}, []int{1, 1})
	if vals[0] != 20 || vals[1] != 20 {
		t.Errorf("SelectValues = %v", vals)
	}
}
