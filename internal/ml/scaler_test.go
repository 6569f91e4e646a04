// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"errors"
	"math"
	"testing"
)

func TestStandardScalerFitTransform(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}
	var s StandardScaler
	scaled, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	// Each column should have zero mean and unit variance after scaling.
	for col := 0; col < 2; col++ {
		var sum, ss float64
		for _, row := range scaled {
			sum += row[col]
		}
		mean := sum / float64(len(scaled))
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d mean = %v, want ~0", col, mean)
		}
		for _, row := range scaled {
			d := row[col] - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(scaled)))
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("column %d std = %v, want ~1", col, std)
		}
	}

	// Input rows must not be mutated.
	if rows[0][0] != 1 || rows[2][1] != 30 {
		t.Error("Transform mutated input rows")
	}
}

func TestStandardScalerZeroVarianceColumn(t *testing.T) {
	rows := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}
	var s StandardScaler
	scaled, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	for i, row := range scaled {
		if math.IsNaN(row[0]) || math.IsInf(row[0], 0) {
			t.Fatalf("row %d constant column scaled to non-finite %v", i, row[0])
		}
		if row[0] != 0 {
			t.Errorf("row %d constant column = %v, want 0", i, row[0])
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	var s StandardScaler
	if _, err := s.Transform([][]float64{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("err = %v, want ErrNotFitted", err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	var s StandardScaler
	if err := s.Fit([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := s.Transform([][]float64{{1, 2, 3}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestStandardScalerEmptyInput(t *testing.T) {
	var s StandardScaler
	if err := s.Fit(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
