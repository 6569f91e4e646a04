// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"errors"
	"math"
)

// ErrNotFitted is returned when Transform or Predict is called before Fit.
var ErrNotFitted = errors.New("model has not been fitted")

// ErrDimensionMismatch is returned when an input row's width does not match
// the width the model was fitted on.
var ErrDimensionMismatch = errors.New("input dimension does not match fitted dimension")

// StandardScaler standardizes columns to zero mean and unit variance.
//
// Statistics are always fit on training data only; serving rows are
// transformed with the persisted training statistics. Zero-variance columns
// keep a scale of 1 so transformed values stay finite.
//
// Fields are exported for gob persistence.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-column mean and population standard deviation.
func (s *StandardScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return errors.New("scaler: empty input")
	}
	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return nil
}

// Transform standardizes rows with the fitted statistics, returning new
// slices and leaving the input untouched.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	if len(s.Mean) == 0 {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.Mean) {
			return nil, ErrDimensionMismatch
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and returns the standardized training rows.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
