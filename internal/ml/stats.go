// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStd returns the sample standard deviation (n-1 denominator), or 0
// when fewer than two values are present. This matches the baseline
// statistics the upstream pipeline reports.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// RSquared computes the coefficient of determination for predictions against
// observed targets. A constant target yields 0 to keep downstream reporting
// finite.
func RSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return 0
	}
	mean := Mean(observed)
	var ssRes, ssTot float64
	for i, y := range observed {
		d := y - predicted[i]
		ssRes += d * d
		t := y - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Quantile returns the q-th quantile (0..1) of values using linear
// interpolation between order statistics. The input need not be sorted.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// TrainTestSplit partitions row indices [0,n) into train and test sets with
// the given test fraction. The shuffle is driven by a dedicated seeded
// source, so identical (n, testFrac, seed) inputs always produce the same
// split.
func TrainTestSplit(n int, testFrac float64, seed int64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})

	testSize := int(math.Round(float64(n) * testFrac))
	if testSize < 1 && n > 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}
	return idx[testSize:], idx[:testSize]
}

// SelectRows gathers the rows at the given indices into a new matrix.
func SelectRows(rows [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = rows[idx]
	}
	return out
}

// SelectValues gathers the values at the given indices into a new slice.
func SelectValues(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}
