// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package ml implements the numeric primitives behind the engagement
// predictor and the anomaly detector.
//
// # Components
//
//   - StandardScaler: per-column zero-mean unit-variance standardization
//   - GBTRegressor: gradient-boosted regression trees (squared error)
//   - IsolationForest: unsupervised outlier scoring
//   - Stats helpers: R², quantiles, seeded train/test split
//
// # Determinism
//
// Every stochastic component takes an explicit seed and uses its own
// math/rand source. Training twice on the same input with the same seed
// produces bit-identical models, which the persistence round-trip tests
// rely on.
//
// # Thread Safety
//
// Models are plain value holders: safe for concurrent reads after Fit
// returns, not safe for concurrent Fit. Callers serialize training (the
// predictor and detector hold a write lock across Fit).
package ml
