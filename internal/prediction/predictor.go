// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package prediction implements the engagement predictor: per-target
// gradient-boosted regression over the feature table, percentile-based
// virality scoring, optimal posting time heuristics, and a platform-baseline
// fallback that keeps Predict total when no trained model exists.
//
// # Train/Serve Consistency
//
// The feature column order captured at training time is persisted as the
// feature schema; every prediction row is aligned against it before scaling,
// so a single-post batch with a degenerate platform one-hot is always shaped
// like the training batch.
//
// # Concurrency
//
// Train calls are serialized by a training mutex and publish their result as
// an atomic snapshot swap; read paths capture the snapshot once at entry and
// never observe partially updated state.
package prediction

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Werewolf05/Pulselytics/internal/features"
	"github.com/Werewolf05/Pulselytics/internal/metrics"
	"github.com/Werewolf05/Pulselytics/internal/ml"
	"github.com/Werewolf05/Pulselytics/internal/models"
	"github.com/Werewolf05/Pulselytics/internal/modelstore"
	"github.com/rs/zerolog"
)

// trainedState is the immutable snapshot read paths operate on. A Train
// call builds a complete new state and swaps it in; fields are never
// mutated after publication.
type trainedState struct {
	scaler    *ml.StandardScaler
	likes     *ml.GBTRegressor
	comments  *ml.GBTRegressor
	views     *ml.GBTRegressor // nil when the batch carried no view counts
	schema    []string
	quantiles map[string]float64
}

// Predictor trains and serves per-target engagement regression models.
type Predictor struct {
	store  *modelstore.Store
	config Config
	log    zerolog.Logger

	trainMu sync.Mutex   // serializes Train calls
	mu      sync.RWMutex // guards state
	state   *trainedState
}

// NewPredictor creates a predictor backed by the given store and attempts
// to reload persisted artifacts. A failed reload leaves the predictor
// untrained; it never fails construction.
func NewPredictor(store *modelstore.Store, cfg Config, log zerolog.Logger) *Predictor {
	if cfg.MinTrainSamples <= 0 {
		cfg.MinTrainSamples = 50
	}
	if cfg.MinValidSamples <= 0 {
		cfg.MinValidSamples = 30
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	p := &Predictor{
		store:  store,
		config: cfg,
		log:    log.With().Str("component", "predictor").Logger(),
	}
	p.loadFromStore()
	return p
}

// IsTrained reports whether a trained model is currently live.
func (p *Predictor) IsTrained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state != nil
}

// loadFromStore restores the trained snapshot from persisted artifacts.
// All of scaler, likes and comments models, and the feature schema must be
// present and consistent; otherwise the predictor stays untrained.
func (p *Predictor) loadFromStore() {
	var scaler ml.StandardScaler
	if _, ok := p.store.Load(ArtifactScaler, &scaler); !ok {
		return
	}
	var likes, comments ml.GBTRegressor
	if _, ok := p.store.Load(ArtifactLikes, &likes); !ok {
		return
	}
	entry, ok := p.store.Load(ArtifactComments, &comments)
	if !ok {
		return
	}
	schema := p.store.LoadFeatureSchema()
	if len(schema) == 0 {
		return
	}

	st := &trainedState{
		scaler:    &scaler,
		likes:     &likes,
		comments:  &comments,
		schema:    schema,
		quantiles: entry.Metadata.Quantiles,
	}

	// The views model is optional: it only exists when the training batch
	// carried view counts.
	var views ml.GBTRegressor
	if _, ok := p.store.Load(ArtifactViews, &views); ok {
		st.views = &views
	}

	p.mu.Lock()
	p.state = st
	p.mu.Unlock()

	metrics.ModelLoaded.WithLabelValues("predictor").Set(1)
	p.log.Info().
		Str("version", entry.Version).
		Int("samples_trained", entry.Metadata.SamplesTrained).
		Msg("Predictor restored from model store")
}

// Train fits per-target models on a batch of historical posts.
//
// Rows whose likes or comments target is 0 are dropped as "no signal"
// before fitting; the engagement quantile table is derived from the same
// filtered rows. Returns models.InsufficientDataError when the batch or the
// filtered row count is below the configured thresholds.
func (p *Predictor) Train(records []models.PostRecord) (*TrainingResult, error) {
	p.trainMu.Lock()
	defer p.trainMu.Unlock()

	start := time.Now()

	if len(records) < p.config.MinTrainSamples {
		return nil, &models.InsufficientDataError{Required: p.config.MinTrainSamples, Got: len(records), Stage: "input"}
	}

	table := features.Build(records)
	schema := table.Columns

	// Zero-target rows are "no signal", not valid zero-engagement examples.
	var rows [][]float64
	var yLikes, yComments, yViews []float64
	for i := range records {
		if records[i].Likes <= 0 || records[i].Comments <= 0 {
			continue
		}
		rows = append(rows, table.Rows[i])
		yLikes = append(yLikes, records[i].Likes)
		yComments = append(yComments, records[i].Comments)
		yViews = append(yViews, records[i].Views)
	}
	if len(rows) < p.config.MinValidSamples {
		return nil, &models.InsufficientDataError{Required: p.config.MinValidSamples, Got: len(rows), Stage: "filtered"}
	}

	scaler := &ml.StandardScaler{}
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}

	trainIdx, valIdx := ml.TrainTestSplit(len(scaled), 0.2, p.config.Seed)
	xTrain := ml.SelectRows(scaled, trainIdx)
	xVal := ml.SelectRows(scaled, valIdx)

	likesModel := ml.NewGBTRegressor(ml.DefaultGBTConfig())
	if err := likesModel.Fit(xTrain, ml.SelectValues(yLikes, trainIdx)); err != nil {
		return nil, fmt.Errorf("fit likes model: %w", err)
	}
	commentsModel := ml.NewGBTRegressor(ml.DefaultGBTConfig())
	if err := commentsModel.Fit(xTrain, ml.SelectValues(yComments, trainIdx)); err != nil {
		return nil, fmt.Errorf("fit comments model: %w", err)
	}

	var viewsModel *ml.GBTRegressor
	if sum(yViews) > 0 {
		var vx [][]float64
		var vy []float64
		for i, v := range yViews {
			if v > 0 {
				vx = append(vx, scaled[i])
				vy = append(vy, v)
			}
		}
		viewsModel = ml.NewGBTRegressor(ml.DefaultGBTConfig())
		if err := viewsModel.Fit(vx, vy); err != nil {
			return nil, fmt.Errorf("fit views model: %w", err)
		}
	}

	r2Likes := modelR2(likesModel, xTrain, ml.SelectValues(yLikes, trainIdx))
	valR2Likes := modelR2(likesModel, xVal, ml.SelectValues(yLikes, valIdx))
	r2Comments := modelR2(commentsModel, xTrain, ml.SelectValues(yComments, trainIdx))
	valR2Comments := modelR2(commentsModel, xVal, ml.SelectValues(yComments, valIdx))

	// Engagement quantile table for virality scoring, derived from the
	// same filtered rows the models were fit on.
	engagement := make([]float64, len(yLikes))
	for i := range engagement {
		engagement[i] = yLikes[i] + yComments[i]
	}
	quantiles := map[string]float64{
		"q10": ml.Quantile(engagement, 0.10),
		"q25": ml.Quantile(engagement, 0.25),
		"q50": ml.Quantile(engagement, 0.50),
		"q75": ml.Quantile(engagement, 0.75),
		"q90": ml.Quantile(engagement, 0.90),
	}

	st := &trainedState{
		scaler:    scaler,
		likes:     likesModel,
		comments:  commentsModel,
		views:     viewsModel,
		schema:    schema,
		quantiles: quantiles,
	}

	p.mu.Lock()
	p.state = st
	p.mu.Unlock()

	result := &TrainingResult{
		Status:         "success",
		Version:        Version,
		TrainedOn:      time.Now().UTC(),
		SamplesTrained: len(rows),
		FeaturesUsed:   len(schema),
		R2Likes:        round3(r2Likes),
		R2Comments:     round3(r2Comments),
		ValR2Likes:     round3(valR2Likes),
		ValR2Comments:  round3(valR2Comments),
		Quantiles:      quantiles,
		Persisted:      true,
	}

	if err := p.persist(st, result); err != nil {
		// Training itself succeeded; the caller decides whether a
		// non-durable model is acceptable.
		result.Persisted = false
		result.PersistError = err.Error()
		metrics.StoreWriteErrors.WithLabelValues("predictor").Inc()
		p.log.Error().Err(err).Msg("Trained predictor but persisting artifacts failed")
	}

	metrics.ModelLoaded.WithLabelValues("predictor").Set(1)
	metrics.TrainingDuration.WithLabelValues("predictor").Observe(time.Since(start).Seconds())
	metrics.TrainingSamples.WithLabelValues("predictor").Observe(float64(result.SamplesTrained))
	p.log.Info().
		Int("samples_trained", result.SamplesTrained).
		Float64("val_r2_likes", result.ValR2Likes).
		Float64("val_r2_comments", result.ValR2Comments).
		Dur("elapsed", time.Since(start)).
		Msg("Predictor training complete")

	return result, nil
}

// persist writes every component of the trained state under a shared
// version and metadata blob, plus the feature schema document.
func (p *Predictor) persist(st *trainedState, result *TrainingResult) error {
	meta := modelstore.Metadata{
		TrainedOn:      result.TrainedOn,
		SamplesTrained: result.SamplesTrained,
		FeaturesUsed:   result.FeaturesUsed,
		R2Likes:        result.R2Likes,
		R2Comments:     result.R2Comments,
		ValR2Likes:     result.ValR2Likes,
		ValR2Comments:  result.ValR2Comments,
		Quantiles:      result.Quantiles,
	}

	if err := p.store.Save(ArtifactScaler, Version, st.scaler, meta); err != nil {
		return err
	}
	if err := p.store.Save(ArtifactLikes, Version, st.likes, meta); err != nil {
		return err
	}
	if err := p.store.Save(ArtifactComments, Version, st.comments, meta); err != nil {
		return err
	}
	if st.views != nil {
		if err := p.store.Save(ArtifactViews, Version, st.views, meta); err != nil {
			return err
		}
	}
	return p.store.SaveFeatureSchema(st.schema)
}

// Predict estimates engagement for a synthetic not-yet-published post.
// It never fails: when no trained model is live, or the model path errors
// internally, the platform-baseline fallback produces the result instead
// and tags it with Source=baseline, Confidence=low.
func (p *Predictor) Predict(post PostInput) *PredictionResult {
	p.mu.RLock()
	st := p.state
	p.mu.RUnlock()

	if st == nil {
		metrics.FallbackTotal.WithLabelValues("predictor").Inc()
		return p.fallbackPrediction(post)
	}

	when := post.ScheduledTime
	if when.IsZero() {
		when = time.Now()
	}
	rec := models.PostRecord{
		Platform:   post.Platform,
		Caption:    post.Caption,
		UploadDate: when,
	}

	table := features.Align(features.Build([]models.PostRecord{rec}), st.schema)
	scaled, err := st.scaler.Transform(table.Rows)
	if err != nil || len(scaled) == 0 {
		p.log.Warn().Err(err).Msg("Prediction feature pipeline failed, using baseline fallback")
		metrics.FallbackTotal.WithLabelValues("predictor").Inc()
		return p.fallbackPrediction(post)
	}
	row := scaled[0]

	predLikes := clampPrediction(st.likes, row)
	predComments := clampPrediction(st.comments, row)
	var predViews int
	if st.views != nil {
		predViews = clampPrediction(st.views, row)
	} else {
		predViews = predLikes * 5
	}

	engagementRate := 5.0
	if predViews > 0 {
		engagementRate = float64(predLikes+predComments) / float64(predViews) * 100
	}
	engagementRate = features.SafeFloat(engagementRate)

	virality := viralityScore(st.quantiles, float64(predLikes+predComments), engagementRate)

	metrics.PredictionsTotal.WithLabelValues(SourceModel).Inc()
	return &PredictionResult{
		PredictedLikes:          predLikes,
		PredictedComments:       predComments,
		PredictedViews:          predViews,
		PredictedEngagementRate: round2(engagementRate),
		ViralityScore:           virality,
		Confidence:              ConfidenceHigh,
		Source:                  SourceModel,
		Recommendation:          recommendation(virality),
	}
}

// viralityScore ranks a predicted engagement total against the persisted
// quantile table (0-100), with a +5 boost (capped at 100) when the total
// beats the training median and the engagement rate exceeds 5%.
func viralityScore(quantiles map[string]float64, total, engagementRate float64) int {
	score := percentileRank(quantiles, total)
	if median, ok := quantiles["q50"]; ok && total > median && engagementRate > 5 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// percentileRank interpolates a value's rank over the persisted 5-point
// quantile grid. Below the 10th percentile the rank scales linearly toward
// 0; above the 90th it saturates toward 100 over one more q90 width. A
// missing or degenerate table yields the neutral rank 50.
func percentileRank(quantiles map[string]float64, v float64) int {
	if len(quantiles) == 0 {
		return 50
	}
	q10, q25, q50, q75, q90 := quantiles["q10"], quantiles["q25"], quantiles["q50"], quantiles["q75"], quantiles["q90"]
	if q90 <= 0 {
		return 50
	}

	type point struct {
		value float64
		rank  float64
	}
	grid := []point{{q10, 10}, {q25, 25}, {q50, 50}, {q75, 75}, {q90, 90}}

	if v < q10 {
		if q10 == 0 {
			return 10
		}
		return int(math.Round(10 * v / q10))
	}
	if v >= q90 {
		extra := (v - q90) / q90 * 10
		if extra > 10 {
			extra = 10
		}
		return int(math.Round(90 + extra))
	}
	for i := 0; i < len(grid)-1; i++ {
		lo, hi := grid[i], grid[i+1]
		if v >= lo.value && v < hi.value {
			if hi.value == lo.value {
				return int(math.Round(lo.rank))
			}
			frac := (v - lo.value) / (hi.value - lo.value)
			return int(math.Round(lo.rank + frac*(hi.rank-lo.rank)))
		}
	}
	return 90
}

// recommendation maps a virality score to posting guidance via fixed
// thresholds.
func recommendation(score int) string {
	switch {
	case score >= 80:
		return "Excellent! This content has high viral potential. Post immediately."
	case score >= 60:
		return "Good performance expected. This is worth posting."
	case score >= 40:
		return "Moderate performance. Consider improving caption or visuals."
	default:
		return "Low predicted engagement. Rework this content before posting."
	}
}

func clampPrediction(model *ml.GBTRegressor, row []float64) int {
	v, err := model.Predict(row)
	if err != nil {
		return 0
	}
	n := int(math.Round(features.SafeFloat(v)))
	if n < 0 {
		return 0
	}
	return n
}

func modelR2(model *ml.GBTRegressor, x [][]float64, y []float64) float64 {
	pred, err := model.PredictBatch(x)
	if err != nil {
		return 0
	}
	return ml.RSquared(y, pred)
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(features.SafeFloat(v)*100) / 100
}

func round3(v float64) float64 {
	return math.Round(features.SafeFloat(v)*1000) / 1000
}
