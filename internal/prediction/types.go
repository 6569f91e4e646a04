// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package prediction

import (
	"time"

	"github.com/Werewolf05/Pulselytics/internal/models"
)

// Version is the semantic predictor model version. Bump the minor part when
// the feature set changes, the major part when the model class or
// hyperparameters materially change.
const Version = "1.1"

// Artifact names under which predictor components are registered.
const (
	ArtifactScaler   = "predictor_scaler"
	ArtifactLikes    = "predictor_likes"
	ArtifactComments = "predictor_comments"
	ArtifactViews    = "predictor_views"
)

// Confidence levels reported on results.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Source values distinguish trained-model results from fallback results.
// Clients must use this tag, not the absence of an error, to tell degraded
// results apart.
const (
	SourceModel    = "model"
	SourceBaseline = "baseline"
)

// Config holds predictor training tunables.
type Config struct {
	// MinTrainSamples is the minimum raw batch size accepted by Train.
	MinTrainSamples int

	// MinValidSamples is the minimum rows that must survive target
	// filtering.
	MinValidSamples int

	// Seed drives the train/validation split shuffle.
	Seed int64
}

// DefaultConfig returns the production training thresholds.
func DefaultConfig() Config {
	return Config{
		MinTrainSamples: 50,
		MinValidSamples: 30,
		Seed:            42,
	}
}

// TrainingResult is the structured outcome of a successful Train call.
type TrainingResult struct {
	Status         string             `json:"status"`
	Version        string             `json:"version"`
	TrainedOn      time.Time          `json:"trained_on"`
	SamplesTrained int                `json:"samples_trained"`
	FeaturesUsed   int                `json:"features_used"`
	R2Likes        float64            `json:"r2_score_likes"`
	R2Comments     float64            `json:"r2_score_comments"`
	ValR2Likes     float64            `json:"val_r2_likes"`
	ValR2Comments  float64            `json:"val_r2_comments"`
	Quantiles      map[string]float64 `json:"quantiles"`

	// Persisted is false when training succeeded but writing artifacts to
	// the store failed; the live instance still serves the new model.
	Persisted    bool   `json:"persisted"`
	PersistError string `json:"persist_error,omitempty"`
}

// PredictionResult is the engagement prediction for a single not-yet-
// published post.
type PredictionResult struct {
	PredictedLikes          int     `json:"predicted_likes"`
	PredictedComments       int     `json:"predicted_comments"`
	PredictedViews          int     `json:"predicted_views"`
	PredictedEngagementRate float64 `json:"predicted_engagement_rate"`
	ViralityScore           int     `json:"virality_score"`
	Confidence              string  `json:"confidence"`
	Source                  string  `json:"source"`
	Recommendation          string  `json:"recommendation"`
	Note                    string  `json:"note,omitempty"`
}

// TimeRecommendation reports the best posting hours and weekdays for a
// platform.
type TimeRecommendation struct {
	BestHours      []string `json:"best_hours"`
	BestDays       []string `json:"best_days"`
	Recommendation string   `json:"recommendation"`
	Confidence     string   `json:"confidence"`
	Note           string   `json:"note,omitempty"`
}

// Forecast is one day of the engagement forecast horizon.
type Forecast struct {
	Date                     string `json:"date"`
	PredictedTotalEngagement int    `json:"predicted_total_engagement"`
	ConfidenceIntervalLow    int    `json:"confidence_interval_low"`
	ConfidenceIntervalHigh   int    `json:"confidence_interval_high"`
	Trend                    string `json:"trend"`
}

// PostInput is the synthetic post fed to Predict.
type PostInput struct {
	Platform      models.Platform
	Caption       string
	ScheduledTime time.Time // zero value means "now"
}
