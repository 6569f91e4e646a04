// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package anomaly

import "time"

// Version is the semantic anomaly detector model version.
const Version = "1.0"

// Artifact names under which detector components are registered.
const (
	ArtifactScaler = "anomaly_scaler"
	ArtifactModel  = "anomaly_model"
)

// Severity levels attached to anomalies and drop reports.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Anomaly type labels produced by the learned-model classifier.
const (
	TypeViralSpike     = "viral_spike"
	TypeLowPerformance = "low_performance"
	TypeControversial  = "controversial"
	TypeLowEngagement  = "low_engagement"
	TypeUnusualPattern = "unusual_pattern"
)

// Source values distinguish learned-model detections from rule-based ones.
const (
	SourceModel = "model"
	SourceRules = "rules"
)

// Config holds detector training tunables.
type Config struct {
	// MinTrainSamples is the minimum batch size accepted by Train.
	MinTrainSamples int

	// Contamination is the expected fraction of anomalous rows.
	Contamination float64

	// Estimators is the isolation forest ensemble size.
	Estimators int

	// Seed drives forest construction.
	Seed int64
}

// DefaultConfig returns the production detector configuration.
func DefaultConfig() Config {
	return Config{
		MinTrainSamples: 30,
		Contamination:   0.1,
		Estimators:      100,
		Seed:            42,
	}
}

// Baseline is the cached mean/std snapshot of a client's history, driving
// anomaly classification, deviation reporting, and rule-based thresholds.
// It is recomputed on every training call and lives only in the running
// detector; after a restart it stays empty until the next train.
type Baseline struct {
	AvgLikes          float64 `json:"avg_likes"`
	StdLikes          float64 `json:"std_likes"`
	AvgComments       float64 `json:"avg_comments"`
	StdComments       float64 `json:"std_comments"`
	AvgViews          float64 `json:"avg_views"`
	StdViews          float64 `json:"std_views"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// TrainingResult is the structured outcome of a successful Train call.
type TrainingResult struct {
	Status              string    `json:"status"`
	Version             string    `json:"version"`
	TrainedOn           time.Time `json:"trained_on"`
	SamplesTrained      int       `json:"samples_trained"`
	BaselineAvgLikes    int       `json:"baseline_avg_likes"`
	BaselineAvgComments int       `json:"baseline_avg_comments"`

	Persisted    bool   `json:"persisted"`
	PersistError string `json:"persist_error,omitempty"`
}

// MetricValues carries the observed metrics of an anomalous post.
type MetricValues struct {
	Likes               int     `json:"likes"`
	Comments            int     `json:"comments"`
	Views               int     `json:"views"`
	ResponsivenessIndex float64 `json:"responsiveness_index"`
	PeakPerformance     float64 `json:"peak_performance"`
}

// Deviation reports signed percentage differences from baseline, rendered
// as display strings ("+120.0%"). A zero baseline yields "0%".
type Deviation struct {
	Likes    string `json:"likes"`
	Comments string `json:"comments"`
}

// Anomaly is one flagged post.
type Anomaly struct {
	PostURL      string       `json:"post_url"`
	Platform     string       `json:"platform"`
	Date         string       `json:"date"`
	Type         string       `json:"type"`
	Severity     string       `json:"severity"`
	MetricValues MetricValues `json:"metric_values"`
	Deviation    Deviation    `json:"deviation"`
	AlertMessage string       `json:"alert_message"`
	Source       string       `json:"source"`
}

// TrendReport summarizes short-term engagement direction.
type TrendReport struct {
	OverallTrend          string  `json:"overall_trend"`
	LikesChangePercent    float64 `json:"likes_change_percent"`
	CommentsChangePercent float64 `json:"comments_change_percent"`
	RecentAvgLikes        int     `json:"recent_avg_likes"`
	RecentAvgComments     int     `json:"recent_avg_comments"`
	Alert                 string  `json:"alert"`
	Recommendation        string  `json:"recommendation"`
}

// DropReport flags significant engagement drops between contiguous 5-post
// windows. Status is set instead of the drop fields when the input cannot
// support the comparison ("insufficient_data", "no_baseline").
type DropReport struct {
	Status                string   `json:"status,omitempty"`
	DropDetected          bool     `json:"drop_detected"`
	ChangePercent         float64  `json:"change_percent"`
	RecentAvgEngagement   int      `json:"recent_avg_engagement"`
	PreviousAvgEngagement int      `json:"previous_avg_engagement"`
	Severity              string   `json:"severity,omitempty"`
	AlertMessage          string   `json:"alert_message,omitempty"`
	PossibleCauses        []string `json:"possible_causes,omitempty"`
}
