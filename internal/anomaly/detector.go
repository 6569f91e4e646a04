// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package anomaly implements the engagement anomaly detector: an isolation
// forest over standardized engagement features, with a rule-based 3-sigma
// fallback, trend analysis, and engagement-drop detection.
//
// # Detection Strategy
//
// Every DetectAnomalies call selects one strategy up front and follows it for
// the whole batch: the learned path when a trained forest is live, otherwise
// the rule-based path. Strategy selection reads a single immutable snapshot,
// so a concurrent Train call never flips the mode mid-batch.
//
// # Train/Serve Consistency
//
// The scaler and forest are fit on the same six-column feature set the
// detection path builds (likes, comments, views, engagement rate,
// responsiveness index, peak performance), with the two derived signals
// computed on the training batch the same way they are at detection time.
package anomaly

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

const defaultFollowers = 1000

// learnedState is the immutable trained snapshot. Train builds a complete
// new state and swaps it in; fields are never mutated after publication.
type learnedState struct {
	scaler *ml.StandardScaler
	forest *ml.IsolationForest
}

// Detector trains the outlier model and serves anomaly, trend, and drop
// analyses.
type Detector struct {
	store  *modelstore.Store
	config Config
	log    zerolog.Logger

	trainMu sync.Mutex   // serializes Train calls
	mu      sync.RWMutex // guards learned and baseline
	learned *learnedState
	// baseline is the last computed Baseline, nil until the first Train in
	// this process. It is deliberately not persisted.
	baseline *Baseline
}

// NewDetector creates a detector backed by the given store and attempts to
// reload persisted artifacts. A failed reload leaves the detector on the
// rule-based path; it never fails construction.
func NewDetector(store *modelstore.Store, cfg Config, log zerolog.Logger) *Detector {
	if cfg.MinTrainSamples <= 0 {
		cfg.MinTrainSamples = 30
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 0.5 {
		cfg.Contamination = 0.1
	}
	if cfg.Estimators <= 0 {
		cfg.Estimators = 100
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	d := &Detector{
		store:  store,
		config: cfg,
		log:    log.With().Str("component", "anomaly_detector").Logger(),
	}
	d.loadFromStore()
	return d
}

// IsTrained reports whether a trained outlier model is currently live.
func (d *Detector) IsTrained() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.learned != nil
}

// CurrentBaseline returns the cached baseline metrics, or nil when no Train
// has run in this process.
func (d *Detector) CurrentBaseline() *Baseline {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.baseline
}

func (d *Detector) loadFromStore() {
	var scaler ml.StandardScaler
	if _, ok := d.store.Load(ArtifactScaler, &scaler); !ok {
		return
	}
	var forest ml.IsolationForest
	entry, ok := d.store.Load(ArtifactModel, &forest)
	if !ok {
		return
	}

	d.mu.Lock()
	d.learned = &learnedState{scaler: &scaler, forest: &forest}
	d.mu.Unlock()

	metrics.ModelLoaded.WithLabelValues("anomaly_detector").Set(1)
	d.log.Info().
		Str("version", entry.Version).
		Int("samples_trained", entry.Metadata.SamplesTrained).
		Msg("Anomaly detector restored from model store")
}

// computeBaseline derives the mean/std snapshot of a batch. Standard
// deviations use the sample estimator; non-finite intermediates collapse
// to 0.
func computeBaseline(records []models.PostRecord) *Baseline {
	likes := make([]float64, len(records))
	comments := make([]float64, len(records))
	views := make([]float64, len(records))
	rates := make([]float64, len(records))
	for i := range records {
		likes[i] = records[i].Likes
		comments[i] = records[i].Comments
		views[i] = records[i].Views
		rates[i] = engagementRate(records[i])
	}
	return &Baseline{
		AvgLikes:          features.SafeFloat(ml.Mean(likes)),
		StdLikes:          features.SafeFloat(ml.SampleStd(likes)),
		AvgComments:       features.SafeFloat(ml.Mean(comments)),
		StdComments:       features.SafeFloat(ml.SampleStd(comments)),
		AvgViews:          features.SafeFloat(ml.Mean(views)),
		StdViews:          features.SafeFloat(ml.SampleStd(views)),
		AvgEngagementRate: features.SafeFloat(ml.Mean(rates)),
	}
}

// engagementRate is (likes+comments)/views with a zero view count treated
// as 1 so a metrics-poor platform still yields a finite rate.
func engagementRate(r models.PostRecord) float64 {
	views := r.Views
	if views == 0 {
		views = 1
	}
	return features.SafeFloat((r.Likes + r.Comments) / views)
}

// featureRows builds the six-column detection feature set for a batch. The
// same construction is used at training and detection time.
func featureRows(records []models.PostRecord) [][]float64 {
	maxEngagement := 0.0
	for i := range records {
		if e := records[i].Engagement(); e > maxEngagement {
			maxEngagement = e
		}
	}

	rows := make([][]float64, len(records))
	for i := range records {
		rows[i] = []float64{
			records[i].Likes,
			records[i].Comments,
			records[i].Views,
			engagementRate(records[i]),
			responsivenessIndex(records[i]),
			peakPerformance(records[i], maxEngagement),
		}
		for j, v := range rows[i] {
			rows[i][j] = features.SafeFloat(v)
		}
	}
	return rows
}

// responsivenessIndex normalizes comment and share volume by audience size,
// scaled to a readable magnitude. Unknown follower counts fall back to a
// nominal audience of 1000.
func responsivenessIndex(r models.PostRecord) float64 {
	followers := r.Followers
	if followers <= 0 {
		followers = defaultFollowers
	}
	return features.SafeFloat((r.Comments + r.Shares) / followers * 10000)
}

// peakPerformance expresses a post's engagement as a percentage of the best
// post in the batch.
func peakPerformance(r models.PostRecord, maxEngagement float64) float64 {
	if maxEngagement <= 0 {
		return 0
	}
	return features.SafeFloat(r.Engagement() / maxEngagement * 100)
}

// Train fits the outlier model on a batch of historical posts and refreshes
// the cached baseline. Returns models.InsufficientDataError when the batch
// is below the configured minimum.
func (d *Detector) Train(records []models.PostRecord) (*TrainingResult, error) {
	d.trainMu.Lock()
	defer d.trainMu.Unlock()

	start := time.Now()

	if len(records) < d.config.MinTrainSamples {
		return nil, &models.InsufficientDataError{Required: d.config.MinTrainSamples, Got: len(records), Stage: "input"}
	}

	baseline := computeBaseline(records)

	scaler := &ml.StandardScaler{}
	scaled, err := scaler.FitTransform(featureRows(records))
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}

	forest := ml.NewIsolationForest(ml.IsolationForestConfig{
		NumTrees:      d.config.Estimators,
		Contamination: d.config.Contamination,
		Seed:          d.config.Seed,
	})
	if err := forest.Fit(scaled); err != nil {
		return nil, fmt.Errorf("fit isolation forest: %w", err)
	}

	st := &learnedState{scaler: scaler, forest: forest}
	d.mu.Lock()
	d.learned = st
	d.baseline = baseline
	d.mu.Unlock()

	result := &TrainingResult{
		Status:              "success",
		Version:             Version,
		TrainedOn:           time.Now().UTC(),
		SamplesTrained:      len(records),
		BaselineAvgLikes:    int(baseline.AvgLikes),
		BaselineAvgComments: int(baseline.AvgComments),
		Persisted:           true,
	}

	meta := modelstore.Metadata{
		TrainedOn:           result.TrainedOn,
		SamplesTrained:      result.SamplesTrained,
		BaselineAvgLikes:    result.BaselineAvgLikes,
		BaselineAvgComments: result.BaselineAvgComments,
	}
	if err := d.persist(st, meta); err != nil {
		result.Persisted = false
		result.PersistError = err.Error()
		metrics.StoreWriteErrors.WithLabelValues("anomaly_detector").Inc()
		d.log.Error().Err(err).Msg("Trained anomaly detector but persisting artifacts failed")
	}

	metrics.ModelLoaded.WithLabelValues("anomaly_detector").Set(1)
	metrics.TrainingDuration.WithLabelValues("anomaly_detector").Observe(time.Since(start).Seconds())
	metrics.TrainingSamples.WithLabelValues("anomaly_detector").Observe(float64(result.SamplesTrained))
	d.log.Info().
		Int("samples_trained", result.SamplesTrained).
		Int("baseline_avg_likes", result.BaselineAvgLikes).
		Dur("elapsed", time.Since(start)).
		Msg("Anomaly detector training complete")

	return result, nil
}

func (d *Detector) persist(st *learnedState, meta modelstore.Metadata) error {
	if err := d.store.Save(ArtifactScaler, Version, st.scaler, meta); err != nil {
		return err
	}
	return d.store.Save(ArtifactModel, Version, st.forest, meta)
}

// DetectAnomalies flags unusual posts in a batch. It never fails: the
// learned path is used when a trained model is live, and any failure there,
// or the absence of a model, falls through to the rule-based path.
func (d *Detector) DetectAnomalies(records []models.PostRecord) []Anomaly {
	if len(records) == 0 {
		return []Anomaly{}
	}

	d.mu.RLock()
	st := d.learned
	baseline := d.baseline
	d.mu.RUnlock()

	// Classification and deviation reporting need a baseline. When the
	// process restarted with a persisted model but no Train has run yet,
	// derive one from the incoming batch.
	if baseline == nil {
		baseline = computeBaseline(records)
	}

	if st == nil {
		metrics.FallbackTotal.WithLabelValues("anomaly_detector").Inc()
		return ruleBasedDetection(records, baseline)
	}

	rows := featureRows(records)
	scaled, err := st.scaler.Transform(rows)
	if err != nil {
		d.log.Warn().Err(err).Msg("Anomaly feature pipeline failed, using rule-based fallback")
		metrics.FallbackTotal.WithLabelValues("anomaly_detector").Inc()
		return ruleBasedDetection(records, baseline)
	}
	flags, err := st.forest.Predict(scaled)
	if err != nil {
		d.log.Warn().Err(err).Msg("Outlier model failed, using rule-based fallback")
		metrics.FallbackTotal.WithLabelValues("anomaly_detector").Inc()
		return ruleBasedDetection(records, baseline)
	}
	scores, err := st.forest.ScoreSamples(scaled)
	if err != nil {
		metrics.FallbackTotal.WithLabelValues("anomaly_detector").Inc()
		return ruleBasedDetection(records, baseline)
	}

	anomalies := []Anomaly{}
	for i, flag := range flags {
		if flag != -1 {
			continue
		}
		rec := records[i]
		typ := classifyAnomaly(rec, baseline)
		anomalies = append(anomalies, Anomaly{
			PostURL:      urlOrNA(rec.PostURL),
			Platform:     string(rec.PlatformOrUnknown()),
			Date:         formatDate(rec.UploadDate),
			Type:         typ,
			Severity:     severityForScore(scores[i]),
			MetricValues: metricValues(rec, rows[i]),
			Deviation: Deviation{
				Likes:    deviationPercent(rec.Likes, baseline.AvgLikes),
				Comments: deviationPercent(rec.Comments, baseline.AvgComments),
			},
			AlertMessage: alertMessage(typ, rec),
			Source:       SourceModel,
		})
	}

	metrics.AnomaliesTotal.WithLabelValues(SourceModel).Add(float64(len(anomalies)))
	return anomalies
}

// classifyAnomaly labels a flagged post by comparing it against baseline
// averages and its own engagement ratio.
func classifyAnomaly(rec models.PostRecord, baseline *Baseline) string {
	switch {
	case rec.Likes > baseline.AvgLikes*2:
		return TypeViralSpike
	case rec.Likes < baseline.AvgLikes*0.3:
		return TypeLowPerformance
	case rec.Comments > baseline.AvgComments*3:
		return TypeControversial
	case rec.Views > 0 && rec.Engagement()/rec.Views < 0.01:
		return TypeLowEngagement
	default:
		return TypeUnusualPattern
	}
}

// severityForScore maps an outlier score to a severity bucket. Scores are
// in [-1, 0]; more negative means more anomalous.
func severityForScore(score float64) string {
	switch {
	case score < -0.5:
		return SeverityHigh
	case score < -0.3:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// deviationPercent renders the signed percentage difference from baseline,
// rounded to one decimal. A zero baseline reports 0% rather than dividing.
func deviationPercent(value, baseline float64) string {
	return fmt.Sprintf("%g%%", deviationValue(value, baseline))
}

func deviationValue(value, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return math.Round((value-baseline)/baseline*1000) / 10
}

func alertMessage(typ string, rec models.PostRecord) string {
	switch typ {
	case TypeViralSpike:
		return fmt.Sprintf("Viral content detected! %d likes - %s", features.SafeInt(rec.Likes), truncateCaption(rec.Caption, 50))
	case TypeLowPerformance:
		return fmt.Sprintf("Underperforming post: only %d likes", features.SafeInt(rec.Likes))
	case TypeControversial:
		return fmt.Sprintf("High engagement: %d comments - may be controversial", features.SafeInt(rec.Comments))
	case TypeLowEngagement:
		return "Low engagement rate detected"
	default:
		return "Unusual engagement pattern detected"
	}
}

func truncateCaption(caption string, limit int) string {
	runes := []rune(caption)
	if len(runes) <= limit {
		return caption
	}
	return string(runes[:limit]) + "..."
}

func metricValues(rec models.PostRecord, row []float64) MetricValues {
	return MetricValues{
		Likes:               features.SafeInt(rec.Likes),
		Comments:            features.SafeInt(rec.Comments),
		Views:               features.SafeInt(rec.Views),
		ResponsivenessIndex: math.Round(row[4]*100) / 100,
		PeakPerformance:     math.Round(row[5]*10) / 10,
	}
}

func urlOrNA(url string) string {
	if url == "" {
		return "N/A"
	}
	return url
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.UTC().Format(time.RFC3339)
}
