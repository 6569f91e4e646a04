// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model Lifecycle Metrics
	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ml_model_loaded",
			Help: "Whether a trained model is live (1) or absent (0)",
		},
		[]string{"model"}, // "predictor", "anomaly_detector"
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ml_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"component"},
	)

	TrainingSamples = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ml_training_samples",
			Help:    "Number of samples used per training run",
			Buckets: []float64{30, 50, 100, 250, 500, 1000, 5000, 10000},
		},
		[]string{"component"},
	)

	// Prediction Metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of engagement predictions served",
		},
		[]string{"source"}, // "model", "baseline"
	)

	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_fallback_total",
			Help: "Total number of requests served by a fallback path",
		},
		[]string{"component"}, // "predictor", "anomaly_detector"
	)

	// Anomaly Detection Metrics
	AnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_anomalies_detected_total",
			Help: "Total number of anomalies flagged",
		},
		[]string{"source"}, // "model", "rules"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Model Store Metrics
	StoreWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_store_write_errors_total",
			Help: "Total number of failed artifact or registry writes",
		},
		[]string{"artifact"},
	)
)

// RecordAPIRequest records the outcome and latency of one API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
