// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Werewolf05/Pulselytics/internal/anomaly"
	"github.com/Werewolf05/Pulselytics/internal/config"
	"github.com/Werewolf05/Pulselytics/internal/models"
	"github.com/Werewolf05/Pulselytics/internal/modelstore"
	"github.com/Werewolf05/Pulselytics/internal/prediction"
	"github.com/rs/zerolog"
)

// minDetectionRecords is the smallest batch the anomaly endpoint analyzes;
// smaller batches get a graceful empty payload instead of an error.
const minDetectionRecords = 10

// Handler carries the service dependencies for all ML endpoints.
type Handler struct {
	predictor *prediction.Predictor
	detector  *anomaly.Detector
	store     *modelstore.Store
	config    *config.Config
	log       zerolog.Logger
}

// NewHandler creates the endpoint handler set.
func NewHandler(predictor *prediction.Predictor, detector *anomaly.Detector, store *modelstore.Store, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		detector:  detector,
		store:     store,
		config:    cfg,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// Train handles POST /api/ml/train: trains the predictor and the anomaly
// detector on the same batch and reports both outcomes.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TrainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "DECODE_ERROR", "Invalid JSON request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}
	if len(req.Records) > h.config.API.MaxBatchSize {
		respondError(w, http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE",
			"Training batch exceeds the configured maximum size", nil)
		return
	}

	data := map[string]interface{}{}
	insufficientBoth := true

	predictorResult, err := h.predictor.Train(req.Records)
	if err != nil {
		data["predictor"] = map[string]string{"error": err.Error()}
		var insErr *models.InsufficientDataError
		if !errors.As(err, &insErr) {
			respondError(w, http.StatusInternalServerError, "TRAINING_FAILED", "Predictor training failed", err)
			return
		}
	} else {
		data["predictor"] = predictorResult
		insufficientBoth = false
	}

	detectorResult, err := h.detector.Train(req.Records)
	if err != nil {
		data["anomaly_detector"] = map[string]string{"error": err.Error()}
		var insErr *models.InsufficientDataError
		if !errors.As(err, &insErr) {
			respondError(w, http.StatusInternalServerError, "TRAINING_FAILED", "Anomaly detector training failed", err)
			return
		}
	} else {
		data["anomaly_detector"] = detectorResult
		insufficientBoth = false
	}

	if insufficientBoth {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Data:     data,
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    "INSUFFICIENT_DATA",
				Message: "Not enough records to train either model",
			},
		})
		return
	}

	respondSuccess(w, http.StatusOK, data, start)
}

// PredictEngagement handles POST /api/ml/predict/engagement. It always
// returns a prediction: the fallback path serves untrained instances with
// source="baseline".
func (h *Handler) PredictEngagement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.PredictRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "DECODE_ERROR", "Invalid JSON request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	input := prediction.PostInput{
		Platform: req.Platform,
		Caption:  req.Caption,
	}
	if req.ScheduledTime != nil {
		input.ScheduledTime = *req.ScheduledTime
	}

	respondSuccess(w, http.StatusOK, h.predictor.Predict(input), start)
}

// OptimalTime handles POST /api/ml/optimal-time.
func (h *Handler) OptimalTime(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.OptimalTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "DECODE_ERROR", "Invalid JSON request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    apiErr,
		})
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"platform":     req.Platform,
		"optimal_time": h.predictor.OptimalTime(req.Platform, req.History),
	}, start)
}

// Forecast handles GET /api/ml/forecast?days=N (default 7, bounded 1-90).
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	days := getIntParam(r, "days", 7)
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"forecast":   h.predictor.ForecastEngagement(days),
		"days_ahead": days,
	}, start)
}

// DetectAnomalies handles POST /api/ml/detect/anomalies: point anomalies
// (top 10), trend analysis, and the engagement-drop report in one payload.
func (h *Handler) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DetectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "DECODE_ERROR", "Invalid JSON request body", err)
		return
	}
	if len(req.Records) > h.config.API.MaxBatchSize {
		respondError(w, http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE",
			"Detection batch exceeds the configured maximum size", nil)
		return
	}

	if len(req.Records) < minDetectionRecords {
		respondSuccess(w, http.StatusOK, map[string]interface{}{
			"anomalies":             []anomaly.Anomaly{},
			"trend_analysis":        nil,
			"engagement_drop":       nil,
			"total_anomalies_found": 0,
			"message":               "Insufficient data for anomaly detection (need >=10 posts)",
		}, start)
		return
	}

	anomalies := h.detector.DetectAnomalies(req.Records)
	total := len(anomalies)
	if total > 10 {
		anomalies = anomalies[:10]
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"anomalies":             anomalies,
		"trend_analysis":        h.detector.DetectTrends(req.Records, 7),
		"engagement_drop":       h.detector.DetectEngagementDrop(req.Records, anomaly.DropDetectionThreshold),
		"total_anomalies_found": total,
	}, start)
}

// ModelsStatus handles GET /api/ml/models/status. Version and training
// metadata come from the durable registry; the loaded flag reflects the
// in-process model so a store wiped under a running server still reports
// what is actually serving.
func (h *Handler) ModelsStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	predictorStatus := map[string]interface{}{"loaded": h.predictor.IsTrained()}
	if entry, ok := h.store.Entry(prediction.ArtifactLikes); ok {
		predictorStatus["version"] = entry.Version
		predictorStatus["trained_on"] = entry.Metadata.TrainedOn
		predictorStatus["samples_trained"] = entry.Metadata.SamplesTrained
		predictorStatus["features_used"] = entry.Metadata.FeaturesUsed
	}

	anomalyStatus := map[string]interface{}{"loaded": h.detector.IsTrained()}
	if entry, ok := h.store.Entry(anomaly.ArtifactModel); ok {
		anomalyStatus["version"] = entry.Version
		anomalyStatus["trained_on"] = entry.Metadata.TrainedOn
		anomalyStatus["samples_trained"] = entry.Metadata.SamplesTrained
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"predictor":        predictorStatus,
		"anomaly_detector": anomalyStatus,
	}, start)
}

// Diagnostics handles GET /api/ml/diagnostics: a consistency check between
// live in-memory state and the registry.
func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	registryNames := h.store.Names()
	present := make(map[string]bool, len(registryNames))
	for _, name := range registryNames {
		present[name] = true
	}

	issues := []string{}
	if h.predictor.IsTrained() && !present[prediction.ArtifactLikes] {
		issues = append(issues, "predictor trained but registry missing predictor_likes entry")
	}
	if h.detector.IsTrained() && !present[anomaly.ArtifactModel] {
		issues = append(issues, "anomaly detector loaded but registry missing anomaly_model entry")
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"predictor_loaded": h.predictor.IsTrained(),
		"anomaly_loaded":   h.detector.IsTrained(),
		"registry_keys":    registryNames,
		"issues":           issues,
	}, start)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"predictor_loaded": h.predictor.IsTrained(),
		"anomaly_loaded":   h.detector.IsTrained(),
	}, start)
}
