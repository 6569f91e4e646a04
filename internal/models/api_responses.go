// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"predicted_likes": 4200, ...},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "elapsed_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Caption is required",
//	    "details": {"field": "caption"}
//	  },
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// ElapsedMS is the server-side processing time in milliseconds. Training
// responses carry multi-second values here; serving responses stay in the
// low single digits.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INSUFFICIENT_DATA: Not enough records to train
//   - DECODE_ERROR: Malformed request body
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PredictRequest is the body of POST /api/ml/predict/engagement.
// ScheduledTime is optional; when absent the current time is used for
// time-of-day features.
type PredictRequest struct {
	Platform      Platform   `json:"platform" validate:"required,oneof=instagram youtube twitter facebook"`
	Caption       string     `json:"caption" validate:"required,min=1,max=10000"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

// TrainRequest is the body of POST /api/ml/train.
type TrainRequest struct {
	Records []PostRecord `json:"records" validate:"required,min=1"`
}

// OptimalTimeRequest is the body of POST /api/ml/optimal-time.
type OptimalTimeRequest struct {
	Platform Platform     `json:"platform" validate:"required,oneof=instagram youtube twitter facebook"`
	History  []PostRecord `json:"history"`
}

// DetectRequest is the body of POST /api/ml/detect/anomalies.
type DetectRequest struct {
	Records []PostRecord `json:"records" validate:"required"`
}
