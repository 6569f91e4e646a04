// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered with the default registry via promauto and exposed at
the /metrics endpoint in Prometheus text format.

# Available Metrics

Model lifecycle:
  - ml_model_loaded: trained model availability (gauge)
    Labels: model (predictor, anomaly_detector)
  - ml_training_duration_seconds: training run duration (histogram)
    Labels: component
  - ml_training_samples: samples per training run (histogram)
    Labels: component

Serving:
  - ml_predictions_total: predictions served (counter)
    Labels: source (model, baseline)
  - ml_fallback_total: requests served by a fallback path (counter)
    Labels: component
  - ml_anomalies_detected_total: anomalies flagged (counter)
    Labels: source (model, rules)

HTTP API:
  - api_requests_total: requests by method/endpoint/status (counter)
  - api_request_duration_seconds: request latency (histogram)
  - api_active_requests: in-flight requests (gauge)

Persistence:
  - model_store_write_errors_total: failed artifact writes (counter)
    Labels: artifact
*/
package metrics
