// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/ml/train", "200"))
	RecordAPIRequest("POST", "/api/ml/train", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/ml/train", "200"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("gauge after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("gauge after dec = %v, want %v", got, before)
	}
}

func TestModelLoadedGauge(t *testing.T) {
	ModelLoaded.WithLabelValues("predictor").Set(1)
	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("predictor")); got != 1 {
		t.Errorf("gauge = %v, want 1", got)
	}
	ModelLoaded.WithLabelValues("predictor").Set(0)
	if got := testutil.ToFloat64(ModelLoaded.WithLabelValues("predictor")); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}
}
