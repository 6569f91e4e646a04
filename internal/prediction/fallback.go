// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package prediction

import (
	"strings"

	"github.com/Werewolf05/Pulselytics/internal/metrics"
	"github.com/Werewolf05/Pulselytics/internal/models"
)

// platformBaseline holds the hard-coded per-platform engagement estimates
// used when no trained model exists.
type platformBaseline struct {
	likes    float64
	comments float64
	views    float64
}

var platformBaselines = map[models.Platform]platformBaseline{
	models.PlatformInstagram: {likes: 5000, comments: 150, views: 25000},
	models.PlatformYouTube:   {likes: 3000, comments: 200, views: 100000},
	models.PlatformFacebook:  {likes: 2000, comments: 100, views: 15000},
	models.PlatformTwitter:   {likes: 1500, comments: 80, views: 50000},
}

// fallbackPrediction produces a baseline estimate from per-platform
// averages adjusted by a caption-quality multiplier. The result shape is
// identical to the trained-model path; only Confidence, Source, and Note
// communicate the degraded quality.
func (p *Predictor) fallbackPrediction(post PostInput) *PredictionResult {
	base, ok := platformBaselines[post.Platform]
	if !ok {
		base = platformBaselines[models.PlatformInstagram]
	}

	multiplier := 1.0
	if len([]rune(post.Caption)) > 100 {
		multiplier += 0.2
	}
	if strings.Contains(post.Caption, "#") {
		multiplier += 0.1
	}
	if strings.Contains(post.Caption, "!") || strings.Contains(post.Caption, "?") {
		multiplier += 0.1
	}

	predLikes := int(base.likes * multiplier)
	predComments := int(base.comments * multiplier)
	predViews := int(base.views * multiplier)

	engagementRate := 5.0
	if predViews > 0 {
		engagementRate = float64(predLikes+predComments) / float64(predViews) * 100
	}

	virality := int(engagementRate * 10)
	if virality > 100 {
		virality = 100
	}

	metrics.PredictionsTotal.WithLabelValues(SourceBaseline).Inc()
	return &PredictionResult{
		PredictedLikes:          predLikes,
		PredictedComments:       predComments,
		PredictedViews:          predViews,
		PredictedEngagementRate: round2(engagementRate),
		ViralityScore:           virality,
		Confidence:              ConfidenceLow,
		Source:                  SourceBaseline,
		Recommendation:          recommendation(virality),
		Note:                    "Prediction based on platform averages (model not trained yet)",
	}
}
