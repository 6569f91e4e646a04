// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package anomaly

import (
	"fmt"
	"math"
	"sort"

	"github.com/Werewolf05/Pulselytics/internal/features"
	"github.com/Werewolf05/Pulselytics/internal/ml"
	"github.com/Werewolf05/Pulselytics/internal/models"
)

// Trend labels ordered from worst to best.
const (
	TrendStronglyDecreasing = "strongly_decreasing"
	TrendDecreasing         = "decreasing"
	TrendStable             = "stable"
	TrendIncreasing         = "increasing"
	TrendStronglyIncreasing = "strongly_increasing"
)

// DropDetectionThreshold is the default fractional decrease that counts as
// an engagement drop.
const DropDetectionThreshold = 0.3

// trendRecommendations maps a trend label to analyst guidance.
var trendRecommendations = map[string]string{
	TrendStronglyDecreasing: "Urgent action needed: Review recent content strategy, analyze competitor activity, and consider A/B testing new approaches",
	TrendDecreasing:         "Review content quality and posting times. Consider refreshing your content strategy",
	TrendStable:             "Maintain current strategy but look for opportunities to innovate and grow",
	TrendIncreasing:         "Great work! Double down on what's working and document successful patterns",
	TrendStronglyIncreasing: "Capitalize on this momentum! Increase posting frequency and engage with your growing audience",
}

// dropCauses is the fixed checklist attached to detected engagement drops.
var dropCauses = []string{
	"Algorithm changes on the platform",
	"Content quality or relevance decreased",
	"Posting at non-optimal times",
	"Increased competition in your niche",
	"Audience fatigue or changing interests",
	"Technical issues (hashtags, reach limits)",
	"Seasonal trends or external events",
}

// sortByDate returns a copy of records ordered by upload date ascending.
// Zero timestamps sort first.
func sortByDate(records []models.PostRecord) []models.PostRecord {
	out := make([]models.PostRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadDate.Before(out[j].UploadDate)
	})
	return out
}

// DetectTrends compares the mean likes and comments of the last windowDays
// posts against the first windowDays posts and labels the direction of
// change. Batches shorter than the window compare against themselves and
// report stable.
func (d *Detector) DetectTrends(records []models.PostRecord, windowDays int) *TrendReport {
	if windowDays <= 0 {
		windowDays = 7
	}
	sorted := sortByDate(records)

	window := windowDays
	if window > len(sorted) {
		window = len(sorted)
	}

	var recentLikes, olderLikes, recentComments, olderComments []float64
	for i := 0; i < window; i++ {
		olderLikes = append(olderLikes, sorted[i].Likes)
		olderComments = append(olderComments, sorted[i].Comments)
	}
	for i := len(sorted) - window; i < len(sorted); i++ {
		if i < 0 {
			continue
		}
		recentLikes = append(recentLikes, sorted[i].Likes)
		recentComments = append(recentComments, sorted[i].Comments)
	}

	likesChange := percentChange(ml.Mean(recentLikes), ml.Mean(olderLikes))
	commentsChange := percentChange(ml.Mean(recentComments), ml.Mean(olderComments))

	trend := TrendStable
	switch {
	case likesChange > 20:
		trend = TrendStronglyIncreasing
	case likesChange > 10:
		trend = TrendIncreasing
	case likesChange < -20:
		trend = TrendStronglyDecreasing
	case likesChange < -10:
		trend = TrendDecreasing
	}

	return &TrendReport{
		OverallTrend:          trend,
		LikesChangePercent:    roundPercent(likesChange),
		CommentsChangePercent: roundPercent(commentsChange),
		RecentAvgLikes:        features.SafeInt(ml.Mean(recentLikes)),
		RecentAvgComments:     features.SafeInt(ml.Mean(recentComments)),
		Alert:                 trendAlert(trend, likesChange),
		Recommendation:        trendRecommendations[trend],
	}
}

// DetectEngagementDrop compares mean engagement of the last 5 posts against
// the 5 posts before them. A decrease beyond threshold (fractional, default
// 0.3) is reported as a drop. Batches under 10 posts or with a zero prior
// baseline report a status instead.
func (d *Detector) DetectEngagementDrop(records []models.PostRecord, threshold float64) *DropReport {
	if threshold <= 0 {
		threshold = DropDetectionThreshold
	}
	sorted := sortByDate(records)

	if len(sorted) < 10 {
		return &DropReport{Status: "insufficient_data"}
	}

	recent := sorted[len(sorted)-5:]
	previous := sorted[len(sorted)-10 : len(sorted)-5]

	recentMean := meanEngagement(recent)
	previousMean := meanEngagement(previous)
	if previousMean == 0 {
		return &DropReport{Status: "no_baseline"}
	}

	change := features.SafeFloat((recentMean - previousMean) / previousMean * 100)
	dropDetected := change < -(threshold * 100)

	severity := SeverityLow
	switch {
	case change < -50:
		severity = SeverityHigh
	case change < -30:
		severity = SeverityMedium
	}

	report := &DropReport{
		DropDetected:          dropDetected,
		ChangePercent:         roundPercent(change),
		RecentAvgEngagement:   features.SafeInt(recentMean),
		PreviousAvgEngagement: features.SafeInt(previousMean),
		Severity:              severity,
		AlertMessage:          "Engagement is stable or improving",
	}
	if dropDetected {
		report.AlertMessage = fmt.Sprintf("Engagement dropped by %.1f%%! Investigate recent content quality.", math.Abs(change))
		report.PossibleCauses = append([]string(nil), dropCauses...)
	}
	return report
}

func meanEngagement(records []models.PostRecord) float64 {
	vals := make([]float64, len(records))
	for i := range records {
		vals[i] = records[i].Engagement()
	}
	return ml.Mean(vals)
}

func percentChange(recent, older float64) float64 {
	if older <= 0 {
		return 0
	}
	return features.SafeFloat((recent - older) / older * 100)
}

func trendAlert(trend string, change float64) string {
	switch trend {
	case TrendStronglyDecreasing:
		return fmt.Sprintf("ALERT: Engagement dropping rapidly (-%.1f%%)", math.Abs(change))
	case TrendDecreasing:
		return fmt.Sprintf("Warning: Engagement declining (-%.1f%%)", math.Abs(change))
	case TrendStronglyIncreasing:
		return fmt.Sprintf("Excellent: Engagement surging (+%.1f%%)", change)
	case TrendIncreasing:
		return fmt.Sprintf("Good: Engagement improving (+%.1f%%)", change)
	default:
		return "Engagement is stable"
	}
}

func roundPercent(v float64) float64 {
	return math.Round(features.SafeFloat(v)*100) / 100
}
