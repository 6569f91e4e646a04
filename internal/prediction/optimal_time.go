// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package prediction

import (
	"fmt"
	"sort"
	"time"

	"github.com/Werewolf05/Pulselytics/internal/models"
)

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// defaultOptimalTimes holds industry-standard posting windows per platform,
// used when history is too thin to compute real buckets.
var defaultOptimalTimes = map[models.Platform]TimeRecommendation{
	models.PlatformInstagram: {
		BestHours:      []string{"9:00", "12:00", "19:00"},
		BestDays:       []string{"Wednesday", "Friday", "Sunday"},
		Recommendation: "Post on Wednesday at 12:00 for maximum engagement",
	},
	models.PlatformFacebook: {
		BestHours:      []string{"13:00", "15:00", "20:00"},
		BestDays:       []string{"Thursday", "Friday", "Saturday"},
		Recommendation: "Post on Thursday at 15:00 for maximum engagement",
	},
	models.PlatformTwitter: {
		BestHours:      []string{"8:00", "12:00", "17:00"},
		BestDays:       []string{"Tuesday", "Wednesday", "Thursday"},
		Recommendation: "Post on Wednesday at 12:00 for maximum engagement",
	},
	models.PlatformYouTube: {
		BestHours:      []string{"14:00", "16:00", "20:00"},
		BestDays:       []string{"Friday", "Saturday", "Sunday"},
		Recommendation: "Post on Friday at 16:00 for maximum engagement",
	},
}

// OptimalTime recommends posting hours and weekdays for a platform based on
// historical engagement. Comments are weighted 3x likes when scoring
// buckets. With fewer than 10 history rows the fixed per-platform default
// table is returned with low confidence.
func (p *Predictor) OptimalTime(platform models.Platform, history []models.PostRecord) *TimeRecommendation {
	if len(history) < 10 {
		return defaultTimeRecommendation(platform)
	}

	hourScores := make(map[int][]float64)
	dayScores := make(map[int][]float64)
	for i := range history {
		rec := &history[i]
		if rec.UploadDate.IsZero() {
			continue
		}
		score := rec.Likes + 3*rec.Comments
		hour := rec.UploadDate.Hour()
		day := mondayIndexed(rec.UploadDate.Weekday())
		hourScores[hour] = append(hourScores[hour], score)
		dayScores[day] = append(dayScores[day], score)
	}
	if len(hourScores) == 0 {
		return defaultTimeRecommendation(platform)
	}

	bestHours := topBuckets(hourScores, 3)
	bestDays := topBuckets(dayScores, 3)

	hours := make([]string, len(bestHours))
	for i, h := range bestHours {
		hours[i] = fmt.Sprintf("%d:00", h)
	}
	days := make([]string, len(bestDays))
	for i, d := range bestDays {
		days[i] = dayNames[d]
	}

	confidence := ConfidenceMedium
	if len(history) > 50 {
		confidence = ConfidenceHigh
	}

	return &TimeRecommendation{
		BestHours:      hours,
		BestDays:       days,
		Recommendation: fmt.Sprintf("Post on %s at %d:00 for maximum engagement", dayNames[bestDays[0]], bestHours[0]),
		Confidence:     confidence,
	}
}

func defaultTimeRecommendation(platform models.Platform) *TimeRecommendation {
	rec, ok := defaultOptimalTimes[platform]
	if !ok {
		rec = defaultOptimalTimes[models.PlatformInstagram]
	}
	rec.Confidence = ConfidenceLow
	rec.Note = "Using industry standard optimal times"
	return &rec
}

// topBuckets ranks buckets by mean score descending and returns up to n
// bucket keys. Ties break on the lower key for determinism.
func topBuckets(buckets map[int][]float64, n int) []int {
	type bucket struct {
		key  int
		mean float64
	}
	ranked := make([]bucket, 0, len(buckets))
	for k, scores := range buckets {
		var s float64
		for _, v := range scores {
			s += v
		}
		ranked = append(ranked, bucket{key: k, mean: s / float64(len(scores))})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].mean != ranked[j].mean {
			return ranked[i].mean > ranked[j].mean
		}
		return ranked[i].key < ranked[j].key
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].key
	}
	return out
}

// mondayIndexed remaps time.Weekday (Sunday=0) to 0=Monday.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}
