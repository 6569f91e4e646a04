// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package anomaly

import (
	"math"
	"sort"

	"github.com/Werewolf05/Pulselytics/internal/metrics"
	"github.com/Werewolf05/Pulselytics/internal/models"
)

// maxRuleBasedAnomalies caps the rule-based result so low-data batches do
// not drown callers in borderline rows.
const maxRuleBasedAnomalies = 10

// Rule-based anomaly type labels. A row breaching multiple bands carries
// all of its labels joined with ", ".
const (
	ruleTypeViralSpike     = "viral_spike"
	ruleTypeLowLikes       = "low_likes"
	ruleTypeHighEngagement = "high_engagement"
	ruleTypeLowEngagement  = "low_engagement"
)

// ruleBasedDetection flags rows outside 3-sigma bands around the batch
// means of likes and comments. It is the safety net for untrained and
// low-data regimes: transparent thresholds, no model required.
func ruleBasedDetection(records []models.PostRecord, baseline *Baseline) []Anomaly {
	if len(records) == 0 {
		return []Anomaly{}
	}

	likesUpper := baseline.AvgLikes + 3*baseline.StdLikes
	likesLower := math.Max(0, baseline.AvgLikes-3*baseline.StdLikes)
	commentsUpper := baseline.AvgComments + 3*baseline.StdComments
	commentsLower := math.Max(0, baseline.AvgComments-3*baseline.StdComments)

	rows := featureRows(records)

	type ranked struct {
		anomaly   Anomaly
		deviation float64
	}
	var found []ranked

	for i := range records {
		rec := records[i]

		var types []string
		if rec.Likes > likesUpper {
			types = append(types, ruleTypeViralSpike)
		} else if rec.Likes < likesLower {
			types = append(types, ruleTypeLowLikes)
		}
		if rec.Comments > commentsUpper {
			types = append(types, ruleTypeHighEngagement)
		} else if rec.Comments < commentsLower {
			types = append(types, ruleTypeLowEngagement)
		}
		if len(types) == 0 {
			continue
		}

		devLikes := deviationValue(rec.Likes, baseline.AvgLikes)

		severity := SeverityMedium
		if math.Abs(devLikes) > 200 {
			severity = SeverityHigh
		}

		message := "Underperforming content"
		if types[0] == ruleTypeViralSpike {
			message = "Viral content!"
		}

		found = append(found, ranked{
			anomaly: Anomaly{
				PostURL:      urlOrNA(rec.PostURL),
				Platform:     string(rec.PlatformOrUnknown()),
				Date:         formatDate(rec.UploadDate),
				Type:         joinTypes(types),
				Severity:     severity,
				MetricValues: metricValues(rec, rows[i]),
				Deviation: Deviation{
					Likes:    deviationPercent(rec.Likes, baseline.AvgLikes),
					Comments: deviationPercent(rec.Comments, baseline.AvgComments),
				},
				AlertMessage: message,
				Source:       SourceRules,
			},
			deviation: devLikes,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return math.Abs(found[i].deviation) > math.Abs(found[j].deviation)
	})
	if len(found) > maxRuleBasedAnomalies {
		found = found[:maxRuleBasedAnomalies]
	}

	out := make([]Anomaly, len(found))
	for i := range found {
		out[i] = found[i].anomaly
	}
	metrics.AnomaliesTotal.WithLabelValues(SourceRules).Add(float64(len(out)))
	return out
}

func joinTypes(types []string) string {
	out := types[0]
	for _, t := range types[1:] {
		out += ", " + t
	}
	return out
}
