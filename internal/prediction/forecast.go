// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package prediction

import "time"

// ForecastEngagement returns a synthetic engagement forecast for the next
// daysAhead days.
//
// The curve is a deterministic placeholder (base 1000, +50 per day, +/-20%
// band) that is not derived from historical data; it is preserved as-is for
// client compatibility until a real time-series model replaces it. The
// trend label flips from "stable" to "increasing" at the midpoint of the
// horizon.
func (p *Predictor) ForecastEngagement(daysAhead int) []Forecast {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	now := time.Now()
	out := make([]Forecast, 0, daysAhead)
	for i := 0; i < daysAhead; i++ {
		base := 1000 + i*50
		trend := "stable"
		if float64(i) > float64(daysAhead)/2 {
			trend = "increasing"
		}
		out = append(out, Forecast{
			Date:                     now.AddDate(0, 0, i).Format("2006-01-02"),
			PredictedTotalEngagement: base,
			ConfidenceIntervalLow:    int(float64(base) * 0.8),
			ConfidenceIntervalHigh:   int(float64(base) * 1.2),
			Trend:                    trend,
		})
	}
	return out
}
