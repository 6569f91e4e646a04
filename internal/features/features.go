// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package features builds the fixed-width numeric feature table consumed by
// the engagement predictor and keeps training and serving schemas aligned.
//
// The builder is a pure function: identical input batches always produce
// identical tables, and there are no error paths. Missing timestamps zero the
// time features, missing captions zero the caption features, and the platform
// one-hot column set depends on the platform values observed in the batch.
// That batch dependence is why Align must be applied against the persisted
// training schema before a single-row prediction batch may be scored.
package features

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Werewolf05/Pulselytics/internal/models"
)

// BaseColumns lists the batch-independent feature columns in order.
var BaseColumns = []string{
	"hour_of_day",
	"day_of_week",
	"is_weekend",
	"month",
	"caption_length",
	"word_count",
	"hashtag_count",
	"mention_count",
	"emoji_count",
	"has_question",
	"has_exclamation",
	"has_url",
}

// PlatformPrefix prefixes the one-hot platform columns.
const PlatformPrefix = "platform_"

// BaselineEngagementColumn is the constant placeholder column appended after
// the platform one-hots. The 0.05 value stands in for a future per-client
// historical aggregate.
const (
	BaselineEngagementColumn = "avg_engagement_rate"
	baselineEngagementValue  = 0.05
)

// Table is a column-ordered numeric feature matrix. Rows correspond
// one-to-one with the input records that produced them.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Column returns the values of the named column, or nil if absent.
func (t *Table) Column(name string) []float64 {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for j, row := range t.Rows {
			out[j] = row[i]
		}
		return out
	}
	return nil
}

// Build derives the feature table for a batch of post records.
//
// Platform one-hot columns are emitted for every distinct platform value in
// the batch, in lexicographic order, between the base columns and the
// trailing baseline placeholder. An empty batch yields an empty table.
func Build(records []models.PostRecord) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	platforms := observedPlatforms(records)

	columns := make([]string, 0, len(BaseColumns)+len(platforms)+1)
	columns = append(columns, BaseColumns...)
	for _, p := range platforms {
		columns = append(columns, PlatformPrefix+p)
	}
	columns = append(columns, BaselineEngagementColumn)

	rows := make([][]float64, len(records))
	for i := range records {
		rows[i] = buildRow(&records[i], platforms)
	}

	return Sanitize(&Table{Columns: columns, Rows: rows})
}

// Align produces a table with exactly the reference columns in reference
// order. Reference columns missing from the input are zero-filled; input
// columns absent from the reference are dropped silently. This is what lets
// a single-post batch (whose platform one-hot set is degenerate) be fed into
// a model trained on a multi-platform batch.
func Align(t *Table, reference []string) *Table {
	index := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		index[c] = i
	}

	rows := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		aligned := make([]float64, len(reference))
		for j, col := range reference {
			if k, ok := index[col]; ok {
				aligned[j] = row[k]
			}
		}
		rows[i] = aligned
	}

	cols := make([]string, len(reference))
	copy(cols, reference)
	return &Table{Columns: cols, Rows: rows}
}

// Sanitize replaces every non-finite value in the table with 0 in place and
// returns the table. This is the single sanitization point applied after
// feature construction; ratio-derived features never propagate NaN or ±Inf
// past it.
func Sanitize(t *Table) *Table {
	for _, row := range t.Rows {
		for i, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[i] = 0
			}
		}
	}
	return t
}

// SafeFloat returns v, or 0 when v is NaN or infinite. Every numeric value
// that crosses into a result object goes through this.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeInt converts v to a non-negative-safe integer, returning 0 for
// non-finite input.
func SafeInt(v float64) int {
	return int(SafeFloat(v))
}

func observedPlatforms(records []models.PostRecord) []string {
	seen := make(map[string]struct{})
	for i := range records {
		seen[string(records[i].PlatformOrUnknown())] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func buildRow(rec *models.PostRecord, platforms []string) []float64 {
	row := make([]float64, 0, len(BaseColumns)+len(platforms)+1)

	// Time features. A zero UploadDate means the timestamp was absent or
	// unparseable upstream; all four features degrade to 0.
	if rec.UploadDate.IsZero() {
		row = append(row, 0, 0, 0, 0)
	} else {
		dow := mondayIndexed(rec.UploadDate.Weekday())
		weekend := 0.0
		if dow == 5 || dow == 6 {
			weekend = 1
		}
		row = append(row,
			float64(rec.UploadDate.Hour()),
			float64(dow),
			weekend,
			float64(rec.UploadDate.Month()),
		)
	}

	caption := rec.Caption
	row = append(row,
		float64(len([]rune(caption))),
		float64(len(strings.Fields(caption))),
		float64(strings.Count(caption, "#")),
		float64(strings.Count(caption, "@")),
		float64(countEmoji(caption)),
		boolFeature(strings.Contains(caption, "?")),
		boolFeature(strings.Contains(caption, "!")),
		boolFeature(strings.Contains(caption, "http")),
	)

	platform := string(rec.PlatformOrUnknown())
	for _, p := range platforms {
		if p == platform {
			row = append(row, 1)
		} else {
			row = append(row, 0)
		}
	}

	row = append(row, baselineEngagementValue)
	return row
}

// mondayIndexed remaps time.Weekday (Sunday=0) to the 0=Monday convention
// used throughout the feature set.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// countEmoji counts code points strictly inside the emoji block
// (U+1F300, U+1F9FF).
func countEmoji(s string) int {
	n := 0
	for _, r := range s {
		if r > 0x1F300 && r < 0x1F9FF {
			n++
		}
	}
	return n
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
