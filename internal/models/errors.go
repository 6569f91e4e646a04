// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package models

import "fmt"

// InsufficientDataError reports a training call that did not meet the
// minimum sample threshold, either on the raw batch or after target
// filtering. It is returned as a value to the API layer, which renders it
// as a structured result rather than a failure.
type InsufficientDataError struct {
	Required int
	Got      int
	Stage    string // "input" or "filtered"
}

func (e *InsufficientDataError) Error() string {
	if e.Stage == "filtered" {
		return fmt.Sprintf("not enough valid data after filtering (need at least %d posts, have %d)", e.Required, e.Got)
	}
	return fmt.Sprintf("not enough data to train (need at least %d posts, have %d)", e.Required, e.Got)
}
