// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package models

import (
	"errors"
	"strings"
	"testing"
)

func TestPlatformIsKnown(t *testing.T) {
	tests := []struct {
		platform Platform
		want     bool
	}{
		{PlatformInstagram, true},
		{PlatformYouTube, true},
		{PlatformTwitter, true},
		{PlatformFacebook, true},
		{PlatformUnknown, false},
		{Platform("myspace"), false},
		{Platform(""), false},
	}
	for _, tt := range tests {
		if got := tt.platform.IsKnown(); got != tt.want {
			t.Errorf("IsKnown(%q) = %v, want %v", tt.platform, got, tt.want)
		}
	}
}

func TestPostRecordEngagement(t *testing.T) {
	rec := PostRecord{Likes: 100, Comments: 25}
	if got := rec.Engagement(); got != 125 {
		t.Errorf("Engagement() = %v, want 125", got)
	}
}

func TestPlatformOrUnknown(t *testing.T) {
	rec := PostRecord{}
	if got := rec.PlatformOrUnknown(); got != PlatformUnknown {
		t.Errorf("empty platform = %q, want unknown", got)
	}
	rec.Platform = PlatformTwitter
	if got := rec.PlatformOrUnknown(); got != PlatformTwitter {
		t.Errorf("platform = %q, want twitter", got)
	}
}

func TestInsufficientDataError(t *testing.T) {
	inputErr := &InsufficientDataError{Required: 50, Got: 10, Stage: "input"}
	if !strings.Contains(inputErr.Error(), "need at least 50 posts, have 10") {
		t.Errorf("Error() = %q", inputErr.Error())
	}

	filteredErr := &InsufficientDataError{Required: 30, Got: 12, Stage: "filtered"}
	if !strings.Contains(filteredErr.Error(), "after filtering") {
		t.Errorf("Error() = %q", filteredErr.Error())
	}

	// The API layer relies on errors.As to tell a data-volume problem
	// apart from a real failure.
	var target *InsufficientDataError
	if !errors.As(error(inputErr), &target) {
		t.Error("errors.As failed to match InsufficientDataError")
	}
}
