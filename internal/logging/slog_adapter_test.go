// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandlerRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := NewSlogLogger()
	logger.Info("supervisor event", slog.String("service", "http-server"), slog.Int("restarts", 2))

	out := buf.String()
	if !strings.Contains(out, "supervisor event") {
		t.Fatalf("message missing: %q", out)
	}
	if !strings.Contains(out, `"service":"http-server"`) {
		t.Errorf("string attr missing: %q", out)
	}
	if !strings.Contains(out, `"restarts":2`) {
		t.Errorf("int attr missing: %q", out)
	}
}

func TestSlogHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := NewSlogLogger().With(slog.String("layer", "api"))
	logger.Warn("restarting")

	if !strings.Contains(buf.String(), `"layer":"api"`) {
		t.Errorf("preset attr missing: %q", buf.String())
	}
}

func TestSlogHandlerGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := NewSlogLogger().WithGroup("suture")
	logger.Info("event", slog.String("name", "analytics-layer"))

	if !strings.Contains(buf.String(), "analytics-layer") {
		t.Errorf("grouped attr missing: %q", buf.String())
	}
}

func TestSlogHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := NewSlogLogger()
	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("below-threshold slog messages emitted: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("error message missing: %q", out)
	}
}
