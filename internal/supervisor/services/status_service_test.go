// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubReporter struct{ trained bool }

func (s *stubReporter) IsTrained() bool { return s.trained }

// syncBuffer guards concurrent writes from the service goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestModelStatusServiceHeartbeat(t *testing.T) {
	var buf syncBuffer
	log := zerolog.New(&buf)

	svc := NewModelStatusService(&stubReporter{trained: true}, &stubReporter{trained: false}, time.Second, log)
	svc.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for !strings.Contains(buf.String(), "Model status heartbeat") {
		select {
		case <-deadline:
			t.Fatal("no heartbeat logged")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	out := buf.String()
	if !strings.Contains(out, `"predictor_trained":true`) {
		t.Errorf("predictor flag missing: %q", out)
	}
	if !strings.Contains(out, `"anomaly_trained":false`) {
		t.Errorf("detector flag missing: %q", out)
	}
}

func TestModelStatusServiceIntervalFloor(t *testing.T) {
	svc := NewModelStatusService(&stubReporter{}, &stubReporter{}, 0, zerolog.Nop())
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m floor", svc.interval)
	}
	if svc.String() != "model-status" {
		t.Errorf("String() = %q", svc.String())
	}
}
