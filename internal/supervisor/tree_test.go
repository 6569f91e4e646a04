// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countingService struct {
	started atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	s.started.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return "counting-service" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTreeRunsServicesInBothLayers(t *testing.T) {
	tree := NewTree(discardLogger(), DefaultTreeConfig())

	analytics := &countingService{}
	api := &countingService{}
	tree.AddAnalyticsService(analytics)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for analytics.started.Load() == 0 || api.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("services not started: analytics=%d api=%d", analytics.started.Load(), api.started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("supervisor error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop after cancel")
	}

	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport: %v", err)
	}
	if len(unstopped) != 0 {
		t.Errorf("unstopped services: %v", unstopped)
	}
}

func TestServeBackgroundTerminatesOnCancel(t *testing.T) {
	tree := NewTree(discardLogger(), DefaultTreeConfig())
	tree.AddAPIService(&countingService{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("terminal error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop after cancel")
	}

	// The channel must close after the terminal error so callers that
	// drain it do not block forever.
	select {
	case _, ok := <-errCh:
		if ok {
			t.Fatal("received a second error after the terminal one")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error channel not closed after terminal error")
	}
}

func TestNewTreeFillsConfigDefaults(t *testing.T) {
	tree := NewTree(discardLogger(), TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("failure threshold = %v, want 5", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
}
