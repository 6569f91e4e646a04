// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TrainedReporter is the slice of the ML services the status service needs.
type TrainedReporter interface {
	IsTrained() bool
}

// ModelStatusService periodically logs model availability. Operators watch
// for flips of the trained flags after deploys and restarts; the heartbeat
// makes the current state greppable without hitting the API.
type ModelStatusService struct {
	predictor TrainedReporter
	detector  TrainedReporter
	interval  time.Duration
	log       zerolog.Logger
}

// NewModelStatusService creates the heartbeat service. Intervals under a
// second are raised to the one-minute default.
func NewModelStatusService(predictor, detector TrainedReporter, interval time.Duration, log zerolog.Logger) *ModelStatusService {
	if interval < time.Second {
		interval = time.Minute
	}
	return &ModelStatusService{
		predictor: predictor,
		detector:  detector,
		interval:  interval,
		log:       log.With().Str("component", "model_status").Logger(),
	}
}

// Serve implements suture.Service.
func (s *ModelStatusService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.log.Info().
				Bool("predictor_trained", s.predictor.IsTrained()).
				Bool("anomaly_trained", s.detector.IsTrained()).
				Msg("Model status heartbeat")
		}
	}
}

// String identifies the service in suture's event log.
func (s *ModelStatusService) String() string {
	return "model-status"
}
