// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package main is the entry point for the Pulselytics analytics server.
//
// Pulselytics ingests historical social-media post records and serves two
// analytical capabilities over a REST API: engagement prediction for
// not-yet-published posts, and anomaly detection over a client's post
// history.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML file, env)
//  2. Logging: global zerolog logger (json or console)
//  3. Model store: opens the registry and artifact directory
//  4. Predictor and anomaly detector: reload persisted artifacts if present
//  5. HTTP server: chi router under a suture supervision tree
//
// # Configuration
//
// Key environment variables (see internal/config for the full mapping):
//
//	HTTP_PORT   - listen port (default 5001)
//	MODEL_DIR   - model store directory (default /data/models)
//	LOG_LEVEL   - trace, debug, info, warn, error (default info)
//	LOG_FORMAT  - json or console (default json)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the shutdown
// timeout, and stops supervised services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Werewolf05/Pulselytics/internal/anomaly"
	"github.com/Werewolf05/Pulselytics/internal/api"
	"github.com/Werewolf05/Pulselytics/internal/config"
	"github.com/Werewolf05/Pulselytics/internal/logging"
	"github.com/Werewolf05/Pulselytics/internal/modelstore"
	"github.com/Werewolf05/Pulselytics/internal/prediction"
	"github.com/Werewolf05/Pulselytics/internal/supervisor"
	"github.com/Werewolf05/Pulselytics/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("model_dir", cfg.ModelStore.Dir).
		Msg("Starting Pulselytics server")

	// Logging settings reload on config file changes without a restart.
	// Everything else keeps the values loaded at startup.
	if path := config.ActiveConfigFile(); path != "" {
		err := config.WatchConfigFile(path, func() {
			reloaded, err := config.Load()
			if err != nil {
				logging.Warn().Err(err).Msg("Config reload failed, keeping current settings")
				return
			}
			logging.Init(logging.Config{
				Level:  reloaded.Logging.Level,
				Format: reloaded.Logging.Format,
				Caller: reloaded.Logging.Caller,
			})
			logging.Info().Str("config_file", path).Msg("Reloaded logging configuration")
		})
		if err != nil {
			logging.Warn().Err(err).Str("config_file", path).Msg("Config file watching unavailable")
		}
	}

	store, err := modelstore.NewStore(cfg.ModelStore.Dir)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open model store")
	}

	predictor := prediction.NewPredictor(store, prediction.Config{
		MinTrainSamples: cfg.Prediction.MinTrainSamples,
		MinValidSamples: cfg.Prediction.MinValidSamples,
		Seed:            cfg.Prediction.Seed,
	}, logging.Logger())

	detector := anomaly.NewDetector(store, anomaly.Config{
		MinTrainSamples: cfg.Anomaly.MinTrainSamples,
		Contamination:   cfg.Anomaly.Contamination,
		Estimators:      cfg.Anomaly.Estimators,
		Seed:            cfg.Anomaly.Seed,
	}, logging.Logger())

	handler := api.NewHandler(predictor, detector, store, cfg, logging.Logger())
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)
	tree.AddAnalyticsService(services.NewModelStatusService(predictor, detector, time.Minute, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
