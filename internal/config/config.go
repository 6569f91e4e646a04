// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package config loads and validates the server configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	ModelStore ModelStoreConfig `koanf:"model_store"`
	Prediction PredictionConfig `koanf:"prediction"`
	Anomaly    AnomalyConfig    `koanf:"anomaly"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// ModelStoreConfig holds model persistence settings.
type ModelStoreConfig struct {
	// Dir is the directory holding the model registry and artifact binaries.
	Dir string `koanf:"dir"`
}

// PredictionConfig holds engagement predictor tunables.
type PredictionConfig struct {
	// MinTrainSamples is the minimum raw batch size accepted for training.
	MinTrainSamples int `koanf:"min_train_samples"`

	// MinValidSamples is the minimum row count after target filtering.
	MinValidSamples int `koanf:"min_valid_samples"`

	// Seed drives the train/validation split.
	Seed int64 `koanf:"seed"`
}

// AnomalyConfig holds anomaly detector tunables.
type AnomalyConfig struct {
	MinTrainSamples int     `koanf:"min_train_samples"`
	Contamination   float64 `koanf:"contamination"`
	Estimators      int     `koanf:"estimators"`
	Seed            int64   `koanf:"seed"`
}

// APIConfig holds API surface settings.
type APIConfig struct {
	// RateLimitRequests is the allowed request count per window per client
	// IP. 0 disables rate limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`

	// MaxBatchSize bounds the number of records accepted by training and
	// detection endpoints in one request.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.ModelStore.Dir == "" {
		return fmt.Errorf("model_store.dir must not be empty")
	}
	if c.Prediction.MinTrainSamples < c.Prediction.MinValidSamples {
		return fmt.Errorf("prediction.min_train_samples (%d) must be >= prediction.min_valid_samples (%d)",
			c.Prediction.MinTrainSamples, c.Prediction.MinValidSamples)
	}
	if c.Anomaly.Contamination <= 0 || c.Anomaly.Contamination >= 0.5 {
		return fmt.Errorf("anomaly.contamination must be in (0, 0.5), got %g", c.Anomaly.Contamination)
	}
	if c.API.MaxBatchSize <= 0 {
		return fmt.Errorf("api.max_batch_size must be positive, got %d", c.API.MaxBatchSize)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the host:port string the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
