// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package api provides HTTP routing for the ML endpoints using chi.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Werewolf05/Pulselytics/internal/config"
	"github.com/Werewolf05/Pulselytics/internal/metrics"
)

// maxRequestBody bounds request bodies; training batches are large but
// bounded (50k records of a few hundred bytes).
const maxRequestBody = 64 << 20

// NewRouter builds the complete route tree with the global middleware
// stack.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(bodyLimit(maxRequestBody))
	r.Use(prometheusMetrics)

	if cfg.API.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(cfg.API.RateLimitRequests, cfg.API.RateLimitWindow))
	}

	r.Route("/api/ml", func(r chi.Router) {
		r.Post("/train", h.Train)
		r.Post("/predict/engagement", h.PredictEngagement)
		r.Post("/optimal-time", h.OptimalTime)
		r.Get("/forecast", h.Forecast)
		r.Post("/detect/anomalies", h.DetectAnomalies)
		r.Get("/models/status", h.ModelsStatus)
		r.Get("/diagnostics", h.Diagnostics)
	})

	// Alias routes without the /api prefix for proxy configurations.
	r.Get("/ml/models/status", h.ModelsStatus)
	r.Get("/ml/diagnostics", h.Diagnostics)

	r.Get("/api/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// bodyLimit rejects oversized request bodies before handlers read them.
func bodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// prometheusMetrics records request counts, latency, and in-flight gauge
// per route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.RecordAPIRequest(r.Method, endpoint, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
