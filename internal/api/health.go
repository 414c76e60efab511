// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/respond"
)

// Check probes one dependency. It must honour ctx.
type Check func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase Check

	// CheckCache pings the Redis client.
	CheckCache Check

	// Timeout bounds each probe. Zero means [constants.ReadinessTimeout].
	Timeout time.Duration
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	if deps.Timeout <= 0 {
		deps.Timeout = constants.ReadinessTimeout
	}
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		"status":  "ok",
		"service": constants.AppName,
		"version": constants.AppVersion,
	}, "Service is alive")
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	ready := true

	for _, probe := range []struct {
		name  string
		check Check
	}{
		{name: "postgres", check: handler.dependencies.CheckDatabase},
		{name: "redis", check: handler.dependencies.CheckCache},
	} {
		if probe.check == nil {
			continue
		}
		result := handler.run(request.Context(), probe.name, probe.check)
		ready = ready && result.IsOK
		results = append(results, result)
	}

	if !ready {
		respond.Status(writer, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": results,
		}, "Service is not ready")
		return
	}

	respond.OK(writer, map[string]any{
		"status": "ready",
		"checks": results,
	}, "Service is ready")
}

func (handler *healthHandler) run(ctx context.Context, name string, check Check) checkResult {
	ctx, cancel := context.WithTimeout(ctx, handler.dependencies.Timeout)
	defer cancel()

	if err := check(ctx); err != nil {
		handler.logger.ErrorContext(ctx, "readiness_check_failed",
			slog.String("dependency", name),
			slog.Any("error", err),
		)
		return checkResult{Name: name, IsOK: false, Error: err.Error()}
	}
	return checkResult{Name: name, IsOK: true}
}
