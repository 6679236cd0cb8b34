// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// healthCheckTimeout bounds the storage ping.
const healthCheckTimeout = 2 * time.Second

// HealthStatusPublic is the minimal health response for visitors.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for the logged-in owner.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Checks    map[string]Check `json:"checks"`
	System    SystemInfo       `json:"system"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains process-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	Posts        int    `json:"posts"`
}

// Health handles GET /health. Storage failures report 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storageCheck := h.checkStorage(r.Context())

	overallStatus := "healthy"
	if storageCheck.Status != "healthy" {
		overallStatus = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if !h.admin.IsLoggedIn(r.Context()) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{Status: overallStatus})
		return
	}

	now := h.now()
	_ = json.NewEncoder(w).Encode(HealthStatus{
		Status:    overallStatus,
		Timestamp: now,
		Uptime:    now.Sub(h.startTime).Round(time.Second).String(),
		Checks: map[string]Check{
			"storage": storageCheck,
		},
		System: SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			Posts:        h.posts.Len(),
		},
	})
}

func (h *Handler) checkStorage(ctx context.Context) Check {
	if h.storage == nil {
		return Check{Status: "healthy", Message: h.storageName}
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.storage.Ping(ctx); err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	return Check{
		Status:  "healthy",
		Message: h.storageName,
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
}
