package api

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const storePingTimeout = 2 * time.Second

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status    HealthStatus           `json:"status"`
	ErrorType string                 `json:"error_type,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit,omitempty"`
	BuildTime string                 `json:"build_time,omitempty"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks"`
	System    SystemInfo             `json:"system"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// handleHealthCheck reports build info, system stats and the store check.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	storeCheck := s.checkStoreHealth(r.Context())

	resp := HealthCheckResponse{Status: HealthStatusHealthy}
	statusCode := http.StatusOK
	if storeCheck.Status != HealthStatusHealthy {
		resp.Status = HealthStatusUnhealthy
		resp.ErrorType = ErrTypeServiceUnavailable
		statusCode = http.StatusServiceUnavailable
	}

	v := GetVersionInfo()
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	resp.Version = v.Version
	resp.GitCommit = v.GitCommit
	resp.BuildTime = v.BuildTime
	resp.Uptime = time.Since(s.startTime).String()
	resp.Checks = map[string]HealthCheck{"store": storeCheck}
	resp.System = s.getSystemInfo()
	resp.RequestID = middleware.GetReqID(r.Context())
	s.writeJSON(w, statusCode, resp)
}

// handleReadiness answers 503 until the store responds.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	check := s.checkStoreHealth(r.Context())
	if check.Status != HealthStatusHealthy {
		s.errorHandler.HandleServiceUnavailable(w, r, "store unavailable", errors.New(check.Message))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"ready":      true,
		"message":    check.Message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"version":    Version,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// handleVersion reports the build information.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"alive":      true,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"version":    Version,
		"uptime":     time.Since(s.startTime).String(),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

func (s *Server) checkStoreHealth(ctx context.Context) HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "store reachable"

	if s.db == nil {
		status = HealthStatusUnhealthy
		message = "store not initialized"
	} else {
		ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			status = HealthStatusUnhealthy
			message = err.Error()
		}
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// getSystemInfo collects system information
func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAlloc:   m.Alloc,
		GCCycles:      m.NumGC,
	}
}
