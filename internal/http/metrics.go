package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"fintrack/internal/log"
)

// appMetrics counts domain activity served by this process.
type appMetrics struct {
	started        time.Time
	entriesCreated atomic.Int64
	goalsCreated   atomic.Int64
	goalsUpdated   atomic.Int64
	goalsDeleted   atomic.Int64
	logins         atomic.Int64
	failedLogins   atomic.Int64
	signups        atomic.Int64
}

func newAppMetrics(started time.Time) *appMetrics {
	return &appMetrics{started: started}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: s.now().Sub(s.appMetrics.started).Truncate(time.Second).String(),
	})
}

// handleReady reports whether the database answers within two seconds.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: "database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}

// handleMetrics writes counters in the Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.traceMiddleware.GetMetrics()
	rm := s.rateLimiter.GetMetrics()
	dm := s.securityDetector.GetMetrics()
	m := s.appMetrics

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	metric := func(name, kind, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n", name, help, name, kind, name, v)
	}
	metric("fintrack_uptime_seconds", "gauge", "Seconds since the server started.", int64(s.now().Sub(m.started).Seconds()))
	metric("fintrack_http_requests_total", "counter", "HTTP requests served.", tm.TotalRequests)
	metric("fintrack_http_last_response_microseconds", "gauge", "Duration of the most recent request.", tm.AverageResponseTime)
	metric("fintrack_rate_limited_total", "counter", "Requests rejected by the rate limiter.", rm.Rejected)
	metric("fintrack_rate_limit_clients", "gauge", "Clients tracked by the rate limiter.", rm.ClientCount)
	metric("fintrack_suspicious_requests_total", "counter", "Requests flagged as suspicious.", dm.SuspiciousRequests)
	metric("fintrack_blocked_requests_total", "counter", "Requests blocked as probes.", dm.Blocked)
	metric("fintrack_entries_created_total", "counter", "Ledger entries recorded.", m.entriesCreated.Load())
	metric("fintrack_goals_created_total", "counter", "Goals created.", m.goalsCreated.Load())
	metric("fintrack_goals_updated_total", "counter", "Goal edits and completions.", m.goalsUpdated.Load())
	metric("fintrack_goals_deleted_total", "counter", "Goals deleted.", m.goalsDeleted.Load())
	metric("fintrack_signups_total", "counter", "Accounts created.", m.signups.Load())
	metric("fintrack_logins_total", "counter", "Successful logins.", m.logins.Load())
	metric("fintrack_failed_logins_total", "counter", "Rejected login attempts.", m.failedLogins.Load())
}
