package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the page can be rendered
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if n := s.pages.Catalog().Len(); n == 0 {
		checks["catalog"] = "failed: no templates"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["catalog"] = map[string]interface{}{
			"templates": n,
			"status":    "ok",
		}
	}

	checks["pages"] = map[string]interface{}{
		"open":   s.pages.Len(),
		"status": "ok",
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	pagesOpened := atomic.LoadInt64(&s.appMetrics.pagesOpened)
	calculations := atomic.LoadInt64(&s.appMetrics.calculations)
	failures := atomic.LoadInt64(&s.appMetrics.validationFailures)
	uptime := time.Since(s.appMetrics.uptime)

	w.WriteHeader(http.StatusOK)

	// Prometheus-like format
	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP pages_opened_total Total number of pages rendered with a fresh token\n")
	fmt.Fprintf(w, "# TYPE pages_opened_total counter\n")
	fmt.Fprintf(w, "pages_opened_total %d\n\n", pagesOpened)

	fmt.Fprintf(w, "# HELP pages_open Pages currently held in memory\n")
	fmt.Fprintf(w, "# TYPE pages_open gauge\n")
	fmt.Fprintf(w, "pages_open %d\n\n", s.pages.Len())

	fmt.Fprintf(w, "# HELP fee_calculations_total Total successful calculations\n")
	fmt.Fprintf(w, "# TYPE fee_calculations_total counter\n")
	fmt.Fprintf(w, "fee_calculations_total %d\n\n", calculations)

	fmt.Fprintf(w, "# HELP fee_validation_failures_total Total rejected calculations\n")
	fmt.Fprintf(w, "# TYPE fee_validation_failures_total counter\n")
	fmt.Fprintf(w, "fee_validation_failures_total %d\n\n", failures)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}
