package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/formrelay/pkg/logger"
)

// Check probes one dependency.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// HealthStatus is the body returned by HealthHandler.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    float64           `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports liveness plus the result of every check.
// Any failing check turns the response into 503 with status "unhealthy".
// Each probe runs under timeout.
func HealthHandler(started time.Time, timeout time.Duration, log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		body := HealthStatus{
			Status:    "healthy",
			Timestamp: now.UTC().Format(time.RFC3339),
			Uptime:    now.Sub(started).Seconds(),
		}
		code := http.StatusOK

		for _, c := range checks {
			if body.Checks == nil {
				body.Checks = make(map[string]string, len(checks))
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			err := c.Probe(ctx)
			cancel()
			if err != nil {
				log.WarnContext(r.Context(), "health check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				body.Checks[c.Name] = "down"
				body.Status = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			body.Checks[c.Name] = "up"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}
