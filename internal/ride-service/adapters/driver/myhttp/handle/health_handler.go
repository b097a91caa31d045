package handle

import (
	"context"
	"net/http"
	"time"

	"ride-booking/internal/ride-service/core/ports"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// IBrokerHealth reports whether the event broker connection is usable.
type IBrokerHealth interface {
	IsAlive() bool
}

// Health answers 200 when every dependency is up and 503 otherwise.
// A nil broker is not checked.
func Health(service string, db ports.IDB, broker IBrokerHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := HealthResponse{
			Status:    "healthy",
			Service:   service,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]string),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.IsAlive(ctx); err != nil {
			health.Status = "unhealthy"
			health.Checks["database"] = "down"
		} else {
			health.Checks["database"] = "up"
		}

		if broker != nil {
			if broker.IsAlive() {
				health.Checks["broker"] = "up"
			} else {
				health.Status = "unhealthy"
				health.Checks["broker"] = "down"
			}
		}

		code := http.StatusOK
		if health.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		jsonResponse(w, code, health)
	}
}
