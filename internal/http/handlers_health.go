package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// Pinger checks reachability of a backing store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// ReadyHandlers serves the readiness endpoint, reporting whether the backing
// stores are reachable.
type ReadyHandlers struct {
	DB     Pinger // optional
	Redis  Pinger // optional
	Logger *slog.Logger
}

// Ready reports readiness. Any unreachable dependency yields a 503.
// GET /readyz.
func (h *ReadyHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.DB != nil {
		checks["database"] = "ok"
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
	}
	if h.Redis != nil {
		checks["redis"] = "ok"
		if err := h.Redis.PingContext(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
		if h.Logger != nil {
			h.Logger.WarnContext(ctx, "readiness check failed", slog.Any("checks", checks))
		}
	}
	WriteJSON(w, code, map[string]any{"status": status, "checks": checks})
}
