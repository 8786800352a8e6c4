package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const ServiceName = "users-service"

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type InfoHandler struct {
	version string
	db      Pinger
	log     *zap.Logger
	now     func() time.Time
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

type ServiceInfo struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Timestamp   time.Time         `json:"timestamp"`
	Status      string            `json:"status"`
}

func NewInfoHandler(version string, db Pinger, log *zap.Logger) *InfoHandler {
	return &InfoHandler{
		version: version,
		db:      db,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ServiceInfo{
		Message:     "Whale Users Service API",
		Version:     h.version,
		Description: "User account management microservice",
		Endpoints: map[string]string{
			"health": "/health",
			"auth":   "/api/Auth",
			"users":  "/api/Users",
		},
		Timestamp: h.now(),
		Status:    "OK",
	})
}

// Health reports 503 when a database is wired and does not answer a ping.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "OK", Timestamp: h.now(), Service: ServiceName}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.log.Warn("health check database ping failed", zap.Error(err))
			resp.Status = "UNAVAILABLE"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
