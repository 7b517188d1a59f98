package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/database"
)

type HealthHandler struct {
	auditEnabled bool
}

func NewHealthHandler(auditEnabled bool) *HealthHandler {
	return &HealthHandler{auditEnabled: auditEnabled}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	if h.auditEnabled {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			response.Services["audit_db"] = "unhealthy"
			response.Status = "degraded"
		} else {
			response.Services["audit_db"] = "healthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.auditEnabled {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			http.Error(w, "Service not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
