package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/repository"
)

// AuditHandler exposes the audit trail of card and leave operations.
type AuditHandler struct {
	audit *repository.AuditRepository
}

func NewAuditHandler(audit *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns the business's audit log, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	logs, err := h.audit.GetByBusinessID(r.Context(), businessID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// ListByCustomer returns the audit log entries touching one customer.
func (h *AuditHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		http.Error(w, "Customer ID is required", http.StatusBadRequest)
		return
	}

	logs, err := h.audit.GetByCustomerID(r.Context(), businessID, customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
