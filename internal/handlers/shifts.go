package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/services"
)

type ShiftHandler struct {
	shifts *services.ShiftService
}

func NewShiftHandler(shifts *services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts}
}

type createShiftRequest struct {
	EndTime time.Time `json:"end_time"`
}

// Create registers a shift for the customer
func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	shiftID, err := h.shifts.Create(r.Context(), businessID, customerID, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"shift_id": shiftID})
}
