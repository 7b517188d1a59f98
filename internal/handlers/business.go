package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/services"
)

type BusinessHandler struct {
	business *services.BusinessService
}

func NewBusinessHandler(business *services.BusinessService) *BusinessHandler {
	return &BusinessHandler{business: business}
}

type createBusinessRequest struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// Create registers a new business
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b, err := h.business.Create(r.Context(), req.Name, req.Prefix)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

type updateBusinessRequest struct {
	Name string `json:"name"`
}

// Update changes the calling business's display name
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	var req updateBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.business.Update(r.Context(), businessID, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Current fetches the calling business's document
func (h *BusinessHandler) Current(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	b, err := h.business.Get(r.Context(), businessID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}
