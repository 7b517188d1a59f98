package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/services"
)

type CardHandler struct {
	cards *services.CardService
}

func NewCardHandler(cards *services.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

type cardRequest struct {
	CustomerID string `json:"customer_id"`
	CardDocID  string `json:"card_doc_id"`
	CardID     string `json:"card_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Assign hands a card to a customer
func (h *CardHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.exchange(w, r, h.cards.Assign)
}

// Replace swaps the customer's card for a new one
func (h *CardHandler) Replace(w http.ResponseWriter, r *http.Request) {
	h.exchange(w, r, h.cards.Replace)
}

func (h *CardHandler) exchange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, businessID, customerID, cardDocID, cardID string) error) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), businessID, req.CustomerID, req.CardDocID, req.CardID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Return takes the customer's card back
func (h *CardHandler) Return(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cards.Return(r.Context(), businessID, req.CustomerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Unassign clears a card's assignment unconditionally
func (h *CardHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	businessID, ok := middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return
	}

	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.cards.Unassign(r.Context(), businessID, req.CardDocID, req.CustomerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
