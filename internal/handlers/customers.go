package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/services"
)

type CustomerHandler struct {
	subscriptions *services.SubscriptionService
	leaves        *services.LeaveService
	comments      *services.CommentService
	payments      *services.PaymentService
}

func NewCustomerHandler(subscriptions *services.SubscriptionService, leaves *services.LeaveService, comments *services.CommentService, payments *services.PaymentService) *CustomerHandler {
	return &CustomerHandler{
		subscriptions: subscriptions,
		leaves:        leaves,
		comments:      comments,
		payments:      payments,
	}
}

type appendRequest struct {
	ShiftID         string    `json:"shift_id"`
	Seat            string    `json:"seat"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	PaymentRate     string    `json:"payment_rate"`
	LastPaymentDate time.Time `json:"last_payment_date"`
}

type removeRequest struct {
	ShiftID string     `json:"shift_id"`
	Seat    string     `json:"seat"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

type replaceRequest struct {
	ShiftIDs        []string    `json:"shift_ids"`
	Seats           []string    `json:"seats"`
	Starts          []time.Time `json:"starts"`
	Ends            []time.Time `json:"ends"`
	PaymentRate     string      `json:"payment_rate"`
	LastPaymentDate time.Time   `json:"last_payment_date"`
}

type renewRequest struct {
	Ends        []time.Time `json:"ends"`
	PaymentRate string      `json:"payment_rate"`
}

type leaveRequest struct {
	Days int `json:"days"`
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

type commentRequest struct {
	CreatedBy  string `json:"created_by"`
	EntityType string `json:"entity_type"`
	Text       string `json:"text"`
}

func (h *CustomerHandler) scope(w http.ResponseWriter, r *http.Request) (businessID, customerID string, ok bool) {
	businessID, ok = middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return "", "", false
	}
	customerID = chi.URLParam(r, "customerID")
	if customerID == "" {
		http.Error(w, "Customer ID is required", http.StatusBadRequest)
		return "", "", false
	}
	return businessID, customerID, true
}

// AppendSubscription adds one shift assignment to the customer
func (h *CustomerHandler) AppendSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req appendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.subscriptions.Append(r.Context(), businessID, customerID, services.Appendment{
		ShiftID:         req.ShiftID,
		Seat:            req.Seat,
		Start:           req.Start,
		End:             req.End,
		PaymentRate:     req.PaymentRate,
		LastPaymentDate: req.LastPaymentDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// RemoveSubscription drops one shift assignment from the customer
func (h *CustomerHandler) RemoveSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.subscriptions.Remove(r.Context(), businessID, customerID, req.ShiftID, req.Seat, req.Start, req.End); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// ReplaceSubscription overwrites the customer's subscription arrays wholesale
func (h *CustomerHandler) ReplaceSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.subscriptions.ReplaceAll(r.Context(), businessID, customerID,
		req.ShiftIDs, req.Seats, req.Starts, req.Ends, req.PaymentRate, req.LastPaymentDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// RenewSubscription overwrites the customer's end dates and payment rate
func (h *CustomerHandler) RenewSubscription(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.subscriptions.Renew(r.Context(), businessID, customerID, req.Ends, req.PaymentRate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Deactivate marks the customer inactive and clears the subscription arrays
func (h *CustomerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.subscriptions.Deactivate(r.Context(), businessID, customerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// GrantLeave records a leave and extends the customer's subscriptions
func (h *CustomerHandler) GrantLeave(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	leaveID, err := h.leaves.Grant(r.Context(), businessID, customerID, req.Days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"leave_id": leaveID})
}

// CreatePayment records a payment by the customer
func (h *CustomerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	paymentID, err := h.payments.Create(r.Context(), businessID, customerID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"payment_id": paymentID})
}

// CreateComment records a comment on the customer
func (h *CustomerHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	businessID, customerID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	commentID, err := h.comments.Create(r.Context(), businessID, customerID, req.CreatedBy, req.EntityType, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"comment_id": commentID})
}
