package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/services"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

func newCustomerRouter(t *testing.T) (*chi.Mux, *store.MemoryClient) {
	t.Helper()

	st := store.NewMemoryClient()
	business := services.NewBusinessService(st, nil)
	handler := NewCustomerHandler(
		services.NewSubscriptionService(st),
		services.NewLeaveService(st, business, nil),
		services.NewCommentService(st, business),
		services.NewPaymentService(st, business),
	)

	r := chi.NewRouter()
	r.Route("/api/v1/customers/{customerID}", func(r chi.Router) {
		r.Use(middleware.BusinessID)
		r.Post("/subscription/append", handler.AppendSubscription)
		r.Post("/subscription/remove", handler.RemoveSubscription)
		r.Post("/subscription/deactivate", handler.Deactivate)
		r.Post("/leave", handler.GrantLeave)
		r.Post("/payments", handler.CreatePayment)
		r.Post("/comments", handler.CreateComment)
	})
	return r, st
}

func seedBusinessAndCustomer(t *testing.T, st *store.MemoryClient) {
	t.Helper()
	ctx := context.Background()
	if err := st.Set(ctx, models.BusinessPath(testBusinessID), map[string]interface{}{
		models.FieldBusinessID:     testBusinessID,
		models.FieldBusinessPrefix: "ACM-",
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}
	if err := st.Set(ctx, models.CustomerPath(testBusinessID, "CU1"), map[string]interface{}{
		models.FieldCustomerStatus: false,
	}); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
}

func TestAppendSubscriptionEndpoint(t *testing.T) {
	r, st := newCustomerRouter(t)
	seedBusinessAndCustomer(t, st)

	rec := postCards(r, "/api/v1/customers/CU1/subscription/append", testBusinessID,
		`{"shift_id":"SH1","seat":"A1","start":"2024-03-01T00:00:00Z","end":"2024-04-01T00:00:00Z","payment_rate":"monthly","last_payment_date":"2024-03-01T00:00:00Z"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	doc, err := st.Get(context.Background(), models.CustomerPath(testBusinessID, "CU1"))
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if !models.BoolValue(doc.Data[models.FieldCustomerStatus]) {
		t.Fatal("customer not activated by append")
	}
	if shifts := models.StringSlice(doc.Data[models.FieldCustomerCurrentShiftID]); len(shifts) != 1 || shifts[0] != "SH1" {
		t.Fatalf("shift ids = %v, want [SH1]", shifts)
	}
}

func TestGrantLeaveEndpoint(t *testing.T) {
	r, st := newCustomerRouter(t)
	seedBusinessAndCustomer(t, st)

	rec := postCards(r, "/api/v1/customers/CU1/leave", testBusinessID, `{"days":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["leave_id"] != "ACM-LEV1" {
		t.Fatalf("leave_id = %q, want ACM-LEV1", resp["leave_id"])
	}
}

func TestCreatePaymentEndpoint(t *testing.T) {
	r, st := newCustomerRouter(t)
	seedBusinessAndCustomer(t, st)

	rec := postCards(r, "/api/v1/customers/CU1/payments", testBusinessID, `{"amount":1200}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["payment_id"] != "ACM-PAY1" {
		t.Fatalf("payment_id = %q, want ACM-PAY1", resp["payment_id"])
	}

	doc, err := st.Get(context.Background(), models.PaymentPath(testBusinessID, "ACM-PAY1"))
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if doc.Data[models.FieldPaymentAmount] != float64(1200) {
		t.Fatalf("payment_amount = %v", doc.Data[models.FieldPaymentAmount])
	}
}

func TestCreateCommentRequiresCreator(t *testing.T) {
	r, st := newCustomerRouter(t)
	seedBusinessAndCustomer(t, st)

	rec := postCards(r, "/api/v1/customers/CU1/comments", testBusinessID,
		`{"created_by":"  ","entity_type":"payment","text":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
