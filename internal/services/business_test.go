package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/cache"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

func TestCreateBusiness(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewBusinessService(st, nil)
	ctx := context.Background()

	year := time.Now().Year()
	// Pre-existing tenants from this year and an older one.
	for _, id := range []string{
		fmt.Sprintf("business_id_%d_1", year),
		fmt.Sprintf("business_id_%d_4", year),
		fmt.Sprintf("business_id_%d_9", year-1),
	} {
		if err := st.Set(ctx, models.BusinessPath(id), map[string]interface{}{
			models.FieldBusinessID: id,
		}); err != nil {
			t.Fatalf("seed business: %v", err)
		}
	}

	b, err := svc.Create(ctx, "Acme Gym", "ACM-")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := fmt.Sprintf("business_id_%d_5", year)
	if b.ID != want {
		t.Fatalf("business id = %q, want %q", b.ID, want)
	}

	doc, err := st.Get(ctx, models.BusinessPath(b.ID))
	if err != nil {
		t.Fatalf("get business: %v", err)
	}
	got := models.ParseBusiness(doc)
	if got.Name != "Acme Gym" || got.Prefix != "ACM-" {
		t.Fatalf("stored business = %+v", got)
	}
	if _, ok := models.TimeValue(doc.Data[models.FieldCreatedAt]); !ok {
		t.Fatal("business missing created_at")
	}
}

func TestCreateBusinessValidation(t *testing.T) {
	svc := NewBusinessService(noStore{t: t}, nil)
	if _, err := svc.Create(context.Background(), " ", "ACM-"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Create() error = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Create(context.Background(), "Acme", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Create() error = %v, want ErrInvalidArgument", err)
	}
}

func TestGetBusinessUsesCache(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewBusinessService(st, cache.NewMemoryCache())
	ctx := context.Background()

	if err := st.Set(ctx, models.BusinessPath("B1"), map[string]interface{}{
		models.FieldBusinessID:     "B1",
		models.FieldBusinessName:   "Acme Gym",
		models.FieldBusinessPrefix: "ACM-",
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}

	first, err := svc.Get(ctx, "B1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Mutate the stored name; the cached copy keeps serving until TTL.
	if err := st.Update(ctx, models.BusinessPath("B1"), map[string]interface{}{
		models.FieldBusinessName: "Renamed",
	}); err != nil {
		t.Fatalf("update business: %v", err)
	}

	second, err := svc.Get(ctx, "B1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second.Name != first.Name {
		t.Fatalf("expected cached business, got %+v", second)
	}
}

func TestUpdateBusinessInvalidatesCache(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewBusinessService(st, cache.NewMemoryCache())
	ctx := context.Background()

	if err := st.Set(ctx, models.BusinessPath("B1"), map[string]interface{}{
		models.FieldBusinessID:     "B1",
		models.FieldBusinessName:   "Acme Gym",
		models.FieldBusinessPrefix: "ACM-",
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}

	if _, err := svc.Get(ctx, "B1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := svc.Update(ctx, "B1", "Acme Fitness"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	b, err := svc.Get(ctx, "B1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Name != "Acme Fitness" {
		t.Fatalf("name = %q after update, want Acme Fitness", b.Name)
	}
}

func TestGetBusinessNotFound(t *testing.T) {
	svc := NewBusinessService(store.NewMemoryClient(), nil)
	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestCreateComment(t *testing.T) {
	st := store.NewMemoryClient()
	business := NewBusinessService(st, nil)
	svc := NewCommentService(st, business)
	ctx := context.Background()

	if err := st.Set(ctx, models.BusinessPath("B1"), map[string]interface{}{
		models.FieldBusinessID:     "B1",
		models.FieldBusinessPrefix: "ACM-2024-",
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}
	// Existing comments, one with a malformed suffix.
	for _, id := range []string{"ACM-2024-COM1", "ACM-2024-COM3", "ACM-2024-COMabc"} {
		if err := st.Set(ctx, models.CommentPath("B1", id), map[string]interface{}{
			models.FieldCommentID: id,
		}); err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}

	commentID, err := svc.Create(ctx, "B1", "CU1", "staff-1", "payment", "paid in cash")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if commentID != "ACM-2024-COM4" {
		t.Fatalf("comment id = %q, want ACM-2024-COM4", commentID)
	}

	doc, err := st.Get(ctx, models.CommentPath("B1", commentID))
	if err != nil {
		t.Fatalf("get comment: %v", err)
	}
	if doc.Data[models.FieldCommentCustomerID] != "CU1" || doc.Data[models.FieldCommentCreatedBy] != "staff-1" {
		t.Fatalf("stored comment = %v", doc.Data)
	}
	if _, ok := models.TimeValue(doc.Data[models.FieldCreatedAt]); !ok {
		t.Fatal("comment missing created_at")
	}
}

func TestCreatePayment(t *testing.T) {
	st := store.NewMemoryClient()
	business := NewBusinessService(st, nil)
	svc := NewPaymentService(st, business)
	ctx := context.Background()

	if err := st.Set(ctx, models.BusinessPath("B1"), map[string]interface{}{
		models.FieldBusinessID:     "B1",
		models.FieldBusinessPrefix: "ACM-",
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}

	paymentID, err := svc.Create(ctx, "B1", "CU1", 1200)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if paymentID != "ACM-PAY1" {
		t.Fatalf("payment id = %q, want ACM-PAY1", paymentID)
	}

	secondID, err := svc.Create(ctx, "B1", "CU1", 500)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if secondID != "ACM-PAY2" {
		t.Fatalf("second payment id = %q, want ACM-PAY2", secondID)
	}
}
