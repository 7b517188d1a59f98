package services

import (
	"context"
	"fmt"

	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// PaymentService creates payment records with allocator-issued ids.
type PaymentService struct {
	store    store.Client
	business *BusinessService
}

// NewPaymentService creates a new payment service.
func NewPaymentService(st store.Client, business *BusinessService) *PaymentService {
	return &PaymentService{store: st, business: business}
}

// Create allocates a sequential payment id and writes the record.
func (s *PaymentService) Create(ctx context.Context, businessID, customerID string, amount float64) (string, error) {
	if businessID == "" || customerID == "" {
		return "", fmt.Errorf("%w: business and customer ids are required", ErrInvalidArgument)
	}

	paymentID, err := s.business.NextEntityID(ctx, businessID, models.CollectionPayments, TagPayment, models.FieldPaymentID)
	if err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, models.PaymentPath(businessID, paymentID), map[string]interface{}{
		models.FieldPaymentID:         paymentID,
		models.FieldPaymentCustomerID: customerID,
		models.FieldPaymentAmount:     amount,
		models.FieldCreatedAt:         store.ServerTimestamp,
	}); err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}
	return paymentID, nil
}
