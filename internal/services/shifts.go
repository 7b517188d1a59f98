package services

import (
	"context"
	"fmt"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// ShiftService creates shift records bound to a customer. End times are later
// moved by leave adjustments, never here.
type ShiftService struct {
	store    store.Client
	business *BusinessService
}

// NewShiftService creates a new shift service.
func NewShiftService(st store.Client, business *BusinessService) *ShiftService {
	return &ShiftService{store: st, business: business}
}

// Create allocates a sequential shift id and writes the record. A zero endTime
// stores the shift without an end timestamp.
func (s *ShiftService) Create(ctx context.Context, businessID, customerID string, endTime time.Time) (string, error) {
	if businessID == "" || customerID == "" {
		return "", fmt.Errorf("%w: business and customer ids are required", ErrInvalidArgument)
	}

	shiftID, err := s.business.NextEntityID(ctx, businessID, models.CollectionShifts, TagShift, models.FieldShiftID)
	if err != nil {
		return "", err
	}

	fields := map[string]interface{}{
		models.FieldShiftID:         shiftID,
		models.FieldShiftCustomerID: customerID,
		models.FieldShiftStatus:     true,
		models.FieldCreatedAt:       store.ServerTimestamp,
	}
	if !endTime.IsZero() {
		fields[models.FieldShiftEndTime] = endTime
	}

	if err := s.store.Set(ctx, models.ShiftPath(businessID, shiftID), fields); err != nil {
		return "", fmt.Errorf("failed to create shift: %w", err)
	}
	return shiftID, nil
}
