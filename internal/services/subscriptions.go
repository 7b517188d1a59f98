package services

import (
	"context"
	"strings"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/metrics"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// SubscriptionService maintains the four index-aligned arrays on a customer
// document (shift id, seat, subscription start, subscription end). Append and
// Remove mutate each array independently with union/remove semantics, so a
// partial input can leave the arrays at different lengths; ReplaceAll is the
// only operation that realigns them and is preferred whenever the caller
// already holds the full target state.
type SubscriptionService struct {
	store store.Client
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(st store.Client) *SubscriptionService {
	return &SubscriptionService{store: st}
}

// Appendment is one shift assignment to add to a customer.
type Appendment struct {
	ShiftID         string
	Seat            string
	Start           time.Time
	End             time.Time
	PaymentRate     string
	LastPaymentDate time.Time
}

// Deactivate marks the customer inactive, clears the payment rate and empties
// all four subscription arrays.
func (s *SubscriptionService) Deactivate(ctx context.Context, businessID, customerID string) error {
	start := time.Now()

	err := s.store.Update(ctx, models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerStatus:             false,
		models.FieldCustomerCurrentPaymentRate: "",
		models.FieldCustomerCurrentShiftID:     []interface{}{},
		models.FieldCustomerCurrentSeat:        []interface{}{},
		models.FieldCustomerSubscriptionStart:  []interface{}{},
		models.FieldCustomerSubscriptionEnd:    []interface{}{},
		models.FieldUpdatedAt:                  store.ServerTimestamp,
	})
	metrics.Observe("subscription_deactivate", start, err)
	return err
}

// Append adds one shift assignment, element-wise and add-if-absent per array.
// Appending a shift id the customer already holds while the seat differs will
// desynchronize the array lengths; callers needing a guarantee use ReplaceAll.
func (s *SubscriptionService) Append(ctx context.Context, businessID, customerID string, a Appendment) error {
	start := time.Now()

	err := s.store.Update(ctx, models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerStatus:             true,
		models.FieldCustomerCurrentPaymentRate: a.PaymentRate,
		models.FieldCustomerLastPaymentDate:    a.LastPaymentDate,
		models.FieldCustomerCurrentShiftID:     store.ArrayUnion(a.ShiftID),
		models.FieldCustomerCurrentSeat:        store.ArrayUnion(a.Seat),
		models.FieldCustomerSubscriptionStart:  store.ArrayUnion(a.Start),
		models.FieldCustomerSubscriptionEnd:    store.ArrayUnion(a.End),
		models.FieldUpdatedAt:                  store.ServerTimestamp,
	})
	metrics.Observe("subscription_append", start, err)
	return err
}

// Remove drops a shift assignment. A blank shift id is a no-op success. Seat,
// start and end are removed only from the arrays for which they were supplied,
// so omitting one leaves that array untouched.
func (s *SubscriptionService) Remove(ctx context.Context, businessID, customerID, shiftID, seat string, subStart, subEnd *time.Time) error {
	if strings.TrimSpace(shiftID) == "" {
		return nil
	}
	start := time.Now()

	fields := map[string]interface{}{
		models.FieldCustomerCurrentShiftID: store.ArrayRemove(shiftID),
		models.FieldUpdatedAt:              store.ServerTimestamp,
	}
	if seat != "" {
		fields[models.FieldCustomerCurrentSeat] = store.ArrayRemove(seat)
	}
	if subStart != nil {
		fields[models.FieldCustomerSubscriptionStart] = store.ArrayRemove(*subStart)
	}
	if subEnd != nil {
		fields[models.FieldCustomerSubscriptionEnd] = store.ArrayRemove(*subEnd)
	}

	err := s.store.Update(ctx, models.CustomerPath(businessID, customerID), fields)
	metrics.Observe("subscription_remove", start, err)
	return err
}

// ReplaceAll overwrites the four arrays wholesale, realigning them by
// construction. Nil slices write empty arrays.
func (s *SubscriptionService) ReplaceAll(ctx context.Context, businessID, customerID string, shiftIDs, seats []string, starts, ends []time.Time, paymentRate string, lastPaymentDate time.Time) error {
	start := time.Now()

	err := s.store.Update(ctx, models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerStatus:             true,
		models.FieldCustomerCurrentPaymentRate: paymentRate,
		models.FieldCustomerLastPaymentDate:    lastPaymentDate,
		models.FieldCustomerCurrentShiftID:     stringArray(shiftIDs),
		models.FieldCustomerCurrentSeat:        stringArray(seats),
		models.FieldCustomerSubscriptionStart:  timeArray(starts),
		models.FieldCustomerSubscriptionEnd:    timeArray(ends),
		models.FieldUpdatedAt:                  store.ServerTimestamp,
	})
	metrics.Observe("subscription_replace", start, err)
	return err
}

// Renew overwrites the end-date array and payment rate. The caller supplies an
// end-date array matching the length of the existing shift array; that is not
// verified here.
func (s *SubscriptionService) Renew(ctx context.Context, businessID, customerID string, ends []time.Time, paymentRate string) error {
	start := time.Now()

	err := s.store.Update(ctx, models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerStatus:             true,
		models.FieldCustomerCurrentPaymentRate: paymentRate,
		models.FieldCustomerSubscriptionEnd:    timeArray(ends),
		models.FieldUpdatedAt:                  store.ServerTimestamp,
	})
	metrics.Observe("subscription_renew", start, err)
	return err
}

func stringArray(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func timeArray(in []time.Time) []interface{} {
	out := make([]interface{}, len(in))
	for i, t := range in {
		out[i] = t
	}
	return out
}
