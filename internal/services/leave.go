package services

import (
	"context"
	"fmt"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/metrics"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/repository"
	"github.com/otcheredev/membership-data-plane/internal/store"
	"golang.org/x/sync/errgroup"
)

// LeaveService extends a customer's subscription end dates when leave is
// granted: every end date on the customer document and every end timestamp on
// the customer's shift documents move forward by the granted number of
// calendar days, committed as one batch.
type LeaveService struct {
	store    store.Client
	business *BusinessService
	audit    *repository.AuditRepository
}

// NewLeaveService creates a new leave service. auditRepo may be nil to disable
// the audit trail.
func NewLeaveService(st store.Client, business *BusinessService, auditRepo *repository.AuditRepository) *LeaveService {
	return &LeaveService{store: st, business: business, audit: auditRepo}
}

// Grant records an immutable leave document and applies the adjustment. The
// record id is allocated from the business's leave sequence.
func (s *LeaveService) Grant(ctx context.Context, businessID, customerID string, days int) (string, error) {
	if businessID == "" || customerID == "" {
		return "", fmt.Errorf("%w: business and customer ids are required", ErrInvalidArgument)
	}

	leaveID, err := s.business.NextEntityID(ctx, businessID, models.CollectionLeaves, TagLeave, models.FieldLeaveID)
	if err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, models.LeavePath(businessID, leaveID), map[string]interface{}{
		models.FieldLeaveID:         leaveID,
		models.FieldLeaveCustomerID: customerID,
		models.FieldLeaveNumOfDays:  days,
		models.FieldCreatedAt:       store.ServerTimestamp,
	}); err != nil {
		return "", fmt.Errorf("failed to create leave record: %w", err)
	}

	if err := s.Apply(ctx, businessID, customerID, days); err != nil {
		return leaveID, err
	}
	return leaveID, nil
}

// Apply shifts the customer's subscription end dates and the end timestamps of
// all shifts belonging to the customer by days calendar days. Zero or negative
// days is a no-op success. The two reads run concurrently; all writes land in
// one batch, so either every shift and the customer move or nothing does. A
// shift added between read and commit is missed (accepted race).
func (s *LeaveService) Apply(ctx context.Context, businessID, customerID string, days int) error {
	if days <= 0 {
		return nil
	}
	if businessID == "" || customerID == "" {
		return fmt.Errorf("%w: business and customer ids are required", ErrInvalidArgument)
	}
	start := time.Now()

	var customerDoc store.Document
	var shiftDocs []store.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := s.store.Get(gctx, models.CustomerPath(businessID, customerID))
		if err != nil {
			return fmt.Errorf("failed to read customer %s: %w", customerID, err)
		}
		customerDoc = doc
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.Query(gctx, models.CollectionPath(businessID, models.CollectionShifts),
			[]store.Filter{{Field: models.FieldShiftCustomerID, Op: "==", Value: customerID}}, "", 0)
		if err != nil {
			return fmt.Errorf("failed to read shifts of %s: %w", customerID, err)
		}
		shiftDocs = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.Observe("leave_apply", start, err)
		return err
	}

	batch := s.store.Batch()
	for _, shift := range shiftDocs {
		end, ok := models.TimeValue(shift.Data[models.FieldShiftEndTime])
		if !ok {
			continue
		}
		batch.Update(models.ShiftPath(businessID, shift.ID), map[string]interface{}{
			models.FieldShiftEndTime: end.AddDate(0, 0, days),
			models.FieldUpdatedAt:    store.ServerTimestamp,
		})
	}

	// Calendar-day arithmetic on each end date; non-timestamp entries are
	// dropped rather than carried over.
	ends := models.TimeSlice(customerDoc.Data[models.FieldCustomerSubscriptionEnd])
	extended := make([]interface{}, len(ends))
	for i, end := range ends {
		extended[i] = end.AddDate(0, 0, days)
	}
	batch.Update(models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerSubscriptionEnd: extended,
		models.FieldUpdatedAt:               store.ServerTimestamp,
	})

	err := batch.Commit(ctx)
	metrics.Observe("leave_apply", start, err)
	recordAudit(ctx, s.audit, businessID, customerID, "leave.apply", fmt.Sprintf("%d days", days), start, err)
	return err
}
