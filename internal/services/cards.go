package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/metrics"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/repository"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// CardService mediates the 1:1 relationship between a customer and a physical
// card. Customer and card cross-reference each other by the card's logical id
// (card_id), not by storage key; this service is the only writer allowed to
// change both sides, and it always does so in one atomic batch so readers
// never observe a half-assigned card.
type CardService struct {
	store store.Client
	audit *repository.AuditRepository
}

// NewCardService creates a new card service. auditRepo may be nil to disable
// the audit trail.
func NewCardService(st store.Client, auditRepo *repository.AuditRepository) *CardService {
	return &CardService{store: st, audit: auditRepo}
}

// Assign hands a card to a customer. The caller must guarantee the card was
// previously unassigned; no prior state is read. Validation failures are
// returned before any store access.
func (s *CardService) Assign(ctx context.Context, businessID, customerID, cardDocID, cardID string) error {
	start := time.Now()

	if businessID == "" || customerID == "" || cardDocID == "" || strings.TrimSpace(cardID) == "" {
		return fmt.Errorf("%w: business, customer and card ids are required", ErrInvalidArgument)
	}

	batch := s.store.Batch()
	batch.Update(models.CardPath(businessID, cardDocID), assignedCardFields(customerID))
	batch.Update(models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerCurrentCardID: cardID,
		models.FieldUpdatedAt:             store.ServerTimestamp,
	})

	err := batch.Commit(ctx)
	metrics.Observe("card_assign", start, err)
	recordAudit(ctx, s.audit, businessID, customerID, "card.assign", cardID, start, err)
	return err
}

// Replace assigns a new card to the customer and releases whichever card the
// customer held before, in one batch. When the prior card resolves to the same
// document as the new one, no release is issued: clearing it would clobber the
// assignment written in the same batch.
func (s *CardService) Replace(ctx context.Context, businessID, customerID, cardDocID, cardID string) error {
	start := time.Now()

	if businessID == "" || customerID == "" || cardDocID == "" || strings.TrimSpace(cardID) == "" {
		return fmt.Errorf("%w: business, customer and card ids are required", ErrInvalidArgument)
	}

	customerDoc, err := s.store.Get(ctx, models.CustomerPath(businessID, customerID))
	if err != nil {
		metrics.Observe("card_replace", start, err)
		return fmt.Errorf("failed to read customer %s: %w", customerID, err)
	}

	// Absence of the prior card document is not an error: the customer is
	// treated as holding no card.
	prior, err := s.findCardByID(ctx, businessID, models.ParseCustomer(customerDoc).CurrentCardID)
	if err != nil {
		metrics.Observe("card_replace", start, err)
		return err
	}

	batch := s.store.Batch()
	batch.Update(models.CardPath(businessID, cardDocID), assignedCardFields(customerID))
	batch.Update(models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerCurrentCardID: cardID,
		models.FieldUpdatedAt:             store.ServerTimestamp,
	})
	if prior != nil && prior.ID != cardDocID {
		batch.Update(models.CardPath(businessID, prior.ID), releasedCardFields())
	}

	err = batch.Commit(ctx)
	metrics.Observe("card_replace", start, err)
	recordAudit(ctx, s.audit, businessID, customerID, "card.replace", cardID, start, err)
	return err
}

// Return takes the customer's card back, clearing both sides. Fails with
// ErrNoCardAssigned when no card id is recorded on the customer.
func (s *CardService) Return(ctx context.Context, businessID, customerID string) error {
	start := time.Now()

	if businessID == "" || customerID == "" {
		return fmt.Errorf("%w: business and customer ids are required", ErrInvalidArgument)
	}

	customerDoc, err := s.store.Get(ctx, models.CustomerPath(businessID, customerID))
	if err != nil {
		metrics.Observe("card_return", start, err)
		return fmt.Errorf("failed to read customer %s: %w", customerID, err)
	}

	currentCardID := models.ParseCustomer(customerDoc).CurrentCardID
	if currentCardID == "" {
		return ErrNoCardAssigned
	}

	card, err := s.findCardByID(ctx, businessID, currentCardID)
	if err != nil {
		metrics.Observe("card_return", start, err)
		return err
	}

	batch := s.store.Batch()
	batch.Update(models.CustomerPath(businessID, customerID), map[string]interface{}{
		models.FieldCustomerCurrentCardID: "",
		models.FieldUpdatedAt:             store.ServerTimestamp,
	})
	if card != nil {
		batch.Update(models.CardPath(businessID, card.ID), releasedCardFields())
	}

	err = batch.Commit(ctx)
	metrics.Observe("card_return", start, err)
	recordAudit(ctx, s.audit, businessID, customerID, "card.return", currentCardID, start, err)
	return err
}

// Unassign clears a card's assignment fields unconditionally. When customerID
// is supplied, the customer's recorded card id is cleared in the same batch.
func (s *CardService) Unassign(ctx context.Context, businessID, cardDocID, customerID string) error {
	start := time.Now()

	if businessID == "" || cardDocID == "" {
		return fmt.Errorf("%w: business and card ids are required", ErrInvalidArgument)
	}

	batch := s.store.Batch()
	batch.Update(models.CardPath(businessID, cardDocID), releasedCardFields())
	if customerID != "" {
		batch.Update(models.CustomerPath(businessID, customerID), map[string]interface{}{
			models.FieldCustomerCurrentCardID: "",
			models.FieldUpdatedAt:             store.ServerTimestamp,
		})
	}

	err := batch.Commit(ctx)
	metrics.Observe("card_unassign", start, err)
	recordAudit(ctx, s.audit, businessID, customerID, "card.unassign", cardDocID, start, err)
	return err
}

// findCardByID resolves a logical card id to its document. At most one card
// holds a given logical id; none is a legitimate empty result, returned as nil.
func (s *CardService) findCardByID(ctx context.Context, businessID, cardID string) (*store.Document, error) {
	if cardID == "" {
		return nil, nil
	}

	docs, err := s.store.Query(ctx, models.CollectionPath(businessID, models.CollectionCards),
		[]store.Filter{{Field: models.FieldCardID, Op: "==", Value: cardID}}, "", 1)
	if err != nil {
		return nil, fmt.Errorf("failed to look up card %s: %w", cardID, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

func assignedCardFields(customerID string) map[string]interface{} {
	return map[string]interface{}{
		models.FieldCardAssignedTo:   customerID,
		models.FieldCardAssignedType: models.AssignedTypeCustomer,
		models.FieldCardStatus:       true,
		models.FieldUpdatedAt:        store.ServerTimestamp,
	}
}

func releasedCardFields() map[string]interface{} {
	return map[string]interface{}{
		models.FieldCardAssignedTo:   "",
		models.FieldCardAssignedType: "",
		models.FieldCardStatus:       false,
		models.FieldUpdatedAt:        store.ServerTimestamp,
	}
}
