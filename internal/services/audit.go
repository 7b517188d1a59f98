package services

import (
	"context"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/repository"
	"github.com/rs/zerolog/log"
)

// recordAudit writes one audit row. Auditing is best effort: a failed insert
// is logged, never surfaced to the caller, and a nil repository disables it.
func recordAudit(ctx context.Context, repo *repository.AuditRepository, businessID, customerID, action, resourceID string, start time.Time, opErr error) {
	if repo == nil {
		return
	}

	entry := &models.AuditLog{
		BusinessID: businessID,
		CustomerID: customerID,
		Action:     action,
		ResourceID: resourceID,
		Status:     "success",
		Duration:   time.Since(start).Milliseconds(),
	}
	if opErr != nil {
		entry.Status = "failure"
		entry.ErrorMessage = opErr.Error()
	}

	if err := repo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit log")
	}
}
