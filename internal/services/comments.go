package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// CommentService creates comment records. The contract here is id uniqueness
// and atomic creation; rendering the comment text is someone else's job.
type CommentService struct {
	store    store.Client
	business *BusinessService
}

// NewCommentService creates a new comment service.
func NewCommentService(st store.Client, business *BusinessService) *CommentService {
	return &CommentService{store: st, business: business}
}

// Create allocates a sequential comment id and writes the record in a single
// atomic set.
func (s *CommentService) Create(ctx context.Context, businessID, customerID, createdBy, entityType, text string) (string, error) {
	if businessID == "" || customerID == "" || strings.TrimSpace(createdBy) == "" {
		return "", fmt.Errorf("%w: business, customer and creator ids are required", ErrInvalidArgument)
	}

	commentID, err := s.business.NextEntityID(ctx, businessID, models.CollectionComments, TagComment, models.FieldCommentID)
	if err != nil {
		return "", err
	}

	if err := s.store.Set(ctx, models.CommentPath(businessID, commentID), map[string]interface{}{
		models.FieldCommentID:         commentID,
		models.FieldCommentCustomerID: customerID,
		models.FieldCommentCreatedBy:  createdBy,
		models.FieldCommentEntityType: entityType,
		models.FieldCommentText:       text,
		models.FieldCreatedAt:         store.ServerTimestamp,
	}); err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}
	return commentID, nil
}
