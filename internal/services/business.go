package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/cache"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
	"github.com/rs/zerolog/log"
)

// businessCacheTTL bounds staleness of cached business documents. A business
// prefix never changes after creation, so a short TTL is plenty.
const businessCacheTTL = 5 * time.Minute

// BusinessService manages tenant documents and issues the per-tenant
// sequential entity ids every other service allocates through.
type BusinessService struct {
	store store.Client
	cache cache.Cache
}

// NewBusinessService creates a new business service. c may be nil to disable
// caching.
func NewBusinessService(st store.Client, c cache.Cache) *BusinessService {
	return &BusinessService{store: st, cache: c}
}

// Create registers a new business. Its id is business_id_<year>_<sequence>,
// the sequence being global-max-plus-one over all businesses created the same
// year.
func (s *BusinessService) Create(ctx context.Context, name, prefix string) (models.Business, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(prefix) == "" {
		return models.Business{}, fmt.Errorf("%w: business name and prefix are required", ErrInvalidArgument)
	}

	docs, err := s.store.Query(ctx, models.CollectionBusinesses, nil, "", 0)
	if err != nil {
		return models.Business{}, fmt.Errorf("failed to scan businesses: %w", err)
	}

	id := NextBusinessID(time.Now().Year(), docs)
	if err := s.store.Set(ctx, models.BusinessPath(id), map[string]interface{}{
		models.FieldBusinessID:     id,
		models.FieldBusinessName:   name,
		models.FieldBusinessPrefix: prefix,
		models.FieldCreatedAt:      store.ServerTimestamp,
	}); err != nil {
		return models.Business{}, fmt.Errorf("failed to create business: %w", err)
	}

	return models.Business{ID: id, Name: name, Prefix: prefix}, nil
}

// Get fetches a business document, serving from cache when possible.
func (s *BusinessService) Get(ctx context.Context, businessID string) (models.Business, error) {
	if businessID == "" {
		return models.Business{}, fmt.Errorf("%w: business id is required", ErrInvalidArgument)
	}

	key := cache.Key(businessID, "profile")
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var b models.Business
			if err := json.Unmarshal(raw, &b); err == nil {
				return b, nil
			}
		}
	}

	doc, err := s.store.Get(ctx, models.BusinessPath(businessID))
	if err != nil {
		return models.Business{}, fmt.Errorf("failed to get business %s: %w", businessID, err)
	}

	b := models.ParseBusiness(doc)
	if s.cache != nil {
		if raw, err := json.Marshal(b); err == nil {
			if err := s.cache.Set(ctx, key, raw, businessCacheTTL); err != nil {
				log.Warn().Err(err).Str("business_id", businessID).Msg("Failed to cache business")
			}
		}
	}
	return b, nil
}

// Update changes the business's display name. The prefix is immutable: every
// allocated entity id embeds it.
func (s *BusinessService) Update(ctx context.Context, businessID, name string) error {
	if businessID == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: business id and name are required", ErrInvalidArgument)
	}

	if err := s.store.Update(ctx, models.BusinessPath(businessID), map[string]interface{}{
		models.FieldBusinessName: name,
		models.FieldUpdatedAt:    store.ServerTimestamp,
	}); err != nil {
		return fmt.Errorf("failed to update business %s: %w", businessID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.Key(businessID, "profile")); err != nil {
			log.Warn().Err(err).Str("business_id", businessID).Msg("Failed to invalidate business cache")
		}
	}
	return nil
}

// NextEntityID allocates the next sequential id for an entity collection of a
// business, scanning the collection's current documents. The scan-then-write
// pattern is not atomic; see NextEntityID in ids.go.
func (s *BusinessService) NextEntityID(ctx context.Context, businessID, collection, tag, idField string) (string, error) {
	b, err := s.Get(ctx, businessID)
	if err != nil {
		return "", err
	}

	docs, err := s.store.Query(ctx, models.CollectionPath(businessID, collection), nil, "", 0)
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", collection, err)
	}
	return NextEntityID(b.Prefix, tag, idField, docs), nil
}
