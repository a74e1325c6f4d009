package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// Ensure MaintenanceService implements the interface.
var _ driving.MaintenanceService = (*MaintenanceService)(nil)

// MaintenanceService purges expired cache and idempotency entries.
// Expired entries are already ignored on read; purging only reclaims space.
type MaintenanceService struct {
	cache driven.CacheStore
	keys  driven.IdempotencyStore
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(cache driven.CacheStore, keys driven.IdempotencyStore) *MaintenanceService {
	return &MaintenanceService{cache: cache, keys: keys}
}

// PurgeExpired removes expired entries from both stores.
func (s *MaintenanceService) PurgeExpired(ctx context.Context) (int, int, error) {
	cache, err := s.cache.PurgeExpired(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("purge cache: %w", err)
	}
	keys, err := s.keys.PurgeExpired(ctx)
	if err != nil {
		return cache, 0, fmt.Errorf("purge idempotency keys: %w", err)
	}
	logger.Debug("Purged %d cache entries and %d idempotency keys", cache, keys)
	return cache, keys, nil
}
