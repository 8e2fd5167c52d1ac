package verification

import (
	"context"
)

// StatusCache caches the public status projection. The redis cache service
// satisfies it; tests use a noop.
type StatusCache interface {
	CacheAgencyStatus(ctx context.Context, agencyID uint, status interface{}) error
	GetAgencyStatus(ctx context.Context, agencyID uint, dest interface{}) (bool, error)
	InvalidateAgencyStatus(ctx context.Context, agencyID uint) error
}

// NoopStatusCache is used when redis is unavailable and in tests.
type NoopStatusCache struct{}

func (NoopStatusCache) CacheAgencyStatus(ctx context.Context, agencyID uint, status interface{}) error {
	return nil
}

func (NoopStatusCache) GetAgencyStatus(ctx context.Context, agencyID uint, dest interface{}) (bool, error) {
	return false, nil
}

func (NoopStatusCache) InvalidateAgencyStatus(ctx context.Context, agencyID uint) error {
	return nil
}
