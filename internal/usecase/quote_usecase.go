package usecase

import (
	"context"
	"fmt"
	"time"

	"shipquote-backend/internal/domain"
	"shipquote-backend/internal/engine"
	"shipquote-backend/pkg/cache"
	"shipquote-backend/pkg/logger"
)

const snapshotCacheKey = "shipping:snapshot"

// QuoteUsecase glues the pure quote engine to the configuration store:
// it loads the merchant's shipping snapshot, caches it until an edit
// invalidates it, and runs the engine per request.
type QuoteUsecase struct {
	snapshotRepo domain.SnapshotRepository
	cache        cache.CacheService
	snapshotTTL  time.Duration
}

func NewQuoteUsecase(repo domain.SnapshotRepository, c cache.CacheService, snapshotTTL time.Duration) *QuoteUsecase {
	return &QuoteUsecase{
		snapshotRepo: repo,
		cache:        c,
		snapshotTTL:  snapshotTTL,
	}
}

// GetQuotes prices the order against the current configuration
// snapshot. An empty slice means no shipping is available for this
// destination; only unusable cart data is an error.
func (u *QuoteUsecase) GetQuotes(ctx context.Context, order *domain.OrderShippingContext) ([]domain.QuotedOption, error) {
	snap, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Quote(snap, order)
}

// PreviewQuotes runs the engine against an inline, unsaved snapshot so
// admin tooling can test configuration changes before saving. The
// cached snapshot is neither consulted nor touched.
func (u *QuoteUsecase) PreviewQuotes(snap *domain.ShippingSnapshot, order *domain.OrderShippingContext) ([]domain.QuotedOption, error) {
	return engine.Quote(snap, order)
}

// InvalidateSnapshot drops the cached configuration. The merchant CRUD
// system calls this (via the admin endpoint) after every zone, service,
// rate or option edit.
func (u *QuoteUsecase) InvalidateSnapshot() {
	u.cache.Delete(snapshotCacheKey)
	logger.Get().Info().Msg("Shipping snapshot cache invalidated")
}

func (u *QuoteUsecase) snapshot(ctx context.Context) (*domain.ShippingSnapshot, error) {
	if cached, ok := u.cache.Get(snapshotCacheKey); ok {
		if snap, ok := cached.(*domain.ShippingSnapshot); ok {
			return snap, nil
		}
	}

	snap, err := u.snapshotRepo.LoadSnapshot(ctx)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Msg("Failed to load shipping snapshot")
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}
	u.cache.Set(snapshotCacheKey, snap, u.snapshotTTL)
	return snap, nil
}
