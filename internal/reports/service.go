package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
	"github.com/stocktrackhq/stocktrack-backend/pkg/redis"
)

// DefaultRecentLimit caps the recent-activity feed when no limit is given.
const DefaultRecentLimit = 5

const summaryCacheKeyPart = "dashboard"

// DashboardSummary is the aggregate snapshot shown on the dashboard.
// LowStockItems counts items strictly below their threshold, which is
// narrower than the at-or-below rule driving the low-stock view.
type DashboardSummary struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockItems int             `json:"lowStockItems"`
	LedgerLast24h int64           `json:"ledgerLast24h"`
}

// Service exposes the read-only reporting surface.
type Service interface {
	LowStock(ctx context.Context) ([]models.LowStockEntry, error)
	RecentLedger(ctx context.Context, limit int) ([]LedgerActivity, error)
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

type service struct {
	repo     *Repository
	cache    *redis.Client
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewService wires the reports service. cache may be nil, in which case the
// dashboard summary is computed on every call.
func NewService(repo *Repository, cache *redis.Client, cacheTTL time.Duration, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL, log: log, now: time.Now}, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.LowStockEntry, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *service) RecentLedger(ctx context.Context, limit int) ([]LedgerActivity, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.RecentLedger(ctx, limit)
}

func (s *service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	if cached := s.cachedSummary(ctx); cached != nil {
		return cached, nil
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{TotalItems: len(items)}
	for _, item := range items {
		if item.Price != nil {
			summary.TotalValue = summary.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if item.Quantity < item.LowStockThreshold {
			summary.LowStockItems++
		}
	}

	since := s.now().Add(-24 * time.Hour)
	count, err := s.repo.CountLedgerSince(ctx, since)
	if err != nil {
		return nil, err
	}
	summary.LedgerLast24h = count

	s.storeSummary(ctx, summary)
	return summary, nil
}

func (s *service) cachedSummary(ctx context.Context) *DashboardSummary {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey(summaryCacheKeyPart, "summary"))
	if err != nil {
		if !errors.Is(err, redis.ErrMiss) && s.log != nil {
			s.log.Error(ctx, "dashboard summary cache read failed", err)
		}
		return nil
	}
	var summary DashboardSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		if s.log != nil {
			s.log.Error(ctx, "dashboard summary cache payload invalid", err)
		}
		return nil
	}
	return &summary
}

func (s *service) storeSummary(ctx context.Context, summary *DashboardSummary) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	key := s.cache.CacheKey(summaryCacheKeyPart, "summary")
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil && s.log != nil {
		s.log.Error(ctx, "dashboard summary cache write failed", err)
	}
}
