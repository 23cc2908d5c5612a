package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"gorm.io/gorm"
)

// DefaultWindowDays is the trailing window used when a caller does not ask
// for a specific length.
const DefaultWindowDays = 30

type inventoryReader interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListLedgerByItem(ctx context.Context, itemID uuid.UUID) ([]models.LedgerEntry, error)
}

// ItemHistory is the reconstructed series plus summary for one item.
type ItemHistory struct {
	ItemID  uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	SKU     string        `json:"sku"`
	Series  []SeriesPoint `json:"history"`
	Summary Summary       `json:"summary"`
}

// SeriesPoint is one day of a serialized series.
type SeriesPoint struct {
	Date  string `json:"date"`
	Stock int    `json:"stock"`
}

// ItemMetrics is the per-item window summary exposed by the metrics listing.
type ItemMetrics struct {
	ItemID        uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	CurrentStock  int       `json:"currentStock"`
	MinStock      int       `json:"minStock"`
	MaxStock      int       `json:"maxStock"`
	ChangeAmount  int       `json:"changeAmount"`
	ChangePercent string    `json:"changePercent"`
}

// Service answers historical-stock queries from the ledger and current state.
type Service interface {
	ItemHistory(ctx context.Context, id uuid.UUID, days int) (*ItemHistory, error)
	AllItemMetrics(ctx context.Context) ([]ItemMetrics, error)
	InventoryTrend(ctx context.Context) ([]SeriesPoint, error)
}

type service struct {
	reader inventoryReader
	now    func() time.Time
}

// NewService wires the history service with a reader over items and their
// ledgers.
func NewService(reader inventoryReader) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("inventory reader required")
	}
	return &service{reader: reader, now: time.Now}, nil
}

func (s *service) ItemHistory(ctx context.Context, id uuid.UUID, days int) (*ItemHistory, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if days <= 0 {
		days = DefaultWindowDays
	}

	item, err := s.reader.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, err
	}
	entries, err := s.reader.ListLedgerByItem(ctx, id)
	if err != nil {
		return nil, err
	}

	series := Reconstruct(item.Quantity, entries, s.now(), days)
	return &ItemHistory{
		ItemID:  item.ID,
		Name:    item.Name,
		SKU:     item.SKU,
		Series:  serialize(series),
		Summary: Summarize(series, item.Quantity),
	}, nil
}

func (s *service) AllItemMetrics(ctx context.Context) ([]ItemMetrics, error) {
	items, err := s.reader.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	metrics := make([]ItemMetrics, 0, len(items))
	for _, item := range items {
		entries, err := s.reader.ListLedgerByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		series := Reconstruct(item.Quantity, entries, now, DefaultWindowDays)
		summary := Summarize(series, item.Quantity)
		metrics = append(metrics, ItemMetrics{
			ItemID:        item.ID,
			Name:          item.Name,
			SKU:           item.SKU,
			CurrentStock:  item.Quantity,
			MinStock:      summary.Min,
			MaxStock:      summary.Max,
			ChangeAmount:  summary.ChangeAmount,
			ChangePercent: summary.ChangePercent,
		})
	}
	return metrics, nil
}

// InventoryTrend reports total stock across the catalog for each day of the
// default window. The total is the present one for every day; per-item
// reconstruction is deliberately not aggregated here.
func (s *service) InventoryTrend(ctx context.Context) ([]SeriesPoint, error) {
	items, err := s.reader.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, item := range items {
		total += item.Quantity
	}

	today := truncateToDay(s.now())
	points := make([]SeriesPoint, DefaultWindowDays)
	for i := 0; i < DefaultWindowDays; i++ {
		day := today.AddDate(0, 0, -(DefaultWindowDays - 1 - i))
		points[i] = SeriesPoint{Date: day.Format("2006-01-02"), Stock: total}
	}
	return points, nil
}

func serialize(series []DayStock) []SeriesPoint {
	points := make([]SeriesPoint, len(series))
	for i, day := range series {
		points[i] = SeriesPoint{Date: day.Date.Format("2006-01-02"), Stock: day.Quantity}
	}
	return points
}
