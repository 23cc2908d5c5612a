package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	"gorm.io/gorm"
)

// LedgerActivity is one ledger entry joined with its item's name for display.
type LedgerActivity struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Delta      int       `json:"delta"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Repository answers the read-only queries behind the reporting surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository on the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListLowStock returns the low-stock view, most recently synced first.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.LowStockEntry, error) {
	var entries []models.LowStockEntry
	if err := r.db.WithContext(ctx).
		Order("last_synced_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// RecentLedger returns the newest ledger entries with item names attached.
func (r *Repository) RecentLedger(ctx context.Context, limit int) ([]LedgerActivity, error) {
	var rows []LedgerActivity
	if err := r.db.WithContext(ctx).
		Table("ledger_entries").
		Select("ledger_entries.id, ledger_entries.item_id, items.name AS item_name, ledger_entries.delta, ledger_entries.occurred_at").
		Joins("LEFT JOIN items ON items.id = ledger_entries.item_id").
		Order("ledger_entries.occurred_at DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListItems loads the full catalog for dashboard aggregation.
func (r *Repository) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountLedgerSince counts ledger entries recorded at or after the cutoff.
func (r *Repository) CountLedgerSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("occurred_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
