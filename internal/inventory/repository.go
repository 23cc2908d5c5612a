package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together persistence for items, their ledger entries, and
// the low-stock view rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads an item without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads an item and takes a row lock where the dialect
// supports one. Mutation paths call it inside their transaction so two
// concurrent movements against the same item serialize instead of both
// reading the same starting quantity.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var item models.Item
	if err := q.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySKU loads an item by its business key.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns all items in creation order.
func (r *Repository) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem inserts a new item row.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SaveItem persists all fields of an existing item row.
func (r *Repository) SaveItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes an item by ID.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

// AppendLedger writes one immutable ledger entry.
func (r *Repository) AppendLedger(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListLedgerByItem returns every ledger entry for the item, oldest first.
func (r *Repository) ListLedgerByItem(ctx context.Context, itemID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("occurred_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteLedgerByItem bulk-deletes the item's ledger alongside the item itself.
func (r *Repository) DeleteLedgerByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&models.LedgerEntry{}).Error
}

// FindLowStock loads the low-stock row mirroring the item, if present.
func (r *Repository) FindLowStock(ctx context.Context, itemID uuid.UUID) (*models.LowStockEntry, error) {
	var entry models.LowStockEntry
	if err := r.db.WithContext(ctx).First(&entry, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveLowStock persists a new or updated low-stock row.
func (r *Repository) SaveLowStock(ctx context.Context, entry *models.LowStockEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// DeleteLowStock removes the item's low-stock row if one exists.
func (r *Repository) DeleteLowStock(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&models.LowStockEntry{}).Error
}
