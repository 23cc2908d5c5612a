package models

import (
	"time"

	"github.com/google/uuid"
)

// LowStockEntry is a denormalized snapshot of an item whose quantity is at or
// below its threshold. It mirrors Item state as of the last mutation and is
// rewritten by the shared sync rule, never edited independently.
type LowStockEntry struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID            uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex"`
	Name              string    `gorm:"column:name;not null"`
	SKU               string    `gorm:"column:sku;not null"`
	Quantity          int       `gorm:"column:quantity;not null"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null"`
	LastSyncedAt      time.Time `gorm:"column:last_synced_at;not null"`
}
