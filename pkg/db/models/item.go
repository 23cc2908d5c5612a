package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when an item is created without an
// explicit threshold.
const DefaultLowStockThreshold = 10

// Item is a catalog entry with a tracked quantity. Quantity is only written
// through the inventory service so that every change lands in the ledger.
type Item struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SKU               string           `gorm:"column:sku;not null;uniqueIndex"`
	Name              string           `gorm:"column:name;not null"`
	Category          *string          `gorm:"column:category"`
	Price             *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Cost              *decimal.Decimal `gorm:"column:cost;type:numeric(12,2)"`
	Quantity          int              `gorm:"column:quantity;not null;default:0"`
	LowStockThreshold int              `gorm:"column:low_stock_threshold;not null;default:10"`
	LedgerEntries     []LedgerEntry    `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	LowStock          *LowStockEntry   `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
