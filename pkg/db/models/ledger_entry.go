package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry records one immutable signed stock movement for an item.
// Positive deltas are replenishments, negative deltas are withdrawals.
// Rows are only ever appended, or bulk-deleted when the owning item goes.
type LedgerEntry struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null;index"`
	Delta      int       `gorm:"column:delta;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;autoCreateTime;index"`
}
