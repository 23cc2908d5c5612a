package inventory

import (
	"github.com/shopspring/decimal"
)

// CreateItemInput carries the fields accepted when registering a new item.
type CreateItemInput struct {
	Name              string           `json:"name" validate:"required"`
	SKU               string           `json:"sku" validate:"required"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Cost              *decimal.Decimal `json:"cost"`
	Quantity          int              `json:"quantity" validate:"gte=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

// EditItemInput is the full replacement field set for an existing item. Name
// is required; omitted category, price, and cost clear the stored values,
// while omitted quantity and threshold keep them. The SKU is immutable and
// deliberately absent.
type EditItemInput struct {
	Name              string           `json:"name" validate:"required"`
	Category          *string          `json:"category"`
	Price             *decimal.Decimal `json:"price"`
	Cost              *decimal.Decimal `json:"cost"`
	Quantity          *int             `json:"quantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

// StockMovementInput is the body for purchase and restock requests. The
// quantity carries no validation tag on purpose: zero and negative values
// must reach the service so they fail with the invalid-quantity code rather
// than a generic validation error.
type StockMovementInput struct {
	Quantity int `json:"quantity"`
}
