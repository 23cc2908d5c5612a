package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines all mutations and reads against the item catalog. Every
// mutation keeps quantity, the stock ledger, and the low-stock view in step
// within a single transaction.
type Service interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error)
	PurchaseItem(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error)
	RestockItem(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error)
	EditItem(ctx context.Context, id uuid.UUID, input EditItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
	now  func() time.Time
}

// NewService wires the inventory service with its repository and transaction
// runner.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, err
	}
	return item, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item sku required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	threshold := models.DefaultLowStockThreshold
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold must not be negative")
		}
		threshold = *input.LowStockThreshold
	}

	item := &models.Item{
		ID:                uuid.New(),
		Name:              name,
		SKU:               sku,
		Category:          input.Category,
		Price:             input.Price,
		Cost:              input.Cost,
		Quantity:          input.Quantity,
		LowStockThreshold: threshold,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindBySKU(ctx, sku); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item with sku %q already exists", sku))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return err
		}
		// The opening quantity is the baseline, not a movement, so no
		// ledger entry is written here.
		return s.syncLowStock(ctx, repo, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) PurchaseItem(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error) {
	return s.applyMovement(ctx, id, quantity, -quantity)
}

func (s *service) RestockItem(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error) {
	return s.applyMovement(ctx, id, quantity, quantity)
}

// applyMovement runs a purchase or restock. quantity is the requested amount
// and must be positive; delta is the signed quantity change to apply.
func (s *service) applyMovement(ctx context.Context, id uuid.UUID, quantity, delta int) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity must be positive")
	}

	var item *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return err
		}
		if delta < 0 && loaded.Quantity < quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")
		}
		loaded.Quantity += delta
		if err := repo.SaveItem(ctx, loaded); err != nil {
			return err
		}
		if err := repo.AppendLedger(ctx, &models.LedgerEntry{
			ID:     uuid.New(),
			ItemID: loaded.ID,
			Delta:  delta,
		}); err != nil {
			return err
		}
		if err := s.syncLowStock(ctx, repo, loaded); err != nil {
			return err
		}
		item = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) EditItem(ctx context.Context, id uuid.UUID, input EditItemInput) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.LowStockThreshold != nil && *input.LowStockThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold must not be negative")
	}

	var item *models.Item
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return err
		}

		// An edit replaces the whole field set: omitted category, price,
		// and cost clear the stored values.
		loaded.Name = name
		loaded.Category = input.Category
		loaded.Price = input.Price
		loaded.Cost = input.Cost
		if input.LowStockThreshold != nil {
			loaded.LowStockThreshold = *input.LowStockThreshold
		}

		delta := 0
		if input.Quantity != nil {
			delta = *input.Quantity - loaded.Quantity
			loaded.Quantity = *input.Quantity
		}

		if err := repo.SaveItem(ctx, loaded); err != nil {
			return err
		}
		if delta != 0 {
			if err := repo.AppendLedger(ctx, &models.LedgerEntry{
				ID:     uuid.New(),
				ItemID: loaded.ID,
				Delta:  delta,
			}); err != nil {
				return err
			}
		}
		if err := s.syncLowStock(ctx, repo, loaded); err != nil {
			return err
		}
		item = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return err
		}
		if err := repo.DeleteLedgerByItem(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteLowStock(ctx, id); err != nil {
			return err
		}
		return repo.DeleteItem(ctx, id)
	})
}

// syncLowStock is the single reconciliation point for the low-stock view.
// Every mutation path calls it after the item row is up to date: the view row
// exists exactly when quantity is at or below the threshold.
func (s *service) syncLowStock(ctx context.Context, repo *Repository, item *models.Item) error {
	if item.Quantity > item.LowStockThreshold {
		return repo.DeleteLowStock(ctx, item.ID)
	}

	entry, err := repo.FindLowStock(ctx, item.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		entry = &models.LowStockEntry{ID: uuid.New(), ItemID: item.ID}
	}
	entry.Name = item.Name
	entry.SKU = item.SKU
	entry.Quantity = item.Quantity
	entry.LowStockThreshold = item.LowStockThreshold
	entry.LastSyncedAt = s.now().UTC()
	return repo.SaveLowStock(ctx, entry)
}
