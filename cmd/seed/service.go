package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocktrackhq/stocktrack-backend/internal/inventory"
	"github.com/stocktrackhq/stocktrack-backend/pkg/config"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
)

const retryBaseDelay = 500 * time.Millisecond

type itemCreator interface {
	CreateItem(ctx context.Context, input inventory.CreateItemInput) (*models.Item, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// catalogItem mirrors the payload served by an upstream catalog export.
type catalogItem struct {
	Name              string   `json:"name"`
	SKU               string   `json:"sku"`
	StockLevel        int      `json:"stock_level"`
	Category          *string  `json:"category"`
	Price             *float64 `json:"price"`
	Cost              *float64 `json:"cost"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
}

// Seeder wipes the local catalog and repopulates it, either from a remote
// catalog endpoint or from built-in samples when no source is configured or
// reachable.
type Seeder struct {
	cfg     config.SeedConfig
	creator itemCreator
	tx      txRunner
	client  httpDoer
	log     *logger.Logger
}

func NewSeeder(cfg config.SeedConfig, creator itemCreator, tx txRunner, client httpDoer, log *logger.Logger) (*Seeder, error) {
	if creator == nil {
		return nil, fmt.Errorf("item creator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	return &Seeder{cfg: cfg, creator: creator, tx: tx, client: client, log: log}, nil
}

// Run clears the existing catalog and inserts the fetched (or fallback)
// items through the inventory service so the ledger-free baseline and the
// low-stock view are established the same way a live create would.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	if err := s.reset(ctx); err != nil {
		return 0, fmt.Errorf("clearing catalog: %w", err)
	}

	items := s.fetchCatalog(ctx)
	if len(items) == 0 {
		items = sampleItems()
		if s.log != nil {
			s.log.Info(ctx, "using built-in sample catalog")
		}
	}

	created := 0
	for _, item := range items {
		input := toCreateInput(item)
		if _, err := s.creator.CreateItem(ctx, input); err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeConflict {
				if s.log != nil {
					s.log.Warn(ctx, fmt.Sprintf("skipping duplicate sku %q", input.SKU))
				}
				continue
			}
			return created, fmt.Errorf("creating item %q: %w", input.SKU, err)
		}
		created++
	}
	return created, nil
}

func (s *Seeder) reset(ctx context.Context) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.LedgerEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.LowStockEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Item{}).Error
	})
}

// fetchCatalog pulls the remote catalog with exponential backoff. Any
// terminal failure falls back to the sample data rather than aborting the
// seed.
func (s *Seeder) fetchCatalog(ctx context.Context) []catalogItem {
	if s.cfg.SourceURL == "" {
		return nil
	}

	attempts := s.cfg.FetchAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var items []catalogItem
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetched, err := s.fetchOnce(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		items = fetched
		return nil
	})
	if err != nil {
		if s.log != nil {
			s.log.Error(ctx, "catalog fetch failed, falling back to samples", err)
		}
		return nil
	}
	return items
}

func (s *Seeder) fetchOnce(ctx context.Context) ([]catalogItem, error) {
	reqCtx := ctx
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.cfg.SourceURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var items []catalogItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding catalog payload: %w", err)
	}
	for _, item := range items {
		if item.Name == "" || item.SKU == "" {
			return nil, errors.New("catalog payload contains items without name or sku")
		}
	}
	return items, nil
}

func toCreateInput(item catalogItem) inventory.CreateItemInput {
	input := inventory.CreateItemInput{
		Name:              item.Name,
		SKU:               item.SKU,
		Category:          item.Category,
		Quantity:          item.StockLevel,
		LowStockThreshold: item.LowStockThreshold,
	}
	if item.Price != nil {
		price := decimal.NewFromFloat(*item.Price)
		input.Price = &price
	}
	if item.Cost != nil {
		cost := decimal.NewFromFloat(*item.Cost)
		input.Cost = &cost
	}
	return input
}

func sampleItems() []catalogItem {
	electronics := "Electronics"
	peripherals := "Peripherals"
	laptopPrice, laptopCost := 1200.0, 800.0
	keyboardPrice, keyboardCost := 80.0, 40.0
	keyboardThreshold := 5

	return []catalogItem{
		{
			Name:       "Laptop Pro",
			SKU:        "LAP-DEF",
			StockLevel: 50,
			Category:   &electronics,
			Price:      &laptopPrice,
			Cost:       &laptopCost,
		},
		{
			Name:              "Gaming Keyboard",
			SKU:               "KB-DEF",
			StockLevel:        15,
			Category:          &peripherals,
			Price:             &keyboardPrice,
			Cost:              &keyboardCost,
			LowStockThreshold: &keyboardThreshold,
		},
	}
}
