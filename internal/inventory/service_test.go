package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db/models"
	pkgerrors "github.com/stocktrackhq/stocktrack-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.FromConn(conn))
	require.NoError(t, err)
	return svc, repo, conn
}

func mustCreate(t *testing.T, svc Service, input CreateItemInput) *models.Item {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), input)
	require.NoError(t, err)
	return item
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func ledgerDeltas(t *testing.T, repo *Repository, itemID uuid.UUID) []int {
	t.Helper()
	entries, err := repo.ListLedgerByItem(context.Background(), itemID)
	require.NoError(t, err)
	deltas := make([]int, 0, len(entries))
	for _, entry := range entries {
		deltas = append(deltas, entry.Delta)
	}
	return deltas
}

func TestCreateItemDefaultsAndViewSeed(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-1", Quantity: 4})
	assert.Equal(t, 10, item.LowStockThreshold)
	assert.NotEqual(t, uuid.Nil, item.ID)

	// Opening quantity is a baseline, never a ledger movement.
	assert.Empty(t, ledgerDeltas(t, repo, item.ID))

	entry, err := repo.FindLowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Quantity)
	assert.Equal(t, "WID-1", entry.SKU)
	assert.False(t, entry.LastSyncedAt.IsZero())
}

func TestCreateItemAboveThresholdHasNoViewRow(t *testing.T) {
	svc, repo, _ := newTestService(t)

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-2", Quantity: 50})
	_, err := repo.FindLowStock(context.Background(), item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	svc, _, _ := newTestService(t)

	mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-3", Quantity: 1})
	_, err := svc.CreateItem(context.Background(), CreateItemInput{Name: "Other", SKU: "WID-3"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{Name: "  ", SKU: "X"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateItem(ctx, CreateItemInput{Name: "X", SKU: ""})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateItem(ctx, CreateItemInput{Name: "X", SKU: "X", Quantity: -1})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateItem(ctx, CreateItemInput{Name: "X", SKU: "X", LowStockThreshold: intPtr(-2)})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestPurchaseRestockRoundTrip(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-4", Quantity: 50})

	item, err := svc.PurchaseItem(ctx, item.ID, 45)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	// 5 <= 10, the view row must exist now.
	entry, err := repo.FindLowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)

	item, err = svc.RestockItem(ctx, item.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 25, item.Quantity)

	_, err = repo.FindLowStock(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Equal(t, []int{-45, 20}, ledgerDeltas(t, repo, item.ID))
}

func TestQuantityEqualsBaselinePlusDeltas(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-5", Quantity: 30})
	_, err := svc.RestockItem(ctx, item.ID, 12)
	require.NoError(t, err)
	_, err = svc.PurchaseItem(ctx, item.ID, 7)
	require.NoError(t, err)
	updated, err := svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget", Quantity: intPtr(40)})
	require.NoError(t, err)

	sum := 0
	for _, delta := range ledgerDeltas(t, repo, item.ID) {
		sum += delta
	}
	assert.Equal(t, updated.Quantity, 30+sum)
}

func TestPurchaseEntireStock(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-6", Quantity: 8})
	item, err := svc.PurchaseItem(ctx, item.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)

	entry, err := repo.FindLowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Quantity)
}

func TestPurchaseInsufficientStockLeavesStateUntouched(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-7", Quantity: 3})
	_, err := svc.PurchaseItem(ctx, item.ID, 4)
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Quantity)
	assert.Empty(t, ledgerDeltas(t, repo, item.ID))
}

func TestMovementQuantityMustBePositive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-8", Quantity: 3})

	_, err := svc.PurchaseItem(ctx, item.ID, 0)
	requireCode(t, err, pkgerrors.CodeInvalidQuantity)
	_, err = svc.RestockItem(ctx, item.ID, -2)
	requireCode(t, err, pkgerrors.CodeInvalidQuantity)
}

func TestMovementUnknownItem(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.PurchaseItem(context.Background(), uuid.New(), 1)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestEditQuantityWritesDelta(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-9", Quantity: 20})

	updated, err := svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget XL", Quantity: intPtr(14)})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.Quantity)
	assert.Equal(t, "Widget XL", updated.Name)
	assert.Equal(t, []int{-6}, ledgerDeltas(t, repo, item.ID))

	// Unchanged quantity writes nothing to the ledger.
	_, err = svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget XL", Quantity: intPtr(14)})
	require.NoError(t, err)
	assert.Equal(t, []int{-6}, ledgerDeltas(t, repo, item.ID))
}

func TestEditThresholdResyncsView(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-10", Quantity: 15})
	_, err := repo.FindLowStock(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Raising the threshold above the quantity pulls the item into the view.
	_, err = svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget", LowStockThreshold: intPtr(20)})
	require.NoError(t, err)
	entry, err := repo.FindLowStock(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, entry.LowStockThreshold)

	// Lowering it back pushes the item out again.
	_, err = svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget", LowStockThreshold: intPtr(5)})
	require.NoError(t, err)
	_, err = repo.FindLowStock(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEditKeepsSKU(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-11", Quantity: 2})
	updated, err := svc.EditItem(ctx, item.ID, EditItemInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "WID-11", updated.SKU)
}

func TestEditReplacesFullFieldSet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{
		Name:     "Widget",
		SKU:      "WID-13",
		Category: strPtr("Electronics"),
		Quantity: 18,
	})

	// Omitting the name rejects the edit outright.
	_, err := svc.EditItem(ctx, item.ID, EditItemInput{Quantity: intPtr(18)})
	requireCode(t, err, pkgerrors.CodeValidation)

	reloaded, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Category)
	assert.Equal(t, "Electronics", *reloaded.Category)

	// Omitting category on a valid edit clears it; omitting quantity keeps it.
	updated, err := svc.EditItem(ctx, item.ID, EditItemInput{Name: "Widget"})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
	assert.Equal(t, 18, updated.Quantity)
}

func TestFindByIDForUpdateLoadsRow(t *testing.T) {
	svc, repo, conn := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-14", Quantity: 6})

	err := db.FromConn(conn).WithTx(ctx, func(tx *gorm.DB) error {
		loaded, err := repo.WithTx(tx).FindByIDForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, 6, loaded.Quantity)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.FindByIDForUpdate(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteItemRemovesLedgerAndView(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	item := mustCreate(t, svc, CreateItemInput{Name: "Widget", SKU: "WID-12", Quantity: 2})
	_, err := svc.RestockItem(ctx, item.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))

	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, ledgerDeltas(t, repo, item.ID))
	_, err = repo.FindLowStock(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeleteItem(ctx, item.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetAndListItems(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, CreateItemInput{Name: "A", SKU: "SKU-A", Quantity: 1})
	mustCreate(t, svc, CreateItemInput{Name: "B", SKU: "SKU-B", Quantity: 2})

	got, err := svc.GetItem(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	items, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.GetItem(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}
