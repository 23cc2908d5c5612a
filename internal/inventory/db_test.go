package inventory

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT,
  price NUMERIC,
  cost NUMERIC,
  quantity INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 10,
  created_at DATETIME,
  updated_at DATETIME
);`
	ledger := `
CREATE TABLE IF NOT EXISTS ledger_entries (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL,
  delta INTEGER NOT NULL,
  occurred_at DATETIME
);`
	lowStock := `
CREATE TABLE IF NOT EXISTS low_stock_entries (
  id TEXT PRIMARY KEY,
  item_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  low_stock_threshold INTEGER NOT NULL,
  last_synced_at DATETIME
);`

	for _, ddl := range []string{items, ledger, lowStock} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}
