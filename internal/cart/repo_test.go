package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM cart_items").Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, qty int) *models.CartItem {
	t.Helper()

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.NewFromInt(45000),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryFindItem(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	seedItem(t, db, userID, productID, 2)

	found, err := repo.FindItem(ctx, userID, productID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Quantity)

	missing, err := repo.FindItem(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryRemove(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	seedItem(t, db, userID, productID, 1)

	removed, err := repo.Remove(ctx, userID, productID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, userID, productID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepositoryClear_scopedToUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	other := uuid.New()
	seedItem(t, db, userID, uuid.New(), 1)
	seedItem(t, db, userID, uuid.New(), 2)
	seedItem(t, db, other, uuid.New(), 1)

	require.NoError(t, repo.Clear(ctx, userID))

	mine, err := repo.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := repo.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
