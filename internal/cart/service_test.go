package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/internal/products"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

type stubCartRepo struct {
	existing *models.CartItem
	created  *models.CartItem
	updated  *models.CartItem
	items    []models.CartItem
	removed  bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return s.existing, nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	s.created = item
	return nil
}

func (s *stubCartRepo) Update(ctx context.Context, item *models.CartItem) error {
	s.updated = item
	return nil
}

func (s *stubCartRepo) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return s.removed, nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

type stubProducts struct {
	product *models.Product
}

func (s *stubProducts) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProducts) Create(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProducts) Update(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.product, nil
}

func (s *stubProducts) List(ctx context.Context, query products.ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return nil, nil, nil
}

func newCartService(t *testing.T, repo *stubCartRepo, catalog *stubProducts) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{Repo: repo, ProductRepo: catalog})
	require.NoError(t, err)
	return svc
}

func TestServiceAdd_newItem(t *testing.T) {
	repo := &stubCartRepo{}
	catalog := &stubProducts{product: &models.Product{
		ID:    uuid.New(),
		Price: decimal.NewFromInt(45000),
	}}
	svc := newCartService(t, repo, catalog)

	item, err := svc.Add(context.Background(), uuid.New(), AddRequest{
		ProductID: catalog.product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "45000", item.UnitPrice.String())
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.updated)
}

func TestServiceAdd_mergesExistingLine(t *testing.T) {
	productID := uuid.New()
	repo := &stubCartRepo{existing: &models.CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(40000),
	}}
	catalog := &stubProducts{product: &models.Product{
		ID:    productID,
		Price: decimal.NewFromInt(45000),
	}}
	svc := newCartService(t, repo, catalog)

	item, err := svc.Add(context.Background(), uuid.New(), AddRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "45000", item.UnitPrice.String())
	require.NotNil(t, repo.updated)
	assert.Nil(t, repo.created)
}

func TestServiceAdd_unknownProduct(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{}, &stubProducts{})

	_, err := svc.Add(context.Background(), uuid.New(), AddRequest{ProductID: uuid.New(), Quantity: 1})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestServiceList_total(t *testing.T) {
	repo := &stubCartRepo{items: []models.CartItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(45000)},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("1999.50")},
	}}
	svc := newCartService(t, repo, &stubProducts{})

	summary, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "91999.5", summary.Total.String())
}

func TestServiceRemove_missingItem(t *testing.T) {
	svc := newCartService(t, &stubCartRepo{removed: false}, &stubProducts{})

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
