package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

type stubProductRepo struct {
	created *models.Product
	found   *models.Product
	items   []models.Product
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error {
	s.created = product
	return nil
}

func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) error { return nil }

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.found, nil
}

func (s *stubProductRepo) List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return s.items, nil, nil
}

func TestServiceCreate_normalizesFields(t *testing.T) {
	repo := &stubProductRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	product, err := svc.Create(context.Background(), CreateRequest{
		Title:    "  ThinkPad X1  ",
		Category: "  Laptops ",
		Price:    decimal.RequireFromString("49999.999"),
		Stock:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "ThinkPad X1", product.Title)
	assert.Equal(t, "laptops", product.Category)
	assert.Equal(t, "50000", product.Price.String())
	require.NotNil(t, repo.created)
	assert.Equal(t, product.ID, repo.created.ID)
}

func TestServiceCreate_validation(t *testing.T) {
	svc, err := NewService(&stubProductRepo{})
	require.NoError(t, err)

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"missing title", CreateRequest{Category: "laptops", Price: decimal.NewFromInt(1000)}},
		{"missing category", CreateRequest{Title: "ThinkPad", Price: decimal.NewFromInt(1000)}},
		{"zero price", CreateRequest{Title: "ThinkPad", Category: "laptops"}},
		{"negative stock", CreateRequest{Title: "ThinkPad", Category: "laptops", Price: decimal.NewFromInt(1000), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestServiceGet_notFound(t *testing.T) {
	svc, err := NewService(&stubProductRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestServiceList_rejectsBadCursor(t *testing.T) {
	svc, err := NewService(&stubProductRepo{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), ListRequest{Cursor: "not-base64!!"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
