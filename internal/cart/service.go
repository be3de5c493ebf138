package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/internal/products"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
)

// AddRequest adds one product to the authenticated user's cart.
type AddRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// Summary is the cart contents with the running total.
type Summary struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// Service exposes cart operations.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*models.CartItem, error)
	List(ctx context.Context, userID uuid.UUID) (*Summary, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
}

type service struct {
	repo        Repository
	productRepo products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo, productRepo: params.ProductRepo}, nil
}

// Add merges quantity into an existing line for the same product instead of
// duplicating it.
func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	existing, err := s.repo.FindItem(ctx, userID, req.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart item")
	}
	if existing != nil {
		existing.Quantity += req.Quantity
		existing.UnitPrice = product.Price
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart item")
		}
		return existing, nil
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding cart item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing cart items")
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &Summary{Items: items, Total: total.Round(2)}, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}
