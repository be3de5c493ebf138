package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

// CreateRequest is the payload for adding a catalog entry.
type CreateRequest struct {
	Title       string          `json:"title" validate:"required,min=2,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	Brand       *string         `json:"brand,omitempty" validate:"omitempty,max=100"`
	Category    string          `json:"category" validate:"required,min=2,max=100"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Refurbished bool            `json:"refurbished"`
	Stock       int             `json:"stock" validate:"min=0"`
}

// ListRequest is the query surface for catalog browsing.
type ListRequest struct {
	Category    string
	Query       string
	Refurbished *bool
	Limit       int
	Cursor      string
}

// ListResult is one catalog page with an optional continuation cursor.
type ListResult struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Brand:       req.Brand,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Price:       req.Price.Round(2),
		Refurbished: req.Refurbished,
		Stock:       req.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(req.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	items, next, err := s.repo.List(ctx, ListQuery{
		Category:    req.Category,
		Query:       req.Query,
		Refurbished: req.Refurbished,
		Limit:       req.Limit,
		Cursor:      cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	result := &ListResult{Products: items}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}
