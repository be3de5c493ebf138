package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

// ListQuery configures catalog list queries.
type ListQuery struct {
	Category    string
	Query       string
	Refurbished *bool
	Limit       int
	Cursor      *pagination.Cursor
}

// Repository handles catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if category := strings.TrimSpace(params.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if params.Refurbished != nil {
		query = query.Where("refurbished = ?", *params.Refurbished)
	}
	if search := strings.TrimSpace(params.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var items []models.Product
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&items).Error; err != nil {
		return nil, nil, err
	}

	if len(items) > limit {
		next := items[limit]
		items = items[:limit]
		return items, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return items, nil, nil
}
