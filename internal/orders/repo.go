package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

// ListQuery configures order list queries.
type ListQuery struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
	Limit  int
	Cursor *pagination.Cursor
}

// Repository handles order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context, query ListQuery) ([]models.Order, *pagination.Cursor, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&orders).Error; err != nil {
		return nil, nil, err
	}

	if len(orders) > limit {
		next := orders[limit]
		orders = orders[:limit]
		return orders, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return orders, nil, nil
}

// TransitionStatus applies one lifecycle transition with a conditional update
// keyed on the current status. A false return means the order was not in the
// expected source state.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkPaid moves an order from awaiting_payment to paid and stamps the
// payment reference. The payment_ref IS NULL predicate makes the reference
// write-once: a second capture attempt updates nothing.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_ref IS NULL", id, enums.OrderStatusAwaitingPayment).
		Updates(map[string]any{
			"status":      enums.OrderStatusPaid,
			"payment_ref": paymentRef,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
