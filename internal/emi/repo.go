package emi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
)

// Repository handles installment ledger persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePlan(ctx context.Context, plan *models.EmiPlan) error
	FindPlan(ctx context.Context, planID uuid.UUID) (*models.EmiPlan, error)
	FindInstallmentForUser(ctx context.Context, userID, installmentID uuid.UUID) (*models.Installment, error)
	MarkInstallmentPaid(ctx context.Context, userID, installmentID uuid.UUID, paidAt time.Time) (bool, error)
	CountUnpaidInstallments(ctx context.Context, planID uuid.UUID) (int64, error)
	SetPlanStatus(ctx context.Context, planID uuid.UUID, status enums.EmiPlanStatus) error
	CompleteOrderForPlan(ctx context.Context, planID uuid.UUID) error
	ListInstallmentsByStatus(ctx context.Context, userID uuid.UUID, status enums.InstallmentStatus) ([]InstallmentView, error)
	ListPlansByUser(ctx context.Context, userID uuid.UUID) ([]models.EmiPlan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an EMI repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePlan(ctx context.Context, plan *models.EmiPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) FindPlan(ctx context.Context, planID uuid.UUID) (*models.EmiPlan, error) {
	var plan models.EmiPlan
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("id = ?", planID).
		First(&plan).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) FindInstallmentForUser(ctx context.Context, userID, installmentID uuid.UUID) (*models.Installment, error) {
	var installment models.Installment
	if err := r.db.WithContext(ctx).
		Table("installments").
		Select("installments.*").
		Joins("JOIN emi_plans ON emi_plans.id = installments.plan_id").
		Where("installments.id = ? AND emi_plans.user_id = ?", installmentID, userID).
		First(&installment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &installment, nil
}

// MarkInstallmentPaid flips one installment from unpaid to paid with a
// conditional update. The status predicate makes the transition a
// compare-and-swap: of two racing callers only one sees a row updated.
func (r *repository) MarkInstallmentPaid(ctx context.Context, userID, installmentID uuid.UUID, paidAt time.Time) (bool, error) {
	owned := r.db.Model(&models.EmiPlan{}).Select("id").Where("user_id = ?", userID)
	res := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("id = ? AND status = ?", installmentID, enums.InstallmentStatusUnpaid).
		Where("plan_id IN (?)", owned).
		Updates(map[string]any{
			"status":    enums.InstallmentStatusPaid,
			"paid_date": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountUnpaidInstallments(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Installment{}).
		Where("plan_id = ? AND status = ?", planID, enums.InstallmentStatusUnpaid).
		Count(&count).Error
	return count, err
}

func (r *repository) SetPlanStatus(ctx context.Context, planID uuid.UUID, status enums.EmiPlanStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.EmiPlan{}).
		Where("id = ?", planID).
		Update("status", status).Error
}

// CompleteOrderForPlan rolls the order linked to a finished plan from paid to
// completed. Orders not yet paid are left alone.
func (r *repository) CompleteOrderForPlan(ctx context.Context, planID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("emi_plan_id = ? AND status = ?", planID, enums.OrderStatusPaid).
		Update("status", enums.OrderStatusCompleted).Error
}

type installmentRow struct {
	ID                 uuid.UUID
	PlanID             uuid.UUID
	Seq                int
	Amount             decimal.Decimal
	DueDate            time.Time
	Status             enums.InstallmentStatus
	PaidDate           *time.Time
	ProductID          uuid.UUID
	ProductTitle       string
	ProductPrice       decimal.Decimal
	ProductCategory    string
	ProductRefurbished bool
}

func (r *repository) ListInstallmentsByStatus(ctx context.Context, userID uuid.UUID, status enums.InstallmentStatus) ([]InstallmentView, error) {
	var rows []installmentRow
	err := r.db.WithContext(ctx).
		Table("installments").
		Select(`installments.id, installments.plan_id, installments.seq, installments.amount,
			installments.due_date, installments.status, installments.paid_date,
			products.id AS product_id, products.title AS product_title,
			products.price AS product_price, products.category AS product_category,
			products.refurbished AS product_refurbished`).
		Joins("JOIN emi_plans ON emi_plans.id = installments.plan_id").
		Joins("JOIN products ON products.id = emi_plans.product_id").
		Where("emi_plans.user_id = ? AND installments.status = ?", userID, status).
		Order("emi_plans.created_at ASC, installments.seq ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]InstallmentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, InstallmentView{
			ID:       row.ID,
			PlanID:   row.PlanID,
			Seq:      row.Seq,
			Amount:   row.Amount,
			DueDate:  row.DueDate,
			Status:   row.Status,
			PaidDate: row.PaidDate,
			Product: ProductSummary{
				ID:          row.ProductID,
				Title:       row.ProductTitle,
				Price:       row.ProductPrice,
				Category:    row.ProductCategory,
				Refurbished: row.ProductRefurbished,
			},
		})
	}
	return views, nil
}

func (r *repository) ListPlansByUser(ctx context.Context, userID uuid.UUID) ([]models.EmiPlan, error) {
	var plans []models.EmiPlan
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
