package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
)

// EmiPlan is the installment ledger for a financed purchase. It owns its
// installments exclusively; Status is derived from them and never written
// outside the pay-installment transaction.
type EmiPlan struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	UserID            uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	DownPayment       decimal.Decimal     `gorm:"column:down_payment;type:numeric(12,2);not null"`
	TermMonths        int                 `gorm:"column:term_months;not null"`
	AnnualRatePercent decimal.Decimal     `gorm:"column:annual_rate_percent;type:numeric(6,3);not null"`
	ProcessingFee     decimal.Decimal     `gorm:"column:processing_fee;type:numeric(12,2);not null"`
	TaxPercent        decimal.Decimal     `gorm:"column:tax_percent;type:numeric(6,3);not null"`
	TotalLoanAmount   decimal.Decimal     `gorm:"column:total_loan_amount;type:numeric(12,2);not null"`
	MonthlyPayment    decimal.Decimal     `gorm:"column:monthly_payment;type:numeric(12,2);not null"`
	TotalPayment      decimal.Decimal     `gorm:"column:total_payment;type:numeric(12,2);not null"`
	Status            enums.EmiPlanStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Product           *Product            `gorm:"foreignKey:ProductID"`
	Installments      []Installment       `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Installment is a single EMI entry. PaidDate is non-nil iff Status is paid.
type Installment struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PlanID    uuid.UUID               `gorm:"column:plan_id;type:uuid;not null;index"`
	Seq       int                     `gorm:"column:seq;not null"`
	Amount    decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	DueDate   time.Time               `gorm:"column:due_date;not null"`
	Status    enums.InstallmentStatus `gorm:"column:status;type:text;not null;default:'unpaid'"`
	PaidDate  *time.Time              `gorm:"column:paid_date"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}
