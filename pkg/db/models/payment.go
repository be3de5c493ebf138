package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
)

// Payment is a captured gateway payment tied to an order.
type Payment struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	GatewayOrderID   string              `gorm:"column:gateway_order_id;not null"`
	GatewayPaymentID string              `gorm:"column:gateway_payment_id;not null;uniqueIndex"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status           enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'initiated'"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
}
