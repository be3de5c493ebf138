package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price feeds the EMI amortization engine.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Description *string         `gorm:"column:description"`
	Brand       *string         `gorm:"column:brand"`
	Category    string          `gorm:"column:category;not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Refurbished bool            `gorm:"column:refurbished;not null;default:false"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
