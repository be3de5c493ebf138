package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
)

// ItemRequest is one product line in a checkout payload.
type ItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// FinancingRequest carries EMI terms when the purchase is financed. A nil
// financing block means direct checkout.
type FinancingRequest struct {
	DownPayment        decimal.Decimal `json:"downPayment"`
	LoanTerm           int             `json:"loanTerm" validate:"required,min=1"`
	AnnualInterestRate decimal.Decimal `json:"annualInterestRate"`
	ProcessingFee      decimal.Decimal `json:"processingFee"`
	GstPercentage      decimal.Decimal `json:"gstPercentage"`
}

// CreateRequest is the unified checkout payload for direct and financed
// purchases.
type CreateRequest struct {
	Items         []ItemRequest     `json:"items" validate:"required,min=1,dive"`
	AddressID     uuid.UUID         `json:"addressId" validate:"required"`
	PaymentMethod string            `json:"paymentMethod" validate:"required"`
	Financing     *FinancingRequest `json:"financing,omitempty"`
}

// UpdateStatusRequest asks for one lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ItemView is one order line in a response.
type ItemView struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// View is the order shape returned to clients.
type View struct {
	ID            uuid.UUID           `json:"id"`
	OrderID       string              `json:"orderId"`
	AddressID     uuid.UUID           `json:"addressId"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaymentRef    *string             `json:"paymentRef,omitempty"`
	EmiPlanID     *uuid.UUID          `json:"emiPlanId,omitempty"`
	Status        enums.OrderStatus   `json:"status"`
	Items         []ItemView          `json:"items"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ListResult is one page of orders with an optional continuation cursor.
type ListResult struct {
	Orders     []View `json:"orders"`
	NextCursor string `json:"nextCursor,omitempty"`
}
