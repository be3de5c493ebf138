package emi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
)

// PreviewRequest mirrors the calculate-emi payload. Nothing is persisted for
// a preview; the caller supplies the price it is quoting against.
type PreviewRequest struct {
	ProductID          uuid.UUID       `json:"productId" validate:"required"`
	Price              decimal.Decimal `json:"price" validate:"required"`
	DownPayment        decimal.Decimal `json:"downPayment"`
	LoanTerm           int             `json:"loanTerm" validate:"required,min=1"`
	AnnualInterestRate decimal.Decimal `json:"annualInterestRate"`
	ProcessingFee      decimal.Decimal `json:"processingFee"`
	GstPercentage      decimal.Decimal `json:"gstPercentage"`
	Refurbished        bool            `json:"refurbished"`
}

// PreviewInstallment is one scheduled payment in a preview response.
type PreviewInstallment struct {
	Seq     int             `json:"seq"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
	Status  string          `json:"status"`
}

// PreviewResponse is the quoted schedule for a candidate financed purchase.
type PreviewResponse struct {
	Emi               decimal.Decimal      `json:"emi"`
	TotalPayment      decimal.Decimal      `json:"totalPayment"`
	TotalLoanAmount   decimal.Decimal      `json:"totalLoanAmount"`
	RefurbishedCharge decimal.Decimal      `json:"refurbishedLaptopCharge"`
	Installments      []PreviewInstallment `json:"emiDetails"`
}

// ProductSummary is the product slice carried on installment and plan views.
type ProductSummary struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Refurbished bool            `json:"refurbished"`
}

// InstallmentView joins an installment with its plan's product for the
// active/paid EMI listings.
type InstallmentView struct {
	ID       uuid.UUID               `json:"id"`
	PlanID   uuid.UUID               `json:"planId"`
	Seq      int                     `json:"seq"`
	Amount   decimal.Decimal         `json:"amount"`
	DueDate  time.Time               `json:"dueDate"`
	Status   enums.InstallmentStatus `json:"status"`
	PaidDate *time.Time              `json:"paidDate,omitempty"`
	Product  ProductSummary          `json:"product"`
}

// PlanView is a full plan with its product and ordered installments.
type PlanView struct {
	ID                uuid.UUID               `json:"id"`
	ProductID         uuid.UUID               `json:"productId"`
	DownPayment       decimal.Decimal         `json:"downPayment"`
	TermMonths        int                     `json:"termMonths"`
	AnnualRatePercent decimal.Decimal         `json:"annualRatePercent"`
	ProcessingFee     decimal.Decimal         `json:"processingFee"`
	TaxPercent        decimal.Decimal         `json:"taxPercent"`
	TotalLoanAmount   decimal.Decimal         `json:"totalLoanAmount"`
	MonthlyPayment    decimal.Decimal         `json:"monthlyPayment"`
	TotalPayment      decimal.Decimal         `json:"totalPayment"`
	Status            enums.EmiPlanStatus     `json:"status"`
	CreatedAt         time.Time               `json:"createdAt"`
	Product           *ProductSummary         `json:"product,omitempty"`
	Installments      []PlanInstallment       `json:"installments"`
}

// PlanInstallment is one installment inside a PlanView.
type PlanInstallment struct {
	ID       uuid.UUID               `json:"id"`
	Seq      int                     `json:"seq"`
	Amount   decimal.Decimal         `json:"amount"`
	DueDate  time.Time               `json:"dueDate"`
	Status   enums.InstallmentStatus `json:"status"`
	PaidDate *time.Time              `json:"paidDate,omitempty"`
}

// PayResult reports the outcome of a successful installment payment.
type PayResult struct {
	InstallmentID uuid.UUID           `json:"installmentId"`
	PlanID        uuid.UUID           `json:"planId"`
	PaidDate      time.Time           `json:"paidDate"`
	PlanStatus    enums.EmiPlanStatus `json:"planStatus"`
}
