package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SachinNic1502/lapkart-backend/api/middleware"
	"github.com/SachinNic1502/lapkart-backend/api/responses"
	"github.com/SachinNic1502/lapkart-backend/api/validators"
	emisvc "github.com/SachinNic1502/lapkart-backend/internal/emi"
	ordersvc "github.com/SachinNic1502/lapkart-backend/internal/orders"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

// EmiCalculate previews an amortization schedule without persisting anything.
func EmiCalculate(svc emisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload emisvc.PreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

type emiPlanCreateRequest struct {
	ProductID          uuid.UUID       `json:"productId" validate:"required"`
	AddressID          uuid.UUID       `json:"addressId" validate:"required"`
	PaymentMethod      string          `json:"paymentMethod,omitempty"`
	DownPayment        decimal.Decimal `json:"downPayment"`
	LoanTerm           int             `json:"loanTerm" validate:"required,min=1"`
	AnnualInterestRate decimal.Decimal `json:"annualInterestRate"`
	ProcessingFee      decimal.Decimal `json:"processingFee"`
	GstPercentage      decimal.Decimal `json:"gstPercentage"`
}

// EmiPlanCreate starts a financed purchase: it funnels into the unified
// order-creation path so the plan and order land in one transaction.
func EmiPlanCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload emiPlanCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method := strings.ToUpper(strings.TrimSpace(payload.PaymentMethod))
		if method == "" {
			method = string(enums.PaymentMethodOnline)
		}

		order, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), ordersvc.CreateRequest{
			Items:         []ordersvc.ItemRequest{{ProductID: payload.ProductID, Quantity: 1}},
			AddressID:     payload.AddressID,
			PaymentMethod: method,
			Financing: &ordersvc.FinancingRequest{
				DownPayment:        payload.DownPayment,
				LoanTerm:           payload.LoanTerm,
				AnnualInterestRate: payload.AnnualInterestRate,
				ProcessingFee:      payload.ProcessingFee,
				GstPercentage:      payload.GstPercentage,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type payInstallmentRequest struct {
	EmiID uuid.UUID `json:"emiId" validate:"required"`
}

// EmiPayInstallment marks one installment paid exactly once.
func EmiPayInstallment(svc emisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload payInstallmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PayInstallment(r.Context(), middleware.UserIDFromContext(r.Context()), payload.EmiID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// EmiActive lists the caller's unpaid installments.
func EmiActive(svc emisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return emiInstallmentsByStatus(svc, logg, enums.InstallmentStatusUnpaid)
}

// EmiPaid lists the caller's settled installments.
func EmiPaid(svc emisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return emiInstallmentsByStatus(svc, logg, enums.InstallmentStatusPaid)
}

func emiInstallmentsByStatus(svc emisvc.Service, logg *logger.Logger, status enums.InstallmentStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		installments, err := svc.ListInstallments(r.Context(), middleware.UserIDFromContext(r.Context()), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, installments)
	}
}

// EmiPlans lists the caller's financing plans with their schedules.
func EmiPlans(svc emisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := svc.ListPlans(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plans)
	}
}
