package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/internal/cart"
	"github.com/SachinNic1502/lapkart-backend/internal/orders"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

// Gateway is the payment collector the capture flow depends on.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// CreateOrderRequest asks the gateway for a collection order covering one
// existing order awaiting payment.
type CreateOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// GatewayOrderView is returned so the client can open the gateway checkout.
type GatewayOrderView struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	AmountPaise    int64  `json:"amountPaise"`
	Receipt        string `json:"receipt"`
}

// CaptureRequest is the signature-bearing callback payload after checkout.
type CaptureRequest struct {
	OrderID          string `json:"orderId" validate:"required"`
	GatewayOrderID   string `json:"gatewayOrderId" validate:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// Service exposes gateway order creation and signature-verified capture.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*GatewayOrderView, error)
	Capture(ctx context.Context, userID uuid.UUID, req CaptureRequest) (*models.Payment, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	Get(ctx context.Context, userID, paymentID uuid.UUID) (*models.Payment, error)
}

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	DB        *db.Client
	Repo      Repository
	OrderRepo orders.Repository
	CartRepo  cart.Repository
	Gateway   Gateway
	Logger    *logger.Logger
}

type service struct {
	db        *db.Client
	repo      Repository
	orderRepo orders.Repository
	cartRepo  cart.Repository
	gateway   Gateway
	logg      *logger.Logger
}

// NewService builds a payment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		db:        params.DB,
		repo:      params.Repo,
		orderRepo: params.OrderRepo,
		cartRepo:  params.CartRepo,
		gateway:   params.Gateway,
		logg:      params.Logger,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*GatewayOrderView, error) {
	order, err := s.loadPayableOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	amountPaise := order.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amountPaise, order.OrderID)
	if err != nil {
		return nil, err
	}

	return &GatewayOrderView{
		GatewayOrderID: gatewayOrderID,
		AmountPaise:    amountPaise,
		Receipt:        order.OrderID,
	}, nil
}

// Capture verifies the gateway signature, records the payment, flips the
// order to paid with its write-once payment reference, and clears the buyer's
// cart — all inside one transaction.
func (s *service) Capture(ctx context.Context, userID uuid.UUID, req CaptureRequest) (*models.Payment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway identifiers and signature are required")
	}
	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "payment signature verification failed")
	}

	order, err := s.loadPayableOrder(ctx, userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &models.Payment{
		ID:               uuid.New(),
		UserID:           userID,
		OrderID:          order.ID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Amount:           order.TotalAmount,
		Status:           enums.PaymentStatusCaptured,
		PaidAt:           &now,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		paid, err := s.orderRepo.WithTx(tx).MarkPaid(ctx, order.ID, req.GatewayPaymentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking order paid")
		}
		if !paid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already captured")
		}
		if err := s.repo.WithTx(tx).Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording payment")
		}
		if err := s.cartRepo.WithTx(tx).Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":           order.OrderID,
		"gateway_payment_id": req.GatewayPaymentID,
	})
	s.logg.Info(ctx, "payment captured")
	return payment, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing payments")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, userID, paymentID uuid.UUID) (*models.Payment, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if paymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	payment, err := s.repo.FindForUser(ctx, userID, paymentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading payment")
	}
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}

func (s *service) loadPayableOrder(ctx context.Context, userID uuid.UUID, orderID string) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	if order == nil || order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order does not use online payment")
	}
	if order.Status != enums.OrderStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	return order, nil
}
