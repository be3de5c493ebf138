package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/internal/emi"
	"github.com/SachinNic1502/lapkart-backend/internal/products"
	"github.com/SachinNic1502/lapkart-backend/internal/sequence"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

// OrderSequenceKey names the counter that order identifiers draw from.
const OrderSequenceKey = "order_seq"

var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusCreated:         {enums.OrderStatusAwaitingPayment, enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusAwaitingPayment: {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:            {enums.OrderStatusFulfilling, enums.OrderStatusCompleted},
	enums.OrderStatusFulfilling:      {enums.OrderStatusCompleted},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Service exposes the order lifecycle.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*View, error)
	Get(ctx context.Context, userID uuid.UUID, orderID string) (*View, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListResult, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, orderID string, req UpdateStatusRequest) (*View, error)
	Cancel(ctx context.Context, userID uuid.UUID, orderID string) (*View, error)
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	DB          *db.Client
	Repo        Repository
	ProductRepo products.Repository
	EmiService  emi.Service
	EmiRepo     emi.Repository
	Allocator   sequence.Allocator
	Sequence    config.SequenceConfig
	Logger      *logger.Logger
}

type service struct {
	db          *db.Client
	repo        Repository
	productRepo products.Repository
	emiSvc      emi.Service
	emiRepo     emi.Repository
	alloc       sequence.Allocator
	seqCfg      config.SequenceConfig
	logg        *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.EmiService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "emi service is required")
	}
	if params.EmiRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "emi repo is required")
	}
	if params.Allocator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sequence allocator is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Sequence.OrderPrefix == "" {
		params.Sequence.OrderPrefix = "ORD"
	}
	return &service{
		db:          params.DB,
		repo:        params.Repo,
		productRepo: params.ProductRepo,
		emiSvc:      params.EmiService,
		emiRepo:     params.EmiRepo,
		alloc:       params.Allocator,
		seqCfg:      params.Sequence,
		logg:        params.Logger,
	}, nil
}

// Create runs the unified checkout path. Direct and financed purchases share
// the same transaction: identifier allocation, plan creation, and the order
// insert all commit or roll back together.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if req.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if req.Financing != nil && (len(req.Items) != 1 || req.Items[0].Quantity != 1) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "financed purchases cover a single unit")
	}

	catalog := make([]*models.Product, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least one")
		}
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
		}
		if product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		catalog = append(catalog, product)
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var view *View
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		value, err := s.alloc.WithTx(tx).Next(ctx, OrderSequenceKey)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:            uuid.New(),
			OrderID:       sequence.FormatOrderID(s.seqCfg.OrderPrefix, s.seqCfg.OrderPadWidth, value),
			UserID:        userID,
			AddressID:     req.AddressID,
			TotalAmount:   total.Round(2),
			PaymentMethod: method,
			Status:        enums.OrderStatusAwaitingPayment,
		}
		// COD collects on delivery; there is no gateway capture to wait for.
		if method == enums.PaymentMethodCOD {
			order.Status = enums.OrderStatusPaid
		}

		if req.Financing != nil {
			plan, err := s.emiSvc.BuildPlan(ctx, emi.PlanInput{
				ProductID:         catalog[0].ID,
				UserID:            userID,
				Price:             catalog[0].Price,
				DownPayment:       req.Financing.DownPayment,
				TermMonths:        req.Financing.LoanTerm,
				AnnualRatePercent: req.Financing.AnnualInterestRate,
				ProcessingFee:     req.Financing.ProcessingFee,
				TaxPercent:        req.Financing.GstPercentage,
			})
			if err != nil {
				return err
			}
			if err := s.emiRepo.WithTx(tx).CreatePlan(ctx, plan); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating emi plan")
			}
			order.EmiPlanID = &plan.ID
			order.TotalAmount = plan.TotalPayment
		}

		for i, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: catalog[i].Price,
			})
		}

		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		view = toView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id": view.OrderID,
		"financed": view.EmiPlanID != nil,
		"method":   view.PaymentMethod.String(),
	})
	s.logg.Info(ctx, "order created")
	return view, nil
}

// Get returns one order by its public identifier. Passing uuid.Nil as userID
// skips the ownership check for admin callers.
func (s *service) Get(ctx context.Context, userID uuid.UUID, orderID string) (*View, error) {
	order, err := s.load(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toView(order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	orders, next, err := s.repo.List(ctx, ListQuery{UserID: &userID, Limit: params.Limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toListResult(orders, next), nil
}

// ListAll is the admin view over every order, optionally filtered by status.
func (s *service) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	orders, next, err := s.repo.List(ctx, ListQuery{Status: status, Limit: params.Limit, Cursor: cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toListResult(orders, next), nil
}

// UpdateStatus applies one validated lifecycle transition. Passing uuid.Nil
// as userID skips the ownership check for admin callers.
func (s *service) UpdateStatus(ctx context.Context, userID uuid.UUID, orderID string, req UpdateStatusRequest) (*View, error) {
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.load(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
			WithDetails(map[string]string{"from": order.Status.String(), "to": target.String()})
	}

	moved, err := s.repo.TransitionStatus(ctx, order.ID, order.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
	}

	order.Status = target
	return toView(order), nil
}

// Cancel rejects any order that has already reached paid.
func (s *service) Cancel(ctx context.Context, userID uuid.UUID, orderID string) (*View, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusCreated && order.Status != enums.OrderStatusAwaitingPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
	}

	moved, err := s.repo.TransitionStatus(ctx, order.ID, order.Status, enums.OrderStatusCancelled)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancelling order")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order changed concurrently")
	}

	order.Status = enums.OrderStatusCancelled
	return toView(order), nil
}

func (s *service) loadOwned(ctx context.Context, userID uuid.UUID, orderID string) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	return s.load(ctx, userID, orderID)
}

func (s *service) load(ctx context.Context, userID uuid.UUID, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	if order == nil || (userID != uuid.Nil && order.UserID != userID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func toView(order *models.Order) *View {
	view := &View{
		ID:            order.ID,
		OrderID:       order.OrderID,
		AddressID:     order.AddressID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		PaymentRef:    order.PaymentRef,
		EmiPlanID:     order.EmiPlanID,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, ItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return view
}

func toListResult(orders []models.Order, next *pagination.Cursor) *ListResult {
	result := &ListResult{Orders: make([]View, 0, len(orders))}
	for i := range orders {
		result.Orders = append(result.Orders, *toView(&orders[i]))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result
}
