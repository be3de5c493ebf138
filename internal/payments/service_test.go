package payments

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/internal/cart"
	"github.com/SachinNic1502/lapkart-backend/internal/orders"
	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

type stubGateway struct {
	orderID   string
	createErr error
	valid     bool
	lastPaise int64
}

func (s *stubGateway) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (string, error) {
	s.lastPaise = amountPaise
	return s.orderID, s.createErr
}

func (s *stubGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return s.valid
}

type stubOrderRepo struct {
	order  *models.Order
	marked bool
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if s.order != nil && s.order.OrderID == orderID {
		return s.order, nil
	}
	return nil, nil
}

func (s *stubOrderRepo) List(ctx context.Context, query orders.ListQuery) ([]models.Order, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubOrderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	return false, nil
}

func (s *stubOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	return s.marked, nil
}

type stubPaymentRepo struct {
	created *models.Payment
	found   *models.Payment
	list    []models.Payment
}

func (s *stubPaymentRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	s.created = payment
	return nil
}

func (s *stubPaymentRepo) FindForUser(ctx context.Context, userID, paymentID uuid.UUID) (*models.Payment, error) {
	return s.found, nil
}

func (s *stubPaymentRepo) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	return s.list, nil
}

type stubCartRepo struct {
	cleared bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) Update(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return nil
}

type paymentFixture struct {
	svc       Service
	gateway   *stubGateway
	orderRepo *stubOrderRepo
	repo      *stubPaymentRepo
	cartRepo  *stubCartRepo
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	fixture := &paymentFixture{
		gateway:   &stubGateway{orderID: "order_abc", valid: true},
		orderRepo: &stubOrderRepo{marked: true},
		repo:      &stubPaymentRepo{},
		cartRepo:  &stubCartRepo{},
	}
	svc, err := NewService(ServiceParams{
		DB:        client,
		Repo:      fixture.repo,
		OrderRepo: fixture.orderRepo,
		CartRepo:  fixture.cartRepo,
		Gateway:   fixture.gateway,
		Logger:    logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	fixture.svc = svc
	return fixture
}

func payableOrder(userID uuid.UUID) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderID:       "ORD007",
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("45000.50"),
		PaymentMethod: enums.PaymentMethodOnline,
		Status:        enums.OrderStatusAwaitingPayment,
	}
}

func TestServiceCreateOrder(t *testing.T) {
	fixture := newPaymentFixture(t)
	userID := uuid.New()
	fixture.orderRepo.order = payableOrder(userID)

	view, err := fixture.svc.CreateOrder(context.Background(), userID, CreateOrderRequest{OrderID: "ORD007"})
	require.NoError(t, err)

	assert.Equal(t, "order_abc", view.GatewayOrderID)
	assert.Equal(t, int64(4500050), view.AmountPaise)
	assert.Equal(t, "ORD007", view.Receipt)
	assert.Equal(t, int64(4500050), fixture.gateway.lastPaise)
}

func TestServiceCreateOrder_codRejected(t *testing.T) {
	fixture := newPaymentFixture(t)
	userID := uuid.New()
	order := payableOrder(userID)
	order.PaymentMethod = enums.PaymentMethodCOD
	order.Status = enums.OrderStatusPaid
	fixture.orderRepo.order = order

	_, err := fixture.svc.CreateOrder(context.Background(), userID, CreateOrderRequest{OrderID: "ORD007"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestServiceCapture(t *testing.T) {
	fixture := newPaymentFixture(t)
	userID := uuid.New()
	fixture.orderRepo.order = payableOrder(userID)

	payment, err := fixture.svc.Capture(context.Background(), userID, CaptureRequest{
		OrderID:          "ORD007",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        "sig",
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusCaptured, payment.Status)
	assert.Equal(t, "pay_xyz", payment.GatewayPaymentID)
	require.NotNil(t, payment.PaidAt)
	require.NotNil(t, fixture.repo.created)
	assert.True(t, fixture.cartRepo.cleared)
}

func TestServiceCapture_invalidSignature(t *testing.T) {
	fixture := newPaymentFixture(t)
	fixture.gateway.valid = false
	userID := uuid.New()
	fixture.orderRepo.order = payableOrder(userID)

	_, err := fixture.svc.Capture(context.Background(), userID, CaptureRequest{
		OrderID:          "ORD007",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        "forged",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
	assert.Nil(t, fixture.repo.created)
	assert.False(t, fixture.cartRepo.cleared)
}

func TestServiceCapture_secondCaptureLoses(t *testing.T) {
	fixture := newPaymentFixture(t)
	fixture.orderRepo.marked = false
	userID := uuid.New()
	fixture.orderRepo.order = payableOrder(userID)

	_, err := fixture.svc.Capture(context.Background(), userID, CaptureRequest{
		OrderID:          "ORD007",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        "sig",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestServiceCapture_wrongOwner(t *testing.T) {
	fixture := newPaymentFixture(t)
	fixture.orderRepo.order = payableOrder(uuid.New())

	_, err := fixture.svc.Capture(context.Background(), uuid.New(), CaptureRequest{
		OrderID:          "ORD007",
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        "sig",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestServiceGet_notFound(t *testing.T) {
	fixture := newPaymentFixture(t)

	_, err := fixture.svc.Get(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
