package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/SachinNic1502/lapkart-backend/api/middleware"
	ordersvc "github.com/SachinNic1502/lapkart-backend/internal/orders"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/pagination"
)

type stubOrderService struct {
	created      *ordersvc.View
	createErr    error
	gotUser      uuid.UUID
	gotReq       ordersvc.CreateRequest
	listAllUser  bool
	gotStatus    *enums.OrderStatus
	updateActor  uuid.UUID
	updateResult *ordersvc.View
}

func (s *stubOrderService) Create(ctx context.Context, userID uuid.UUID, req ordersvc.CreateRequest) (*ordersvc.View, error) {
	s.gotUser = userID
	s.gotReq = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubOrderService) Get(ctx context.Context, userID uuid.UUID, orderID string) (*ordersvc.View, error) {
	return s.created, nil
}

func (s *stubOrderService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ordersvc.ListResult, error) {
	return &ordersvc.ListResult{}, nil
}

func (s *stubOrderService) ListAll(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ordersvc.ListResult, error) {
	s.listAllUser = true
	s.gotStatus = status
	return &ordersvc.ListResult{}, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, userID uuid.UUID, orderID string, req ordersvc.UpdateStatusRequest) (*ordersvc.View, error) {
	s.updateActor = userID
	return s.updateResult, nil
}

func (s *stubOrderService) Cancel(ctx context.Context, userID uuid.UUID, orderID string) (*ordersvc.View, error) {
	return s.created, nil
}

func TestOrderCreateReturnsGeneratedID(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{created: &ordersvc.View{OrderID: "ORD007"}}
	handler := OrderCreate(svc, controllerTestLogger())

	body := `{"items":[{"productId":"` + uuid.NewString() + `","quantity":1}],"addressId":"` + uuid.NewString() + `","paymentMethod":"ONLINE"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders/add", body, userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotUser != userID {
		t.Fatalf("expected caller identity to reach the service")
	}
	var envelope struct {
		Data ordersvc.View `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != "ORD007" {
		t.Fatalf("expected ORD007, got %s", envelope.Data.OrderID)
	}
}

func TestOrderCreatePropagatesAllocationFailure(t *testing.T) {
	svc := &stubOrderService{createErr: pkgerrors.New(pkgerrors.CodeAllocation, "allocate sequence value")}
	handler := OrderCreate(svc, controllerTestLogger())

	body := `{"items":[{"productId":"` + uuid.NewString() + `","quantity":1}],"addressId":"` + uuid.NewString() + `","paymentMethod":"COD"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders/add", body, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestOrderUpdateStatusAdminBypassesOwnership(t *testing.T) {
	svc := &stubOrderService{updateResult: &ordersvc.View{OrderID: "ORD001", Status: enums.OrderStatusFulfilling}}
	handler := OrderUpdateStatus(svc, controllerTestLogger())

	req := authedRequest(http.MethodPut, "/api/v1/orders/ORD001", `{"status":"fulfilling"}`, uuid.New())
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.UserRoleAdmin)))
	req = withChiParam(req, "orderId", "ORD001")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updateActor != uuid.Nil {
		t.Fatalf("expected admin to act without a user filter")
	}
}

func TestAdminOrderListRejectsBadStatus(t *testing.T) {
	svc := &stubOrderService{}
	handler := AdminOrderList(svc, controllerTestLogger())

	req := authedRequest(http.MethodGet, "/api/v1/admin/orders?status=shipped", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.listAllUser {
		t.Fatalf("service must not be called on invalid filter")
	}
}

func TestAdminOrderListPassesStatusFilter(t *testing.T) {
	svc := &stubOrderService{}
	handler := AdminOrderList(svc, controllerTestLogger())

	req := authedRequest(http.MethodGet, "/api/v1/admin/orders?status=paid", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotStatus == nil || *svc.gotStatus != enums.OrderStatusPaid {
		t.Fatalf("expected paid filter, got %v", svc.gotStatus)
	}
}
