package address

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/config"
	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

type stubAddressRepo struct {
	byID          map[uuid.UUID]*models.Address
	clearedFor    []uuid.UUID
	deleteReturns bool
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{byID: map[uuid.UUID]*models.Address{}}
}

func (s *stubAddressRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAddressRepo) Create(ctx context.Context, address *models.Address) error {
	cp := *address
	s.byID[address.ID] = &cp
	return nil
}

func (s *stubAddressRepo) Update(ctx context.Context, address *models.Address) error {
	cp := *address
	s.byID[address.ID] = &cp
	return nil
}

func (s *stubAddressRepo) FindForUser(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, ok := s.byID[addressID]
	if !ok || addr.UserID != userID {
		return nil, nil
	}
	cp := *addr
	return &cp, nil
}

func (s *stubAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, addr := range s.byID {
		if addr.UserID == userID {
			out = append(out, *addr)
		}
	}
	return out, nil
}

func (s *stubAddressRepo) Delete(ctx context.Context, userID, addressID uuid.UUID) (bool, error) {
	addr, ok := s.byID[addressID]
	if !ok || addr.UserID != userID {
		return false, nil
	}
	delete(s.byID, addressID)
	return true, nil
}

func (s *stubAddressRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	s.clearedFor = append(s.clearedFor, userID)
	for _, addr := range s.byID {
		if addr.UserID == userID {
			addr.IsDefault = false
		}
	}
	return nil
}

func newAddressService(t *testing.T, repo Repository) Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "address-test", Output: io.Discard})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    "file::memory:?cache=shared",
	}, logg)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{DB: client, Repo: repo})
	require.NoError(t, err)
	return svc
}

func validSave() SaveRequest {
	return SaveRequest{
		Line1:      "  12 MG Road ",
		City:       "Pune",
		State:      "Maharashtra",
		PostalCode: "411001",
		Country:    "India",
	}
}

func TestAddressService_CreateTrimsFields(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newAddressService(t, repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, validSave())
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", created.Line1)
	assert.Equal(t, userID, created.UserID)
	assert.Empty(t, repo.clearedFor)
}

func TestAddressService_CreateDefaultDemotesOthers(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, func() SaveRequest {
		req := validSave()
		req.IsDefault = true
		return req
	}())
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), userID, func() SaveRequest {
		req := validSave()
		req.City = "Mumbai"
		req.IsDefault = true
		return req
	}())
	require.NoError(t, err)

	assert.False(t, repo.byID[first.ID].IsDefault)
	assert.True(t, repo.byID[second.ID].IsDefault)
	assert.Len(t, repo.clearedFor, 2)
}

func TestAddressService_CreateValidation(t *testing.T) {
	svc := newAddressService(t, newStubAddressRepo())

	tests := []struct {
		name   string
		mutate func(*SaveRequest)
	}{
		{name: "missing line1", mutate: func(r *SaveRequest) { r.Line1 = " " }},
		{name: "missing city", mutate: func(r *SaveRequest) { r.City = "" }},
		{name: "missing state", mutate: func(r *SaveRequest) { r.State = "" }},
		{name: "missing postal code", mutate: func(r *SaveRequest) { r.PostalCode = "" }},
		{name: "missing country", mutate: func(r *SaveRequest) { r.Country = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validSave()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), uuid.New(), req)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestAddressService_GetNotFoundForStranger(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newAddressService(t, repo)

	created, err := svc.Create(context.Background(), uuid.New(), validSave())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestAddressService_UpdatePromotesDefault(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newAddressService(t, repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, validSave())
	require.NoError(t, err)

	req := validSave()
	req.City = "Nagpur"
	req.IsDefault = true
	updated, err := svc.Update(context.Background(), userID, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Nagpur", updated.City)
	assert.True(t, updated.IsDefault)
	assert.Len(t, repo.clearedFor, 1)
}

func TestAddressService_DeleteMissing(t *testing.T) {
	svc := newAddressService(t, newStubAddressRepo())

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestAddressService_RequiresIdentity(t *testing.T) {
	svc := newAddressService(t, newStubAddressRepo())

	_, err := svc.Create(context.Background(), uuid.Nil, validSave())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}
