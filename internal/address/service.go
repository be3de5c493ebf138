package address

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"gorm.io/gorm"
)

// SaveRequest carries the fields a caller may set on an address.
type SaveRequest struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	IsDefault  bool    `json:"isDefault"`
}

// Service exposes address book operations scoped to a user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req SaveRequest) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req SaveRequest) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

// ServiceParams bundles the dependencies for NewService.
type ServiceParams struct {
	DB   *db.Client
	Repo Repository
}

type service struct {
	db   *db.Client
	repo Repository
}

// NewService validates its dependencies and returns an address Service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repository is required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req SaveRequest) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	if err := validateSave(req); err != nil {
		return nil, err
	}

	address := &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      req.Line2,
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		PostalCode: strings.TrimSpace(req.PostalCode),
		Country:    strings.TrimSpace(req.Country),
		IsDefault:  req.IsDefault,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if err := repo.Create(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	address, err := s.repo.FindForUser(ctx, userID, addressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find address")
	}
	if address == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return address, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req SaveRequest) (*models.Address, error) {
	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if err := validateSave(req); err != nil {
		return nil, err
	}

	address.Line1 = strings.TrimSpace(req.Line1)
	address.Line2 = req.Line2
	address.City = strings.TrimSpace(req.City)
	address.State = strings.TrimSpace(req.State)
	address.PostalCode = strings.TrimSpace(req.PostalCode)
	address.Country = strings.TrimSpace(req.Country)

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if req.IsDefault && !address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		address.IsDefault = req.IsDefault
		if err := repo.Update(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity is required")
	}
	deleted, err := s.repo.Delete(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func validateSave(req SaveRequest) error {
	if strings.TrimSpace(req.Line1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "line1 is required")
	}
	if strings.TrimSpace(req.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(req.State) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	if strings.TrimSpace(req.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "postal code is required")
	}
	if strings.TrimSpace(req.Country) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}
	return nil
}
