package emi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SachinNic1502/lapkart-backend/pkg/db"
	"github.com/SachinNic1502/lapkart-backend/pkg/db/models"
	"github.com/SachinNic1502/lapkart-backend/pkg/enums"
	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
	"github.com/SachinNic1502/lapkart-backend/pkg/logger"
)

// Surcharge applied to refurbished units in preview quotes.
var refurbishedSurchargePercent = decimal.NewFromInt(18)

// PlanInput carries everything needed to construct a financed-purchase plan.
type PlanInput struct {
	ProductID         uuid.UUID
	UserID            uuid.UUID
	Price             decimal.Decimal
	DownPayment       decimal.Decimal
	TermMonths        int
	AnnualRatePercent decimal.Decimal
	ProcessingFee     decimal.Decimal
	TaxPercent        decimal.Decimal
	StartDate         time.Time
}

// Service exposes EMI quoting, the installment ledger, and plan listings.
type Service interface {
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error)
	BuildPlan(ctx context.Context, input PlanInput) (*models.EmiPlan, error)
	PayInstallment(ctx context.Context, userID, installmentID uuid.UUID) (*PayResult, error)
	ListInstallments(ctx context.Context, userID uuid.UUID, status enums.InstallmentStatus) ([]InstallmentView, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]PlanView, error)
}

// ServiceParams groups dependencies for the EMI service.
type ServiceParams struct {
	DB     *db.Client
	Repo   Repository
	Logger *logger.Logger
}

type service struct {
	db   *db.Client
	repo Repository
	logg *logger.Logger
}

// NewService builds an EMI service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "emi repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{db: params.DB, repo: params.Repo, logg: params.Logger}, nil
}

// Preview quotes a schedule without persisting anything.
func (s *service) Preview(_ context.Context, req PreviewRequest) (*PreviewResponse, error) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:             req.Price,
		DownPayment:       req.DownPayment,
		TermMonths:        req.LoanTerm,
		AnnualRatePercent: req.AnnualInterestRate,
		ProcessingFee:     req.ProcessingFee,
		TaxPercent:        req.GstPercentage,
	})
	if err != nil {
		return nil, err
	}

	refurbishedCharge := decimal.Zero
	if req.Refurbished {
		refurbishedCharge = req.Price.Mul(refurbishedSurchargePercent).Div(hundred).Round(2)
	}

	installments := make([]PreviewInstallment, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		installments = append(installments, PreviewInstallment{
			Seq:     entry.Seq,
			Amount:  entry.Amount,
			DueDate: entry.DueDate,
			Status:  enums.InstallmentStatusUnpaid.String(),
		})
	}

	return &PreviewResponse{
		Emi:               schedule.MonthlyPayment,
		TotalPayment:      schedule.TotalPayment,
		TotalLoanAmount:   schedule.TotalLoanAmount,
		RefurbishedCharge: refurbishedCharge,
		Installments:      installments,
	}, nil
}

// BuildPlan computes the schedule and assembles the plan aggregate without
// persisting it. The order-creation transaction stores the returned plan so a
// ledger write failure aborts the whole purchase.
func (s *service) BuildPlan(_ context.Context, input PlanInput) (*models.EmiPlan, error) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:             input.Price,
		DownPayment:       input.DownPayment,
		TermMonths:        input.TermMonths,
		AnnualRatePercent: input.AnnualRatePercent,
		ProcessingFee:     input.ProcessingFee,
		TaxPercent:        input.TaxPercent,
		StartDate:         input.StartDate,
	})
	if err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	plan := &models.EmiPlan{
		ID:                uuid.New(),
		ProductID:         input.ProductID,
		UserID:            input.UserID,
		DownPayment:       input.DownPayment,
		TermMonths:        input.TermMonths,
		AnnualRatePercent: input.AnnualRatePercent,
		ProcessingFee:     input.ProcessingFee,
		TaxPercent:        input.TaxPercent,
		TotalLoanAmount:   schedule.TotalLoanAmount,
		MonthlyPayment:    schedule.MonthlyPayment,
		TotalPayment:      schedule.TotalPayment,
		Status:            enums.EmiPlanStatusPending,
	}
	for _, entry := range schedule.Entries {
		plan.Installments = append(plan.Installments, models.Installment{
			ID:      uuid.New(),
			PlanID:  plan.ID,
			Seq:     entry.Seq,
			Amount:  entry.Amount,
			DueDate: entry.DueDate,
			Status:  enums.InstallmentStatusUnpaid,
		})
	}
	return plan, nil
}

// PayInstallment settles one unpaid installment. The status flip, the plan
// rollup, and the order completion cascade happen in a single transaction so
// no observer sees a paid installment under a stale plan status.
func (s *service) PayInstallment(ctx context.Context, userID, installmentID uuid.UUID) (*PayResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if installmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "installment id is required")
	}

	now := time.Now().UTC()
	var result *PayResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		updated, err := repo.MarkInstallmentPaid(ctx, userID, installmentID, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking installment paid")
		}
		if !updated {
			installment, err := repo.FindInstallmentForUser(ctx, userID, installmentID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading installment")
			}
			if installment == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "installment not found")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "installment already paid")
		}

		installment, err := repo.FindInstallmentForUser(ctx, userID, installmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading installment")
		}
		if installment == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "paid installment missing")
		}

		planStatus := enums.EmiPlanStatusPending
		unpaid, err := repo.CountUnpaidInstallments(ctx, installment.PlanID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting unpaid installments")
		}
		if unpaid == 0 {
			if err := repo.SetPlanStatus(ctx, installment.PlanID, enums.EmiPlanStatusCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "completing plan")
			}
			if err := repo.CompleteOrderForPlan(ctx, installment.PlanID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "completing linked order")
			}
			planStatus = enums.EmiPlanStatusCompleted
		}

		result = &PayResult{
			InstallmentID: installmentID,
			PlanID:        installment.PlanID,
			PaidDate:      now,
			PlanStatus:    planStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"installment_id": installmentID.String(),
		"plan_id":        result.PlanID.String(),
		"plan_status":    result.PlanStatus.String(),
	})
	s.logg.Info(ctx, "installment paid")
	return result, nil
}

func (s *service) ListInstallments(ctx context.Context, userID uuid.UUID, status enums.InstallmentStatus) ([]InstallmentView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown installment status")
	}
	views, err := s.repo.ListInstallmentsByStatus(ctx, userID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing installments")
	}
	return views, nil
}

func (s *service) ListPlans(ctx context.Context, userID uuid.UUID) ([]PlanView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	plans, err := s.repo.ListPlansByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing plans")
	}

	views := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, toPlanView(plan))
	}
	return views, nil
}

func toPlanView(plan models.EmiPlan) PlanView {
	view := PlanView{
		ID:                plan.ID,
		ProductID:         plan.ProductID,
		DownPayment:       plan.DownPayment,
		TermMonths:        plan.TermMonths,
		AnnualRatePercent: plan.AnnualRatePercent,
		ProcessingFee:     plan.ProcessingFee,
		TaxPercent:        plan.TaxPercent,
		TotalLoanAmount:   plan.TotalLoanAmount,
		MonthlyPayment:    plan.MonthlyPayment,
		TotalPayment:      plan.TotalPayment,
		Status:            plan.Status,
		CreatedAt:         plan.CreatedAt,
	}
	if plan.Product != nil {
		view.Product = &ProductSummary{
			ID:          plan.Product.ID,
			Title:       plan.Product.Title,
			Price:       plan.Product.Price,
			Category:    plan.Product.Category,
			Refurbished: plan.Product.Refurbished,
		}
	}
	for _, installment := range plan.Installments {
		view.Installments = append(view.Installments, PlanInstallment{
			ID:       installment.ID,
			Seq:      installment.Seq,
			Amount:   installment.Amount,
			DueDate:  installment.DueDate,
			Status:   installment.Status,
			PaidDate: installment.PaidDate,
		})
	}
	return view
}
