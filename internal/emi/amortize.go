package emi

import (
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ScheduleInput carries the financing terms for one purchase.
type ScheduleInput struct {
	Price             decimal.Decimal
	DownPayment       decimal.Decimal
	TermMonths        int
	AnnualRatePercent decimal.Decimal
	ProcessingFee     decimal.Decimal
	TaxPercent        decimal.Decimal
	StartDate         time.Time
}

// ScheduleEntry is one future installment produced by ComputeSchedule.
type ScheduleEntry struct {
	Seq     int
	Amount  decimal.Decimal
	DueDate time.Time
}

// Schedule is the computed amortization for a financed purchase.
type Schedule struct {
	TotalLoanAmount decimal.Decimal
	MonthlyPayment  decimal.Decimal
	TotalPayment    decimal.Decimal
	Entries         []ScheduleEntry
}

// ComputeSchedule derives a fixed-payment amortization schedule. It is pure:
// the same input always yields the same schedule, and nothing is persisted.
//
// The loan base is price minus down payment; the processing fee is added
// before tax so tax applies to the financed total. A zero monthly rate divides
// the total evenly instead of running the annuity formula. The payment is
// rounded half-up to two decimal places and every installment carries the
// same rounded amount.
func ComputeSchedule(input ScheduleInput) (*Schedule, error) {
	if input.TermMonths < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "loan term must be at least one month")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.DownPayment.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "down payment cannot be negative")
	}
	if input.ProcessingFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "processing fee cannot be negative")
	}
	if input.AnnualRatePercent.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interest rate cannot be negative")
	}
	if input.TaxPercent.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax percentage cannot be negative")
	}
	// A down payment covering the full price leaves nothing to finance; that
	// purchase is a direct checkout, not an installment plan.
	if input.DownPayment.GreaterThanOrEqual(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "down payment must be less than the price")
	}

	loanBase := input.Price.Sub(input.DownPayment)
	withFees := loanBase.Add(input.ProcessingFee)
	tax := withFees.Mul(input.TaxPercent).Div(hundred)
	totalLoan := withFees.Add(tax)

	term := decimal.NewFromInt(int64(input.TermMonths))
	monthlyRate := input.AnnualRatePercent.Div(twelve).Div(hundred)

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = totalLoan.Div(term)
	} else {
		growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(term)
		payment = totalLoan.Mul(monthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
	}
	payment = payment.Round(2)

	start := input.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	entries := make([]ScheduleEntry, 0, input.TermMonths)
	for i := 1; i <= input.TermMonths; i++ {
		entries = append(entries, ScheduleEntry{
			Seq:     i,
			Amount:  payment,
			DueDate: addMonthsClamped(start, i),
		})
	}

	return &Schedule{
		TotalLoanAmount: totalLoan.Round(2),
		MonthlyPayment:  payment,
		TotalPayment:    payment.Mul(term).Add(input.DownPayment).Round(2),
		Entries:         entries,
	}, nil
}

// addMonthsClamped advances t by the given number of calendar months, clamping
// to the last valid day of the target month instead of overflowing into the
// next one (Jan 31 plus one month is Feb 28 or 29, never Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, hour, minute, second, t.Nanosecond(), t.Location())
	if last := lastDayOfMonth(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, hour, minute, second, t.Nanosecond(), t.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
