package emi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/SachinNic1502/lapkart-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeSchedule_workedExample(t *testing.T) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:             dec("50000"),
		DownPayment:       dec("5000"),
		TermMonths:        12,
		AnnualRatePercent: dec("12"),
		ProcessingFee:     dec("500"),
		TaxPercent:        dec("18"),
		StartDate:         time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if got := schedule.TotalLoanAmount.String(); got != "53690" {
		t.Fatalf("total loan amount = %s, want 53690", got)
	}
	if got := schedule.MonthlyPayment.String(); got != "4770.29" {
		t.Fatalf("monthly payment = %s, want 4770.29", got)
	}
	if got := schedule.TotalPayment.String(); got != "62243.48" {
		t.Fatalf("total payment = %s, want 62243.48", got)
	}
	if len(schedule.Entries) != 12 {
		t.Fatalf("schedule has %d entries, want 12", len(schedule.Entries))
	}
	for i, entry := range schedule.Entries {
		if entry.Seq != i+1 {
			t.Fatalf("entry %d has seq %d", i, entry.Seq)
		}
		if !entry.Amount.Equal(schedule.MonthlyPayment) {
			t.Fatalf("entry %d amount = %s, want %s", i, entry.Amount, schedule.MonthlyPayment)
		}
		if i > 0 && !entry.DueDate.After(schedule.Entries[i-1].DueDate) {
			t.Fatalf("due dates not strictly increasing at entry %d", i)
		}
	}
	first := schedule.Entries[0].DueDate
	if first.Year() != 2025 || first.Month() != time.April || first.Day() != 15 {
		t.Fatalf("first due date = %v, want 2025-04-15", first)
	}
}

func TestComputeSchedule_centDriftBounded(t *testing.T) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:             dec("49999.99"),
		DownPayment:       dec("1234.56"),
		TermMonths:        24,
		AnnualRatePercent: dec("13.5"),
		ProcessingFee:     dec("750"),
		TaxPercent:        dec("18"),
	})
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	sum := decimal.Zero
	for _, entry := range schedule.Entries {
		sum = sum.Add(entry.Amount)
	}
	financed := schedule.TotalPayment.Sub(dec("1234.56"))
	if drift := sum.Sub(financed).Abs(); drift.GreaterThan(dec("0.01")) {
		t.Fatalf("installment sum drifts from financed total by %s", drift)
	}
}

func TestComputeSchedule_zeroRate(t *testing.T) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:       dec("12000"),
		DownPayment: dec("0"),
		TermMonths:  12,
		TaxPercent:  dec("0"),
	})
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}
	if got := schedule.MonthlyPayment.String(); got != "1000" {
		t.Fatalf("zero-rate payment = %s, want 1000", got)
	}
	if got := schedule.TotalPayment.String(); got != "12000" {
		t.Fatalf("zero-rate total = %s, want 12000", got)
	}
}

func TestComputeSchedule_monthEndClamping(t *testing.T) {
	schedule, err := ComputeSchedule(ScheduleInput{
		Price:             dec("10000"),
		DownPayment:       dec("1000"),
		TermMonths:        3,
		AnnualRatePercent: dec("10"),
		StartDate:         time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	wantDays := []struct {
		month time.Month
		day   int
	}{
		{time.February, 28},
		{time.March, 31},
		{time.April, 30},
	}
	for i, want := range wantDays {
		got := schedule.Entries[i].DueDate
		if got.Month() != want.month || got.Day() != want.day {
			t.Fatalf("entry %d due %v, want %v %d", i, got, want.month, want.day)
		}
	}
}

func TestAddMonthsClamped_leapYear(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	got := addMonthsClamped(start, 1)
	if got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("Jan 31 2024 + 1mo = %v, want Feb 29", got)
	}
}

func TestComputeSchedule_validation(t *testing.T) {
	base := ScheduleInput{
		Price:             dec("50000"),
		DownPayment:       dec("5000"),
		TermMonths:        12,
		AnnualRatePercent: dec("12"),
		ProcessingFee:     dec("500"),
		TaxPercent:        dec("18"),
	}

	cases := []struct {
		name   string
		mutate func(*ScheduleInput)
	}{
		{"zero term", func(in *ScheduleInput) { in.TermMonths = 0 }},
		{"negative term", func(in *ScheduleInput) { in.TermMonths = -3 }},
		{"zero price", func(in *ScheduleInput) { in.Price = decimal.Zero }},
		{"negative down payment", func(in *ScheduleInput) { in.DownPayment = dec("-1") }},
		{"negative fee", func(in *ScheduleInput) { in.ProcessingFee = dec("-1") }},
		{"negative rate", func(in *ScheduleInput) { in.AnnualRatePercent = dec("-1") }},
		{"negative tax", func(in *ScheduleInput) { in.TaxPercent = dec("-1") }},
		{"down payment equals price", func(in *ScheduleInput) { in.DownPayment = in.Price }},
		{"down payment exceeds price", func(in *ScheduleInput) { in.DownPayment = dec("60000") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			_, err := ComputeSchedule(input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("error code = %v, want validation", err)
			}
		})
	}
}
