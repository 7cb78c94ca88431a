package schedule_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/schedule"
)

func tpl(amount float64, txType domain.TransactionType, interval domain.IntervalType) *domain.RecurringTemplate {
	return &domain.RecurringTemplate{
		ID:        "tpl-1",
		Amount:    amount,
		Type:      txType,
		Interval:  interval,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMonthlyImpact_MonthlyExpense(t *testing.T) {
	got, err := schedule.MonthlyImpact(tpl(1200, domain.TypeExpense, domain.IntervalMonthly))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != -1200 {
		t.Errorf("expected -1200, got %v", got)
	}
}

func TestMonthlyImpact_QuarterlyExpense(t *testing.T) {
	got, err := schedule.MonthlyImpact(tpl(450, domain.TypeExpense, domain.IntervalQuarterly))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != -150 {
		t.Errorf("expected -150, got %v", got)
	}
}

func TestMonthlyImpact_WeeklyIncome(t *testing.T) {
	got, err := schedule.MonthlyImpact(tpl(100, domain.TypeIncome, domain.IntervalWeekly))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !approxEqual(got, 433) {
		t.Errorf("expected 433, got %v", got)
	}
}

func TestMonthlyImpact_DailyAndYearly(t *testing.T) {
	got, err := schedule.MonthlyImpact(tpl(5, domain.TypeExpense, domain.IntervalDaily))
	if err != nil {
		t.Fatalf("daily: expected no error, got %v", err)
	}
	if got != -150 {
		t.Errorf("daily: expected -150, got %v", got)
	}

	got, err = schedule.MonthlyImpact(tpl(1200, domain.TypeIncome, domain.IntervalYearly))
	if err != nil {
		t.Fatalf("yearly: expected no error, got %v", err)
	}
	if got != 100 {
		t.Errorf("yearly: expected 100, got %v", got)
	}
}

func TestMonthlyImpact_UnknownInterval(t *testing.T) {
	got, err := schedule.MonthlyImpact(tpl(100, domain.TypeExpense, "biweekly"))
	if got != 0 {
		t.Errorf("expected 0 impact, got %v", got)
	}
	var se *domain.ErrSchedule
	if !errors.As(err, &se) {
		t.Fatalf("expected ErrSchedule, got %v", err)
	}
	if se.TemplateID != "tpl-1" {
		t.Errorf("expected template ID in error, got %q", se.TemplateID)
	}
}

func TestMonthlyImpact_EndBeforeStart(t *testing.T) {
	tmpl := tpl(100, domain.TypeExpense, domain.IntervalMonthly)
	end := tmpl.StartDate.AddDate(0, 0, -1)
	tmpl.EndDate = &end

	got, err := schedule.MonthlyImpact(tmpl)
	if got != 0 {
		t.Errorf("expected 0 impact, got %v", got)
	}
	var se *domain.ErrSchedule
	if !errors.As(err, &se) {
		t.Fatalf("expected ErrSchedule, got %v", err)
	}
}

func TestIsCurrentlyActive(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	active := tpl(100, domain.TypeExpense, domain.IntervalMonthly)
	if !schedule.IsCurrentlyActive(active, asOf) {
		t.Error("expected template to be active")
	}

	inactive := tpl(100, domain.TypeExpense, domain.IntervalMonthly)
	inactive.IsActive = false
	if schedule.IsCurrentlyActive(inactive, asOf) {
		t.Error("expected inactive flag to exclude template")
	}

	future := tpl(100, domain.TypeExpense, domain.IntervalMonthly)
	future.StartDate = asOf.AddDate(0, 1, 0)
	if !schedule.IsCurrentlyActive(future, asOf) {
		t.Error("expected future start date to still count as active")
	}

	ended := tpl(100, domain.TypeExpense, domain.IntervalMonthly)
	end := asOf.AddDate(0, -1, 0)
	ended.EndDate = &end
	if schedule.IsCurrentlyActive(ended, asOf) {
		t.Error("expected ended template to be excluded")
	}
}

func TestPortfolioImpact(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	salary := tpl(5000, domain.TypeIncome, domain.IntervalMonthly)
	rent := tpl(1200, domain.TypeExpense, domain.IntervalMonthly)
	broken := tpl(100, domain.TypeExpense, "fortnightly")
	inactive := tpl(999, domain.TypeExpense, domain.IntervalMonthly)
	inactive.IsActive = false

	r := schedule.PortfolioImpact([]domain.RecurringTemplate{*salary, *rent, *broken, *inactive}, asOf)

	if r.ActiveCount != 2 {
		t.Errorf("expected 2 active templates, got %d", r.ActiveCount)
	}
	if r.MonthlyIncome != 5000 {
		t.Errorf("expected income 5000, got %v", r.MonthlyIncome)
	}
	if r.MonthlyExpense != 1200 {
		t.Errorf("expected expense 1200, got %v", r.MonthlyExpense)
	}
	if r.MonthlyTotal != 3800 {
		t.Errorf("expected total 3800, got %v", r.MonthlyTotal)
	}
	if len(r.Errors) != 1 {
		t.Fatalf("expected 1 schedule error, got %d", len(r.Errors))
	}
	if !approxEqual(r.DailyTotal, 3800.0/30.0) {
		t.Errorf("expected daily total %v, got %v", 3800.0/30.0, r.DailyTotal)
	}
}
