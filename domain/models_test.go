package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

func TestTransactionPayload_Validate(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	valid := domain.TransactionPayload{
		Amount: 10, Type: domain.TypeExpense, Date: now.Add(-time.Hour), CategoryID: "cat-1",
	}
	if err := valid.Validate(now); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.TransactionPayload)
		field  string
	}{
		{"zero amount", func(p *domain.TransactionPayload) { p.Amount = 0 }, "amount"},
		{"negative amount", func(p *domain.TransactionPayload) { p.Amount = -5 }, "amount"},
		{"bad type", func(p *domain.TransactionPayload) { p.Type = "transfer" }, "type"},
		{"missing date", func(p *domain.TransactionPayload) { p.Date = time.Time{} }, "date"},
		{"future date", func(p *domain.TransactionPayload) { p.Date = now.Add(time.Hour) }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			err := p.Validate(now)
			var ev *domain.ErrValidation
			if !errors.As(err, &ev) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if ev.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ev.Field)
			}
		})
	}
}

func TestCategory_Validate(t *testing.T) {
	valid := domain.Category{Name: "Food & Dining", Type: domain.CategoryExpense, Color: "#EF4444"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid category, got %v", err)
	}

	short := valid
	short.Color = "abc"
	if err := short.Validate(); err != nil {
		t.Errorf("3-digit hex without hash must be valid, got %v", err)
	}

	noName := valid
	noName.Name = "   "
	if err := noName.Validate(); err == nil {
		t.Error("expected blank name to be rejected")
	}

	long := valid
	for len(long.Name) <= 50 {
		long.Name += "x"
	}
	if err := long.Validate(); err == nil {
		t.Error("expected over-long name to be rejected")
	}

	badColor := valid
	badColor.Color = "#12345"
	if err := badColor.Validate(); err == nil {
		t.Error("expected 5-digit color to be rejected")
	}

	badType := valid
	badType.Type = "mixed"
	if err := badType.Validate(); err == nil {
		t.Error("expected unknown type to be rejected")
	}
}

func TestTemplatePayload_Validate(t *testing.T) {
	dow := 3
	valid := domain.TemplatePayload{
		Amount: 100, Type: domain.TypeExpense, Interval: domain.IntervalWeekly, DayOfWeek: &dow, IsActive: true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid template payload, got %v", err)
	}

	badInterval := valid
	badInterval.Interval = "biweekly"
	if err := badInterval.Validate(); err == nil {
		t.Error("expected unsupported interval to be rejected")
	}

	dowOnMonthly := valid
	dowOnMonthly.Interval = domain.IntervalMonthly
	if err := dowOnMonthly.Validate(); err == nil {
		t.Error("expected day_of_week on monthly template to be rejected")
	}

	badDay := 32
	badDom := domain.TemplatePayload{Amount: 10, Type: domain.TypeExpense, Interval: domain.IntervalMonthly, DayOfMonth: &badDay}
	if err := badDom.Validate(); err == nil {
		t.Error("expected day_of_month 32 to be rejected")
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	expense := domain.Transaction{Amount: 50, Type: domain.TypeExpense}
	if got := expense.SignedAmount(); got != -50 {
		t.Errorf("expected -50, got %v", got)
	}
	income := domain.Transaction{Amount: 50, Type: domain.TypeIncome}
	if got := income.SignedAmount(); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
}

func TestRecurringTemplate_IsSkipped(t *testing.T) {
	tmpl := domain.RecurringTemplate{SkipDates: []string{"2026-03-02"}}
	if !tmpl.IsSkipped(time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)) {
		t.Error("expected any time on a skip date to be skipped")
	}
	if tmpl.IsSkipped(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected other dates not to be skipped")
	}
}
