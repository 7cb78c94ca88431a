// Package schedule normalizes recurring templates into comparable
// monthly amounts and enumerates their concrete occurrences.
package schedule

import (
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// Normalization factors for converting per-interval amounts into a
// monthly equivalent.
const (
	daysPerMonth     = 30.0
	weeksPerMonth    = 4.33
	monthsPerQuarter = 3.0
	monthsPerYear    = 12.0
)

// MonthlyImpact converts a template's amount to a signed monthly
// equivalent: daily amounts are multiplied by 30, weekly by 4.33,
// quarterly divided by 3, yearly by 12. Expense templates produce a
// negative value. An unknown interval or an end date before the start
// date yields 0 and a schedule error.
func MonthlyImpact(t *domain.RecurringTemplate) (float64, error) {
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return 0, &domain.ErrSchedule{TemplateID: t.ID, Reason: "end date precedes start date"}
	}

	var monthly float64
	switch t.Interval {
	case domain.IntervalDaily:
		monthly = t.Amount * daysPerMonth
	case domain.IntervalWeekly:
		monthly = t.Amount * weeksPerMonth
	case domain.IntervalMonthly:
		monthly = t.Amount
	case domain.IntervalQuarterly:
		monthly = t.Amount / monthsPerQuarter
	case domain.IntervalYearly:
		monthly = t.Amount / monthsPerYear
	default:
		return 0, &domain.ErrSchedule{TemplateID: t.ID, Reason: "unknown interval " + string(t.Interval)}
	}

	if t.Type == domain.TypeExpense {
		monthly = -monthly
	}
	return monthly, nil
}

// IsCurrentlyActive reports whether the template contributes to the
// portfolio at the given instant: flagged active and not past its end
// date. A future start date does not exclude a template; it is already
// a standing obligation the moment it exists.
func IsCurrentlyActive(t *domain.RecurringTemplate, asOf time.Time) bool {
	if !t.IsActive {
		return false
	}
	if t.EndDate != nil && t.EndDate.Before(asOf) {
		return false
	}
	return true
}

// PortfolioImpactResult aggregates the normalized monthly impact of a
// template portfolio. Amounts are magnitudes; Total carries the sign.
type PortfolioImpactResult struct {
	MonthlyIncome  float64 `json:"monthly_income"`
	MonthlyExpense float64 `json:"monthly_expense"`
	MonthlyTotal   float64 `json:"monthly_total"`
	DailyIncome    float64 `json:"daily_income"`
	DailyExpense   float64 `json:"daily_expense"`
	DailyTotal     float64 `json:"daily_total"`
	ActiveCount    int     `json:"active_count"`
	Errors         []error `json:"-"`
}

// PortfolioImpact sums the monthly impact of every currently active
// template. Templates that fail to normalize contribute 0 and their
// error is collected; a partial portfolio is still returned.
func PortfolioImpact(templates []domain.RecurringTemplate, asOf time.Time) PortfolioImpactResult {
	var r PortfolioImpactResult
	for i := range templates {
		t := &templates[i]
		if !IsCurrentlyActive(t, asOf) {
			continue
		}
		monthly, err := MonthlyImpact(t)
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		r.ActiveCount++
		if monthly >= 0 {
			r.MonthlyIncome += monthly
		} else {
			r.MonthlyExpense += -monthly
		}
	}
	r.MonthlyTotal = r.MonthlyIncome - r.MonthlyExpense
	r.DailyIncome = r.MonthlyIncome / daysPerMonth
	r.DailyExpense = r.MonthlyExpense / daysPerMonth
	r.DailyTotal = r.MonthlyTotal / daysPerMonth
	return r
}
