// Package domain defines the core business entities for the SpendWise
// transaction intelligence core. These models are independent of the
// backend API and represent the canonical data structures used
// throughout the module.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// ============================================================
// Categories
// ============================================================

// CategoryType constrains which transaction types a category accepts.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

// Category represents a labeled bucket for transactions.
type Category struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"` // 3- or 6-digit hex
	IsPinned  bool         `json:"is_pinned"`
	IsHidden  bool         `json:"is_hidden"`
	IsDefault bool         `json:"is_default"` // system categories, not user-deletable
	CreatedAt time.Time    `json:"created_at"`
}

var hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the category invariants: non-empty name up to 50
// characters and a 3- or 6-digit hex color.
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ErrValidation{Field: "name", Message: "required"}
	}
	if len(name) > 50 {
		return &ErrValidation{Field: "name", Message: "must be at most 50 characters"}
	}
	switch c.Type {
	case CategoryIncome, CategoryExpense, CategoryBoth:
	default:
		return &ErrValidation{Field: "type", Message: "must be income, expense or both"}
	}
	if c.Color != "" && !hexColorRe.MatchString(c.Color) {
		return &ErrValidation{Field: "color", Message: "must be a 3- or 6-digit hex string"}
	}
	return nil
}

// ============================================================
// Transactions
// ============================================================

// TransactionType is the direction of a money movement. The sign of an
// amount is always derived from the type; Amount itself is a magnitude.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction represents a single money movement.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"` // positive magnitude
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"category_id"`
	TemplateID  string          `json:"template_id,omitempty"` // set when generated from a template
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SignedAmount returns the amount with the sign derived from the type.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// TransactionPayload is the mutable subset of a transaction carried by
// create/update intents and sent to the backend.
type TransactionPayload struct {
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"category_id"`
	TemplateID  string          `json:"template_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	// UpdateFuture distinguishes "this occurrence only" from "this and
	// all future occurrences" for template-linked transactions.
	UpdateFuture bool `json:"update_future,omitempty"`
}

// Validate checks the payload invariants before any optimistic write.
func (p *TransactionPayload) Validate(now time.Time) error {
	if p.Amount <= 0 {
		return &ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if p.Type != TypeIncome && p.Type != TypeExpense {
		return &ErrValidation{Field: "type", Message: "must be income or expense"}
	}
	if p.Date.IsZero() {
		return &ErrValidation{Field: "date", Message: "required"}
	}
	if p.Date.After(now) {
		return &ErrValidation{Field: "date", Message: "cannot be in the future"}
	}
	return nil
}

// TransactionSummary provides aggregated transaction data for dashboards.
type TransactionSummary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	Count        int     `json:"count"`
}

// ============================================================
// Recurring templates
// ============================================================

// IntervalType is the repetition interval of a recurring template.
type IntervalType string

const (
	IntervalDaily     IntervalType = "daily"
	IntervalWeekly    IntervalType = "weekly"
	IntervalMonthly   IntervalType = "monthly"
	IntervalQuarterly IntervalType = "quarterly"
	IntervalYearly    IntervalType = "yearly"
)

// DateOnly is the wire format for skip dates and occurrence dates.
const DateOnly = "2006-01-02"

// RecurringTemplate is a generator definition for periodic transactions.
type RecurringTemplate struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Interval    IntervalType    `json:"interval_type"`
	DayOfWeek   *int            `json:"day_of_week,omitempty"`  // weekly only, 0=Sunday
	DayOfMonth  *int            `json:"day_of_month,omitempty"` // monthly only
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"` // inclusive, >= StartDate when set
	IsActive    bool            `json:"is_active"`
	SkipDates   []string        `json:"skip_dates,omitempty"` // ISO dates excluded from generation
}

// IsSkipped reports whether the given date is an explicitly excluded
// occurrence of this template.
func (t *RecurringTemplate) IsSkipped(date time.Time) bool {
	s := date.Format(DateOnly)
	for _, d := range t.SkipDates {
		if d == s {
			return true
		}
	}
	return false
}

// TemplatePayload is the mutable subset of a template carried by
// update intents.
type TemplatePayload struct {
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Interval    IntervalType    `json:"interval_type"`
	DayOfWeek   *int            `json:"day_of_week,omitempty"`
	DayOfMonth  *int            `json:"day_of_month,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	IsActive    bool            `json:"is_active"`
	// DeleteFuture requests removal of already generated future
	// occurrences alongside a template delete.
	DeleteFuture bool `json:"delete_future,omitempty"`
}

// Validate checks the template payload invariants.
func (p *TemplatePayload) Validate() error {
	if p.Amount <= 0 {
		return &ErrValidation{Field: "amount", Message: "must be positive"}
	}
	switch p.Interval {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalQuarterly, IntervalYearly:
	default:
		return &ErrValidation{Field: "interval_type", Message: "unsupported interval"}
	}
	if p.DayOfWeek != nil && p.Interval != IntervalWeekly {
		return &ErrValidation{Field: "day_of_week", Message: "only meaningful for weekly templates"}
	}
	if p.DayOfWeek != nil && (*p.DayOfWeek < 0 || *p.DayOfWeek > 6) {
		return &ErrValidation{Field: "day_of_week", Message: "must be between 0 and 6"}
	}
	if p.DayOfMonth != nil && (*p.DayOfMonth < 1 || *p.DayOfMonth > 31) {
		return &ErrValidation{Field: "day_of_month", Message: "must be between 1 and 31"}
	}
	return nil
}

// ============================================================
// Usage patterns
// ============================================================

// UsagePattern aggregates a user's historical behavior for one category.
// Patterns are derived by the usage analyzer, never created directly.
type UsagePattern struct {
	CategoryID    string    `json:"category_id"`
	UsageCount    int       `json:"usage_count"`
	AverageAmount float64   `json:"average_amount"`
	CommonTokens  []string  `json:"common_tokens"` // significant words, length > 2
	LastUsedAt    time.Time `json:"last_used_at"`
}

// HasToken reports whether the pattern contains the given token.
func (p *UsagePattern) HasToken(tok string) bool {
	for _, t := range p.CommonTokens {
		if t == tok {
			return true
		}
	}
	return false
}
