package mutation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// tempIDPrefix marks locally assigned IDs pending server confirmation.
const tempIDPrefix = "temp-"

// newTempID allocates an ID for an optimistically created entity. The
// server-assigned ID replaces it on confirmation.
func newTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether an ID is a local placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Optimistic apply helpers. Each produces a NEW slice: cached values
// are shared with readers and must never be mutated in place.

func prependTransaction(cached []domain.Transaction, tx domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(cached)+1)
	out = append(out, tx)
	return append(out, cached...)
}

func patchTransaction(cached []domain.Transaction, id string, p domain.TransactionPayload) []domain.Transaction {
	out := make([]domain.Transaction, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == id {
			out[i].Amount = p.Amount
			out[i].Type = p.Type
			out[i].Description = p.Description
			out[i].Date = p.Date
			out[i].CategoryID = p.CategoryID
			out[i].Notes = p.Notes
			break
		}
	}
	return out
}

func removeTransaction(cached []domain.Transaction, id string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(cached))
	for _, tx := range cached {
		if tx.ID != id {
			out = append(out, tx)
		}
	}
	return out
}

// replaceTransaction swaps the entity under oldID (a temp ID for
// creates) with the server-confirmed one.
func replaceTransaction(cached []domain.Transaction, oldID string, confirmed domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == oldID {
			out[i] = confirmed
			break
		}
	}
	return out
}

func transactionFromPayload(id string, p domain.TransactionPayload, now time.Time) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Amount:      p.Amount,
		Type:        p.Type,
		Description: p.Description,
		Date:        p.Date,
		CategoryID:  p.CategoryID,
		TemplateID:  p.TemplateID,
		Notes:       p.Notes,
		CreatedAt:   now,
	}
}

func patchTemplate(cached []domain.RecurringTemplate, id string, p domain.TemplatePayload) []domain.RecurringTemplate {
	out := make([]domain.RecurringTemplate, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == id {
			out[i].Amount = p.Amount
			out[i].Type = p.Type
			out[i].Description = p.Description
			out[i].CategoryID = p.CategoryID
			out[i].Interval = p.Interval
			out[i].DayOfWeek = p.DayOfWeek
			out[i].DayOfMonth = p.DayOfMonth
			out[i].EndDate = p.EndDate
			out[i].IsActive = p.IsActive
			break
		}
	}
	return out
}

func removeTemplate(cached []domain.RecurringTemplate, id string) []domain.RecurringTemplate {
	out := make([]domain.RecurringTemplate, 0, len(cached))
	for _, t := range cached {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func replaceTemplate(cached []domain.RecurringTemplate, oldID string, confirmed domain.RecurringTemplate) []domain.RecurringTemplate {
	out := make([]domain.RecurringTemplate, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == oldID {
			out[i] = confirmed
			break
		}
	}
	return out
}

func appendCategory(cached []domain.Category, c domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(cached)+1)
	out = append(out, cached...)
	return append(out, c)
}

func patchCategory(cached []domain.Category, id string, c domain.Category) []domain.Category {
	out := make([]domain.Category, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == id {
			updated := c
			updated.ID = id
			updated.CreatedAt = out[i].CreatedAt
			out[i] = updated
			break
		}
	}
	return out
}

func removeCategory(cached []domain.Category, id string) []domain.Category {
	out := make([]domain.Category, 0, len(cached))
	for _, c := range cached {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func replaceCategory(cached []domain.Category, oldID string, confirmed domain.Category) []domain.Category {
	out := make([]domain.Category, len(cached))
	copy(out, cached)
	for i := range out {
		if out[i].ID == oldID {
			out[i] = confirmed
			break
		}
	}
	return out
}
