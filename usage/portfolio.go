package usage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"

	"github.com/agnivade/levenshtein"
)

// Portfolio analysis thresholds. Advisory heuristics, never
// auto-applied.
const (
	mostUsedLimit       = 5
	underutilizedMax    = 2 // 1-2 transactions counts as underutilized
	seasonalMinCount    = 5 // strictly more than this
	seasonalStaleness   = 90 * 24 * time.Hour
	consolidationFloor  = 5   // more than this many underutilized categories
	dominanceShare      = 0.4 // one category above this share of volume
	nearDuplicateBudget = 2   // max edit distance for a merge hint
)

// Priority of a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
)

// Recommendation is one advisory portfolio suggestion.
type Recommendation struct {
	Kind        string   `json:"kind"` // consolidate, split, merge_similar
	Message     string   `json:"message"`
	Priority    Priority `json:"priority"`
	Actionable  bool     `json:"actionable"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

// CategoryUsage pairs a category with its transaction count for ranked
// views.
type CategoryUsage struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
}

// Summary aggregates portfolio-wide category stats.
type Summary struct {
	TotalCategories  int     `json:"total_categories"`
	ActiveCategories int     `json:"active_categories"`
	TopSpending      float64 `json:"top_spending"`
	AvgPerCategory   float64 `json:"avg_per_category"`
}

// Portfolio is the outcome of one analysis pass.
type Portfolio struct {
	MostUsed        []CategoryUsage  `json:"most_used"`
	Underutilized   []CategoryUsage  `json:"underutilized"`
	Seasonal        []CategoryUsage  `json:"seasonal"`
	Summary         Summary          `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AnalyzePortfolio ranks categories by usage and derives threshold-based
// recommendations. asOf anchors the seasonal staleness check.
func AnalyzePortfolio(categories []domain.Category, transactions []domain.Transaction, asOf time.Time) Portfolio {
	counts := make(map[string]int, len(categories))
	totals := make(map[string]float64, len(categories))
	lastUsed := make(map[string]time.Time, len(categories))
	var grandTotal float64

	for _, tx := range transactions {
		counts[tx.CategoryID]++
		totals[tx.CategoryID] += tx.Amount
		grandTotal += tx.Amount
		if tx.Date.After(lastUsed[tx.CategoryID]) {
			lastUsed[tx.CategoryID] = tx.Date
		}
	}

	var p Portfolio
	p.Summary.TotalCategories = len(categories)

	for _, c := range categories {
		n := counts[c.ID]
		if n == 0 {
			continue
		}
		p.Summary.ActiveCategories++
		cu := CategoryUsage{Category: c, Count: n}
		p.MostUsed = append(p.MostUsed, cu)
		if n <= underutilizedMax {
			p.Underutilized = append(p.Underutilized, cu)
		}
		if n > seasonalMinCount && asOf.Sub(lastUsed[c.ID]) > seasonalStaleness {
			p.Seasonal = append(p.Seasonal, cu)
		}
		if totals[c.ID] > p.Summary.TopSpending {
			p.Summary.TopSpending = totals[c.ID]
		}
	}
	if len(categories) > 0 {
		p.Summary.AvgPerCategory = grandTotal / float64(len(categories))
	}

	sort.SliceStable(p.MostUsed, func(i, j int) bool {
		return p.MostUsed[i].Count > p.MostUsed[j].Count
	})
	if len(p.MostUsed) > mostUsedLimit {
		p.MostUsed = p.MostUsed[:mostUsedLimit]
	}
	sort.SliceStable(p.Underutilized, func(i, j int) bool {
		return p.Underutilized[i].Count < p.Underutilized[j].Count
	})

	p.Recommendations = recommend(categories, counts, transactions, p.Underutilized)
	return p
}

func recommend(categories []domain.Category, counts map[string]int, transactions []domain.Transaction, underutilized []CategoryUsage) []Recommendation {
	var recs []Recommendation

	if len(underutilized) > consolidationFloor {
		priority := PriorityLow
		if len(underutilized) > 2*consolidationFloor {
			priority = PriorityMedium
		}
		ids := make([]string, 0, len(underutilized))
		for _, u := range underutilized {
			ids = append(ids, u.Category.ID)
		}
		recs = append(recs, Recommendation{
			Kind:        "consolidate",
			Message:     fmt.Sprintf("%d categories are rarely used; consider consolidating them", len(underutilized)),
			Priority:    priority,
			Actionable:  true,
			CategoryIDs: ids,
		})
	}

	if len(transactions) > 0 {
		for id, n := range counts {
			if float64(n)/float64(len(transactions)) > dominanceShare {
				recs = append(recs, Recommendation{
					Kind:        "split",
					Message:     "one category holds most of your transactions; consider splitting it into subcategories",
					Priority:    PriorityMedium,
					Actionable:  true,
					CategoryIDs: []string{id},
				})
			}
		}
	}

	recs = append(recs, nearDuplicates(categories)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Kind < recs[j].Kind
	})
	return recs
}

// nearDuplicates flags category pairs whose normalized names are within
// a small edit distance of each other, a common artifact of ad-hoc
// category creation ("Grocery" vs "Groceries").
func nearDuplicates(categories []domain.Category) []Recommendation {
	var recs []Recommendation
	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			a := strings.ToLower(strings.TrimSpace(categories[i].Name))
			b := strings.ToLower(strings.TrimSpace(categories[j].Name))
			if a == "" || b == "" || a == b {
				continue
			}
			if levenshtein.ComputeDistance(a, b) <= nearDuplicateBudget {
				recs = append(recs, Recommendation{
					Kind:        "merge_similar",
					Message:     fmt.Sprintf("categories %q and %q look like duplicates; consider merging them", categories[i].Name, categories[j].Name),
					Priority:    PriorityLow,
					Actionable:  true,
					CategoryIDs: []string{categories[i].ID, categories[j].ID},
				})
			}
		}
	}
	return recs
}
