// Package usage mines historical transactions into per-category usage
// patterns and produces portfolio-level recommendations. Everything
// here is pure computation over in-memory data; patterns are rebuilt
// lazily whenever the transaction set changes.
package usage

import (
	"sort"
	"strings"
	"time"

	"github.com/HananelSabag/SpendWise-sub004/domain"
)

// Token extraction keeps words longer than two characters, matching
// what the classifier treats as significant.
const minTokenLen = 3

// maxCommonTokens bounds the token set kept per pattern.
const maxCommonTokens = 20

// BuildPatterns derives one UsagePattern per category that has at least
// one transaction. Categories with no transactions get no pattern.
func BuildPatterns(categories []domain.Category, transactions []domain.Transaction) map[string]domain.UsagePattern {
	type acc struct {
		count    int
		total    float64
		lastUsed time.Time
		tokens   map[string]int
	}
	byCategory := make(map[string]*acc)

	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}

	for _, tx := range transactions {
		if _, ok := known[tx.CategoryID]; !ok {
			continue
		}
		a := byCategory[tx.CategoryID]
		if a == nil {
			a = &acc{tokens: make(map[string]int)}
			byCategory[tx.CategoryID] = a
		}
		a.count++
		a.total += tx.Amount
		if tx.Date.After(a.lastUsed) {
			a.lastUsed = tx.Date
		}
		for _, tok := range Tokenize(tx.Description) {
			a.tokens[tok]++
		}
	}

	patterns := make(map[string]domain.UsagePattern, len(byCategory))
	for id, a := range byCategory {
		patterns[id] = domain.UsagePattern{
			CategoryID:    id,
			UsageCount:    a.count,
			AverageAmount: a.total / float64(a.count),
			CommonTokens:  topTokens(a.tokens, maxCommonTokens),
			LastUsedAt:    a.lastUsed,
		}
	}
	return patterns
}

// Tokenize splits text into lowercase significant words.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// topTokens returns the n most frequent tokens, most frequent first,
// ties broken alphabetically for determinism.
func topTokens(counts map[string]int, n int) []string {
	toks := make([]string, 0, len(counts))
	for t := range counts {
		toks = append(toks, t)
	}
	sort.Slice(toks, func(i, j int) bool {
		if counts[toks[i]] != counts[toks[j]] {
			return counts[toks[i]] > counts[toks[j]]
		}
		return toks[i] < toks[j]
	})
	if len(toks) > n {
		toks = toks[:n]
	}
	return toks
}
