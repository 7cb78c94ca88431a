package classify_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/HananelSabag/SpendWise-sub004/classify"
	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/lexicon"
	"github.com/HananelSabag/SpendWise-sub004/observability"
)

type mockPatternSource struct {
	patterns map[string]domain.UsagePattern
	err      error
	calls    int
}

func (m *mockPatternSource) Patterns(_ context.Context, _ string) (map[string]domain.UsagePattern, error) {
	m.calls++
	return m.patterns, m.err
}

func newClassifier(th classify.Thresholds, src classify.PatternSource) *classify.Classifier {
	return classify.New(th, src, observability.NewMetrics(), zap.NewNop())
}

func TestSuggest_MerchantAndKeyword(t *testing.T) {
	c := newClassifier(classify.DefaultThresholds(), nil)

	res := c.Suggest(context.Background(), classify.Input{
		Description: "Starbucks coffee",
		Amount:      4.5,
	})

	primary, ok := res.Primary()
	if !ok {
		t.Fatal("expected at least one suggestion")
	}
	if primary.Archetype != lexicon.FoodDining {
		t.Errorf("expected food archetype, got %v", primary.Archetype)
	}
	// merchant hit (5) + primary keyword hit (3) = 8 -> 0.8
	if primary.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", primary.Confidence)
	}
	if primary.Method != classify.MethodLexicon {
		t.Errorf("expected lexicon method, got %s", primary.Method)
	}
	if res.Confidence != primary.Confidence {
		t.Errorf("result confidence should equal primary's, got %v", res.Confidence)
	}
	if len(res.Factors) == 0 {
		t.Error("expected contributing factors")
	}
}

func TestSuggest_ConfidenceBoundsAndOrdering(t *testing.T) {
	c := newClassifier(classify.DefaultThresholds(), nil)

	res := c.Suggest(context.Background(), classify.Input{
		Description: "uber ride to the airport hotel",
		Amount:      75,
	})

	if len(res.Suggestions) < 2 {
		t.Fatalf("expected multiple suggestions, got %d", len(res.Suggestions))
	}
	for i, s := range res.Suggestions {
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("suggestion %d confidence out of range: %v", i, s.Confidence)
		}
		if i > 0 && s.Confidence > res.Suggestions[i-1].Confidence {
			t.Errorf("suggestions not sorted by confidence at %d", i)
		}
	}
}

func TestSuggest_AmountHeuristics(t *testing.T) {
	c := newClassifier(classify.DefaultThresholds(), nil)

	cases := []struct {
		amount    float64
		archetype lexicon.Archetype
		conf      float64
	}{
		{4.5, lexicon.FoodDining, 0.4},      // daily small
		{1500, lexicon.BillsUtilities, 0.3}, // large fixed
		{120, lexicon.Shopping, 0.3},        // retail range
	}
	for _, tc := range cases {
		res := c.Suggest(context.Background(), classify.Input{Description: "xyzzy", Amount: tc.amount})
		primary, ok := res.Primary()
		if !ok {
			t.Fatalf("amount %v: expected a suggestion", tc.amount)
		}
		if primary.Method != classify.MethodAmount {
			t.Errorf("amount %v: expected amount method, got %s", tc.amount, primary.Method)
		}
		if primary.Archetype != tc.archetype {
			t.Errorf("amount %v: expected archetype %v, got %v", tc.amount, tc.archetype, primary.Archetype)
		}
		if primary.Confidence != tc.conf {
			t.Errorf("amount %v: expected confidence %v, got %v", tc.amount, tc.conf, primary.Confidence)
		}
	}

	// Between the small threshold and the retail range no amount
	// heuristic applies.
	res := c.Suggest(context.Background(), classify.Input{Description: "xyzzy", Amount: 25})
	if len(res.Suggestions) != 0 {
		t.Errorf("expected no suggestions for unclassifiable amount, got %d", len(res.Suggestions))
	}
}

func TestSuggest_UsagePatterns(t *testing.T) {
	src := &mockPatternSource{patterns: map[string]domain.UsagePattern{
		"cat-gym": {
			CategoryID:    "cat-gym",
			UsageCount:    20,
			AverageAmount: 50,
			CommonTokens:  []string{"monthly", "gym", "membership"},
		},
	}}
	c := newClassifier(classify.DefaultThresholds(), src)

	res := c.Suggest(context.Background(), classify.Input{
		Description: "monthly gym membership",
		Amount:      50,
		UserID:      "user-1",
	})

	primary, ok := res.Primary()
	if !ok {
		t.Fatal("expected suggestions")
	}
	if primary.Method != classify.MethodUsage {
		t.Fatalf("expected usage method to win, got %s", primary.Method)
	}
	if primary.CategoryID != "cat-gym" {
		t.Errorf("expected cat-gym, got %q", primary.CategoryID)
	}
	// perfect text (4) + perfect amount (3) + capped frequency (2) = 9,
	// clamped to confidence 1
	if primary.Confidence != 1 {
		t.Errorf("expected confidence 1, got %v", primary.Confidence)
	}
}

func TestSuggest_PatternSourceErrorDegrades(t *testing.T) {
	src := &mockPatternSource{err: errors.New("analytics down")}
	c := newClassifier(classify.DefaultThresholds(), src)

	res := c.Suggest(context.Background(), classify.Input{
		Description: "Starbucks coffee",
		Amount:      4.5,
		UserID:      "user-1",
	})

	primary, ok := res.Primary()
	if !ok {
		t.Fatal("expected lexicon suggestions despite pattern source failure")
	}
	if primary.Method == classify.MethodUsage {
		t.Error("usage suggestions should be absent when the source errors")
	}
}

func TestSuggest_Memoized(t *testing.T) {
	src := &mockPatternSource{patterns: map[string]domain.UsagePattern{}}
	c := newClassifier(classify.DefaultThresholds(), src)
	in := classify.Input{Description: "coffee", Amount: 4, UserID: "user-1"}

	first := c.Suggest(context.Background(), in)
	second := c.Suggest(context.Background(), in)

	if src.calls != 1 {
		t.Errorf("expected memoized second call, source called %d times", src.calls)
	}
	if len(first.Suggestions) != len(second.Suggestions) {
		t.Fatal("memoized result differs from fresh result")
	}
	for i := range first.Suggestions {
		if first.Suggestions[i] != second.Suggestions[i] {
			t.Errorf("suggestion %d differs between memoized and fresh result", i)
		}
	}
}

func TestSuggest_MemoEvictsOldestFirst(t *testing.T) {
	src := &mockPatternSource{patterns: map[string]domain.UsagePattern{}}
	th := classify.DefaultThresholds()
	th.MemoSize = 2
	c := newClassifier(th, src)

	a := classify.Input{Description: "coffee", Amount: 1, UserID: "u"}
	b := classify.Input{Description: "taxi", Amount: 2, UserID: "u"}
	d := classify.Input{Description: "rent", Amount: 3, UserID: "u"}

	c.Suggest(context.Background(), a) // calls: 1
	c.Suggest(context.Background(), b) // calls: 2
	c.Suggest(context.Background(), d) // calls: 3, evicts a
	c.Suggest(context.Background(), b) // still cached
	if src.calls != 3 {
		t.Fatalf("expected b to stay cached, source called %d times", src.calls)
	}
	c.Suggest(context.Background(), a) // evicted, recomputes
	if src.calls != 4 {
		t.Errorf("expected a to have been evicted, source called %d times", src.calls)
	}
}

func TestSuggest_TiedConfidenceOrderIsStable(t *testing.T) {
	th := classify.DefaultThresholds()
	th.MemoSize = 1
	c := newClassifier(th, nil)

	// "food" and "gas" are both primary keywords, so the two archetypes
	// tie at the same confidence. Recomputing after the memo evicts the
	// entry must produce the identical order.
	in := classify.Input{Description: "food gas"}

	first := c.Suggest(context.Background(), in)
	if len(first.Suggestions) != 2 {
		t.Fatalf("expected 2 tied suggestions, got %d", len(first.Suggestions))
	}
	if first.Suggestions[0].Confidence != first.Suggestions[1].Confidence {
		t.Fatalf("expected a confidence tie, got %v and %v",
			first.Suggestions[0].Confidence, first.Suggestions[1].Confidence)
	}

	for i := 0; i < 10; i++ {
		c.Suggest(context.Background(), classify.Input{Description: "evict the memo"})
		again := c.Suggest(context.Background(), in)
		for j := range first.Suggestions {
			if again.Suggestions[j] != first.Suggestions[j] {
				t.Fatalf("iteration %d: suggestion %d changed from %+v to %+v",
					i, j, first.Suggestions[j], again.Suggestions[j])
			}
		}
	}
}

func TestResolve_MatchesArchetypeToCategory(t *testing.T) {
	c := newClassifier(classify.DefaultThresholds(), nil)

	res := c.Suggest(context.Background(), classify.Input{Description: "Starbucks coffee", Amount: 4.5})
	res.Resolve([]domain.Category{
		{ID: "cat-1", Name: "Food & Dining", Type: domain.CategoryExpense},
		{ID: "cat-2", Name: "Transportation", Type: domain.CategoryExpense},
	})

	primary, ok := res.Primary()
	if !ok {
		t.Fatal("expected suggestions")
	}
	if primary.CategoryID != "cat-1" {
		t.Errorf("expected archetype resolved to cat-1, got %q", primary.CategoryID)
	}
}
