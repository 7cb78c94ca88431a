// Package classify scores free-text transaction drafts against the
// lexicon and against historical usage patterns to produce ranked
// category suggestions with confidence.
package classify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/lexicon"
	"github.com/HananelSabag/SpendWise-sub004/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("classify")

// Scoring constants. Lexicon scores divide by 10, usage scores by 8;
// both clamp to 1. These mirror the tuned values of the production
// heuristic and are not derived business rules.
const (
	lexiconDivisor = 10.0
	usageDivisor   = 8.0

	usageTextWeight    = 4.0
	usageAmountWeight  = 3.0
	usageScoreFloor    = 2.0
	usageFrequencyCap  = 2.0
	usageFrequencyStep = 10.0

	maxFactors = 3
)

// Thresholds holds the amount-heuristic boundaries. They are tunable
// configuration, not derived business rules.
type Thresholds struct {
	LargeAmount     float64 // above this, nudge toward large fixed expenses
	SmallAmount     float64 // below this, nudge toward daily small expenses
	RetailMin       float64
	RetailMax       float64
	LargeConfidence float64
	SmallConfidence float64
	RetailConf      float64
	MemoSize        int
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LargeAmount:     1000,
		SmallAmount:     10,
		RetailMin:       50,
		RetailMax:       200,
		LargeConfidence: 0.3,
		SmallConfidence: 0.4,
		RetailConf:      0.3,
		MemoSize:        100,
	}
}

// Method identifies which heuristic produced a suggestion.
const (
	MethodLexicon = "lexicon"
	MethodAmount  = "amount"
	MethodUsage   = "usage"
)

// Suggestion is one candidate answer from the classifier.
type Suggestion struct {
	CategoryID string            `json:"category_id,omitempty"`
	Archetype  lexicon.Archetype `json:"-"`
	Confidence float64           `json:"confidence"`
	Method     string            `json:"method"`
	Score      float64           `json:"score"`
}

// Factor records how one method contributed to the result.
type Factor struct {
	Method string  `json:"method"`
	Score  float64 `json:"score"`
}

// Result is the ordered outcome of one classification. An empty
// suggestion list with confidence 0 is a normal outcome; callers fall
// back to a default category, never fail.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Confidence  float64      `json:"confidence"` // max element's confidence
	Factors     []Factor     `json:"contributing_factors"`
}

// Primary returns the highest-confidence suggestion, if any.
func (r *Result) Primary() (Suggestion, bool) {
	if len(r.Suggestions) == 0 {
		return Suggestion{}, false
	}
	return r.Suggestions[0], true
}

// Resolve fills CategoryID on archetype-based suggestions by matching
// the archetype's default name against the user's categories. Unmatched
// suggestions keep an empty CategoryID so the caller can materialize
// the category on acceptance.
func (r *Result) Resolve(categories []domain.Category) {
	for i := range r.Suggestions {
		s := &r.Suggestions[i]
		if s.CategoryID != "" {
			continue
		}
		want := strings.ToLower(lexicon.DefaultsFor(s.Archetype).Name)
		for _, c := range categories {
			if strings.ToLower(c.Name) == want {
				s.CategoryID = c.ID
				break
			}
		}
	}
}

// PatternSource supplies historical usage patterns for a user. A nil
// source (or an error from it) degrades to lexicon-only classification.
type PatternSource interface {
	Patterns(ctx context.Context, userID string) (map[string]domain.UsagePattern, error)
}

// Input is one classification request.
type Input struct {
	Description string
	Amount      float64
	Merchant    string
	UserID      string // optional; enables usage-pattern scoring
}

// Classifier scores drafts against the lexicon and usage patterns.
// One classifier instance serves one user session, so the memo key
// does not need the user id.
type Classifier struct {
	th       Thresholds
	patterns PatternSource
	memo     *memo
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// New creates a classifier. patterns may be nil.
func New(th Thresholds, patterns PatternSource, metrics *observability.Metrics, logger *zap.Logger) *Classifier {
	if th.MemoSize <= 0 {
		th.MemoSize = DefaultThresholds().MemoSize
	}
	return &Classifier{
		th:       th,
		patterns: patterns,
		memo:     newMemo(th.MemoSize),
		metrics:  metrics,
		logger:   logger,
	}
}

// Suggest produces ranked category suggestions for a draft. Results are
// memoized per (description, amount, merchant); the cache-hit path
// returns the same ordered list as a fresh computation.
func (c *Classifier) Suggest(ctx context.Context, in Input) Result {
	ctx, span := tracer.Start(ctx, "Classifier.Suggest")
	defer span.End()
	span.SetAttributes(attribute.Float64("amount", in.Amount))

	key := memoKey(in)
	if cached, ok := c.memo.get(key); ok {
		c.metrics.IncrCacheHit("classifier")
		return cached
	}
	c.metrics.IncrCacheMiss("classifier")

	res := c.compute(ctx, in)
	c.memo.put(key, res)
	c.metrics.IncrSuggestions(len(res.Suggestions))
	return res
}

func memoKey(in Input) string {
	return fmt.Sprintf("%s|%.2f|%s", strings.ToLower(in.Description), in.Amount, strings.ToLower(in.Merchant))
}

func (c *Classifier) compute(ctx context.Context, in Input) Result {
	text := normalize(in.Description, in.Merchant)

	var suggestions []Suggestion
	suggestions = append(suggestions, c.lexiconSuggestions(text)...)
	if s, ok := c.amountSuggestion(in.Amount); ok {
		suggestions = append(suggestions, s)
	}
	if in.UserID != "" && c.patterns != nil {
		suggestions = append(suggestions, c.usageSuggestions(ctx, in, text)...)
	}

	suggestions = dedupe(suggestions)
	// Ties break on score, then target identity, so a recomputation
	// after memo eviction orders identically to the first pass.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.CategoryID != b.CategoryID {
			return a.CategoryID < b.CategoryID
		}
		return a.Archetype < b.Archetype
	})

	res := Result{Suggestions: suggestions}
	if len(suggestions) > 0 {
		res.Confidence = suggestions[0].Confidence
	}
	n := len(suggestions)
	if n > maxFactors {
		n = maxFactors
	}
	for _, s := range suggestions[:n] {
		res.Factors = append(res.Factors, Factor{Method: s.Method, Score: s.Score})
	}
	return res
}

// normalize lowercases description and merchant into one search text.
func normalize(description, merchant string) string {
	return strings.ToLower(strings.TrimSpace(description + " " + merchant))
}

// lexiconSuggestions accumulates keyword scores per archetype.
// Keywords are substring matches, not tokenized matches, so compound
// words still hit.
func (c *Classifier) lexiconSuggestions(text string) []Suggestion {
	if text == "" {
		return nil
	}
	var out []Suggestion
	for _, archetype := range lexicon.All() {
		entry := lexicon.EntryFor(archetype)
		score := 0.0
		for _, kw := range entry.Primary {
			if strings.Contains(text, kw) {
				score += lexicon.WeightPrimary
			}
		}
		for _, kw := range entry.Secondary {
			if strings.Contains(text, kw) {
				score += lexicon.WeightSecondary
			}
		}
		for _, kw := range entry.Merchants {
			if strings.Contains(text, kw) {
				score += lexicon.WeightMerchant
			}
		}
		if score == 0 {
			continue
		}
		conf := score / lexiconDivisor
		if conf > 1 {
			conf = 1
		}
		out = append(out, Suggestion{
			Archetype:  archetype,
			Confidence: conf,
			Method:     MethodLexicon,
			Score:      score,
		})
	}
	return out
}

// amountSuggestion emits at most one suggestion based on the amount
// magnitude alone.
func (c *Classifier) amountSuggestion(amount float64) (Suggestion, bool) {
	if amount < 0 {
		amount = -amount
	}
	var (
		class lexicon.AmountClass
		conf  float64
	)
	switch {
	case amount > c.th.LargeAmount:
		class, conf = lexicon.AmountLargeFixed, c.th.LargeConfidence
	case amount > 0 && amount < c.th.SmallAmount:
		class, conf = lexicon.AmountDailySmall, c.th.SmallConfidence
	case amount >= c.th.RetailMin && amount <= c.th.RetailMax:
		class, conf = lexicon.AmountRetail, c.th.RetailConf
	default:
		return Suggestion{}, false
	}
	archetype, ok := lexicon.ArchetypeForAmountClass(class)
	if !ok {
		return Suggestion{}, false
	}
	return Suggestion{
		Archetype:  archetype,
		Confidence: conf,
		Method:     MethodAmount,
		Score:      conf * lexiconDivisor,
	}, true
}

// usageSuggestions scores the user's historical patterns against the
// draft. A pattern becomes a candidate only when its total score
// clears the floor.
func (c *Classifier) usageSuggestions(ctx context.Context, in Input, text string) []Suggestion {
	patterns, err := c.patterns.Patterns(ctx, in.UserID)
	if err != nil {
		c.logger.Warn("usage patterns unavailable, degrading to lexicon-only",
			zap.String("user_id", in.UserID),
			zap.Error(err),
		)
		return nil
	}

	words := significantWords(text)
	ids := make([]string, 0, len(patterns))
	for categoryID := range patterns {
		ids = append(ids, categoryID)
	}
	sort.Strings(ids)

	var out []Suggestion
	for _, categoryID := range ids {
		p := patterns[categoryID]
		score := textSimilarity(words, p.CommonTokens) * usageTextWeight
		if p.AverageAmount > 0 {
			score += amountSimilarity(in.Amount, p.AverageAmount) * usageAmountWeight
		}
		bonus := float64(p.UsageCount) / usageFrequencyStep
		if bonus > usageFrequencyCap {
			bonus = usageFrequencyCap
		}
		score += bonus

		if score <= usageScoreFloor {
			continue
		}
		conf := score / usageDivisor
		if conf > 1 {
			conf = 1
		}
		out = append(out, Suggestion{
			CategoryID: categoryID,
			Confidence: conf,
			Method:     MethodUsage,
			Score:      score,
		})
	}
	return out
}

// significantWords extracts words longer than two characters.
func significantWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// textSimilarity is the share of significant words common to the draft
// and the pattern, over the larger of the two word counts.
func textSimilarity(words []string, tokens []string) float64 {
	if len(words) == 0 || len(tokens) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	common := 0
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := set[w]; ok {
			common++
		}
	}
	max := len(seen)
	if len(tokens) > max {
		max = len(tokens)
	}
	return float64(common) / float64(max)
}

// amountSimilarity is 1 minus the relative distance between the draft
// amount and the pattern average.
func amountSimilarity(amount, average float64) float64 {
	if amount < 0 {
		amount = -amount
	}
	max := amount
	if average > max {
		max = average
	}
	if max == 0 {
		return 0
	}
	diff := amount - average
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/max
}

// dedupe keeps the highest-confidence suggestion per target.
func dedupe(in []Suggestion) []Suggestion {
	type target struct {
		categoryID string
		archetype  lexicon.Archetype
	}
	best := make(map[target]int, len(in))
	var out []Suggestion
	for _, s := range in {
		k := target{categoryID: s.CategoryID, archetype: s.Archetype}
		if i, ok := best[k]; ok {
			if s.Confidence > out[i].Confidence {
				out[i] = s
			}
			continue
		}
		best[k] = len(out)
		out = append(out, s)
	}
	return out
}
