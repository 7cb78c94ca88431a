// Package spendwise wires the transaction intelligence core together:
// category classification, recurring impact normalization, and the
// optimistic mutation pipeline over a shared query cache.
package spendwise

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/HananelSabag/SpendWise-sub004/cache"
	"github.com/HananelSabag/SpendWise-sub004/classify"
	"github.com/HananelSabag/SpendWise-sub004/config"
	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/mutation"
	"github.com/HananelSabag/SpendWise-sub004/observability"
	"github.com/HananelSabag/SpendWise-sub004/resilience"
	"github.com/HananelSabag/SpendWise-sub004/schedule"
	"github.com/HananelSabag/SpendWise-sub004/transport"
	"github.com/HananelSabag/SpendWise-sub004/usage"
)

// Engine is the façade over the core. One Engine serves one
// authenticated user session.
type Engine struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *observability.Metrics
	store       *cache.Store
	client      *transport.Client
	classifier  *classify.Classifier
	coordinator *mutation.Coordinator
	regenerator *schedule.Regenerator

	shutdownTracing func(context.Context) error
}

// Options tune engine construction beyond what Config carries.
type Options struct {
	// TokenRefresh obtains a new access token near expiry. Nil means
	// the configured token is used until it expires.
	TokenRefresh transport.RefreshFunc
	// Logger overrides the default logger built from Config.LogLevel.
	Logger *zap.Logger
}

// New builds a fully wired engine from configuration.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewLogger(cfg.LogLevel)
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}

	if cfg.TracingEnable {
		shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "spendwise-core")
		if err != nil {
			return nil, err
		}
		e.shutdownTracing = shutdown
	}

	e.store = cache.NewStore(cfg.CacheTTL, e.metrics)

	tokens := transport.NewTokenSource(cfg.AccessToken, opts.TokenRefresh, logger)
	resCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	e.client = transport.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, resCfg, tokens, e.metrics, logger)

	th := classify.DefaultThresholds()
	th.LargeAmount = cfg.LargeFixedThreshold
	th.SmallAmount = cfg.DailySmallThreshold
	th.RetailMin = cfg.RetailLow
	th.RetailMax = cfg.RetailHigh
	th.MemoSize = cfg.MemoSize
	e.classifier = classify.New(th, e.client, e.metrics, logger)

	e.coordinator = mutation.NewCoordinator(e.store, e.client, e.metrics, logger)
	e.regenerator = schedule.NewRegenerator(e.client, cfg.RegenTimeout, logger)

	logger.Info("engine initialized",
		zap.String("api", cfg.APIBaseURL),
		zap.Bool("tracing", cfg.TracingEnable))
	return e, nil
}

// Suggest classifies a transaction description and amount into ranked
// category suggestions.
func (e *Engine) Suggest(ctx context.Context, in classify.Input) classify.Result {
	return e.classifier.Suggest(ctx, in)
}

// MonthlyImpact normalizes one template to its signed monthly amount.
func (e *Engine) MonthlyImpact(t *domain.RecurringTemplate) (float64, error) {
	return schedule.MonthlyImpact(t)
}

// PortfolioImpact aggregates the monthly impact of the cached template
// portfolio, fetching it when absent.
func (e *Engine) PortfolioImpact(ctx context.Context, asOf time.Time) (schedule.PortfolioImpactResult, error) {
	templates, err := e.Templates(ctx)
	if err != nil {
		return schedule.PortfolioImpactResult{}, err
	}
	return schedule.PortfolioImpact(templates, asOf), nil
}

// Submit runs one mutation through the optimistic pipeline.
func (e *Engine) Submit(ctx context.Context, intent mutation.Intent) (mutation.Result, error) {
	return e.coordinator.Submit(ctx, intent)
}

// Transactions returns the cached transaction list, loading it from
// the backend when missing or stale.
func (e *Engine) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	v, err := e.store.ReadThrough(ctx, cache.Key{Query: cache.QueryTransactions}, func(ctx context.Context) (any, error) {
		return e.client.ListTransactions(ctx, "")
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Transaction), nil
}

// Templates returns the cached recurring templates.
func (e *Engine) Templates(ctx context.Context) ([]domain.RecurringTemplate, error) {
	v, err := e.store.ReadThrough(ctx, cache.Key{Query: cache.QueryTemplates}, func(ctx context.Context) (any, error) {
		return e.client.ListTemplates(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.RecurringTemplate), nil
}

// Categories returns the cached category list.
func (e *Engine) Categories(ctx context.Context) ([]domain.Category, error) {
	v, err := e.store.ReadThrough(ctx, cache.Key{Query: cache.QueryCategories}, func(ctx context.Context) (any, error) {
		return e.client.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Category), nil
}

// Summary returns the cached transaction summary.
func (e *Engine) Summary(ctx context.Context) (*domain.TransactionSummary, error) {
	v, err := e.store.ReadThrough(ctx, cache.Key{Query: cache.QueryTransactionsSummary}, func(ctx context.Context) (any, error) {
		return e.client.GetSummary(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.TransactionSummary), nil
}

// Recurring returns the cached transactions generated from templates
// for the given type.
func (e *Engine) Recurring(ctx context.Context, txType domain.TransactionType) ([]domain.Transaction, error) {
	key := cache.Key{Query: cache.QueryTransactionsRecurring, Params: string(txType)}
	v, err := e.store.ReadThrough(ctx, key, func(ctx context.Context) (any, error) {
		return e.client.ListRecurring(ctx, txType)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Transaction), nil
}

// Subscribe delivers cache events for a query. Callers receive an
// event when entries go stale or fresh values land.
func (e *Engine) Subscribe(query string) <-chan cache.Event {
	return e.store.Subscribe(query)
}

// Unsubscribe releases a subscription channel.
func (e *Engine) Unsubscribe(query string, ch <-chan cache.Event) {
	e.store.Unsubscribe(query, ch)
}

// BuildPatterns derives local usage patterns from cached data, a
// fallback when the backend analytics endpoint is unavailable.
func (e *Engine) BuildPatterns(ctx context.Context) (map[string]domain.UsagePattern, error) {
	categories, err := e.Categories(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return usage.BuildPatterns(categories, transactions), nil
}

// AnalyzePortfolio produces the advisory category portfolio report.
func (e *Engine) AnalyzePortfolio(ctx context.Context, asOf time.Time) (usage.Portfolio, error) {
	categories, err := e.Categories(ctx)
	if err != nil {
		return usage.Portfolio{}, err
	}
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return usage.Portfolio{}, err
	}
	return usage.AnalyzePortfolio(categories, transactions, asOf), nil
}

// SkipOccurrences excludes dates (2006-01-02 format) from a
// template's generation and invalidates the affected caches.
func (e *Engine) SkipOccurrences(ctx context.Context, templateID string, dates []string) error {
	if err := e.client.AddSkipDates(ctx, templateID, dates); err != nil {
		return err
	}
	e.store.MarkStale(cache.QueryTemplates, cache.QueryTransactions, cache.QueryDashboard)
	return nil
}

// Occurrences enumerates a template's concrete dates in [from, until].
func (e *Engine) Occurrences(t *domain.RecurringTemplate, from, until time.Time) []time.Time {
	return schedule.Occurrences(t, from, until)
}

// StartRegeneration schedules periodic recurring-transaction
// generation on the configured cron expression.
func (e *Engine) StartRegeneration() error {
	return e.regenerator.Start(e.cfg.RegenCronSpec)
}

// Metrics exposes the engine's Prometheus registry and snapshot
// helpers.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Close drains in-flight mutations and shuts down background work.
func (e *Engine) Close(ctx context.Context) error {
	e.regenerator.Stop()
	e.coordinator.Close()
	if e.shutdownTracing != nil {
		return e.shutdownTracing(ctx)
	}
	return nil
}
