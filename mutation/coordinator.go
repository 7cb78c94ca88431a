// Package mutation coordinates optimistic writes: mutations apply to
// the cache immediately, dispatch to the backend in per-entity-kind
// FIFO order, and either commit the confirmed entity or roll the cache
// back to its pre-mutation state.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HananelSabag/SpendWise-sub004/cache"
	"github.com/HananelSabag/SpendWise-sub004/domain"
	"github.com/HananelSabag/SpendWise-sub004/observability"
)

var tracer = otel.Tracer("mutation")

// Dispatcher sends confirmed mutations to the backend and refetches
// authoritative state after conflicts.
type Dispatcher interface {
	CreateTransaction(ctx context.Context, p domain.TransactionPayload) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, p domain.TransactionPayload) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, txType domain.TransactionType, id string, deleteFuture bool) error

	UpdateTemplate(ctx context.Context, id string, p domain.TemplatePayload) (*domain.RecurringTemplate, error)
	DeleteTemplate(ctx context.Context, id string, deleteFuture bool) error

	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListTransactions(ctx context.Context, params string) ([]domain.Transaction, error)
	ListTemplates(ctx context.Context) ([]domain.RecurringTemplate, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Intent describes one requested mutation. Exactly one of the payload
// fields matching Entity must be set for create/update operations.
type Intent struct {
	Entity EntityKind
	Op     OpKind
	ID     string // empty for creates

	Transaction *domain.TransactionPayload
	Template    *domain.TemplatePayload
	Category    *domain.Category

	// TxType routes transaction deletes, which carry no payload.
	TxType domain.TransactionType
	// DeleteFuture extends template/transaction deletes to future
	// generated occurrences.
	DeleteFuture bool
}

// Validate rejects malformed intents before any cache write.
func (in *Intent) Validate(now time.Time) error {
	switch in.Entity {
	case EntityTransaction:
		if in.Op == OpDelete {
			if in.ID == "" {
				return &domain.ErrValidation{Field: "id", Message: "required for delete"}
			}
			return nil
		}
		if in.Transaction == nil {
			return &domain.ErrValidation{Field: "transaction", Message: "payload required"}
		}
		if in.Op == OpUpdate && in.ID == "" {
			return &domain.ErrValidation{Field: "id", Message: "required for update"}
		}
		return in.Transaction.Validate(now)
	case EntityTemplate:
		if in.Op == OpCreate {
			return &domain.ErrValidation{Field: "op", Message: "templates are created through recurring transactions"}
		}
		if in.ID == "" {
			return &domain.ErrValidation{Field: "id", Message: "required"}
		}
		if in.Op == OpUpdate {
			if in.Template == nil {
				return &domain.ErrValidation{Field: "template", Message: "payload required"}
			}
			return in.Template.Validate()
		}
		return nil
	case EntityCategory:
		if in.Op == OpDelete {
			if in.ID == "" {
				return &domain.ErrValidation{Field: "id", Message: "required for delete"}
			}
			return nil
		}
		if in.Category == nil {
			return &domain.ErrValidation{Field: "category", Message: "payload required"}
		}
		if in.Op == OpUpdate && in.ID == "" {
			return &domain.ErrValidation{Field: "id", Message: "required for update"}
		}
		return in.Category.Validate()
	}
	return &domain.ErrValidation{Field: "entity", Message: "unknown entity kind"}
}

// key is the FIFO ordering domain: one queue per entity kind. Every
// mutation of a kind read-modify-writes that kind's list cache entry,
// so the snapshot, optimistic apply, dispatch, and rollback of one
// mutation must all land before the next one snapshots. Anything finer
// lets a rollback restore a snapshot that predates a sibling's commit.
func (in *Intent) key() string {
	return string(in.Entity)
}

// Result carries the confirmed entity for successful mutations. TempID
// is set for creates so callers can correlate the optimistic entity
// they may have observed before confirmation.
type Result struct {
	Transaction *domain.Transaction
	Template    *domain.RecurringTemplate
	Category    *domain.Category
	TempID      string
}

type job struct {
	ctx    context.Context
	intent Intent
	done   chan outcome
}

type outcome struct {
	result Result
	err    error
}

// Coordinator owns the per-key mutation queues and the optimistic
// cache protocol.
type Coordinator struct {
	cache    *cache.Store
	dispatch Dispatcher
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	queues map[string]chan job
	closed bool
	wg     sync.WaitGroup
}

// NewCoordinator creates a coordinator around the given cache and
// dispatcher.
func NewCoordinator(store *cache.Store, dispatch Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		cache:    store,
		dispatch: dispatch,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		queues:   make(map[string]chan job),
	}
}

// Submit validates the intent, enqueues it on its FIFO key, and waits
// for the outcome. When ctx is done before the outcome arrives the
// call returns ctx.Err(), but the mutation itself still runs to
// completion so the cache converges globally.
func (c *Coordinator) Submit(ctx context.Context, intent Intent) (Result, error) {
	if err := intent.Validate(c.now()); err != nil {
		c.metrics.IncrMutation("rejected")
		return Result{}, err
	}

	ch, err := c.queue(intent.key())
	if err != nil {
		return Result{}, err
	}

	j := job{ctx: ctx, intent: intent, done: make(chan outcome, 1)}
	select {
	case ch <- j:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case out := <-j.done:
		return out.result, out.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (c *Coordinator) queue(key string) (chan job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("mutation coordinator is closed")
	}
	ch, ok := c.queues[key]
	if !ok {
		ch = make(chan job, 16)
		c.queues[key] = ch
		c.wg.Add(1)
		go c.worker(ch)
	}
	return ch, nil
}

func (c *Coordinator) worker(ch chan job) {
	defer c.wg.Done()
	for j := range ch {
		// The caller may already have walked away; the mutation still
		// completes so every observer converges on the same state.
		ctx := context.WithoutCancel(j.ctx)
		res, err := c.process(ctx, j.intent)
		j.done <- outcome{result: res, err: err}
	}
}

// Close drains all queues and waits for in-flight mutations.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, ch := range c.queues {
		close(ch)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coordinator) process(ctx context.Context, intent Intent) (Result, error) {
	ctx, span := tracer.Start(ctx, "Coordinator.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("mutation.entity", string(intent.Entity)),
		attribute.String("mutation.op", string(intent.Op)),
	)
	start := c.now()
	defer func() {
		c.metrics.RecordMutationDuration(string(intent.Entity), string(intent.Op), time.Since(start))
	}()

	primary := cache.Key{Query: primaryQuery(intent.Entity)}
	saved := c.takeSnapshots(primary, intent)

	tempID := c.applyOptimistic(primary, intent)

	res, err := c.dispatchIntent(ctx, intent)
	if err != nil {
		c.restoreSnapshots(saved)
		c.metrics.IncrRollback()

		var conflict *domain.ErrConflict
		if errors.As(err, &conflict) {
			c.logger.Warn("mutation conflict, refetching",
				zap.String("entity", string(intent.Entity)),
				zap.String("id", intent.ID))
			if refetchErr := c.refetch(ctx, QueriesFor(intent.Entity, intent.Op)); refetchErr != nil {
				c.logger.Warn("conflict refetch failed", zap.Error(refetchErr))
			}
			c.metrics.IncrMutation("rolled_back")
			return Result{}, err
		}

		var invalid *domain.ErrValidation
		if errors.As(err, &invalid) {
			c.metrics.IncrMutation("rejected")
		} else {
			c.metrics.IncrMutation("rolled_back")
		}
		c.cache.Notify(primary.Query)
		return Result{}, err
	}

	res.TempID = tempID
	c.commit(primary, intent, tempID, res)
	c.cache.MarkStale(QueriesFor(intent.Entity, intent.Op)...)
	c.metrics.IncrMutation("committed")
	c.logger.Debug("mutation committed",
		zap.String("entity", string(intent.Entity)),
		zap.String("op", string(intent.Op)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

type savedEntry struct {
	key     cache.Key
	value   any
	existed bool
}

// takeSnapshots captures every cache key the optimistic apply may
// touch, so a failed dispatch restores all of them value-equal.
func (c *Coordinator) takeSnapshots(primary cache.Key, intent Intent) []savedEntry {
	keys := []cache.Key{primary}
	if intent.Entity == EntityTransaction {
		keys = append(keys, cache.Key{Query: cache.QueryTransactionsSummary})
	}
	saved := make([]savedEntry, 0, len(keys))
	for _, k := range keys {
		v, existed := c.cache.Snapshot(k)
		saved = append(saved, savedEntry{key: k, value: v, existed: existed})
	}
	return saved
}

func (c *Coordinator) restoreSnapshots(saved []savedEntry) {
	for _, s := range saved {
		c.cache.Restore(s.key, s.value, s.existed)
	}
}

// applyOptimistic writes the predicted outcome into the primary list
// cache. Parameterized variants of the query are left alone; they go
// stale on commit and refetch lazily. Returns the temp ID for creates.
func (c *Coordinator) applyOptimistic(primary cache.Key, intent Intent) string {
	value, _, ok := c.cache.Get(primary)
	if !ok {
		if intent.Op == OpCreate {
			return newTempID()
		}
		return ""
	}

	var tempID string
	switch intent.Entity {
	case EntityTransaction:
		cached, _ := value.([]domain.Transaction)
		switch intent.Op {
		case OpCreate:
			tempID = newTempID()
			tx := transactionFromPayload(tempID, *intent.Transaction, c.now())
			c.cache.Put(primary, prependTransaction(cached, tx))
			c.adjustSummary(tx, +1)
		case OpUpdate:
			c.cache.Put(primary, patchTransaction(cached, intent.ID, *intent.Transaction))
		case OpDelete:
			c.cache.Put(primary, removeTransaction(cached, intent.ID))
			for _, tx := range cached {
				if tx.ID == intent.ID {
					c.adjustSummary(tx, -1)
					break
				}
			}
		}
	case EntityTemplate:
		cached, _ := value.([]domain.RecurringTemplate)
		switch intent.Op {
		case OpUpdate:
			c.cache.Put(primary, patchTemplate(cached, intent.ID, *intent.Template))
		case OpDelete:
			c.cache.Put(primary, removeTemplate(cached, intent.ID))
		}
	case EntityCategory:
		cached, _ := value.([]domain.Category)
		switch intent.Op {
		case OpCreate:
			tempID = newTempID()
			optimistic := *intent.Category
			optimistic.ID = tempID
			c.cache.Put(primary, appendCategory(cached, optimistic))
		case OpUpdate:
			c.cache.Put(primary, patchCategory(cached, intent.ID, *intent.Category))
		case OpDelete:
			c.cache.Put(primary, removeCategory(cached, intent.ID))
		}
	}
	c.cache.Notify(primary.Query)
	return tempID
}

// adjustSummary bumps the cached aggregate counts so the dashboard
// reflects a create or delete before the refetch lands. Updates leave
// the summary to the stale-and-refetch path; reshuffling amounts in
// place is where aggregates drift.
func (c *Coordinator) adjustSummary(tx domain.Transaction, direction float64) {
	key := cache.Key{Query: cache.QueryTransactionsSummary}
	value, _, ok := c.cache.Get(key)
	if !ok {
		return
	}
	cached, ok := value.(*domain.TransactionSummary)
	if !ok {
		return
	}
	summary := *cached
	summary.Count += int(direction)
	if tx.Type == domain.TypeIncome {
		summary.TotalIncome += direction * tx.Amount
	} else {
		summary.TotalExpense += direction * tx.Amount
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	c.cache.Put(key, &summary)
}

func (c *Coordinator) dispatchIntent(ctx context.Context, intent Intent) (Result, error) {
	switch intent.Entity {
	case EntityTransaction:
		switch intent.Op {
		case OpCreate:
			tx, err := c.dispatch.CreateTransaction(ctx, *intent.Transaction)
			return Result{Transaction: tx}, err
		case OpUpdate:
			tx, err := c.dispatch.UpdateTransaction(ctx, intent.ID, *intent.Transaction)
			return Result{Transaction: tx}, err
		case OpDelete:
			return Result{}, c.dispatch.DeleteTransaction(ctx, intent.TxType, intent.ID, intent.DeleteFuture)
		}
	case EntityTemplate:
		switch intent.Op {
		case OpUpdate:
			t, err := c.dispatch.UpdateTemplate(ctx, intent.ID, *intent.Template)
			return Result{Template: t}, err
		case OpDelete:
			return Result{}, c.dispatch.DeleteTemplate(ctx, intent.ID, intent.DeleteFuture)
		}
	case EntityCategory:
		switch intent.Op {
		case OpCreate:
			cat, err := c.dispatch.CreateCategory(ctx, *intent.Category)
			return Result{Category: cat}, err
		case OpUpdate:
			cat, err := c.dispatch.UpdateCategory(ctx, intent.ID, *intent.Category)
			return Result{Category: cat}, err
		case OpDelete:
			return Result{}, c.dispatch.DeleteCategory(ctx, intent.ID)
		}
	}
	return Result{}, fmt.Errorf("unsupported mutation %s %s", intent.Op, intent.Entity)
}

// commit swaps the optimistic entity for the server-confirmed one.
// Deletes have nothing to swap; the optimistic removal stands.
func (c *Coordinator) commit(primary cache.Key, intent Intent, tempID string, res Result) {
	value, _, ok := c.cache.Get(primary)
	if !ok {
		return
	}

	targetID := intent.ID
	if intent.Op == OpCreate {
		targetID = tempID
	}

	switch intent.Entity {
	case EntityTransaction:
		if res.Transaction == nil {
			return
		}
		if cached, ok := value.([]domain.Transaction); ok {
			c.cache.Put(primary, replaceTransaction(cached, targetID, *res.Transaction))
		}
	case EntityTemplate:
		if res.Template == nil {
			return
		}
		if cached, ok := value.([]domain.RecurringTemplate); ok {
			c.cache.Put(primary, replaceTemplate(cached, targetID, *res.Template))
		}
	case EntityCategory:
		if res.Category == nil {
			return
		}
		if cached, ok := value.([]domain.Category); ok {
			c.cache.Put(primary, replaceCategory(cached, targetID, *res.Category))
		}
	}
}

// refetch pulls authoritative state for the affected list queries
// after a conflict. Fetches run in parallel; the first error wins but
// does not stop the siblings from landing their results.
func (c *Coordinator) refetch(ctx context.Context, queries []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		switch q {
		case cache.QueryTransactions:
			g.Go(func() error {
				txs, err := c.dispatch.ListTransactions(ctx, "")
				if err != nil {
					return err
				}
				c.cache.Put(cache.Key{Query: cache.QueryTransactions}, txs)
				return nil
			})
		case cache.QueryTemplates:
			g.Go(func() error {
				ts, err := c.dispatch.ListTemplates(ctx)
				if err != nil {
					return err
				}
				c.cache.Put(cache.Key{Query: cache.QueryTemplates}, ts)
				return nil
			})
		case cache.QueryCategories:
			g.Go(func() error {
				cats, err := c.dispatch.ListCategories(ctx)
				if err != nil {
					return err
				}
				c.cache.Put(cache.Key{Query: cache.QueryCategories}, cats)
				return nil
			})
		}
	}
	return g.Wait()
}
