// Package cache holds query results shared between the mutation
// coordinator and readers. Entries are never evicted on write paths;
// mutations mark them stale and refreshes replace them wholesale.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/HananelSabag/SpendWise-sub004/observability"
)

// Canonical query names. Invalidation and subscriptions key off these.
const (
	QueryTransactions          = "transactions"
	QueryDashboard             = "dashboard"
	QueryTransactionsSummary   = "transactionsSummary"
	QueryCategories            = "categories"
	QueryTemplates             = "templates"
	QueryTransactionsRecurring = "transactionsRecurring"
)

// Key identifies one cached result: a query name plus its serialized
// parameters (period, filters). Params may be empty.
type Key struct {
	Query  string
	Params string
}

type entry struct {
	value    any
	stale    bool
	storedAt time.Time
}

// Event notifies subscribers that entries under a query changed state.
type Event struct {
	Query string
}

// Loader produces a fresh value for a key, typically a backend fetch.
type Loader func(ctx context.Context) (any, error)

// Store is a thread-safe keyed cache with staleness marking, wholesale
// snapshots for optimistic rollback, and change notification.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]entry
	subs    map[string][]chan Event
	ttl     time.Duration

	group   singleflight.Group
	metrics *observability.Metrics
}

// NewStore creates an empty store. Entries older than ttl are reported
// stale on read; a zero ttl disables age-based staleness.
func NewStore(ttl time.Duration, metrics *observability.Metrics) *Store {
	return &Store{
		entries: make(map[Key]entry),
		subs:    make(map[string][]chan Event),
		ttl:     ttl,
		metrics: metrics,
	}
}

// Put replaces the value under key and clears its stale flag. Values
// are replaced wholesale; callers must not mutate a stored value after
// handing it over.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: time.Now()}
	s.mu.Unlock()
}

// Get returns the cached value for key. stale reports whether the
// entry has been invalidated or outlived the ttl; a stale value is
// still usable for display while a refresh is in flight.
func (s *Store) Get(key Key) (value any, stale bool, ok bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, false
	}
	stale = e.stale
	if s.ttl > 0 && time.Since(e.storedAt) > s.ttl {
		stale = true
	}
	return e.value, stale, true
}

// Snapshot captures the current value under key for later rollback.
// The boolean reports whether an entry existed.
func (s *Store) Snapshot(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Restore puts a previously snapshotted value back, overwriting any
// optimistic state. A restore with existed=false removes the entry.
func (s *Store) Restore(key Key, value any, existed bool) {
	s.mu.Lock()
	if existed {
		s.entries[key] = entry{value: value, storedAt: time.Now()}
	} else {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// MarkStale flags every entry under the given queries as stale and
// notifies subscribers. Values stay readable until refreshed.
func (s *Store) MarkStale(queries ...string) int {
	s.mu.Lock()
	n := 0
	for key, e := range s.entries {
		for _, q := range queries {
			if key.Query == q && !e.stale {
				e.stale = true
				s.entries[key] = e
				n++
				break
			}
		}
	}
	s.mu.Unlock()

	for _, q := range queries {
		s.notify(q)
	}
	if s.metrics != nil {
		s.metrics.AddInvalidations(n)
	}
	return n
}

// Subscribe returns a channel receiving an event whenever entries
// under query are invalidated or refreshed. The channel is buffered;
// slow consumers miss intermediate events, never block writers.
func (s *Store) Subscribe(query string) <-chan Event {
	ch := make(chan Event, 8)
	s.mu.Lock()
	s.subs[query] = append(s.subs[query], ch)
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel previously returned by Subscribe.
func (s *Store) Unsubscribe(query string, ch <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subs[query]
	for i, c := range subs {
		if c == ch {
			s.subs[query] = append(subs[:i], subs[i+1:]...)
			close(c)
			return
		}
	}
}

// Notify wakes subscribers of query without changing entry state. The
// coordinator calls this after committing a confirmed value.
func (s *Store) Notify(query string) {
	s.notify(query)
}

func (s *Store) notify(query string) {
	s.mu.RLock()
	subs := s.subs[query]
	s.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- Event{Query: query}:
		default:
		}
	}
}

// ReadThrough returns the cached value for key, loading it when the
// entry is missing or stale. Concurrent loads for the same key are
// collapsed into a single backend call.
func (s *Store) ReadThrough(ctx context.Context, key Key, load Loader) (any, error) {
	if value, stale, ok := s.Get(key); ok && !stale {
		if s.metrics != nil {
			s.metrics.IncrCacheHit("query")
		}
		return value, nil
	}
	if s.metrics != nil {
		s.metrics.IncrCacheMiss("query")
	}

	value, err, _ := s.group.Do(key.Query+"|"+key.Params, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
