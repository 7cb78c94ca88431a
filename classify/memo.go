package classify

import (
	"container/list"
	"sync"
)

// memo is a bounded insertion-ordered cache of classification results.
// Once the capacity is exceeded the oldest entry is evicted, so a user
// editing an amount digit by digit recomputes per keystroke (amount is
// part of the key) without growing memory unbounded.
type memo struct {
	mu    sync.Mutex
	cap   int
	items map[string]*list.Element
	order *list.List
}

type memoEntry struct {
	key string
	res Result
}

func newMemo(capacity int) *memo {
	return &memo{
		cap:   capacity,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (m *memo) get(key string) (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return Result{}, false
	}
	return elem.Value.(*memoEntry).res, true
}

func (m *memo) put(key string, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		elem.Value.(*memoEntry).res = res
		return
	}
	m.items[key] = m.order.PushBack(&memoEntry{key: key, res: res})
	for m.order.Len() > m.cap {
		oldest := m.order.Front()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*memoEntry).key)
	}
}

func (m *memo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
