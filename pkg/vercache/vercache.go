// Package vercache memoizes (URL, identity) evaluations so the orchestrator
// does not re-fetch and re-score a page it has seen recently. The cache is an
// optimization only: a cold cache must produce identical discovery results to
// a warm one, only slower.
//
// Entries carry a fixed TTL and total size is bounded; eviction removes
// expired entries first, then the oldest-inserted entries until back under
// capacity. The cache is shared across concurrent discovery runs and safe
// for concurrent use.
package vercache

import (
	"container/list"
	"sync"
	"time"

	"sitefinder/pkg/domain"
)

// Key builds the cache key for one (URL, identity) pair. The URL must already
// be normalized by the caller; the identity part is the record fingerprint so
// homonymous companies never share entries.
func Key(normalizedURL string, record domain.BusinessRecord) string {
	return normalizedURL + "#" + record.Fingerprint()
}

// entry is one cached evaluation with its insertion time.
type entry struct {
	key      string
	eval     domain.Evaluation
	storedAt time.Time
}

// Cache is a bounded, TTL-based evaluation store.
type Cache struct {
	ttl      time.Duration
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = oldest inserted
}

// New returns a Cache holding at most capacity entries for ttl each.
func New(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10_000
	}

	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached evaluation for key, if present and not expired.
func (c *Cache) Get(key string) (domain.Evaluation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.Evaluation{}, false
	}
	e := el.Value.(*entry)
	if time.Since(e.storedAt) > c.ttl {
		c.remove(el)

		return domain.Evaluation{}, false
	}

	return e.eval, true
}

// Set stores an evaluation under key, refreshing the entry's age if the key
// already exists, then enforces the size bound.
func (c *Cache) Set(key string, eval domain.Evaluation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.eval = eval
		e.storedAt = time.Now()
		c.order.MoveToBack(el)

		return
	}

	el := c.order.PushBack(&entry{key: key, eval: eval, storedAt: time.Now()})
	c.entries[key] = el

	if c.order.Len() > c.capacity {
		c.evict()
	}
}

// Len reports the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// evict drops expired entries first, then oldest-inserted entries until the
// cache is back under capacity. Caller must hold mu.
func (c *Cache) evict() {
	var next *list.Element
	for el := c.order.Front(); el != nil && c.order.Len() > c.capacity; el = next {
		next = el.Next()
		if time.Since(el.Value.(*entry).storedAt) > c.ttl {
			c.remove(el)
		}
	}

	for c.order.Len() > c.capacity {
		c.remove(c.order.Front())
	}
}

// remove deletes one element from both views. Caller must hold mu.
func (c *Cache) remove(el *list.Element) {
	delete(c.entries, el.Value.(*entry).key)
	c.order.Remove(el)
}
