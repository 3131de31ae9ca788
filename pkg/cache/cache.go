package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Cache is a weight bounded, least recently used cache
type Cache[V any] interface {
	// Insert adds or replaces a value. Least recently used values are evicted
	// until the total weight fits within the budget.
	Insert(key string, value V, weight int)

	// Retrieve gets a value and marks it as most recently used
	Retrieve(key string) (V, bool)

	// Remove deletes a value, if it exists
	Remove(key string)

	GetWeight() int
	GetBudget() int

	Clear()
}

type node[V any] struct {
	prev, next *node[V]
	key        string
	value      V
	weight     int
}

type cache[V any] struct {
	log *logrus.Entry

	mu     sync.Mutex
	head   *node[V]
	tail   *node[V]
	lookup map[string]*node[V]
	weight int
	budget int
}

// NewCache returns a cache bounded by the given total weight
func NewCache[V any](budget int) Cache[V] {
	return &cache[V]{
		log:    logrus.StandardLogger().WithField("type", "cache"),
		lookup: make(map[string]*node[V]),
		budget: budget,
	}
}

// Insert implements Cache.Insert
func (c *cache[V]) Insert(key string, value V, weight int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.lookup[key]; ok {
		c.unlink(existing)
		c.weight -= existing.weight
		delete(c.lookup, key)
	}

	n := &node[V]{
		key:    key,
		value:  value,
		weight: weight,
	}
	c.pushFront(n)
	c.lookup[key] = n
	c.weight += weight

	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		c.weight -= evicted.weight
		delete(c.lookup, evicted.key)

		c.log.WithFields(logrus.Fields{
			"key":          evicted.key,
			"weight":       evicted.weight,
			"spare_weight": c.budget - c.weight,
		}).Trace("evicted cache entry")
	}
}

// Retrieve implements Cache.Retrieve
func (c *cache[V]) Retrieve(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.lookup[key]
	if !ok {
		var zero V
		return zero, false
	}

	if n != c.head {
		c.unlink(n)
		c.pushFront(n)
	}

	return n.value, true
}

// Remove implements Cache.Remove
func (c *cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.lookup[key]
	if !ok {
		return
	}

	c.unlink(n)
	c.weight -= n.weight
	delete(c.lookup, key)
}

// GetWeight implements Cache.GetWeight
func (c *cache[V]) GetWeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

// GetBudget implements Cache.GetBudget
func (c *cache[V]) GetBudget() int {
	return c.budget
}

// Clear implements Cache.Clear
func (c *cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*node[V])
	c.weight = 0
}

func (c *cache[V]) pushFront(n *node[V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *cache[V]) unlink(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
