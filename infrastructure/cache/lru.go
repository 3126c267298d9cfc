package cache

import (
	"container/list"
	"sync"
)

// NamespaceLRU is a namespace-based LRU cache. The preview server keys
// rendered labels by package type (namespace) and code (key).
type NamespaceLRU struct {
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
	hits     uint64
	misses   uint64
}

type entry struct {
	compositeKey string
	value        []byte
}

// NewNamespaceLRU creates a new namespace-based LRU cache with specified capacity
func NewNamespaceLRU(capacity int) *NamespaceLRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &NamespaceLRU{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

func compositeKey(namespace, key string) string {
	return namespace + ":" + key
}

// Set adds or updates a value in the cache under namespace and key
func (c *NamespaceLRU) Set(namespace, key string, value []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	ck := compositeKey(namespace, key)
	if element, exists := c.items[ck]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*entry).value = value
		return
	}

	element := c.queue.PushFront(&entry{compositeKey: ck, value: value})
	c.items[ck] = element

	if c.queue.Len() > c.capacity {
		c.evict()
	}
}

// Get retrieves a value and marks it as recently used
func (c *NamespaceLRU) Get(namespace, key string) ([]byte, bool) {
	// Full lock: a hit reorders the queue.
	c.mutex.Lock()
	defer c.mutex.Unlock()

	element, exists := c.items[compositeKey(namespace, key)]
	if !exists {
		c.misses++
		return nil, false
	}

	c.hits++
	c.queue.MoveToFront(element)
	return element.Value.(*entry).value, true
}

// Len returns the number of cached entries
func (c *NamespaceLRU) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.queue.Len()
}

// Stats returns hit and miss counters
func (c *NamespaceLRU) Stats() (hits, misses uint64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.hits, c.misses
}

// evict removes the least recently used item. Caller holds the lock.
func (c *NamespaceLRU) evict() {
	element := c.queue.Back()
	if element == nil {
		return
	}
	c.queue.Remove(element)
	delete(c.items, element.Value.(*entry).compositeKey)
}
