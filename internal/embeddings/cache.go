package embeddings

import (
	"container/list"
	"strings"
	"sync"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// cacheKey identifies one (language, lowercased word) slot.
type cacheKey struct {
	language string
	word     string
}

func newCacheKey(word, language string) cacheKey {
	return cacheKey{language: language, word: strings.ToLower(word)}
}

type cacheEntry struct {
	key   cacheKey
	value models.WordEmbedding
	miss  bool // true caches a confirmed EmbeddingNotFound
}

// lruCache is a thread-safe, fixed-capacity, least-recently-used cache
// keyed by (language, word), adapted from the container/list-backed
// LRUCache used elsewhere in the pack for response caching — here
// generalized to cache embedding lookups (including negative results)
// rather than arbitrary values.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[cacheKey]*list.Element
	order    *list.List
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 10000
	}
	return &lruCache{
		capacity: capacity,
		items:    make(map[cacheKey]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) get(key cacheKey) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return cacheEntry{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(cacheEntry), true
}

func (c *lruCache) set(entry cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[entry.key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}
	elem := c.order.PushFront(entry)
	c.items[entry.key] = elem
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(cacheEntry).key)
		}
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
