package icons

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const cacheShards = 32

// Key identifies one resolution request.
type Key struct {
	Name  string
	Theme string
}

func (k Key) String() string {
	return k.Name + "\x00" + k.Theme
}

// Entry is a cached result. Found=false is a confirmed miss.
type Entry struct {
	Path  string
	Found bool
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[Key]Entry
}

// Cache memoizes resolutions for the lifetime of the process. Entries are never
// evicted or replaced. Keys are spread over independently locked shards.
type Cache struct {
	shards [cacheShards]cacheShard
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].entries = make(map[Key]Entry)
	}
	return c
}

func (c *Cache) shard(k Key) *cacheShard {
	return &c.shards[xxhash.Sum64String(k.String())%cacheShards]
}

// Get returns the stored entry for k, if any.
func (c *Cache) Get(k Key) (Entry, bool) {
	s := c.shard(k)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[k]
	return e, ok
}

// Put stores e under k unless an entry already exists, and returns the entry
// that is stored after the call.
func (c *Cache) Put(k Key, e Entry) Entry {
	s := c.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[k]; ok {
		return existing
	}
	s.entries[k] = e
	return e
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}
