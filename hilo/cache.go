package hilo

import (
	"sync"

	"github.com/zoobzio/dialectql/diag"
)

// Cache holds one State per sequence so every generator for a sequence
// shares the same blocks.
type Cache struct {
	mu        sync.Mutex
	states    map[string]*State
	sink      diag.Sink
	blockSize int
}

// NewCache creates an empty cache.
func NewCache(blockSize int, sink diag.Sink) *Cache {
	return &Cache{states: make(map[string]*State), sink: sink, blockSize: blockSize}
}

// State returns the allocator for a sequence, creating it on first use.
func (c *Cache) State(schema, name string) *State {
	key := name
	if schema != "" {
		key = schema + "." + name
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[key]
	if !ok {
		s = NewState(key, c.blockSize, c.sink)
		c.states[key] = s
	}
	return s
}

// Len returns the number of cached sequences.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}
