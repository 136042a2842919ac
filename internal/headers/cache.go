package headers

import (
	"sync"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// Cache keeps one Mapper per header file path.
//
// Mappers are immutable, so a cached Mapper can be handed to any number of
// goroutines. Cache itself is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	mappers map[string]*wcs.Mapper
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		mappers: make(map[string]*wcs.Mapper),
	}
}

// Mapper returns the cached Mapper for path, loading and validating the header
// file on first use. Failed loads are not cached.
func (c *Cache) Mapper(path string) (*wcs.Mapper, error) {
	c.mu.RLock()
	if m, ok := c.mappers[path]; ok {
		c.mu.RUnlock()
		return m, nil
	}
	c.mu.RUnlock()

	h, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := wcs.NewMapper(h)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.mappers[path] = m
	c.mu.Unlock()

	return m, nil
}

// Evict drops the Mapper for path so the next call reloads the file.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.mappers, path)
	c.mu.Unlock()
}

// Clear drops every cached Mapper.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.mappers = make(map[string]*wcs.Mapper)
	c.mu.Unlock()
}

// Len returns the number of cached Mappers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mappers)
}
