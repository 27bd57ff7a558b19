package asset

// Cache memoizes decoded assets by identifier. It is owned by a single
// goroutine and does no locking.
type Cache struct {
	entries map[string]*Asset
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Asset)}
}

func (c *Cache) Get(id string) (*Asset, bool) {
	a, ok := c.entries[id]
	return a, ok
}

func (c *Cache) Put(a *Asset) {
	c.entries[a.ID] = a
}

func (c *Cache) Evict(id string) {
	delete(c.entries, id)
}

func (c *Cache) Len() int {
	return len(c.entries)
}
