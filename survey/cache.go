package survey

import "sync"

// Cache holds generated reports keyed by ReportID so repeated requests with
// the same parameters skip the model call.
type Cache interface {
	Get(id string) (*Report, bool)
	Put(id string, r *Report)
}

type MemCache struct {
	mu      sync.Mutex
	reports map[string]*Report
}

func NewMemCache() *MemCache {
	return &MemCache{reports: make(map[string]*Report)}
}

func (c *MemCache) Get(id string) (*Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.reports[id]
	return r, ok
}

func (c *MemCache) Put(id string, r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[id] = r
}
