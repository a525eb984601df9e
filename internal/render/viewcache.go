package render

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultViewTTL is how long a standalone view link stays valid.
const DefaultViewTTL = 10 * time.Minute

type cachedView struct {
	doc     *Document
	expires time.Time
}

// ViewCache holds rendered standalone documents under opaque tokens so a
// browser can open them in a new tab.
type ViewCache struct {
	mu    sync.Mutex
	views map[string]cachedView
	ttl   time.Duration
	now   func() time.Time
}

// NewViewCache creates a cache whose entries expire after ttl.
// A non-positive ttl uses DefaultViewTTL.
func NewViewCache(ttl time.Duration) *ViewCache {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &ViewCache{
		views: make(map[string]cachedView),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores doc and returns its token. Expired entries are dropped.
func (c *ViewCache) Put(doc *Document) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for token, v := range c.views {
		if now.After(v.expires) {
			delete(c.views, token)
		}
	}

	token := uuid.NewString()
	c.views[token] = cachedView{doc: doc, expires: now.Add(c.ttl)}
	return token
}

// Get returns the document for token if it exists and has not expired.
func (c *ViewCache) Get(token string) (*Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.views[token]
	if !ok {
		return nil, false
	}
	if c.now().After(v.expires) {
		delete(c.views, token)
		return nil, false
	}
	return v.doc, true
}

// Len returns the number of cached entries, expired ones included.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

// TTL returns how long entries live.
func (c *ViewCache) TTL() time.Duration {
	return c.ttl
}
