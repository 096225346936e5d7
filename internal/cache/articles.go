// Package cache holds the most recently fetched article list so the detail
// screen can resolve an id without a second provider round trip.
package cache

import (
	"sync"
	"time"

	"news-reader/internal/domain"
)

// Articles is a single snapshot of the feed. Every Replace discards the
// previous snapshot; there is no per-item merge.
type Articles struct {
	mu        sync.RWMutex
	articles  []domain.Article
	index     map[string]int
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewArticles creates an empty cache. A ttl <= 0 disables caching.
func NewArticles(ttl time.Duration) *Articles {
	return &Articles{
		index: make(map[string]int),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *Articles) Replace(articles []domain.Article) {
	snapshot := make([]domain.Article, len(articles))
	copy(snapshot, articles)

	index := make(map[string]int, len(snapshot))
	for i, a := range snapshot {
		if _, exists := index[a.ID]; !exists {
			index[a.ID] = i
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.articles = snapshot
	c.index = index
	c.fetchedAt = c.now()
}

// Get returns the article with id from a fresh snapshot.
func (c *Articles) Get(id string) (domain.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.freshLocked() {
		return domain.Article{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return domain.Article{}, false
	}
	return c.articles[i], true
}

// All returns a copy of the snapshot, or false when it is empty or stale.
func (c *Articles) All() ([]domain.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.freshLocked() {
		return nil, false
	}
	out := make([]domain.Article, len(c.articles))
	copy(out, c.articles)
	return out, true
}

func (c *Articles) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.articles = nil
	c.index = make(map[string]int)
	c.fetchedAt = time.Time{}
}

func (c *Articles) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"total_articles": len(c.articles),
		"fetched_at":     c.fetchedAt,
		"ttl":            c.ttl.String(),
		"fresh":          c.freshLocked(),
	}
}

func (c *Articles) freshLocked() bool {
	if c.ttl <= 0 || c.fetchedAt.IsZero() {
		return false
	}
	return c.now().Sub(c.fetchedAt) < c.ttl
}
