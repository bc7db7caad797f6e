package mem

import (
	"sync"
	"time"

	"github.com/goserg/ligavocal/internal/domain"
)

type entry struct {
	matches   []domain.Match
	fetchedAt time.Time
}

// Cache holds the last fetched match list of each championship and the
// last championship list. Every Update replaces what was there.
type Cache struct {
	mu            sync.RWMutex
	championships []domain.Championship
	matches       map[int64]entry
}

func New() *Cache {
	return &Cache{
		matches: make(map[int64]entry),
	}
}

func (c *Cache) UpdateChampionships(list []domain.Championship) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.championships = append([]domain.Championship(nil), list...)
}

func (c *Cache) Championships() []domain.Championship {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]domain.Championship(nil), c.championships...)
}

func (c *Cache) Update(championshipID int64, matches []domain.Match, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.matches[championshipID] = entry{
		matches:   append([]domain.Match(nil), matches...),
		fetchedAt: at,
	}
}

func (c *Cache) Matches(championshipID int64) ([]domain.Match, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.matches[championshipID]
	if !ok {
		return nil, time.Time{}, false
	}
	return append([]domain.Match(nil), e.matches...), e.fetchedAt, true
}

// Put replaces one match in place, for example after a detail fetch.
func (c *Cache) Put(m domain.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for championshipID, e := range c.matches {
		for i := range e.matches {
			if e.matches[i].ID == m.ID {
				e.matches[i] = m
				c.matches[championshipID] = e
				return
			}
		}
	}
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.championships = nil
	c.matches = make(map[int64]entry)
}
