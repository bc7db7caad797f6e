package mem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/ligavocal/internal/domain"
)

func TestCacheLastFetchWins(t *testing.T) {
	c := New()
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	c.Update(1, []domain.Match{{ID: 10}, {ID: 11}}, at)
	c.Update(1, []domain.Match{{ID: 12}}, at.Add(time.Minute))

	got, fetchedAt, ok := c.Matches(1)
	require.True(t, ok)
	assert.Equal(t, []domain.Match{{ID: 12}}, got)
	assert.Equal(t, at.Add(time.Minute), fetchedAt)
}

func TestCacheReturnsCopies(t *testing.T) {
	c := New()
	c.Update(1, []domain.Match{{ID: 10, State: domain.StatePending}}, time.Time{})

	got, _, _ := c.Matches(1)
	got[0].State = domain.StateFinished

	again, _, _ := c.Matches(1)
	assert.Equal(t, domain.StatePending, again[0].State)
}

func TestCachePut(t *testing.T) {
	c := New()
	c.Update(1, []domain.Match{{ID: 10, State: domain.StatePending}}, time.Time{})
	c.Update(2, []domain.Match{{ID: 20, State: domain.StatePending}}, time.Time{})

	c.Put(domain.Match{ID: 20, State: domain.StateInPlay})

	got, _, ok := c.Matches(2)
	require.True(t, ok)
	assert.Equal(t, []domain.Match{{ID: 20, State: domain.StateInPlay}}, got)
	got, _, _ = c.Matches(1)
	assert.Equal(t, domain.StatePending, got[0].State)

	c.Put(domain.Match{ID: 99})
	got, _, _ = c.Matches(2)
	assert.Len(t, got, 1)
}

func TestCacheInvalidate(t *testing.T) {
	c := New()
	c.UpdateChampionships([]domain.Championship{{ID: 1}})
	c.Update(1, []domain.Match{{ID: 10}}, time.Time{})

	c.Invalidate()

	assert.Empty(t, c.Championships())
	_, _, ok := c.Matches(1)
	assert.False(t, ok)
}
