package service

import (
	"context"
	"errors"
	"time"

	"github.com/goserg/ligavocal/internal/cache/mem"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/view"
)

// Backend is the part of the api client the board uses.
type Backend interface {
	ListActiveChampionships(ctx context.Context) ([]domain.Championship, error)
	ListMatches(ctx context.Context, championshipID int64) ([]domain.Match, error)
	GetMatchDetail(ctx context.Context, matchID int64) (domain.Match, error)
	StartMatch(ctx context.Context, m domain.Match) error
	UpdateScore(ctx context.Context, m domain.Match, score domain.Score) error
	UpdateSchedule(ctx context.Context, matchID int64, date string, clock string) error
	FinalizeMatch(ctx context.Context, m domain.Match, sub domain.Submission) error
}

var ErrNotBrowsable = errors.New("el campeonato no está en curso o no tiene partidos pendientes")

// Board keeps what a vocal currently looks at: the championships and the
// last fetched match list of each. Every fetch replaces the cached copy.
type Board struct {
	backend Backend
	cache   *mem.Cache
	now     func() time.Time
}

func New(backend Backend, cache *mem.Cache) *Board {
	return &Board{
		backend: backend,
		cache:   cache,
		now:     time.Now,
	}
}

func (b *Board) Championships(ctx context.Context, filter view.ChampionshipFilter) ([]domain.Championship, error) {
	list, err := b.backend.ListActiveChampionships(ctx)
	if err != nil {
		return nil, err
	}
	b.cache.UpdateChampionships(list)
	return view.FilterChampionships(list, filter, b.now()), nil
}

// Matches refreshes the matches of a championship and derives the view.
// Championships that are not running, or have nothing pending, are refused
// when they are known from a previous listing.
func (b *Board) Matches(ctx context.Context, championshipID int64, f view.Filters) (view.View, error) {
	for _, c := range b.cache.Championships() {
		if c.ID == championshipID && !c.CanBrowseMatches(b.now()) {
			return view.View{}, ErrNotBrowsable
		}
	}
	matches, err := b.backend.ListMatches(ctx, championshipID)
	if err != nil {
		return view.View{}, err
	}
	b.cache.Update(championshipID, matches, b.now())
	return view.Derive(matches, f), nil
}

// CachedView derives a view from the last fetch without a round trip.
func (b *Board) CachedView(championshipID int64, f view.Filters) (view.View, bool) {
	matches, _, ok := b.cache.Matches(championshipID)
	if !ok {
		return view.View{}, false
	}
	return view.Derive(matches, f), true
}

// Match fetches the detail of a match and stores it over the listed copy.
func (b *Board) Match(ctx context.Context, matchID int64) (domain.Match, error) {
	m, err := b.backend.GetMatchDetail(ctx, matchID)
	if err != nil {
		return domain.Match{}, err
	}
	b.cache.Put(m)
	return m, nil
}

func (b *Board) Start(ctx context.Context, m domain.Match) (domain.Match, error) {
	if err := b.backend.StartMatch(ctx, m); err != nil {
		return m, err
	}
	m.State = domain.StateInPlay
	b.cache.Put(m)
	return m, nil
}

func (b *Board) Score(ctx context.Context, m domain.Match, score domain.Score) (domain.Match, error) {
	if err := b.backend.UpdateScore(ctx, m, score); err != nil {
		return m, err
	}
	local, visitor := score.Local, score.Visitor
	m.LocalGoals, m.VisitorGoals = &local, &visitor
	b.cache.Put(m)
	return m, nil
}

func (b *Board) Schedule(ctx context.Context, m domain.Match, date string, clock string) (domain.Match, error) {
	if err := b.backend.UpdateSchedule(ctx, m.ID, date, clock); err != nil {
		return m, err
	}
	m.ScheduledDate, m.ScheduledTime = date, clock
	b.cache.Put(m)
	return m, nil
}

// Finalize closes the match. On failure the cached match is left as it was.
func (b *Board) Finalize(ctx context.Context, m domain.Match, sub domain.Submission) (domain.Match, error) {
	if err := b.backend.FinalizeMatch(ctx, m, sub); err != nil {
		return m, err
	}
	local, visitor := sub.Score.Local, sub.Score.Visitor
	m.LocalGoals, m.VisitorGoals = &local, &visitor
	m.State = domain.StateFinished
	m.AlreadyRegistered = true
	b.cache.Put(m)
	return m, nil
}

// Badge is the schedule badge of a match relative to the board clock.
func (b *Board) Badge(m domain.Match) view.Badge {
	return view.ScheduleBadge(m, b.now())
}

// Reset drops everything cached, for example on logout.
func (b *Board) Reset() {
	b.cache.Invalidate()
}
