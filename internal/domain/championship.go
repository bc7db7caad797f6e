package domain

import "time"

type ChampionshipStatus string

const (
	ChampionshipUpcoming ChampionshipStatus = "upcoming"
	ChampionshipActive   ChampionshipStatus = "active"
	ChampionshipFinished ChampionshipStatus = "finished"
)

func (s ChampionshipStatus) Label() string {
	switch s {
	case ChampionshipUpcoming:
		return "PRÓXIMO"
	case ChampionshipActive:
		return "EN CURSO"
	case ChampionshipFinished:
		return "FINALIZADO"
	}
	return string(s)
}

type Championship struct {
	ID                  int64
	Name                string
	StartDate           time.Time
	EndDate             time.Time
	PendingMatchesCount int
	Category            string
	Season              string
}

// Status places now relative to the championship date range. Both ends of
// the range are inclusive.
func (c Championship) Status(now time.Time) ChampionshipStatus {
	switch {
	case now.Before(c.StartDate):
		return ChampionshipUpcoming
	case !now.After(c.EndDate):
		return ChampionshipActive
	default:
		return ChampionshipFinished
	}
}

// CanBrowseMatches reports whether the championship is running and still
// has matches waiting for a result.
func (c Championship) CanBrowseMatches(now time.Time) bool {
	return c.Status(now) == ChampionshipActive && c.PendingMatchesCount > 0
}
