package mockbackend

import (
	"time"

	"github.com/goserg/ligavocal/internal/domain"
)

// Seeded ids, handy in tests and when poking the server by hand.
const (
	SeedCurrentChampionship  int64 = 1
	SeedUpcomingChampionship int64 = 2
	SeedEmptyChampionship    int64 = 3

	SeedPendingMatch  int64 = 101
	SeedInPlayMatch   int64 = 102
	SeedFinishedMatch int64 = 103
	SeedNoRefMatch    int64 = 104

	SeedReferee int64 = 11
)

func seed(l *league, now time.Time) {
	today := truncateDay(now)
	l.addChampionship(championship{
		ID:       SeedCurrentChampionship,
		Name:     "Torneo Apertura",
		Start:    today.AddDate(0, -1, 0),
		End:      today.AddDate(0, 2, 0),
		Category: "Primera A",
		Season:   today.Format("2006"),
	})
	l.addChampionship(championship{
		ID:       SeedUpcomingChampionship,
		Name:     "Torneo Clausura",
		Start:    today.AddDate(0, 3, 0),
		End:      today.AddDate(0, 6, 0),
		Category: "Primera A",
		Season:   today.Format("2006"),
	})
	l.addChampionship(championship{
		ID:       SeedEmptyChampionship,
		Name:     "Copa Invierno",
		Start:    today.AddDate(0, 0, -7),
		End:      today.AddDate(0, 1, 0),
		Category: "Reserva",
		Season:   today.Format("2006"),
	})

	referees := []domain.Referee{
		{ID: SeedReferee, Name: "Juan Pérez"},
		{ID: SeedReferee + 1, Name: "María Choque"},
	}
	two, one := 2, 1
	zero, zero2 := 0, 0
	l.addMatch(match{
		ID:             SeedPendingMatch,
		ChampionshipID: SeedCurrentChampionship,
		Local:          "Club Bolívar",
		Visitor:        "The Strongest",
		State:          domain.StatePending,
		Group:          "Grupo A",
		Date:           today.Format(time.DateOnly),
		Time:           "15:30",
		Referees:       referees,
	})
	l.addMatch(match{
		ID:             SeedInPlayMatch,
		ChampionshipID: SeedCurrentChampionship,
		Local:          "Always Ready",
		Visitor:        "Wilstermann",
		LocalGoals:     &zero,
		VisitorGoals:   &zero2,
		State:          domain.StateInPlay,
		Group:          "Grupo B",
		Date:           today.Format(time.DateOnly),
		Time:           "18:00",
		Referees:       referees[:1],
	})
	l.addMatch(match{
		ID:             SeedFinishedMatch,
		ChampionshipID: SeedCurrentChampionship,
		Local:          "Aurora",
		Visitor:        "Blooming",
		LocalGoals:     &two,
		VisitorGoals:   &one,
		State:          domain.StateFinished,
		Group:          "Grupo A",
		Date:           today.AddDate(0, 0, -3).Format(time.DateOnly),
		Time:           "16:00",
		Referees:       referees[1:],
	})
	l.addMatch(match{
		ID:             SeedNoRefMatch,
		ChampionshipID: SeedCurrentChampionship,
		Local:          "Oriente Petrolero",
		Visitor:        "Royal Pari",
		State:          domain.StatePending,
		Group:          "Grupo B",
	})
}
