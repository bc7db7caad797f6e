package domain

import "errors"

// MatchState values are the ones the backend sends. The set is open: any
// other value is kept as is and rendered with defaults.
type MatchState string

const (
	StatePending   MatchState = "pendiente"
	StateInPlay    MatchState = "en_juego"
	StateFinished  MatchState = "finalizado"
	StateSuspended MatchState = "suspendido"
	StateCancelled MatchState = "cancelado"
)

func (s MatchState) Label() string {
	switch s {
	case StatePending:
		return "Pendiente"
	case StateInPlay:
		return "En Juego"
	case StateFinished:
		return "Finalizado"
	case StateSuspended:
		return "Suspendido"
	case StateCancelled:
		return "Cancelado"
	}
	return string(s)
}

type Referee struct {
	ID   int64
	Name string
}

type Match struct {
	ID              int64
	LocalTeamName   string
	VisitorTeamName string
	LocalGoals      *int
	VisitorGoals    *int
	State           MatchState
	GroupName       string
	// ScheduledDate is YYYY-MM-DD and ScheduledTime is HH:MM, both empty
	// when the match has not been scheduled yet.
	ScheduledDate     string
	ScheduledTime     string
	AlreadyRegistered bool
	Referees          []Referee
}

// IsEligibleForRegistration reports whether this client may still record
// anything for the match.
func (m Match) IsEligibleForRegistration() bool {
	return !m.AlreadyRegistered && (m.State == StatePending || m.State == StateInPlay)
}

func (m Match) Referee(id int64) (Referee, bool) {
	for _, r := range m.Referees {
		if r.ID == id {
			return r, true
		}
	}
	return Referee{}, false
}

var (
	ErrNegativeGoals = errors.New("goals must not be negative")
)

// Score is a pair of goal counts.
type Score struct {
	Local   int
	Visitor int
}

func (s Score) Validate() error {
	if s.Local < 0 || s.Visitor < 0 {
		return ErrNegativeGoals
	}
	return nil
}
