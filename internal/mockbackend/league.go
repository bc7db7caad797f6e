package mockbackend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/ligavocal/internal/domain"
)

var (
	errNotFound     = errors.New("recurso no encontrado")
	errWrongState   = errors.New("el partido no admite esta operación en su estado actual")
	errNoActa       = errors.New("el acta del partido no fue subida")
	errActaMismatch = errors.New("el hash del acta no coincide")
	errNoReferee    = errors.New("el árbitro no está asignado al partido")
	errNegative     = errors.New("los goles no pueden ser negativos")
)

type championship struct {
	ID       int64
	Name     string
	Start    time.Time
	End      time.Time
	Category string
	Season   string
}

type match struct {
	ID             int64
	ChampionshipID int64
	Local          string
	Visitor        string
	LocalGoals     *int
	VisitorGoals   *int
	State          domain.MatchState
	Group          string
	Date           string
	Time           string
	Referees       []domain.Referee

	RegisteredBy int64
	RegisteredAt time.Time
	ActaHash     string
}

type acta struct {
	front []byte
	back  []byte
	hash  string
}

// league is the whole server side state, guarded by one mutex.
type league struct {
	mu            sync.Mutex
	championships []championship
	matches       map[int64]*match
	actas         map[int64]acta
	registered    mapset.Set[int64]
}

func newLeague() *league {
	return &league{
		matches:    make(map[int64]*match),
		actas:      make(map[int64]acta),
		registered: mapset.NewSet[int64](),
	}
}

func (l *league) addChampionship(c championship) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.championships = append(l.championships, c)
}

func (l *league) addMatch(m match) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.matches[m.ID] = &m
}

// pending counts matches still waiting for a result.
func (l *league) pending(championshipID int64) int {
	n := 0
	for _, m := range l.matches {
		if m.ChampionshipID == championshipID && (m.State == domain.StatePending || m.State == domain.StateInPlay) {
			n++
		}
	}
	return n
}

type championshipRow struct {
	championship
	Pending int
}

// activeChampionships lists the championships that have not ended yet.
func (l *league) activeChampionships(now time.Time) []championshipRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]championshipRow, 0, len(l.championships))
	for _, c := range l.championships {
		if c.End.Before(truncateDay(now)) {
			continue
		}
		rows = append(rows, championshipRow{championship: c, Pending: l.pending(c.ID)})
	}
	return rows
}

func (l *league) championshipMatches(championshipID int64) ([]match, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for _, c := range l.championships {
		if c.ID == championshipID {
			found = true
			break
		}
	}
	if !found {
		return nil, errNotFound
	}
	var out []match
	for _, m := range l.matches {
		if m.ChampionshipID == championshipID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *league) match(id int64) (match, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.matches[id]
	if !ok {
		return match{}, false, errNotFound
	}
	return *m, l.registered.Contains(id), nil
}

// update runs fn on the match under the lock. Changes stick only when fn
// returns nil.
func (l *league) update(id int64, fn func(m *match) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.matches[id]
	if !ok {
		return errNotFound
	}
	changed := *m
	if err := fn(&changed); err != nil {
		return err
	}
	*m = changed
	return nil
}

func (l *league) start(id int64) error {
	return l.update(id, func(m *match) error {
		if m.State != domain.StatePending {
			return errWrongState
		}
		zero, zero2 := 0, 0
		m.State = domain.StateInPlay
		m.LocalGoals, m.VisitorGoals = &zero, &zero2
		return nil
	})
}

func (l *league) score(id int64, local, visitor int) error {
	if local < 0 || visitor < 0 {
		return errNegative
	}
	return l.update(id, func(m *match) error {
		if m.State != domain.StateInPlay {
			return errWrongState
		}
		m.LocalGoals, m.VisitorGoals = &local, &visitor
		return nil
	})
}

func (l *league) schedule(id int64, date, clock string) error {
	return l.update(id, func(m *match) error {
		if m.State == domain.StateFinished || l.registered.Contains(id) {
			return errWrongState
		}
		m.Date, m.Time = date, clock
		return nil
	})
}

func (l *league) storeActa(id int64, front, back []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.matches[id]
	if !ok {
		return "", errNotFound
	}
	if m.State == domain.StateFinished || l.registered.Contains(id) {
		return "", errWrongState
	}
	a := acta{front: front, back: back, hash: domain.HashEvidence(front, back)}
	l.actas[id] = a
	return a.hash, nil
}

type finalization struct {
	Local     int
	Visitor   int
	RefereeID int64
	VocalID   int64
	ActaHash  string
}

func (l *league) finalize(id int64, f finalization, at time.Time) error {
	if f.Local < 0 || f.Visitor < 0 {
		return errNegative
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.matches[id]
	if !ok {
		return errNotFound
	}
	if m.State != domain.StateInPlay || l.registered.Contains(id) {
		return errWrongState
	}
	a, ok := l.actas[id]
	if !ok {
		return errNoActa
	}
	if f.ActaHash != "" && f.ActaHash != a.hash {
		return errActaMismatch
	}
	assigned := false
	for _, r := range m.Referees {
		if r.ID == f.RefereeID {
			assigned = true
		}
	}
	if !assigned {
		return errNoReferee
	}
	local, visitor := f.Local, f.Visitor
	m.LocalGoals, m.VisitorGoals = &local, &visitor
	m.State = domain.StateFinished
	m.RegisteredBy = f.VocalID
	m.RegisteredAt = at
	m.ActaHash = a.hash
	l.registered.Add(id)
	return nil
}

type historyRow struct {
	match
	ChampionshipName string
}

// history returns the matches registered by the vocal, newest first.
func (l *league) history(vocalID int64, page, limit int) ([]historyRow, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make(map[int64]string, len(l.championships))
	for _, c := range l.championships {
		names[c.ID] = c.Name
	}
	var rows []historyRow
	for id := range l.registered.Iter() {
		m := l.matches[id]
		if m.RegisteredBy != vocalID {
			continue
		}
		rows = append(rows, historyRow{match: *m, ChampionshipName: names[m.ChampionshipID]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].RegisteredAt.Equal(rows[j].RegisteredAt) {
			return rows[i].RegisteredAt.After(rows[j].RegisteredAt)
		}
		return rows[i].ID > rows[j].ID
	})
	total := len(rows)
	from := (page - 1) * limit
	if from >= total {
		return []historyRow{}, total
	}
	to := from + limit
	if to > total {
		to = total
	}
	return rows[from:to], total
}

type statistics struct {
	Registered    int
	Pending       int
	InPlay        int
	Championships int
}

func (l *league) statistics(vocalID int64, now time.Time) statistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	var s statistics
	for _, m := range l.matches {
		switch {
		case l.registered.Contains(m.ID) && m.RegisteredBy == vocalID:
			s.Registered++
		case m.State == domain.StatePending:
			s.Pending++
		case m.State == domain.StateInPlay:
			s.InPlay++
		}
	}
	for _, c := range l.championships {
		if !now.Before(c.Start) && !c.End.Before(truncateDay(now)) {
			s.Championships++
		}
	}
	return s
}

type integrity struct {
	Valid   bool
	Hash    string
	Message string
}

func (l *league) verify(id int64) (integrity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.matches[id]
	if !ok {
		return integrity{}, errNotFound
	}
	if !l.registered.Contains(id) {
		return integrity{Message: "el partido no tiene resultado registrado"}, nil
	}
	a, ok := l.actas[id]
	if !ok {
		return integrity{Hash: m.ActaHash, Message: "acta no encontrada"}, nil
	}
	if domain.HashEvidence(a.front, a.back) != m.ActaHash {
		return integrity{Hash: m.ActaHash, Message: "el acta fue modificada"}, nil
	}
	return integrity{Valid: true, Hash: m.ActaHash, Message: fmt.Sprintf("acta del partido %d íntegra", id)}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
