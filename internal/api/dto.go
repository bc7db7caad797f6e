package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Data    json.RawMessage `json:"data"`
	Total   *flexInt        `json:"total"`
}

func (e envelope) reason() string {
	if e.Message != "" {
		return e.Message
	}
	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil && s != "" {
		return s
	}
	return ErrRejected.Error()
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", gateway.ErrMalformedResponse, err)
}

var errNoData = errors.New("response has no data")

// openEnvelope decodes the common response wrapper and fails when the
// server flagged the call as unsuccessful.
func openEnvelope(raw json.RawMessage) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, malformed(err)
	}
	if env.Success != nil && !*env.Success {
		return envelope{}, fmt.Errorf("%w: %s", ErrRejected, env.reason())
	}
	return env, nil
}

// decodeData opens the envelope and decodes its data field into dest.
func decodeData(raw json.RawMessage, dest any) (envelope, error) {
	env, err := openEnvelope(raw)
	if err != nil {
		return envelope{}, err
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return envelope{}, malformed(errNoData)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return envelope{}, malformed(err)
	}
	return env, nil
}

// flexInt accepts both 3 and "3"; count columns arrive as strings from
// some backend queries.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateTime, time.DateOnly}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown date format %q", s)
}

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

type userDTO struct {
	ID      int64  `json:"id_usuario"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Email   string `json:"correo"`
	Role    string `json:"rol"`
}

func (u userDTO) convertToDomain() domain.User {
	return domain.User{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
	}
}

type loginData struct {
	Token string   `json:"token"`
	User  *userDTO `json:"usuario"`
}

type championshipDTO struct {
	ID             int64   `json:"id_campeonato"`
	Name           string  `json:"nombre"`
	StartDate      string  `json:"fecha_inicio"`
	EndDate        string  `json:"fecha_fin"`
	PendingMatches flexInt `json:"partidos_pendientes"`
	Category       string  `json:"categoria"`
	Season         string  `json:"temporada"`
}

func (c championshipDTO) convertToDomain() (domain.Championship, error) {
	start, err := parseDate(c.StartDate)
	if err != nil {
		return domain.Championship{}, fmt.Errorf("campeonato %d fecha_inicio: %w", c.ID, err)
	}
	end, err := parseDate(c.EndDate)
	if err != nil {
		return domain.Championship{}, fmt.Errorf("campeonato %d fecha_fin: %w", c.ID, err)
	}
	return domain.Championship{
		ID:                  c.ID,
		Name:                c.Name,
		StartDate:           start,
		EndDate:             end,
		PendingMatchesCount: int(c.PendingMatches),
		Category:            c.Category,
		Season:              c.Season,
	}, nil
}

type refereeDTO struct {
	ID   int64  `json:"id_arbitro"`
	Name string `json:"nombre"`
}

type matchDTO struct {
	ID                int64        `json:"id_partido"`
	LocalTeamName     string       `json:"equipo_local_nombre"`
	VisitorTeamName   string       `json:"equipo_visitante_nombre"`
	LocalGoals        *int         `json:"goles_local"`
	VisitorGoals      *int         `json:"goles_visitante"`
	State             string       `json:"estado"`
	GroupName         *string      `json:"grupo_nombre"`
	ScheduledDate     *string      `json:"fecha_encuentro"`
	ScheduledTime     *string      `json:"hora_encuentro"`
	AlreadyRegistered bool         `json:"ya_registrado"`
	Referees          []refereeDTO `json:"arbitros"`
}

var errNoMatchID = errors.New("match without id_partido")

func (m matchDTO) convertToDomain() (domain.Match, error) {
	if m.ID == 0 {
		return domain.Match{}, errNoMatchID
	}
	match := domain.Match{
		ID:                m.ID,
		LocalTeamName:     m.LocalTeamName,
		VisitorTeamName:   m.VisitorTeamName,
		LocalGoals:        m.LocalGoals,
		VisitorGoals:      m.VisitorGoals,
		State:             domain.MatchState(m.State),
		AlreadyRegistered: m.AlreadyRegistered,
	}
	if m.GroupName != nil {
		match.GroupName = *m.GroupName
	}
	if m.ScheduledDate != nil && *m.ScheduledDate != "" {
		d, err := parseDate(*m.ScheduledDate)
		if err != nil {
			return domain.Match{}, fmt.Errorf("partido %d fecha_encuentro: %w", m.ID, err)
		}
		match.ScheduledDate = d.Format(time.DateOnly)
	}
	if m.ScheduledTime != nil && *m.ScheduledTime != "" {
		match.ScheduledTime = trimSeconds(*m.ScheduledTime)
	}
	for _, r := range m.Referees {
		match.Referees = append(match.Referees, domain.Referee{ID: r.ID, Name: r.Name})
	}
	return match, nil
}

// trimSeconds turns "15:30:00" into "15:30".
func trimSeconds(clock string) string {
	parts := strings.Split(clock, ":")
	if len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return clock
}

func convertMatches(dtos []matchDTO) ([]domain.Match, error) {
	matches := make([]domain.Match, 0, len(dtos))
	for _, dto := range dtos {
		m, err := dto.convertToDomain()
		if err != nil {
			return nil, malformed(err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type scoreRequest struct {
	LocalGoals   int `json:"golesLocal"`
	VisitorGoals int `json:"golesVisitante"`
}

type scheduleRequest struct {
	Date string `json:"fecha_encuentro"`
	Time string `json:"hora_encuentro"`
}

type finalizeRequest struct {
	LocalGoals   int    `json:"golesLocal"`
	VisitorGoals int    `json:"golesVisitante"`
	RefereeID    int64  `json:"arbitroId"`
	VocalID      int64  `json:"vocalId"`
	ActaHash     string `json:"hashActa"`
}

type evidenceData struct {
	Hash    string `json:"hash_acta"`
	HashAlt string `json:"hash"`
}

type historyDTO struct {
	MatchID          int64   `json:"id_partido"`
	LocalTeamName    string  `json:"equipo_local_nombre"`
	VisitorTeamName  string  `json:"equipo_visitante_nombre"`
	LocalGoals       flexInt `json:"goles_local"`
	VisitorGoals     flexInt `json:"goles_visitante"`
	ChampionshipName string  `json:"campeonato_nombre"`
	RegisteredAt     string  `json:"fecha_registro"`
	ActaHash         string  `json:"hash_acta"`
}

func (h historyDTO) convertToDomain() (domain.HistoryEntry, error) {
	entry := domain.HistoryEntry{
		MatchID:          h.MatchID,
		LocalTeamName:    h.LocalTeamName,
		VisitorTeamName:  h.VisitorTeamName,
		LocalGoals:       int(h.LocalGoals),
		VisitorGoals:     int(h.VisitorGoals),
		ChampionshipName: h.ChampionshipName,
		ActaHash:         h.ActaHash,
	}
	if h.RegisteredAt != "" {
		t, err := parseDate(h.RegisteredAt)
		if err != nil {
			return domain.HistoryEntry{}, err
		}
		entry.RegisteredAt = t
	}
	return entry, nil
}

type statisticsDTO struct {
	Registered    flexInt `json:"partidos_registrados"`
	Pending       flexInt `json:"partidos_pendientes"`
	InPlay        flexInt `json:"partidos_en_juego"`
	Championships flexInt `json:"campeonatos_activos"`
}

type integrityDTO struct {
	Valid   bool   `json:"valido"`
	Hash    string `json:"hash_acta"`
	Message string `json:"mensaje"`
}
