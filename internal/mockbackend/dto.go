package mockbackend

import (
	"errors"
	"time"

	"github.com/goserg/ligavocal/internal/config"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	var err error
	if r.Email == "" {
		err = errors.Join(err, errors.New("correo requerido"))
	}
	if r.Password == "" {
		err = errors.Join(err, errors.New("password requerido"))
	}
	return err
}

type userResponse struct {
	ID      int64  `json:"id_usuario"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Email   string `json:"correo"`
	Role    string `json:"rol"`
}

func newUserResponse(u config.Vocal) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"usuario"`
}

type championshipResponse struct {
	ID       int64  `json:"id_campeonato"`
	Name     string `json:"nombre"`
	Start    string `json:"fecha_inicio"`
	End      string `json:"fecha_fin"`
	Pending  string `json:"partidos_pendientes"`
	Category string `json:"categoria"`
	Season   string `json:"temporada"`
}

type refereeResponse struct {
	ID   int64  `json:"id_arbitro"`
	Name string `json:"nombre"`
}

type matchResponse struct {
	ID           int64             `json:"id_partido"`
	Local        string            `json:"equipo_local_nombre"`
	Visitor      string            `json:"equipo_visitante_nombre"`
	LocalGoals   *int              `json:"goles_local"`
	VisitorGoals *int              `json:"goles_visitante"`
	State        string            `json:"estado"`
	Group        *string           `json:"grupo_nombre"`
	Date         *string           `json:"fecha_encuentro"`
	Time         *string           `json:"hora_encuentro"`
	Registered   bool              `json:"ya_registrado"`
	Referees     []refereeResponse `json:"arbitros,omitempty"`
}

// newMatchResponse renders a match the way the real backend does: dates
// as ISO timestamps, times with seconds and empty columns as null.
func newMatchResponse(m match, registered bool, withReferees bool) matchResponse {
	resp := matchResponse{
		ID:           m.ID,
		Local:        m.Local,
		Visitor:      m.Visitor,
		LocalGoals:   m.LocalGoals,
		VisitorGoals: m.VisitorGoals,
		State:        string(m.State),
		Registered:   registered,
	}
	if m.Group != "" {
		group := m.Group
		resp.Group = &group
	}
	if m.Date != "" {
		date := m.Date + "T00:00:00.000Z"
		resp.Date = &date
	}
	if m.Time != "" {
		clock := m.Time + ":00"
		resp.Time = &clock
	}
	if withReferees {
		resp.Referees = make([]refereeResponse, 0, len(m.Referees))
		for _, r := range m.Referees {
			resp.Referees = append(resp.Referees, refereeResponse{ID: r.ID, Name: r.Name})
		}
	}
	return resp
}

type scoreRequest struct {
	LocalGoals   *int `json:"golesLocal"`
	VisitorGoals *int `json:"golesVisitante"`
}

func (r scoreRequest) Validate() error {
	if r.LocalGoals == nil || r.VisitorGoals == nil {
		return errors.New("golesLocal y golesVisitante son requeridos")
	}
	return nil
}

type scheduleRequest struct {
	Date string `json:"fecha_encuentro"`
	Time string `json:"hora_encuentro"`
}

func (r scheduleRequest) Validate() error {
	var err error
	if _, perr := time.Parse(time.DateOnly, r.Date); perr != nil {
		err = errors.Join(err, errors.New("fecha_encuentro inválida"))
	}
	if _, perr := time.Parse("15:04", r.Time); perr != nil {
		err = errors.Join(err, errors.New("hora_encuentro inválida"))
	}
	return err
}

type finalizeRequest struct {
	LocalGoals   *int   `json:"golesLocal"`
	VisitorGoals *int   `json:"golesVisitante"`
	RefereeID    int64  `json:"arbitroId"`
	VocalID      int64  `json:"vocalId"`
	ActaHash     string `json:"hashActa"`
}

func (r finalizeRequest) Validate() error {
	var err error
	if r.LocalGoals == nil || r.VisitorGoals == nil {
		err = errors.Join(err, errors.New("golesLocal y golesVisitante son requeridos"))
	}
	if r.RefereeID == 0 {
		err = errors.Join(err, errors.New("arbitroId requerido"))
	}
	return err
}

type actaResponse struct {
	Hash string `json:"hash_acta"`
}

type historyResponse struct {
	MatchID          int64  `json:"id_partido"`
	Local            string `json:"equipo_local_nombre"`
	Visitor          string `json:"equipo_visitante_nombre"`
	LocalGoals       int    `json:"goles_local"`
	VisitorGoals     int    `json:"goles_visitante"`
	ChampionshipName string `json:"campeonato_nombre"`
	RegisteredAt     string `json:"fecha_registro"`
	ActaHash         string `json:"hash_acta"`
}

type statisticsResponse struct {
	Registered    int `json:"partidos_registrados"`
	Pending       int `json:"partidos_pendientes"`
	InPlay        int `json:"partidos_en_juego"`
	Championships int `json:"campeonatos_activos"`
}

type integrityResponse struct {
	Valid   bool   `json:"valido"`
	Hash    string `json:"hash_acta"`
	Message string `json:"mensaje"`
}
