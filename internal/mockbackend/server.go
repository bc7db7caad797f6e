package mockbackend

import (
	"errors"
	"io"
	"mime/multipart"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/config"
	"github.com/goserg/ligavocal/internal/domain"
)

const (
	apiPrefix = "/api"

	routeLogin         = "/auth/login"
	routeChampionships = "/partidos/campeonatos-activos"
	routeMatches       = "/partidos/campeonatos/:id/partidos-pendientes"
	routeHistory       = "/partidos/historial"
	routeStatistics    = "/partidos/estadisticas"
	routeIntegrity     = "/partidos/partidos/:id/verificar-integridad"
	routeDetail        = "/registro/partidos/:id/detalle"
	routeStart         = "/registro/partidos/:id/iniciar"
	routeScore         = "/registro/partidos/:id/marcador"
	routeSchedule      = "/registro/partidos/:id/actualizar-encuentro"
	routeFinalize      = "/registro/partidos/:id/finalizar"
	routeActas         = "/registro/partidos/:id/actas"
)

const userKey = "user"

// Server is an in-memory stand-in for the league backend. It speaks the
// same wire format and enforces the same match lifecycle.
type Server struct {
	app    *fiber.App
	cfg    config.MockBackend
	auth   *authenticator
	league *league
	log    *logrus.Entry
	now    func() time.Time
}

func New(cfg config.MockBackend, l *logrus.Logger) (*Server, error) {
	server := Server{
		cfg:    cfg,
		league: newLeague(),
		log:    l.WithField("from", "mock-backend"),
		now:    time.Now,
	}
	auth, err := newAuthenticator(cfg, server.clock)
	if err != nil {
		return nil, err
	}
	server.auth = auth
	seed(server.league, server.now())

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          server.handleError,
		BodyLimit:             16 * 1024 * 1024,
	})
	app.Use(server.logRequest)

	api := app.Group(apiPrefix)
	api.Post(routeLogin, server.handleLogin)

	guard := server.requireToken
	api.Get(routeChampionships, guard, server.handleChampionships)
	api.Get(routeMatches, guard, server.handleMatches)
	api.Get(routeHistory, guard, server.handleHistory)
	api.Get(routeStatistics, guard, server.handleStatistics)
	api.Get(routeIntegrity, guard, server.handleIntegrity)
	api.Get(routeDetail, guard, server.handleDetail)
	api.Put(routeStart, guard, server.handleStart)
	api.Put(routeScore, guard, server.handleScore)
	api.Put(routeSchedule, guard, server.handleSchedule)
	api.Put(routeFinalize, guard, server.handleFinalize)
	api.Post(routeActas, guard, server.handleActas)

	server.app = app
	return &server, nil
}

func (s *Server) clock() time.Time {
	return s.now()
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

// Listener serves on an already open listener.
func (s *Server) Listener(ln net.Listener) error {
	return s.app.Listener(ln)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, errNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, ErrNotAuthorized), errors.Is(err, ErrBadLogin):
		code = fiber.StatusUnauthorized
	case errors.Is(err, errWrongState):
		code = fiber.StatusConflict
	case errors.Is(err, errNegative), errors.Is(err, errNoActa), errors.Is(err, errActaMismatch), errors.Is(err, errNoReferee):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	return c.Status(code).JSON(envelope{Success: false, Message: err.Error()})
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Get("X-Request-ID"),
		"duration":   time.Since(start),
	}).Debug("handled")
	return err
}

func (s *Server) requireToken(c *fiber.Ctx) error {
	user, err := s.auth.verify(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(userKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) config.Vocal {
	user, _ := c.Locals(userKey).(config.Vocal)
	return user
}

func respond(c *fiber.Ctx, message string, data any) error {
	return c.JSON(envelope{Success: true, Message: message, Data: data})
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id inválido")
	}
	return id, nil
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	user, token, err := s.auth.login(req.Email, req.Password)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", user.ID).Info("login")
	return respond(c, "Login exitoso", loginResponse{Token: token, User: newUserResponse(user)})
}

func (s *Server) handleChampionships(c *fiber.Ctx) error {
	rows := s.league.activeChampionships(s.now())
	resp := make([]championshipResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, championshipResponse{
			ID:       r.ID,
			Name:     r.Name,
			Start:    r.Start.Format(time.DateOnly),
			End:      r.End.Format(time.RFC3339),
			Pending:  strconv.Itoa(r.Pending),
			Category: r.Category,
			Season:   r.Season,
		})
	}
	return respond(c, "", resp)
}

func (s *Server) handleMatches(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	matches, err := s.league.championshipMatches(id)
	if err != nil {
		return err
	}
	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, newMatchResponse(m, m.RegisteredBy != 0, false))
	}
	return respond(c, "", resp)
}

func (s *Server) handleDetail(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, registered, err := s.league.match(id)
	if err != nil {
		return err
	}
	return respond(c, "", newMatchResponse(m, registered, true))
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.league.start(id); err != nil {
		return err
	}
	return respond(c, "Partido iniciado", nil)
}

func (s *Server) handleScore(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.league.score(id, *req.LocalGoals, *req.VisitorGoals); err != nil {
		return err
	}
	return respond(c, "Marcador actualizado", nil)
}

func (s *Server) handleSchedule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.league.schedule(id, req.Date, req.Time); err != nil {
		return err
	}
	return respond(c, "Encuentro actualizado", nil)
}

func (s *Server) handleFinalize(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req finalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	user := currentUser(c)
	if req.VocalID != 0 && req.VocalID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "vocalId no corresponde al usuario")
	}
	err = s.league.finalize(id, finalization{
		Local:     *req.LocalGoals,
		Visitor:   *req.VisitorGoals,
		RefereeID: req.RefereeID,
		VocalID:   user.ID,
		ActaHash:  req.ActaHash,
	}, s.now())
	if err != nil {
		return err
	}
	s.log.WithField("match_id", id).Info("match finalized")
	return respond(c, "Resultado registrado", nil)
}

func readPart(c *fiber.Ctx, field domain.ActaSide) ([]byte, error) {
	header, err := c.FormFile(string(field))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "falta la imagen "+string(field))
	}
	if !strings.HasPrefix(header.Header.Get(fiber.HeaderContentType), "image/") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "solo se aceptan imágenes: "+string(field))
	}
	return readFile(header)
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "imagen vacía: "+header.Filename)
	}
	return data, nil
}

func (s *Server) handleActas(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	front, err := readPart(c, domain.ActaFront)
	if err != nil {
		return err
	}
	back, err := readPart(c, domain.ActaBack)
	if err != nil {
		return err
	}
	hash, err := s.league.storeActa(id, front, back)
	if err != nil {
		return err
	}
	return respond(c, "Actas subidas", actaResponse{Hash: hash})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("pagina", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limite", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	rows, total := s.league.history(currentUser(c).ID, page, limit)
	resp := make([]historyResponse, 0, len(rows))
	for _, r := range rows {
		entry := historyResponse{
			MatchID:          r.ID,
			Local:            r.Local,
			Visitor:          r.Visitor,
			ChampionshipName: r.ChampionshipName,
			RegisteredAt:     r.RegisteredAt.UTC().Format(time.RFC3339),
			ActaHash:         r.ActaHash,
		}
		if r.LocalGoals != nil {
			entry.LocalGoals = *r.LocalGoals
		}
		if r.VisitorGoals != nil {
			entry.VisitorGoals = *r.VisitorGoals
		}
		resp = append(resp, entry)
	}
	return c.JSON(envelope{Success: true, Data: resp, Total: &total})
}

func (s *Server) handleStatistics(c *fiber.Ctx) error {
	st := s.league.statistics(currentUser(c).ID, s.now())
	return respond(c, "", statisticsResponse{
		Registered:    st.Registered,
		Pending:       st.Pending,
		InPlay:        st.InPlay,
		Championships: st.Championships,
	})
}

func (s *Server) handleIntegrity(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	report, err := s.league.verify(id)
	if err != nil {
		return err
	}
	return respond(c, "", integrityResponse{
		Valid:   report.Valid,
		Hash:    report.Hash,
		Message: report.Message,
	})
}
