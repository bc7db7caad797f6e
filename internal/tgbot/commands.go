package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleVocal Role = "vocal"
)

type Command interface {
	Run(ctx context.Context, chat *Chat, args string) (string, error)
	Help() string
	Permission() mapset.Set[Role]
	Visibility() mapset.Set[Role]
}

var (
	ErrBadRequest = errors.New("comando desconocido, use /help")
	ErrForbidden  = errors.New("inicie sesión con /login <correo> <contraseña>")
)

var (
	everyone   = []Role{RoleGuest, RoleVocal}
	vocalsOnly = []Role{RoleVocal}
	guestsOnly = []Role{RoleGuest}
)

func roles(r []Role) mapset.Set[Role] {
	return mapset.NewSet[Role](r...)
}

type Commands struct {
	list map[string]Command
}

func NewCommands() *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":         hc,
			"start":        hc,
			"login":        &LoginCommand{},
			"logout":       &LogoutCommand{},
			"campeonatos":  &ChampionshipsCommand{},
			"partidos":     &MatchesCommand{},
			"partido":      &MatchCommand{},
			"iniciar":      &StartCommand{},
			"marcador":     &ScoreCommand{},
			"horario":      &ScheduleCommand{},
			"arbitro":      &RefereeCommand{},
			"finalizar":    &FinalizeCommand{},
			"historial":    &HistoryCommand{},
			"estadisticas": &StatisticsCommand{},
			"verificar":    &IntegrityCommand{},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(ctx context.Context, chat *Chat, cmd string, args string) (string, error) {
	command, ok := uc.list[cmd]
	if !ok {
		return "", ErrBadRequest
	}
	role, err := chat.Role(ctx)
	if err != nil {
		return "", err
	}
	if !command.Permission().Contains(role) {
		if role == RoleGuest {
			return "", ErrForbidden
		}
		return "", errors.New("ya inició sesión, use /logout primero")
	}
	return command.Run(ctx, chat, strings.TrimSpace(args))
}

// Respond runs a command and renders its failure for the chat.
func (uc *Commands) Respond(ctx context.Context, chat *Chat, cmd string, args string) string {
	text, err := uc.RunCommand(ctx, chat, cmd, args)
	if err != nil {
		return userMessage(err)
	}
	return text
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("identificador inválido: " + s)
	}
	return id, nil
}

func parseGoals(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("goles inválidos: " + s)
	}
	return n, nil
}
