package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/ligavocal/internal/view"
)

type ChampionshipsCommand struct{}

func (c *ChampionshipsCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	filter := view.ChampionshipsActive
	switch args {
	case "":
	case "todos":
		filter = view.ChampionshipsAll
	case "proximos", "próximos":
		filter = view.ChampionshipsUpcoming
	case "finalizados":
		filter = view.ChampionshipsFinished
	default:
		return "", errors.New("filtro desconocido: " + args)
	}
	list, err := chat.board.Championships(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "No hay campeonatos", nil
	}
	now := time.Now()
	var b strings.Builder
	for _, ch := range list {
		b.WriteString(formatChampionship(ch, now))
		if ch.CanBrowseMatches(now) {
			b.WriteString("/partidos ")
			b.WriteString(strconv.FormatInt(ch.ID, 10))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func (c *ChampionshipsCommand) Help() string {
	return "Campeonatos en curso. Uso: /campeonatos [todos|proximos|finalizados]"
}

func (c *ChampionshipsCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *ChampionshipsCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type MatchesCommand struct{}

// parseFilters reads "estado=pendiente grupo=Grupo_A equipo=local texto".
// Underscores in values stand for spaces.
func parseFilters(fields []string) (view.Filters, error) {
	f := view.NoFilter
	var text []string
	for _, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found {
			text = append(text, field)
			continue
		}
		value = strings.ReplaceAll(value, "_", " ")
		switch key {
		case "estado":
			f.Status = value
		case "grupo":
			f.Group = value
		case "equipo":
			switch value {
			case "local":
				f.TeamRole = view.TeamLocal
			case "visitante":
				f.TeamRole = view.TeamVisitor
			default:
				return view.Filters{}, errors.New("equipo debe ser local o visitante")
			}
		default:
			return view.Filters{}, errors.New("filtro desconocido: " + key)
		}
	}
	f.Text = strings.Join(text, " ")
	return f, nil
}

func (c *MatchesCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", errors.New("uso: /partidos <campeonato> [estado=..] [grupo=..] [equipo=local|visitante] [texto]")
	}
	championshipID, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	filters, err := parseFilters(fields[1:])
	if err != nil {
		return "", err
	}
	v, err := chat.board.Matches(ctx, championshipID, filters)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(formatCounts(v.Counts))
	b.WriteString(formatGroups(v.Groups))
	for _, m := range v.Visible {
		b.WriteString(formatMatchLine(m, chat.board.Badge(m)))
	}
	if len(v.Visible) > 0 {
		b.WriteString("Detalle: /partido <id>")
	}
	return strings.TrimSpace(b.String()), nil
}

func (c *MatchesCommand) Help() string {
	return "Partidos de un campeonato. Uso: /partidos <campeonato> [estado=pendiente|en_juego|finalizado] [grupo=Grupo_A] [equipo=local|visitante] [texto]"
}

func (c *MatchesCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *MatchesCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type MatchCommand struct{}

func (c *MatchCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "", err
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(formatMatch(m, chat.board.Badge(m))), nil
}

func (c *MatchCommand) Help() string {
	return "Detalle de un partido con sus árbitros. Uso: /partido <id>"
}

func (c *MatchCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *MatchCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}
