package tgbot

import (
	"context"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const historyPageSize = 10

type HistoryCommand struct{}

func (c *HistoryCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	page := 1
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 {
			return "", ErrBadRequest
		}
		page = n
	}
	result, err := chat.client.History(ctx, page, historyPageSize)
	if err != nil {
		return "", err
	}
	if len(result.Entries) == 0 {
		return "Sin partidos registrados", nil
	}
	var b strings.Builder
	for _, e := range result.Entries {
		b.WriteString(e.RegisteredAt.Format("02/01/2006 15:04"))
		b.WriteString(" ")
		b.WriteString(e.LocalTeamName)
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(e.LocalGoals))
		b.WriteString(" - ")
		b.WriteString(strconv.Itoa(e.VisitorGoals))
		b.WriteString(" ")
		b.WriteString(e.VisitorTeamName)
		if e.ChampionshipName != "" {
			b.WriteString(" (")
			b.WriteString(e.ChampionshipName)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	b.WriteString("Página ")
	b.WriteString(strconv.Itoa(result.Page))
	b.WriteString(" de ")
	b.WriteString(strconv.Itoa(result.TotalPages))
	return b.String(), nil
}

func (c *HistoryCommand) Help() string {
	return "Partidos que registró. Uso: /historial [página]"
}

func (c *HistoryCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *HistoryCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type StatisticsCommand struct{}

func (c *StatisticsCommand) Run(ctx context.Context, chat *Chat, _ string) (string, error) {
	st, err := chat.client.Statistics(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Registrados: ")
	b.WriteString(strconv.Itoa(st.Registered))
	b.WriteString("\nPendientes: ")
	b.WriteString(strconv.Itoa(st.Pending))
	b.WriteString("\nEn juego: ")
	b.WriteString(strconv.Itoa(st.InPlay))
	b.WriteString("\nCampeonatos activos: ")
	b.WriteString(strconv.Itoa(st.Championships))
	return b.String(), nil
}

func (c *StatisticsCommand) Help() string {
	return "Resumen de su actividad como vocal"
}

func (c *StatisticsCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *StatisticsCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type IntegrityCommand struct{}

func (c *IntegrityCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "", err
	}
	report, err := chat.client.VerifyIntegrity(ctx, id)
	if err != nil {
		return "", err
	}
	status := "Acta íntegra"
	if !report.Valid {
		status = "Acta NO verificada"
	}
	if report.Message != "" {
		status += ": " + report.Message
	}
	return status, nil
}

func (c *IntegrityCommand) Help() string {
	return "Verifica el hash del acta de un partido registrado. Uso: /verificar <partido>"
}

func (c *IntegrityCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *IntegrityCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}
