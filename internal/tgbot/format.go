package tgbot

import (
	"strconv"
	"strings"
	"time"

	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/view"
)

func formatScore(m domain.Match) string {
	if m.LocalGoals == nil || m.VisitorGoals == nil {
		return "vs"
	}
	return strconv.Itoa(*m.LocalGoals) + " - " + strconv.Itoa(*m.VisitorGoals)
}

func formatChampionship(c domain.Championship, now time.Time) string {
	var buf strings.Builder
	buf.WriteString("#")
	buf.WriteString(strconv.FormatInt(c.ID, 10))
	buf.WriteString(" ")
	buf.WriteString(c.Name)
	buf.WriteString(" [")
	buf.WriteString(c.Status(now).Label())
	buf.WriteString("]\n")
	if c.Category != "" || c.Season != "" {
		buf.WriteString(strings.TrimSpace(c.Category + " " + c.Season))
		buf.WriteString("\n")
	}
	buf.WriteString(c.StartDate.Format("02/01/2006"))
	buf.WriteString(" - ")
	buf.WriteString(c.EndDate.Format("02/01/2006"))
	buf.WriteString(", pendientes: ")
	buf.WriteString(strconv.Itoa(c.PendingMatchesCount))
	buf.WriteString("\n")
	return buf.String()
}

func formatMatchLine(m domain.Match, badge view.Badge) string {
	var buf strings.Builder
	buf.WriteString("#")
	buf.WriteString(strconv.FormatInt(m.ID, 10))
	buf.WriteString(" ")
	buf.WriteString(m.LocalTeamName)
	buf.WriteString(" ")
	buf.WriteString(formatScore(m))
	buf.WriteString(" ")
	buf.WriteString(m.VisitorTeamName)
	buf.WriteString(" (")
	buf.WriteString(m.State.Label())
	buf.WriteString(")")
	switch badge {
	case view.BadgeToday:
		buf.WriteString(" HOY")
	case view.BadgeUpcoming:
		buf.WriteString(" próximo")
	}
	if m.AlreadyRegistered {
		buf.WriteString(" ✔")
	}
	buf.WriteString("\n")
	return buf.String()
}

func formatMatch(m domain.Match, badge view.Badge) string {
	var buf strings.Builder
	buf.WriteString(formatMatchLine(m, badge))
	if m.GroupName != "" {
		buf.WriteString("Grupo: ")
		buf.WriteString(m.GroupName)
		buf.WriteString("\n")
	}
	if m.ScheduledDate != "" {
		buf.WriteString("Fecha: ")
		buf.WriteString(m.ScheduledDate)
		if m.ScheduledTime != "" {
			buf.WriteString(" ")
			buf.WriteString(m.ScheduledTime)
		}
		buf.WriteString("\n")
	} else {
		buf.WriteString("Sin fecha asignada\n")
	}
	if len(m.Referees) > 0 {
		buf.WriteString("Árbitros:\n")
		for _, r := range m.Referees {
			buf.WriteString("  ")
			buf.WriteString(strconv.FormatInt(r.ID, 10))
			buf.WriteString(". ")
			buf.WriteString(r.Name)
			buf.WriteString("\n")
		}
	}
	if !m.IsEligibleForRegistration() {
		buf.WriteString("No admite registro\n")
	}
	return buf.String()
}

func formatCounts(c view.Counts) string {
	var buf strings.Builder
	buf.WriteString("Mostrando ")
	buf.WriteString(strconv.Itoa(c.Visible))
	buf.WriteString(". En juego: ")
	buf.WriteString(strconv.Itoa(c.ByState[domain.StateInPlay]))
	buf.WriteString(", pendientes: ")
	buf.WriteString(strconv.Itoa(c.ByState[domain.StatePending]))
	buf.WriteString(", finalizados: ")
	buf.WriteString(strconv.Itoa(c.ByState[domain.StateFinished]))
	buf.WriteString(". Por registrar: ")
	buf.WriteString(strconv.Itoa(c.Unregistered))
	buf.WriteString("\n")
	return buf.String()
}

// formatGroups lists the group filters the way /partidos reads them back.
func formatGroups(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("Grupos:")
	for _, g := range groups {
		buf.WriteString(" grupo=")
		buf.WriteString(strings.ReplaceAll(g, " ", "_"))
	}
	buf.WriteString("\n")
	return buf.String()
}
