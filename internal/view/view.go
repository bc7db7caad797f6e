package view

import (
	"sort"
	"time"

	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/normalize"
)

// All disables the status or group filter.
const All = "all"

type TeamRole string

const (
	TeamAny     TeamRole = ""
	TeamLocal   TeamRole = "local"
	TeamVisitor TeamRole = "visitor"
)

type Filters struct {
	Status   string
	Group    string
	TeamRole TeamRole
	Text     string
}

// NoFilter shows every match.
var NoFilter = Filters{Status: All, Group: All}

type Counts struct {
	Visible int
	// Unregistered counts the visible matches still waiting for an acta.
	Unregistered int
	// ByState counts the whole input, whatever the filters hide.
	ByState map[domain.MatchState]int
}

type View struct {
	Visible []domain.Match
	Counts  Counts
	// Groups offered to the group filter, taken from the whole input.
	Groups []string
}

// Derive filters and orders matches for display. It only looks at its
// arguments, so equal inputs give equal views.
func Derive(all []domain.Match, f Filters) View {
	visible := make([]domain.Match, 0, len(all))
	counts := Counts{ByState: make(map[domain.MatchState]int)}
	for _, m := range all {
		counts.ByState[m.State]++
		if f.matches(m) {
			visible = append(visible, m)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return rank(visible[i].State) < rank(visible[j].State)
	})
	counts.Visible = len(visible)
	for _, m := range visible {
		if !m.AlreadyRegistered {
			counts.Unregistered++
		}
	}
	return View{Visible: visible, Counts: counts, Groups: Groups(all)}
}

func (f Filters) matches(m domain.Match) bool {
	if f.Status != "" && f.Status != All && string(m.State) != f.Status {
		return false
	}
	if f.Group != "" && f.Group != All && m.GroupName != f.Group {
		return false
	}
	switch f.TeamRole {
	case TeamLocal:
		return normalize.Contains(m.LocalTeamName, f.Text)
	case TeamVisitor:
		return normalize.Contains(m.VisitorTeamName, f.Text)
	default:
		return normalize.Contains(m.LocalTeamName, f.Text) ||
			normalize.Contains(m.VisitorTeamName, f.Text) ||
			normalize.Contains(m.GroupName, f.Text)
	}
}

func rank(s domain.MatchState) int {
	switch s {
	case domain.StateInPlay:
		return 0
	case domain.StatePending:
		return 1
	case domain.StateFinished:
		return 2
	}
	return 3
}

// Groups lists the distinct group names in first-seen order.
func Groups(all []domain.Match) []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, m := range all {
		if m.GroupName == "" {
			continue
		}
		if _, ok := seen[m.GroupName]; ok {
			continue
		}
		seen[m.GroupName] = struct{}{}
		groups = append(groups, m.GroupName)
	}
	return groups
}

type ChampionshipFilter string

const (
	ChampionshipsAll      ChampionshipFilter = "all"
	ChampionshipsActive   ChampionshipFilter = "active"
	ChampionshipsUpcoming ChampionshipFilter = "upcoming"
	ChampionshipsFinished ChampionshipFilter = "finished"
)

func FilterChampionships(list []domain.Championship, filter ChampionshipFilter, now time.Time) []domain.Championship {
	out := make([]domain.Championship, 0, len(list))
	for _, c := range list {
		if filter == ChampionshipsAll || filter == "" || string(c.Status(now)) == string(filter) {
			out = append(out, c)
		}
	}
	return out
}

type Badge string

const (
	BadgeNone     Badge = "none"
	BadgeToday    Badge = "today"
	BadgeUpcoming Badge = "upcoming"
)

// ScheduleBadge marks matches scheduled for the calendar day of now or
// later. Unscheduled and past matches get no badge.
func ScheduleBadge(m domain.Match, now time.Time) Badge {
	if m.ScheduledDate == "" {
		return BadgeNone
	}
	day, err := time.ParseInLocation(time.DateOnly, m.ScheduledDate, now.Location())
	if err != nil {
		return BadgeNone
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case day.Equal(today):
		return BadgeToday
	case day.After(today):
		return BadgeUpcoming
	}
	return BadgeNone
}
