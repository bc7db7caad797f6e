package domain

import "time"

// HistoryEntry is one match the vocal registered.
type HistoryEntry struct {
	MatchID          int64
	LocalTeamName    string
	VisitorTeamName  string
	LocalGoals       int
	VisitorGoals     int
	ChampionshipName string
	RegisteredAt     time.Time
	ActaHash         string
}

type HistoryPage struct {
	Entries    []HistoryEntry
	Total      int
	Page       int
	TotalPages int
}

type VocalStatistics struct {
	Registered    int
	Pending       int
	InPlay        int
	Championships int
}

type IntegrityReport struct {
	MatchID int64
	Valid   bool
	Hash    string
	Message string
}
