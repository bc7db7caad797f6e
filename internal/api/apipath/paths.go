package apipath

import "strconv"

const (
	Login               = "/auth/login"
	ActiveChampionships = "/partidos/campeonatos-activos"
	History             = "/partidos/historial"
	Statistics          = "/partidos/estadisticas"

	partidos = "/partidos/partidos/"
	registro = "/registro/partidos/"
)

func ChampionshipMatches(championshipID int64) string {
	return "/partidos/campeonatos/" + id(championshipID) + "/partidos-pendientes"
}

func MatchDetail(matchID int64) string {
	return registro + id(matchID) + "/detalle"
}

func StartMatch(matchID int64) string {
	return registro + id(matchID) + "/iniciar"
}

func Score(matchID int64) string {
	return registro + id(matchID) + "/marcador"
}

func Schedule(matchID int64) string {
	return registro + id(matchID) + "/actualizar-encuentro"
}

func Finalize(matchID int64) string {
	return registro + id(matchID) + "/finalizar"
}

func Evidence(matchID int64) string {
	return registro + id(matchID) + "/actas"
}

func Integrity(matchID int64) string {
	return partidos + id(matchID) + "/verificar-integridad"
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}
