package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/ligavocal/internal/domain"
)

type StartCommand struct{}

func (c *StartCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	id, err := parseID(args)
	if err != nil {
		return "", err
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	m, err = chat.board.Start(ctx, m)
	if err != nil {
		return "", err
	}
	return "Partido iniciado: " + strings.TrimSpace(formatMatchLine(m, chat.board.Badge(m))), nil
}

func (c *StartCommand) Help() string {
	return "Inicia un partido pendiente. Uso: /iniciar <partido>"
}

func (c *StartCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *StartCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type ScoreCommand struct{}

func parseScore(local, visitor string) (domain.Score, error) {
	l, err := parseGoals(local)
	if err != nil {
		return domain.Score{}, err
	}
	v, err := parseGoals(visitor)
	if err != nil {
		return domain.Score{}, err
	}
	return domain.Score{Local: l, Visitor: v}, nil
}

func (c *ScoreCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", errors.New("uso: /marcador <partido> <goles local> <goles visitante>")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	score, err := parseScore(fields[1], fields[2])
	if err != nil {
		return "", err
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	m, err = chat.board.Score(ctx, m, score)
	if err != nil {
		return "", err
	}
	return "Marcador actualizado: " + strings.TrimSpace(formatMatchLine(m, chat.board.Badge(m))), nil
}

func (c *ScoreCommand) Help() string {
	return "Actualiza el marcador de un partido en juego. Uso: /marcador <partido> <local> <visitante>"
}

func (c *ScoreCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *ScoreCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

type ScheduleCommand struct{}

func (c *ScheduleCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", errors.New("uso: /horario <partido> <AAAA-MM-DD> <HH:MM>")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	m, err = chat.board.Schedule(ctx, m, fields[1], fields[2])
	if err != nil {
		return "", err
	}
	return "Horario actualizado: " + m.ScheduledDate + " " + m.ScheduledTime, nil
}

func (c *ScheduleCommand) Help() string {
	return "Cambia fecha y hora de un partido. Uso: /horario <partido> <AAAA-MM-DD> <HH:MM>"
}

func (c *ScheduleCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *ScheduleCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

// RefereeCommand opens the registration of a match: it picks the referee
// and makes the chat wait for the acta photos.
type RefereeCommand struct{}

func (c *RefereeCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return "", errors.New("uso: /arbitro <partido> <árbitro>")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	if !m.IsEligibleForRegistration() {
		return "", errors.New("el partido no admite registro")
	}
	if len(fields) == 1 {
		var b strings.Builder
		b.WriteString("Elija un árbitro con /arbitro ")
		b.WriteString(strconv.FormatInt(m.ID, 10))
		b.WriteString(" <id>:\n")
		for _, r := range m.Referees {
			b.WriteString(strconv.FormatInt(r.ID, 10))
			b.WriteString(". ")
			b.WriteString(r.Name)
			b.WriteString("\n")
		}
		return strings.TrimSpace(b.String()), nil
	}
	refereeID, err := parseID(fields[1])
	if err != nil {
		return "", err
	}
	referee, ok := m.Referee(refereeID)
	if !ok {
		return "", errors.New("el árbitro no está asignado a este partido")
	}
	if chat.draft == nil || chat.draft.matchID != m.ID {
		chat.draft = &draft{matchID: m.ID}
	}
	chat.draft.refereeID = referee.ID
	if chat.draft.receipt != nil {
		return "Árbitro: " + referee.Name + ". Actas ya subidas, use /finalizar " + fields[0] + " <local> <visitante>", nil
	}
	return "Árbitro: " + referee.Name + ". Envíe la foto del acta: primero el frente, luego el dorso.", nil
}

func (c *RefereeCommand) Help() string {
	return "Elige el árbitro y abre el registro del acta. Uso: /arbitro <partido> [árbitro]"
}

func (c *RefereeCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *RefereeCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}

var errNoDraft = errors.New("primero elija el árbitro con /arbitro <partido> <árbitro>")

// AddPhoto takes the next acta side of the open registration. The second
// photo triggers the upload.
func (uc *Commands) AddPhoto(ctx context.Context, chat *Chat, fileName string, data []byte) (string, error) {
	role, err := chat.Role(ctx)
	if err != nil {
		return "", err
	}
	if role != RoleVocal {
		return "", ErrForbidden
	}
	d := chat.draft
	if d == nil {
		return "", errNoDraft
	}
	if d.receipt != nil {
		return "Las actas ya fueron subidas. Use /finalizar " + strconv.FormatInt(d.matchID, 10) + " <local> <visitante>", nil
	}
	side := domain.ActaFront
	if len(d.images) == 1 {
		side = domain.ActaBack
	}
	d.images = append(d.images, domain.EvidenceImage{
		Side:        side,
		FileName:    fileName,
		ContentType: "image/jpeg",
		Data:        data,
	})
	if len(d.images) < 2 {
		return "Frente recibido. Ahora envíe el dorso del acta.", nil
	}
	receipt, err := chat.client.UploadMatchEvidence(ctx, d.matchID, d.images)
	if err != nil {
		d.images = nil
		return "", err
	}
	d.receipt = &receipt
	return "Actas subidas (hash " + shortHash(receipt.Hash) + "). Use /finalizar " + strconv.FormatInt(d.matchID, 10) + " <local> <visitante>", nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

type FinalizeCommand struct{}

func (c *FinalizeCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return "", errors.New("uso: /finalizar <partido> <goles local> <goles visitante>")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return "", err
	}
	score, err := parseScore(fields[1], fields[2])
	if err != nil {
		return "", err
	}
	var (
		refereeID int64
		receipt   domain.EvidenceReceipt
	)
	if d := chat.draft; d != nil && d.matchID == id {
		refereeID = d.refereeID
		if d.receipt != nil {
			receipt = *d.receipt
		}
	}
	m, err := chat.board.Match(ctx, id)
	if err != nil {
		return "", err
	}
	sub, err := chat.client.NewSubmission(ctx, score, refereeID, receipt)
	if err != nil {
		return "", err
	}
	m, err = chat.board.Finalize(ctx, m, sub)
	if err != nil {
		return "", err
	}
	chat.draft = nil
	return "Partido finalizado: " + strings.TrimSpace(formatMatchLine(m, chat.board.Badge(m))), nil
}

func (c *FinalizeCommand) Help() string {
	return "Registra el resultado final. Requiere árbitro (/arbitro) y las dos fotos del acta. Uso: /finalizar <partido> <local> <visitante>"
}

func (c *FinalizeCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *FinalizeCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}
