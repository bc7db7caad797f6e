package tgbot

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/api"
	"github.com/goserg/ligavocal/internal/cache/mem"
	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
	"github.com/goserg/ligavocal/internal/service"
)

// draft is a registration in progress: the referee picked and the acta
// photos received so far.
type draft struct {
	matchID   int64
	refereeID int64
	images    []domain.EvidenceImage
	receipt   *domain.EvidenceReceipt
}

// Chat is everything the bot keeps for one Telegram chat. Each chat signs
// in on its own and has its own credential scope.
type Chat struct {
	ID     int64
	client *api.Client
	board  *service.Board
	draft  *draft
}

func NewChat(id int64, store credentials.Store, cfg gateway.Config, l *logrus.Logger) *Chat {
	client := api.New(gateway.New(cfg, store, l), l)
	return &Chat{
		ID:     id,
		client: client,
		board:  service.New(client, mem.New()),
	}
}

func (c *Chat) Role(ctx context.Context) (Role, error) {
	_, ok, err := c.client.Session(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return RoleGuest, nil
	}
	return RoleVocal, nil
}

func (c *Chat) reset() {
	c.draft = nil
	c.board.Reset()
}

type ChatFactory func(chatID int64) *Chat

type chats struct {
	mu      sync.Mutex
	list    map[int64]*Chat
	factory ChatFactory
}

func newChats(factory ChatFactory) *chats {
	return &chats{
		list:    make(map[int64]*Chat),
		factory: factory,
	}
}

func (c *chats) get(id int64) *Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	chat, ok := c.list[id]
	if !ok {
		chat = c.factory(id)
		c.list[id] = chat
	}
	return chat
}
