package tgbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/config"
)

const photoDownloadTimeout = 30 * time.Second

type Bot struct {
	bot *tgbotapi.BotAPI
	log *logrus.Entry

	// cancel func to stop the bot
	cancel func()

	chats    *chats
	commands *Commands
}

func New(cfg config.Config, factory ChatFactory, l *logrus.Logger) (*Bot, error) {
	log := l.WithField("from", "tg_bot")
	if err := tgbotapi.SetLogger(log); err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	bot.Debug = cfg.Server.Debug

	return &Bot{
		bot:      bot,
		log:      log,
		chats:    newChats(factory),
		commands: NewCommands(),
	}, nil
}

func (b *Bot) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.WithField("bot", b.bot.Self.UserName).Info("bot started")

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleMessage(ctx, update)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		return
	}
	log := b.log.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"command": message.Command(),
	})
	chat := b.chats.get(message.Chat.ID)

	var text string
	switch {
	case len(message.Photo) > 0:
		text = b.handlePhoto(ctx, chat, message.Photo)
	case message.IsCommand():
		if message.Command() == "login" {
			// The message carries the password.
			b.deleteMessage(log, message)
		}
		text = b.commands.Respond(ctx, chat, message.Command(), message.CommandArguments())
	default:
		text = "Use /help para ver los comandos"
	}

	log.Debug("message handled")
	if _, err := b.bot.Send(tgbotapi.NewMessage(message.Chat.ID, text)); err != nil {
		log.WithError(err).Error("send error")
	}
}

func (b *Bot) handlePhoto(ctx context.Context, chat *Chat, photos []tgbotapi.PhotoSize) string {
	// Telegram lists the sizes ascending.
	largest := photos[len(photos)-1]
	data, err := b.download(largest.FileID)
	if err != nil {
		b.log.WithError(err).Warn("photo download failed")
		return "No se pudo descargar la foto, envíela de nuevo"
	}
	text, err := b.commands.AddPhoto(ctx, chat, "acta_"+largest.FileUniqueID+".jpg", data)
	if err != nil {
		return userMessage(err)
	}
	return text
}

func (b *Bot) download(fileID string) ([]byte, error) {
	url, err := b.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	code, body, errs := fiber.Get(url).Timeout(photoDownloadTimeout).Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return nil, errors.New("telegram file api answered " + strconv.Itoa(code))
	}
	return body, nil
}

func (b *Bot) deleteMessage(log *logrus.Entry, message *tgbotapi.Message) {
	_, err := b.bot.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID))
	if err != nil {
		log.WithError(err).Warn("unable to delete login message")
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}
