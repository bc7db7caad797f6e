package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goserg/ligavocal/internal/config"
	"github.com/goserg/ligavocal/internal/credentials/sqlite"
	"github.com/goserg/ligavocal/internal/gateway"
	"github.com/goserg/ligavocal/internal/logger"
	"github.com/goserg/ligavocal/internal/tgbot"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/client.toml", "path to client config")
	flag.Parse()

	cfg, err := config.New(configPath)
	if err != nil {
		return err
	}
	l := logger.New(cfg.Server.LogLevel, cfg.Server.Debug)

	timeout, err := cfg.Client.Timeout()
	if err != nil {
		return err
	}
	gwCfg := gateway.Config{
		BaseURL: cfg.Client.APIURL,
		Timeout: timeout,
	}

	storage, err := sqlite.New(l, cfg.Storage.SqliteFile)
	if err != nil {
		return err
	}
	defer storage.Close()

	if !cfg.TgBot.Enabled {
		l.Warn("telegram bot disabled, nothing to run")
		return nil
	}
	bot, err := tgbot.New(cfg, func(chatID int64) *tgbot.Chat {
		scope := storage.Scope("chat:" + strconv.FormatInt(chatID, 10))
		return tgbot.NewChat(chatID, scope, gwCfg, l)
	}, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		bot.Stop()
	}()
	bot.Run(ctx)
	l.Info("bot stopped")
	return nil
}
