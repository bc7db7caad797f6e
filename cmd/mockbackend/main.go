package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goserg/ligavocal/internal/config"
	"github.com/goserg/ligavocal/internal/logger"
	"github.com/goserg/ligavocal/internal/mockbackend"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/mockbackend.toml", "path to mock backend config")
	flag.Parse()

	cfg, err := config.NewMockBackend(configPath)
	if err != nil {
		return err
	}
	l := logger.New("debug", cfg.Debug)

	server, err := mockbackend.New(cfg, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			l.WithError(err).Error("shutdown")
		}
	}()

	l.WithField("port", cfg.Port).Info("mock backend listening")
	return server.Serve()
}
