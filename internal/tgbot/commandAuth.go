package tgbot

import (
	"context"
	"errors"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type LoginCommand struct{}

func (c *LoginCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	email, password, _ := strings.Cut(args, " ")
	if email == "" || strings.TrimSpace(password) == "" {
		return "", errors.New("uso: /login <correo> <contraseña>")
	}
	session, err := chat.client.Login(ctx, email, strings.TrimSpace(password))
	if err != nil {
		return "", err
	}
	chat.reset()
	return "Bienvenido, " + session.User.DisplayName() + ". Use /campeonatos para empezar.", nil
}

func (c *LoginCommand) Help() string {
	return "Inicia sesión como vocal. Uso: /login <correo> <contraseña>. El mensaje se borra del chat."
}

func (c *LoginCommand) Permission() mapset.Set[Role] {
	return roles(guestsOnly)
}

func (c *LoginCommand) Visibility() mapset.Set[Role] {
	return roles(guestsOnly)
}

type LogoutCommand struct{}

func (c *LogoutCommand) Run(ctx context.Context, chat *Chat, _ string) (string, error) {
	if err := chat.client.Logout(ctx); err != nil {
		return "", err
	}
	chat.reset()
	return "Sesión cerrada", nil
}

func (c *LogoutCommand) Help() string {
	return "Cierra la sesión de este chat"
}

func (c *LogoutCommand) Permission() mapset.Set[Role] {
	return roles(vocalsOnly)
}

func (c *LogoutCommand) Visibility() mapset.Set[Role] {
	return roles(vocalsOnly)
}
