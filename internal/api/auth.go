package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

var (
	errEmptyEmail    = errors.New("el correo no debe estar vacío")
	errEmptyPassword = errors.New("la contraseña no debe estar vacía")
)

// Login signs in and stores the session. Only vocals are let in; any other
// role fails with ErrUnauthorizedRole and nothing is stored.
func (c *Client) Login(ctx context.Context, email string, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	var err error
	if email == "" {
		err = errors.Join(err, errEmptyEmail)
	}
	if password == "" {
		err = errors.Join(err, errEmptyPassword)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	raw, err := c.gw.DoAnonymous(ctx, gateway.Request{
		Method: fiber.MethodPost,
		Path:   apipath.Login,
		Body:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		return domain.Session{}, translateLoginError(err)
	}

	var data loginData
	_, err = decodeData(raw, &data)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return domain.Session{}, err
	}
	if data.Token == "" || data.User == nil {
		return domain.Session{}, malformed(errors.New("login response without token or usuario"))
	}

	session := domain.Session{
		Token: data.Token,
		User:  data.User.convertToDomain(),
	}
	if !session.User.IsVocal() {
		c.log.WithField("role", session.User.Role).Warn("login refused for role")
		return domain.Session{}, ErrUnauthorizedRole
	}
	if err := c.gw.Store().Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	c.log.WithField("user_id", session.User.ID).Info("logged in")
	return session, nil
}

func translateLoginError(err error) error {
	switch gateway.StatusOf(err) {
	case fiber.StatusBadRequest, fiber.StatusUnauthorized, fiber.StatusForbidden, fiber.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return err
}
