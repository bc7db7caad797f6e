package tgbot

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/ligavocal/internal/api"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

// userMessage turns an error into the text shown in the chat. Errors of
// the api taxonomy carry Spanish messages already; the lower layers do not.
func userMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return api.ErrInvalidCredentials.Error()
	case errors.Is(err, api.ErrUnauthorizedRole):
		return api.ErrUnauthorizedRole.Error()
	case errors.Is(err, api.ErrMissingToken),
		gateway.StatusOf(err) == fiber.StatusUnauthorized:
		return "Sesión expirada. Inicie sesión con /login <correo> <contraseña>"
	case errors.Is(err, api.ErrTransport):
		return "No se pudo contactar al servidor, intente más tarde"
	case errors.Is(err, api.ErrMalformedResponse):
		return "Respuesta inválida del servidor"
	case errors.Is(err, api.ErrStorage):
		return "No se pudo leer la sesión guardada"
	case errors.Is(err, domain.ErrMissingReferee),
		errors.Is(err, domain.ErrMissingEvidence),
		errors.Is(err, domain.ErrMissingVocal):
		return incompleteMessage(err)
	}
	var re *gateway.RemoteError
	if errors.As(err, &re) {
		return "Error del servidor: " + re.Message
	}
	return err.Error()
}

func incompleteMessage(err error) string {
	msg := api.ErrIncompleteSubmission.Error() + ":"
	if errors.Is(err, domain.ErrMissingReferee) {
		msg += "\n- elija el árbitro con /arbitro"
	}
	if errors.Is(err, domain.ErrMissingEvidence) {
		msg += "\n- envíe las fotos del frente y dorso del acta"
	}
	if errors.Is(err, domain.ErrMissingVocal) {
		msg += "\n- vuelva a iniciar sesión"
	}
	return msg
}
