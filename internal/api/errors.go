package api

import (
	"errors"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/gateway"
)

var (
	ErrInvalidCredentials   = errors.New("correo o contraseña incorrectos")
	ErrUnauthorizedRole     = errors.New("acceso denegado: solo vocales pueden entrar")
	ErrInvalidState         = errors.New("el partido no admite esta operación en su estado actual")
	ErrInvalidScore         = errors.New("los goles no pueden ser negativos")
	ErrInvalidSchedule      = errors.New("fecha u hora del encuentro inválida")
	ErrIncompleteSubmission = errors.New("faltan datos para finalizar el partido")
	ErrEvidenceUpload       = errors.New("error subiendo actas")
	ErrRejected             = errors.New("el servidor rechazó la petición")
)

// Errors surfaced unchanged from the lower layers.
var (
	ErrMissingToken      = gateway.ErrMissingToken
	ErrMalformedResponse = gateway.ErrMalformedResponse
	ErrTransport         = gateway.ErrTransport
	ErrStorage           = credentials.ErrStorage
)
