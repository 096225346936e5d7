package handler

import (
	"errors"
	"net/http"

	"news-reader/internal/domain"
)

const (
	tooManyAttemptsMsg = "Demasiados intentos. Probá de nuevo más tarde."
	dniTakenMsg        = "Este DNI ya está registrado en otro usuario."
)

func loginFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Usuario o contraseña incorrectos"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return tooManyAttemptsMsg
	default:
		return "No pudimos iniciar sesión. Intentá de nuevo más tarde."
	}
}

func registerFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDNIAlreadyRegistered):
		return dniTakenMsg
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return "Ya existe una cuenta con ese email."
	default:
		return "No pudimos completar el registro. Intentá de nuevo más tarde."
	}
}

func profileFailureMessage(err error) string {
	if errors.Is(err, domain.ErrDNIAlreadyRegistered) {
		return dniTakenMsg
	}
	return "Hubo un problema al guardar los datos."
}

func resetFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrResetCodeExpired):
		return "El código venció. Pedí uno nuevo."
	case errors.Is(err, domain.ErrInvalidResetCode):
		return "El código no es válido."
	case errors.Is(err, domain.ErrTooManyAttempts):
		return tooManyAttemptsMsg
	default:
		return "No pudimos cambiar la contraseña. Intentá de nuevo más tarde."
	}
}

// isUserError reports whether err is an expected rejection rather than a
// collaborator failure.
func isUserError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrTooManyAttempts,
		domain.ErrDNIAlreadyRegistered,
		domain.ErrAccountAlreadyExists,
		domain.ErrInvalidResetCode,
		domain.ErrResetCodeExpired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrDNIAlreadyRegistered), errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidResetCode), errors.Is(err, domain.ErrResetCodeExpired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
