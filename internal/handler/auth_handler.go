package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"news-reader/internal/domain"
	"news-reader/internal/form"
	"news-reader/internal/logging"
	"news-reader/internal/middleware"
	"news-reader/internal/session"
	"news-reader/internal/view"
)

const (
	completeProfilePath = "/completeProfile"
	resetRequestedMsg   = "Si el email está registrado, te enviamos un código para restablecer la contraseña."
)

type AuthHandler struct {
	pages
	auth Authenticator
}

func NewAuthHandler(auth Authenticator, views *view.Renderer, gate *middleware.SessionGate) *AuthHandler {
	return &AuthHandler{
		pages: pages{views: views, gate: gate},
		auth:  auth,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, view.Login, h.page(w, r, "Iniciar sesión"))
		return
	}

	f := form.LoginFromRequest(r)
	data := h.page(w, r, "Iniciar sesión")
	data.Form = f

	if data.Errors = f.Validate(); !data.Errors.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, view.Login, data)
		return
	}

	result, err := h.auth.SignIn(r.Context(), f)
	if err != nil {
		data.Alert = loginFailureMessage(err)
		h.logFailure(r, "sign-in", err)
		h.render(w, r, statusFor(err), view.Login, data)
		return
	}

	if err := h.gate.SetUserSession(w, r, result.Account.UID, result.Account.Email); err != nil {
		logging.FromContext(r.Context()).Error("failed to set session", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if result.NeedsProfile {
		h.redirectWithNotice(w, r, completeProfilePath, "Completá tu perfil para continuar.")
		return
	}
	h.redirectWithNotice(w, r, session.HomePath, fmt.Sprintf("Bienvenido %s", result.Profile.Nombre))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, view.Register, h.page(w, r, "Registrarse"))
		return
	}

	f := form.RegisterFromRequest(r)
	data := h.page(w, r, "Registrarse")
	data.Form = f

	if data.Errors = f.Validate(); !data.Errors.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, view.Register, data)
		return
	}

	if _, err := h.auth.Register(r.Context(), f); err != nil {
		data.Alert = registerFailureMessage(err)
		h.logFailure(r, "register", err)
		h.render(w, r, statusFor(err), view.Register, data)
		return
	}

	h.redirectWithNotice(w, r, session.LoginPath, fmt.Sprintf("Registro exitoso. Bienvenido, %s", f.Nombre))
}

func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	current := session.FromContext(r.Context())
	data := h.page(w, r, "Completar perfil")

	if r.Method == http.MethodGet {
		profile, err := h.auth.Profile(r.Context(), current.UserID)
		switch {
		case err == nil:
			data.Form = form.CompleteProfile{ProfileFields: form.ProfileFields{
				Nombre:          profile.Nombre,
				Apellido:        profile.Apellido,
				DNI:             profile.DNI,
				FechaNacimiento: profile.FechaNacimiento,
				Genero:          profile.Genero,
				Telefono:        profile.Telefono,
				Localidad:       profile.Localidad,
			}}
		case !errors.Is(err, domain.ErrProfileNotFound):
			h.logFailure(r, "load profile", err)
		}
		h.render(w, r, http.StatusOK, view.CompleteProfile, data)
		return
	}

	f := form.CompleteProfileFromRequest(r)
	data.Form = f

	if data.Errors = f.Validate(); !data.Errors.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, view.CompleteProfile, data)
		return
	}

	if _, err := h.auth.CompleteProfile(r.Context(), current.UserID, current.Email, f); err != nil {
		data.Alert = profileFailureMessage(err)
		h.logFailure(r, "complete profile", err)
		h.render(w, r, statusFor(err), view.CompleteProfile, data)
		return
	}

	h.redirectWithNotice(w, r, session.HomePath, fmt.Sprintf("Perfil completado exitosamente. Bienvenido, %s", f.Nombre))
}

// ForgotPassword runs both reset steps: "request" mails a code and
// "confirm" sets the new password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	data := h.page(w, r, "Recuperar contraseña")

	if r.Method == http.MethodGet {
		if email := r.URL.Query().Get("email"); email != "" {
			data.Data = true
			data.Form = form.ResetConfirm{Email: email}
		}
		h.render(w, r, http.StatusOK, view.ForgotPassword, data)
		return
	}

	if r.PostFormValue("step") == "confirm" {
		h.confirmReset(w, r, data)
		return
	}

	f := form.ResetRequestFromRequest(r)
	data.Form = f
	if data.Errors = f.Validate(); !data.Errors.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, view.ForgotPassword, data)
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), f); err != nil {
		h.logFailure(r, "request password reset", err)
		if errors.Is(err, domain.ErrTooManyAttempts) {
			data.Alert = tooManyAttemptsMsg
			h.render(w, r, http.StatusTooManyRequests, view.ForgotPassword, data)
			return
		}
	}

	data.Data = true
	data.Form = form.ResetConfirm{Email: f.Email}
	data.Notices = append(data.Notices, resetRequestedMsg)
	h.render(w, r, http.StatusOK, view.ForgotPassword, data)
}

func (h *AuthHandler) confirmReset(w http.ResponseWriter, r *http.Request, data view.Page) {
	f := form.ResetConfirmFromRequest(r)
	data.Data = true
	data.Form = form.ResetConfirm{Email: f.Email, Code: f.Code}

	if data.Errors = f.Validate(); !data.Errors.Valid() {
		h.render(w, r, http.StatusUnprocessableEntity, view.ForgotPassword, data)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), f); err != nil {
		data.Alert = resetFailureMessage(err)
		h.logFailure(r, "reset password", err)
		h.render(w, r, statusFor(err), view.ForgotPassword, data)
		return
	}

	h.redirectWithNotice(w, r, session.LoginPath, "Contraseña actualizada. Ya podés iniciar sesión.")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	current := session.FromContext(r.Context())

	if err := h.gate.ClearSession(w, r); err != nil {
		logging.FromContext(r.Context()).Error("failed to clear session", slog.Any("error", err))
	}
	h.auth.SignOut(r.Context(), current.UserID)

	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) logFailure(r *http.Request, action string, err error) {
	logger := logging.FromContext(r.Context())
	if isUserError(err) {
		logger.Info(action+" rejected", slog.String("reason", err.Error()))
		return
	}
	logger.Error(action+" failed", slog.Any("error", err))
}
