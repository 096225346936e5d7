package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"news-reader/internal/domain"
	"news-reader/internal/service"
	"news-reader/internal/session"
)

func authHandler(t *testing.T, auth *stubAuth) *AuthHandler {
	views, gate := testDeps(t)
	return NewAuthHandler(auth, views, gate)
}

func TestLogin_InvalidFormNeverCallsCollaborator(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.Login(w, postForm("/login", url.Values{"email": {"abc"}, "password": {"123"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Formato de email inválido")
		assert.Contains(t, w.Body.String(), "Debe tener al menos 6 caracteres")
	}
	assert.Equal(t, 0, auth.Calls("signin"))
}

func TestLogin_Success(t *testing.T) {
	auth := newStubAuth()
	auth.signInResult = &service.SignInResult{
		Account: &domain.Account{UID: "uid-1", Email: "ana@example.com"},
		Profile: &domain.Profile{UID: "uid-1", Nombre: "Ana", PerfilCompleto: true},
	}
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Login(w, postForm("/login", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestLogin_IncompleteProfileGoesToCompleteProfile(t *testing.T) {
	auth := newStubAuth()
	auth.signInResult = &service.SignInResult{
		Account:      &domain.Account{UID: "uid-1", Email: "ana@example.com"},
		NeedsProfile: true,
	}
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Login(w, postForm("/login", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/completeProfile", w.Header().Get("Location"))
}

func TestLogin_WrongCredentialsKeepsFields(t *testing.T) {
	auth := newStubAuth()
	auth.err = domain.ErrInvalidCredentials
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Login(w, postForm("/login", url.Values{"email": {"ana@example.com"}, "password": {"secret1"}}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Usuario o contraseña incorrectos")
	assert.Contains(t, w.Body.String(), `value="ana@example.com"`)
}

func validRegisterValues() url.Values {
	return url.Values{
		"nombre": {"Ana"}, "apellido": {"Pérez"}, "dni": {"30111222"},
		"fechaNacimiento": {"1990-05-01"}, "genero": {"Femenino"},
		"email": {"ana@example.com"}, "telefono": {"3415554444"}, "localidad": {"Rosario"},
		"password": {"secret1"}, "confirmPassword": {"secret1"},
	}
}

func TestRegister_Success(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Register(w, postForm("/register", validRegisterValues()))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 1, auth.Calls("register"))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	values := validRegisterValues()
	values.Set("confirmPassword", "other12")

	w := httptest.NewRecorder()
	h.Register(w, postForm("/register", values))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Las contraseñas no coinciden")
	assert.Equal(t, 0, auth.Calls("register"))
}

func TestRegister_DNIConflict(t *testing.T) {
	auth := newStubAuth()
	auth.err = domain.ErrDNIAlreadyRegistered
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Register(w, postForm("/register", validRegisterValues()))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), dniTakenMsg)
	assert.Contains(t, w.Body.String(), `name="nombre" value="Ana"`)
}

func TestCompleteProfile_UsesSessionUser(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	values := validRegisterValues()
	r := withSession(postForm("/completeProfile", values), session.SignedIn("uid-9", "ana@example.com"))

	w := httptest.NewRecorder()
	h.CompleteProfile(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "uid-9", auth.lastUID)
}

func TestCompleteProfile_Get(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.CompleteProfile(w, withSession(httptest.NewRequest(http.MethodGet, "/completeProfile", nil), session.SignedIn("uid-9", "a@b.co")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, auth.Calls("profile"))
}

func TestForgotPassword_RequestAnswersNeutrally(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.ForgotPassword(w, postForm("/forgot-password", url.Values{"step": {"request"}, "email": {"nadie@example.com"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resetRequestedMsg)
	assert.Contains(t, w.Body.String(), `name="code"`)
	assert.Equal(t, 1, auth.Calls("reset-request"))
}

func TestForgotPassword_Confirm(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.ForgotPassword(w, postForm("/forgot-password", url.Values{
		"step": {"confirm"}, "email": {"ana@example.com"}, "code": {"123456"},
		"password": {"nueva1"}, "confirmPassword": {"nueva1"},
	}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestForgotPassword_ConfirmInvalidCode(t *testing.T) {
	auth := newStubAuth()
	auth.err = domain.ErrInvalidResetCode
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.ForgotPassword(w, postForm("/forgot-password", url.Values{
		"step": {"confirm"}, "email": {"ana@example.com"}, "code": {"000000"},
		"password": {"nueva1"}, "confirmPassword": {"nueva1"},
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "El código no es válido.")
}

func TestLogout(t *testing.T) {
	auth := newStubAuth()
	h := authHandler(t, auth)

	w := httptest.NewRecorder()
	h.Logout(w, withSession(httptest.NewRequest(http.MethodPost, "/logout", nil), session.SignedIn("uid-1", "a@b.co")))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "uid-1", auth.signedOutUID)
}
