// Package form parses and validates the auth forms. Validation is
// synchronous and returns a domain.ValidationErrors keyed by the field's
// input name.
package form

import (
	"net/http"
	"regexp"
	"strings"

	"news-reader/internal/domain"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const (
	msgEmailRequired    = "El email es obligatorio"
	msgEmailInvalid     = "Formato de email inválido"
	msgPasswordRequired = "La contraseña es obligatoria"
	msgPasswordShort    = "Debe tener al menos 6 caracteres"
	msgConfirmRequired  = "La confirmación de contraseña es obligatoria"
	msgPasswordMismatch = "Las contraseñas no coinciden"
	msgCodeRequired     = "El código es obligatorio"
)

func value(r *http.Request, field string) string {
	return strings.TrimSpace(r.PostFormValue(field))
}

func validateEmail(errs domain.ValidationErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", msgEmailRequired)
	case !emailPattern.MatchString(email):
		errs.Add("email", msgEmailInvalid)
	}
}

func validatePassword(errs domain.ValidationErrors, field, password string) {
	switch {
	case password == "":
		errs.Add(field, msgPasswordRequired)
	case len([]rune(password)) < MinPasswordLength:
		errs.Add(field, msgPasswordShort)
	}
}

// validateConfirmation flags both fields on a mismatch.
func validateConfirmation(errs domain.ValidationErrors, field, password, confirm string) {
	switch {
	case confirm == "":
		errs.Add("confirmPassword", msgConfirmRequired)
	case confirm != password:
		errs.Add("confirmPassword", msgPasswordMismatch)
		errs.Add(field, msgPasswordMismatch)
	}
}

func required(errs domain.ValidationErrors, field, value, message string) {
	if value == "" {
		errs.Add(field, message)
	}
}
