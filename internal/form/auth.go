package form

import (
	"net/http"

	"news-reader/internal/domain"
)

type Login struct {
	Email    string
	Password string
}

func LoginFromRequest(r *http.Request) Login {
	return Login{
		Email:    value(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

func (f Login) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	validateEmail(errs, f.Email)
	validatePassword(errs, "password", f.Password)
	return errs
}

// ProfileFields are the usuarios attributes shared by registration and
// profile completion.
type ProfileFields struct {
	Nombre          string
	Apellido        string
	DNI             string
	FechaNacimiento string
	Genero          string
	Telefono        string
	Localidad       string
}

func profileFieldsFromRequest(r *http.Request) ProfileFields {
	return ProfileFields{
		Nombre:          value(r, "nombre"),
		Apellido:        value(r, "apellido"),
		DNI:             value(r, "dni"),
		FechaNacimiento: value(r, "fechaNacimiento"),
		Genero:          value(r, "genero"),
		Telefono:        value(r, "telefono"),
		Localidad:       value(r, "localidad"),
	}
}

func (p ProfileFields) validate(errs domain.ValidationErrors) {
	required(errs, "nombre", p.Nombre, "El nombre es obligatorio")
	required(errs, "apellido", p.Apellido, "El apellido es obligatorio")
	required(errs, "dni", p.DNI, "El DNI es obligatorio")
	required(errs, "fechaNacimiento", p.FechaNacimiento, "La fecha es obligatoria")
	required(errs, "genero", p.Genero, "El género es obligatorio")
	required(errs, "telefono", p.Telefono, "El teléfono es obligatorio")
	required(errs, "localidad", p.Localidad, "La localidad es obligatoria")
}

// Profile builds the usuarios record for uid.
func (p ProfileFields) Profile(uid, email string) *domain.Profile {
	return &domain.Profile{
		UID:             uid,
		Nombre:          p.Nombre,
		Apellido:        p.Apellido,
		DNI:             p.DNI,
		FechaNacimiento: p.FechaNacimiento,
		Genero:          p.Genero,
		Telefono:        p.Telefono,
		Localidad:       p.Localidad,
		Email:           email,
		PerfilCompleto:  true,
	}
}

type Register struct {
	ProfileFields
	Email           string
	Password        string
	ConfirmPassword string
}

func RegisterFromRequest(r *http.Request) Register {
	return Register{
		ProfileFields:   profileFieldsFromRequest(r),
		Email:           value(r, "email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

func (f Register) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	f.ProfileFields.validate(errs)
	validateEmail(errs, f.Email)
	validatePassword(errs, "password", f.Password)
	validateConfirmation(errs, "password", f.Password, f.ConfirmPassword)
	return errs
}

type CompleteProfile struct {
	ProfileFields
}

func CompleteProfileFromRequest(r *http.Request) CompleteProfile {
	return CompleteProfile{ProfileFields: profileFieldsFromRequest(r)}
}

func (f CompleteProfile) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	f.ProfileFields.validate(errs)
	return errs
}

type ResetRequest struct {
	Email string
}

func ResetRequestFromRequest(r *http.Request) ResetRequest {
	return ResetRequest{Email: value(r, "email")}
}

func (f ResetRequest) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	validateEmail(errs, f.Email)
	return errs
}

type ResetConfirm struct {
	Email           string
	Code            string
	Password        string
	ConfirmPassword string
}

func ResetConfirmFromRequest(r *http.Request) ResetConfirm {
	return ResetConfirm{
		Email:           value(r, "email"),
		Code:            value(r, "code"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

func (f ResetConfirm) Validate() domain.ValidationErrors {
	errs := domain.ValidationErrors{}
	validateEmail(errs, f.Email)
	required(errs, "code", f.Code, msgCodeRequired)
	validatePassword(errs, "password", f.Password)
	validateConfirmation(errs, "password", f.Password, f.ConfirmPassword)
	return errs
}
