package domain

import "time"

// Account is the identity record owned by the auth collaborator.
type Account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) Validate() error {
	if a.UID == "" {
		return ErrInvalidUserID
	}
	if a.Email == "" {
		return ErrInvalidEmail
	}
	return nil
}

// Profile is the usuarios document keyed by the account UID.
type Profile struct {
	UID             string    `json:"uid"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	DNI             string    `json:"dni"`
	FechaNacimiento string    `json:"fechaNacimiento"`
	Genero          string    `json:"genero"`
	Telefono        string    `json:"telefono"`
	Localidad       string    `json:"localidad"`
	Email           string    `json:"email"`
	PerfilCompleto  bool      `json:"perfilCompleto"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Profile) Validate() error {
	if p.UID == "" {
		return ErrInvalidUserID
	}
	return nil
}
