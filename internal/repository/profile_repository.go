package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"news-reader/internal/domain"
)

// ProfileRepository stores the usuarios documents.
type ProfileRepository interface {
	Get(ctx context.Context, uid string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
	// ExistsByDNI reports whether another user already holds dni.
	// excludeUID may be empty.
	ExistsByDNI(ctx context.Context, dni, excludeUID string) (bool, error)
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `uid, nombre, apellido, dni, fecha_nacimiento, genero,
	telefono, localidad, email, perfil_completo, created_at, updated_at`

func (r *profileRepository) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	p := &domain.Profile{}

	err := r.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM usuarios WHERE uid = $1",
		uid,
	).Scan(&p.UID, &p.Nombre, &p.Apellido, &p.DNI, &p.FechaNacimiento, &p.Genero,
		&p.Telefono, &p.Localidad, &p.Email, &p.PerfilCompleto, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// Upsert writes every field, replacing a previous document for the same uid.
func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO usuarios (uid, nombre, apellido, dni, fecha_nacimiento, genero,
			telefono, localidad, email, perfil_completo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (uid) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			apellido = EXCLUDED.apellido,
			dni = EXCLUDED.dni,
			fecha_nacimiento = EXCLUDED.fecha_nacimiento,
			genero = EXCLUDED.genero,
			telefono = EXCLUDED.telefono,
			localidad = EXCLUDED.localidad,
			email = EXCLUDED.email,
			perfil_completo = EXCLUDED.perfil_completo,
			updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at`,
		p.UID, p.Nombre, p.Apellido, p.DNI, p.FechaNacimiento, p.Genero,
		p.Telefono, p.Localidad, p.Email, p.PerfilCompleto,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

func (r *profileRepository) ExistsByDNI(ctx context.Context, dni, excludeUID string) (bool, error) {
	var exists bool

	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM usuarios WHERE dni = $1 AND uid <> $2)",
		dni, excludeUID,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check dni: %w", err)
	}

	return exists, nil
}
