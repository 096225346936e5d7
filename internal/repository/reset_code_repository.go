package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"news-reader/internal/domain"
)

type ResetCodeRepository interface {
	Store(ctx context.Context, code *domain.ResetCode) error
	GetLatestByEmail(ctx context.Context, email string) (*domain.ResetCode, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type resetCodeRepository struct {
	db *sql.DB
}

func NewResetCodeRepository(db *sql.DB) ResetCodeRepository {
	return &resetCodeRepository{db: db}
}

func (r *resetCodeRepository) Store(ctx context.Context, code *domain.ResetCode) error {
	if err := code.Validate(); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO reset_codes (email, code, expires_at) VALUES ($1, $2, $3) RETURNING id",
		code.Email, code.Code, code.ExpiresAt,
	).Scan(&code.ID)

	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	return nil
}

func (r *resetCodeRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.ResetCode, error) {
	code := &domain.ResetCode{}

	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, code, expires_at FROM reset_codes WHERE email = $1 ORDER BY expires_at DESC LIMIT 1",
		email,
	).Scan(&code.ID, &code.Email, &code.Code, &code.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResetCodeNotFound
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	return code, nil
}

func (r *resetCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reset_codes WHERE email = $1", email); err != nil {
		return fmt.Errorf("failed to delete reset codes: %w", err)
	}
	return nil
}
