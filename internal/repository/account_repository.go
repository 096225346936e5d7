package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"news-reader/internal/domain"
)

const uniqueViolation = "23505"

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUID(ctx context.Context, uid string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO accounts (uid, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at",
		account.UID, account.Email, account.PasswordHash,
	).Scan(&account.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account := &domain.Account{}

	err := r.db.QueryRowContext(ctx,
		"SELECT uid, email, password_hash, created_at FROM accounts WHERE email = $1",
		email,
	).Scan(&account.UID, &account.Email, &account.PasswordHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

func (r *accountRepository) GetByUID(ctx context.Context, uid string) (*domain.Account, error) {
	account := &domain.Account{}

	err := r.db.QueryRowContext(ctx,
		"SELECT uid, email, password_hash, created_at FROM accounts WHERE uid = $1",
		uid,
	).Scan(&account.UID, &account.Email, &account.PasswordHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by uid: %w", err)
	}

	return account, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET password_hash = $1 WHERE email = $2",
		passwordHash, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
