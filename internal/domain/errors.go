package domain

import "errors"

var (
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidUserID        = errors.New("invalid user ID")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrDNIAlreadyRegistered = errors.New("national ID already registered")
	ErrTooManyAttempts      = errors.New("too many attempts")

	ErrInvalidArticleID    = errors.New("invalid article ID")
	ErrInvalidArticleTitle = errors.New("invalid article title")
	ErrArticleNotFound     = errors.New("article not found")

	ErrInvalidResetCode       = errors.New("invalid reset code")
	ErrInvalidResetCodeExpiry = errors.New("invalid reset code expiry time")
	ErrResetCodeExpired       = errors.New("reset code has expired")
	ErrResetCodeNotFound      = errors.New("reset code not found")

	ErrProviderUnavailable = errors.New("news provider unavailable")
	ErrUnknownProvider     = errors.New("unknown news provider")
)
