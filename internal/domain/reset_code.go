package domain

import "time"

// ResetCode is a one-time password-reset code mailed to an account email.
type ResetCode struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *ResetCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *ResetCode) Matches(code string, now time.Time) bool {
	return c.Code == code && !c.IsExpired(now)
}

func (c *ResetCode) Validate() error {
	if c.Email == "" {
		return ErrInvalidEmail
	}
	if c.Code == "" {
		return ErrInvalidResetCode
	}
	if c.ExpiresAt.IsZero() {
		return ErrInvalidResetCodeExpiry
	}
	return nil
}
