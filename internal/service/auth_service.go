package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"news-reader/internal/domain"
	"news-reader/internal/form"
	"news-reader/internal/logging"
	"news-reader/internal/metrics"
	"news-reader/internal/repository"
	"news-reader/internal/session"
	"news-reader/pkg/email"
	"news-reader/pkg/ratelimit"
	"news-reader/pkg/security"
)

const (
	resetCodeTTL = 10 * time.Minute

	loginAttempts = 5
	loginWindow   = 15 * time.Minute
	resetRequests = 3
	resetWindow   = time.Hour
)

// SignInResult is the identity produced by a successful sign-in.
// NeedsProfile is set when the usuarios record is missing or incomplete.
type SignInResult struct {
	Account      *domain.Account
	Profile      *domain.Profile
	NeedsProfile bool
}

// AuthService plays the auth and document-store collaborator: accounts,
// usuarios profiles, password resets and session-change publication.
type AuthService struct {
	accounts     repository.AccountRepository
	profiles     repository.ProfileRepository
	resetCodes   repository.ResetCodeRepository
	emailService email.Service
	codes        *security.CodeGenerator
	hub          *session.Hub

	loginLimiter *ratelimit.Limiter
	resetLimiter *ratelimit.Limiter
	inflight     singleflight.Group
	now          func() time.Time
}

func NewAuthService(
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	resetCodes repository.ResetCodeRepository,
	emailService email.Service,
	codes *security.CodeGenerator,
	hub *session.Hub,
) *AuthService {
	return &AuthService{
		accounts:     accounts,
		profiles:     profiles,
		resetCodes:   resetCodes,
		emailService: emailService,
		codes:        codes,
		hub:          hub,
		loginLimiter: ratelimit.NewLimiter(loginAttempts, loginWindow),
		resetLimiter: ratelimit.NewLimiter(resetRequests, resetWindow),
		now:          time.Now,
	}
}

// Close stops the limiter cleanup goroutines.
func (s *AuthService) Close() {
	s.loginLimiter.Close()
	s.resetLimiter.Close()
}

// Register creates the account and its usuarios record. The DNI check runs
// before the account exists so a conflict never leaves an orphaned account.
// Concurrent identical submissions share one execution.
func (s *AuthService) Register(ctx context.Context, f form.Register) (*domain.Account, error) {
	email := normalizeEmail(f.Email)

	key := submissionKey("register", email, f.Password, f.Nombre, f.Apellido, f.DNI,
		f.FechaNacimiento, f.Genero, f.Telefono, f.Localidad)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.register(context.WithoutCancel(ctx), email, f)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Account), nil
}

func (s *AuthService) register(ctx context.Context, email string, f form.Register) (*domain.Account, error) {
	logger := logging.FromContext(ctx)

	taken, err := s.profiles.ExistsByDNI(ctx, f.DNI, "")
	if err != nil {
		s.recordAttempt("register", "error")
		return nil, fmt.Errorf("failed to check dni: %w", err)
	}
	if taken {
		s.recordAttempt("register", "conflict")
		return nil, domain.ErrDNIAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		s.recordAttempt("register", "error")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			s.recordAttempt("register", "conflict")
			return nil, err
		}
		s.recordAttempt("register", "error")
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.profiles.Upsert(ctx, f.ProfileFields.Profile(account.UID, email)); err != nil {
		s.recordAttempt("register", "error")
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.recordAttempt("register", "success")
	logger.Info("account registered", slog.String("uid", account.UID))
	return account, nil
}

// SignIn checks the credentials and publishes the signed-in session.
func (s *AuthService) SignIn(ctx context.Context, f form.Login) (*SignInResult, error) {
	email := normalizeEmail(f.Email)

	v, err, _ := s.inflight.Do(submissionKey("login", email, f.Password), func() (interface{}, error) {
		return s.signIn(context.WithoutCancel(ctx), email, f.Password)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SignInResult), nil
}

func (s *AuthService) signIn(ctx context.Context, email, password string) (*SignInResult, error) {
	logger := logging.FromContext(ctx)

	if !s.loginLimiter.Allow("login:" + email) {
		s.recordAttempt("login", "throttled")
		return nil, domain.ErrTooManyAttempts
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.recordAttempt("login", "invalid")
			return nil, domain.ErrInvalidCredentials
		}
		s.recordAttempt("login", "error")
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordAttempt("login", "invalid")
		return nil, domain.ErrInvalidCredentials
	}
	s.loginLimiter.Reset("login:" + email)

	result := &SignInResult{Account: account}
	profile, err := s.profiles.Get(ctx, account.UID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		result.NeedsProfile = true
	case err != nil:
		s.recordAttempt("login", "error")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	default:
		result.Profile = profile
		result.NeedsProfile = !profile.PerfilCompleto
	}

	s.hub.Publish(session.SignedIn(account.UID, account.Email))
	s.recordAttempt("login", "success")
	logger.Info("user signed in", slog.String("uid", account.UID))
	return result, nil
}

// SignOut notifies every open page of uid that the session ended.
func (s *AuthService) SignOut(ctx context.Context, uid string) {
	if uid == "" {
		return
	}
	s.hub.Publish(session.Session{UserID: uid})
	logging.FromContext(ctx).Info("user signed out", slog.String("uid", uid))
}

// Profile returns the usuarios record of uid.
func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, uid)
}

// CompleteProfile writes the usuarios record of uid and marks it complete.
// The DNI may not belong to any other user.
func (s *AuthService) CompleteProfile(ctx context.Context, uid, email string, f form.CompleteProfile) (*domain.Profile, error) {
	if uid == "" {
		return nil, domain.ErrInvalidUserID
	}

	key := submissionKey("profile", uid, email, f.Nombre, f.Apellido, f.DNI,
		f.FechaNacimiento, f.Genero, f.Telefono, f.Localidad)
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.completeProfile(context.WithoutCancel(ctx), uid, email, f)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Profile), nil
}

func (s *AuthService) completeProfile(ctx context.Context, uid, email string, f form.CompleteProfile) (*domain.Profile, error) {
	taken, err := s.profiles.ExistsByDNI(ctx, f.DNI, uid)
	if err != nil {
		s.recordAttempt("profile", "error")
		return nil, fmt.Errorf("failed to check dni: %w", err)
	}
	if taken {
		s.recordAttempt("profile", "conflict")
		return nil, domain.ErrDNIAlreadyRegistered
	}

	existing, err := s.profiles.Get(ctx, uid)
	switch {
	case err == nil && existing.Email != "":
		email = existing.Email
	case err != nil && !errors.Is(err, domain.ErrProfileNotFound):
		s.recordAttempt("profile", "error")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile := f.ProfileFields.Profile(uid, email)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.recordAttempt("profile", "error")
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.recordAttempt("profile", "success")
	logging.FromContext(ctx).Info("profile completed", slog.String("uid", uid))
	return profile, nil
}

// RequestPasswordReset mails a reset code when the account exists. An
// unknown email is not an error so callers can answer uniformly.
func (s *AuthService) RequestPasswordReset(ctx context.Context, f form.ResetRequest) error {
	logger := logging.FromContext(ctx)
	email := normalizeEmail(f.Email)

	if !s.resetLimiter.Allow("reset:" + email) {
		s.recordAttempt("reset_request", "throttled")
		return domain.ErrTooManyAttempts
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.recordAttempt("reset_request", "unknown")
			logger.Info("password reset requested for unknown email")
			return nil
		}
		s.recordAttempt("reset_request", "error")
		return fmt.Errorf("failed to get account: %w", err)
	}

	code, err := s.codes.Generate()
	if err != nil {
		s.recordAttempt("reset_request", "error")
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	resetCode := &domain.ResetCode{Email: email, Code: code, ExpiresAt: s.now().Add(resetCodeTTL)}
	if err := s.resetCodes.Store(ctx, resetCode); err != nil {
		s.recordAttempt("reset_request", "error")
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	subject := "Código para restablecer tu contraseña"
	body := fmt.Sprintf("Tu código es: %s\n\nVence en %d minutos.", code, int(resetCodeTTL.Minutes()))
	if err := s.emailService.SendEmail(ctx, email, subject, body); err != nil {
		s.recordAttempt("reset_request", "error")
		logger.Error("failed to send reset email", slog.Any("error", err))
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.recordAttempt("reset_request", "success")
	logger.Info("password reset code sent")
	return nil
}

// ResetPassword replaces the password when code is the latest unexpired
// code for the email. Used codes are deleted.
func (s *AuthService) ResetPassword(ctx context.Context, f form.ResetConfirm) error {
	email := normalizeEmail(f.Email)

	_, err, _ := s.inflight.Do(submissionKey("reset", email, f.Code, f.Password), func() (interface{}, error) {
		return nil, s.resetPassword(context.WithoutCancel(ctx), email, f)
	})
	return err
}

func (s *AuthService) resetPassword(ctx context.Context, email string, f form.ResetConfirm) error {
	logger := logging.FromContext(ctx)

	if !s.loginLimiter.Allow("reset:" + email) {
		s.recordAttempt("reset_confirm", "throttled")
		return domain.ErrTooManyAttempts
	}

	stored, err := s.resetCodes.GetLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrResetCodeNotFound) {
			s.recordAttempt("reset_confirm", "invalid")
			return domain.ErrInvalidResetCode
		}
		s.recordAttempt("reset_confirm", "error")
		return fmt.Errorf("failed to get reset code: %w", err)
	}

	now := s.now()
	if !stored.Matches(f.Code, now) {
		s.recordAttempt("reset_confirm", "invalid")
		if stored.IsExpired(now) {
			return domain.ErrResetCodeExpired
		}
		return domain.ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		s.recordAttempt("reset_confirm", "error")
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, email, string(hash)); err != nil {
		s.recordAttempt("reset_confirm", "error")
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resetCodes.DeleteByEmail(ctx, email); err != nil {
		logger.Warn("failed to delete reset codes", slog.Any("error", err))
	}
	s.loginLimiter.Reset("reset:" + email)

	s.recordAttempt("reset_confirm", "success")
	logger.Info("password reset completed")
	return nil
}

func (s *AuthService) recordAttempt(action, outcome string) {
	metrics.AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
}

// submissionKey identifies one exact form submission. Only submissions with
// identical fields may share a result.
func submissionKey(action string, fields ...string) string {
	h := sha256.New()
	for _, field := range fields {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return action + ":" + hex.EncodeToString(h.Sum(nil))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
