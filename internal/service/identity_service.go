package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/repository"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// IdentityService owns user records, issues bearer tokens and performs
// password hashing, verification and reset.
type IdentityService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// IdentityDependencies bundles collaborator requirements.
type IdentityDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Register creates a new account. Email is the unique key; a duplicate
// registration fails regardless of the other fields. No token is issued;
// the caller logs in separately.
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		ActorEmail: email,
		Payload:    events.UserRegisteredPayload{UserID: user.ID, Email: user.Email},
	})
	return user, nil
}

// Login authenticates by email and password and issues a signed bearer
// token embedding the email claim. The failure message is identical for an
// unknown email and a wrong password so the caller cannot tell which failed.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Email)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// GetProfile resolves the account behind an already-verified identity
// claim. The token may outlive the account, so absence is a 404, not a 401.
func (s *IdentityService) GetProfile(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user not found", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ResetPassword overwrites the stored hash for the account, requiring no
// proof of prior-password knowledge. Kept for API parity with the upstream
// contract; ConfirmPasswordReset is the possession-proof alternative.
func (s *IdentityService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("invalid email address", nil)
		}
		return apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePasswordHash(ctx, email, hash); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventPasswordReset,
		ActorEmail: email,
		Payload:    events.PasswordResetPayload{Email: email},
	})
	return nil
}

// RequestPasswordReset issues a short-lived single-use reset token for the
// account. Delivery is out of band; the token is returned to the transport
// layer for the notification stub.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("invalid email address", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return token, nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *IdentityService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid reset token", nil)
		}
		return apperrors.NewInternalError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("reset token expired or already used", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.Email, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventPasswordReset,
		ActorEmail: user.Email,
		Payload:    events.PasswordResetPayload{Email: user.Email},
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *IdentityService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
