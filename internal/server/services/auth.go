// Package services contains server-side business logic. This file implements
// AuthService: registration, login with account lockout, and the password
// reset flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/dbx"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/auth"
	"github.com/dmitrijs2005/authvault/internal/server/config"
	"github.com/dmitrijs2005/authvault/internal/server/models"
	"github.com/dmitrijs2005/authvault/internal/server/notify"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// Account security policy. Fixed constants, not per-tenant configuration,
// so the lockout behavior stays auditable.
const (
	MaxFailedAttempts  = 5
	LockDuration       = 30 * time.Minute
	ResetTokenValidity = time.Hour

	// resetTokenBytes is the entropy of a reset token before hex encoding.
	resetTokenBytes = 32
)

// BcryptCost is the work factor for password hashing.
const BcryptCost = 12

// ResetRequestMessage is returned by RequestPasswordReset whether or not the
// email belongs to an account, so the endpoint cannot be used to probe for
// registered addresses.
const ResetRequestMessage = "If the email exists, a password reset link has been sent"

// ResetConfirmMessage is returned after a successful password reset.
const ResetConfirmMessage = "Password reset successfully"

// bcryptCost is a seam so tests can use bcrypt.MinCost.
var bcryptCost = BcryptCost

// timeNow is a seam so tests can control lock expiry.
var timeNow = time.Now

// AuthResult bundles a signed access token with the public view of the user.
type AuthResult struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// AuthService provides the authentication operations:
//   - Register: create users and mint a token
//   - Login: verify credentials, maintain lockout state, mint a token
//   - RequestPasswordReset / ConfirmPasswordReset: one-time reset tokens
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	queue         notify.Queue
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, q notify.Queue, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		queue:         q,
		logger:        l.With("module", "auth_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new ACTIVE, unverified user and returns a signed token
// together with the public user view. Emails are stored exactly as supplied
// and matched case-sensitively; a duplicate yields common.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrUserExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       models.StatusActive,
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, common.ErrUserExists
		}
		s.logger.Error(ctx, "user creation failed", "error", err)
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login verifies the email/password pair and maintains the lockout state:
// the attempt counter increments atomically on each wrong password, the
// account locks for LockDuration once the counter reaches MaxFailedAttempts,
// and a successful login resets the counter to zero. An unknown email and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	// Lock expiry is a pure function of (now, locked_until); nothing is
	// cached, so the check is always consistent with the stored timestamp.
	now := timeNow()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		remaining := int(math.Ceil(user.LockedUntil.Sub(now).Minutes()))
		return nil, &common.AccountLockedError{RetryAfterMinutes: remaining}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, s.handleFailedAttempt(ctx, repo, user)
	}

	if err := repo.ResetFailedLoginAttempts(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "attempt counter reset failed", "error", err, "user_id", user.ID)
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// handleFailedAttempt registers one failed login and decides between
// ErrInvalidCredentials and a fresh lockout. The increment happens in the
// store, so concurrent failures never overwrite each other's counts.
func (s *AuthService) handleFailedAttempt(ctx context.Context, repo users.Repository, user *models.User) error {
	attempts, err := repo.IncrementFailedLoginAttempts(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "attempt counter update failed", "error", err, "user_id", user.ID)
		return common.ErrorInternal
	}

	if attempts >= MaxFailedAttempts {
		until := timeNow().Add(LockDuration)
		if err := repo.LockAccount(ctx, user.ID, until); err != nil {
			s.logger.Error(ctx, "account lock failed", "error", err, "user_id", user.ID)
			return common.ErrorInternal
		}
		s.logger.Warn(ctx, "account locked after repeated failed logins", "user_id", user.ID)
		return &common.AccountLockedError{RetryAfterMinutes: int(LockDuration.Minutes())}
	}

	s.logger.Warn(ctx, "failed login attempt", "user_id", user.ID, "attempts", attempts)
	return common.ErrInvalidCredentials
}

// RequestPasswordReset issues a one-time reset token valid for
// ResetTokenValidity and hands it to the notification queue. The returned
// message is identical whether or not the email is registered; only the
// existing-user branch creates a token. Queue failures are logged and do not
// fail the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "password reset requested for unknown email")
			return ResetRequestMessage, nil
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		s.logger.Error(ctx, "reset token generation failed", "error", err)
		return "", common.ErrorInternal
	}

	record := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: timeNow().Add(ResetTokenValidity),
	}
	if err := s.repomanager.ResetTokens(s.db).Create(ctx, record); err != nil {
		s.logger.Error(ctx, "reset token persistence failed", "error", err, "user_id", user.ID)
		return "", common.ErrorInternal
	}

	if err := s.queue.EnqueuePasswordReset(ctx, user.ID, token); err != nil {
		// Best-effort delivery: the token is persisted and the operator can
		// inspect the queue backlog, so the request still succeeds.
		s.logger.Error(ctx, "reset notification enqueue failed", "error", err, "user_id", user.ID)
	}

	s.logger.Info(ctx, "password reset token issued", "user_id", user.ID)
	return ResetRequestMessage, nil
}

// ConfirmPasswordReset redeems a reset token and replaces the user's password.
// An absent, already-used, or expired token all yield ErrInvalidResetToken.
// The password update and the token consumption commit in one transaction.
// Confirming a reset does not clear an active lockout.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (string, error) {
	record, err := s.repomanager.ResetTokens(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidResetToken
		}
		s.logger.Error(ctx, "reset token lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if record.Used || !record.ExpiresAt.After(timeNow()) {
		return "", common.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return "", common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
			return err
		}
		return s.repomanager.ResetTokens(tx).MarkUsed(ctx, record.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Lost the race against a concurrent confirmation.
			return "", common.ErrInvalidResetToken
		}
		s.logger.Error(ctx, "password reset failed", "error", err, "user_id", record.UserID)
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset completed", "user_id", record.UserID)
	return ResetConfirmMessage, nil
}
