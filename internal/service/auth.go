// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services take repository interfaces, not concrete SQLite types, so tests
// swap in fakes and the sqlite package never leaks upward.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/auth"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
)

// AuthService is the identity resolver: it maps a verified external OAuth
// profile to the one local User it belongs to, creating that User on first
// login.
type AuthService struct {
	users   repository.UserRepository
	timeout time.Duration
	logger  *slog.Logger
}

// NewAuthService creates an AuthService. storeTimeout bounds each user-store
// round-trip; pass 0 for the 5s default.
func NewAuthService(users repository.UserRepository, storeTimeout time.Duration, logger *slog.Logger) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &AuthService{
		users:   users,
		timeout: storeTimeout,
		logger:  logger,
	}
}

// Resolve finds or creates the local User for a Google profile.
//
// CONTRACT:
//   - Repeat login: the existing User is returned exactly as stored. No
//     field sync — the username stays whatever it was at first login, even
//     if the Google display name has changed since.
//   - First login: exactly one new User is created with the profile's
//     display name and subject, provider fixed to "Google", Created = now.
//     The returned record carries the store-assigned ID.
//   - Two concurrent first logins for the same subject converge on one
//     record: the store's unique constraint on oauth_id rejects the second
//     insert and the repository re-fetches the winner.
//
// FAILURES:
//   - missing subject or display name → ErrProfileIncomplete; no partial
//     User is written.
//   - any store failure → ErrStoreUnavailable. We never fall back to
//     creating a duplicate and never guess at an existing record — a
//     degraded store must not log someone in as the wrong user.
func (s *AuthService) Resolve(ctx context.Context, profile *auth.Profile) (*model.User, error) {
	if profile == nil || profile.Subject == "" {
		return nil, apperror.ProfileIncomplete("subject")
	}
	if profile.DisplayName == "" {
		return nil, apperror.ProfileIncomplete("displayName")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.FindByOAuthID(ctx, profile.Subject)
	if err == nil {
		// Known identity — return it unchanged.
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("identity lookup failed",
			slog.String("oauthID", profile.Subject),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StoreUnavailable("looking up identity", err)
	}

	// First login for this identity.
	user = &model.User{
		Username:      profile.DisplayName,
		OAuthID:       profile.Subject,
		OAuthProvider: auth.ProviderName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("identity creation failed",
			slog.String("oauthID", profile.Subject),
			slog.String("error", err.Error()),
		)
		return nil, apperror.StoreUnavailable("creating identity", err)
	}

	s.logger.Info("user created on first login",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}
