package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/model"
	"github.com/avaldez/project-tracker/internal/repository"
)

const issuer = "project-tracker"

// Codec turns a User into a session token and back.
//
// Serialize stores only a minimal, stable reference to the user — their
// internal ID, carried in the "sub" claim of an HS256-signed token.
// Deserialize verifies the signature and re-fetches the full record from the
// user store, so every request sees the user as the database currently has
// them. The signature means a tampered session store entry can name a user
// but can never be accepted.
//
// The signing secret comes from startup configuration, never a literal in
// code, and must be at least 16 characters (use `openssl rand -hex 32`).
type Codec struct {
	users   repository.UserRepository
	secret  []byte
	ttl     time.Duration // token lifetime, matches the session record's TTL
	timeout time.Duration // per-call bound on store round-trips
}

// NewCodec creates a Codec. ttl bounds how long a serialized token stays
// valid; storeTimeout bounds each user-store call during Deserialize.
func NewCodec(users repository.UserRepository, secret string, ttl, storeTimeout time.Duration) (*Codec, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: signing secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &Codec{
		users:   users,
		secret:  []byte(secret),
		ttl:     ttl,
		timeout: storeTimeout,
	}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Serialize produces the session token for a user: an HS256-signed token
// whose Subject is the store-assigned user ID.
func (c *Codec) Serialize(user *model.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("session: cannot serialize a user without an ID")
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			Issuer:    issuer,
		},
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// Deserialize verifies a session token and re-fetches the full User record.
//
// Guarantee: Deserialize(Serialize(u)) returns a User with the same ID as u,
// as long as the record still exists.
//
// Failure modes:
//   - bad signature, wrong issuer, expired, no subject → ErrSessionInvalid
//   - user record gone from the store → ErrSessionInvalid
//   - store round-trip failed → ErrStoreUnavailable
//
// Callers must treat ErrSessionInvalid as "anonymous", never as a crash or a
// user-visible error.
func (c *Codec) Deserialize(ctx context.Context, token string) (*model.User, error) {
	tok, err := jwt.ParseWithClaims(
		token,
		&claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("session: unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperror.SessionInvalid("session token rejected")
	}

	cl, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || cl.Subject == "" {
		return nil, apperror.SessionInvalid("session token has no subject")
	}

	// Bound the store round-trip so a hung database cannot hang the request.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	user, err := c.users.GetByID(ctx, cl.Subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The referenced user no longer exists. The session is stale,
			// not broken — the caller degrades to anonymous.
			return nil, apperror.SessionInvalid("session references a missing user")
		}
		return nil, apperror.StoreUnavailable("fetching session user", err)
	}

	return user, nil
}
