package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"marketplace/models"
)

// SessionManager issues cookie tokens for server-side sessions. The token is
// an HS256 JWT whose jti names the stored session; a token is only honoured
// while its session exists in the store.
type SessionManager struct {
	store  models.SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(store models.SessionStore, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	now := m.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		_ = m.store.Delete(ctx, session.ID)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (m *SessionManager) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *SessionManager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, models.ErrSessionInvalid
	}

	claims, err := m.parse(token)
	if err != nil {
		return uuid.Nil, models.ErrSessionInvalid
	}

	session, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrSessionInvalid) {
			return uuid.Nil, models.ErrSessionInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID.String() != claims.Subject {
		return uuid.Nil, models.ErrSessionInvalid
	}
	return session.UserID, nil
}

// Destroy removes the server-side session. Expired tokens are still accepted
// here so that logout always cleans up.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := m.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}
