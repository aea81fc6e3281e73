package auth

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Subject is the single identity the password gate authenticates.
const Subject = "owner"

const DefaultTokenTTL = 12 * time.Hour

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Service struct {
	secret       string
	passwordHash string
	ttl          time.Duration
	revoked      *RevocationList
	logger       *log.Logger
}

// NewService gates access behind one shared password, given as a bcrypt hash.
func NewService(secret, passwordHash string, ttl time.Duration, logger *log.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		secret:       secret,
		passwordHash: passwordHash,
		ttl:          ttl,
		revoked:      NewRevocationList(),
		logger:       logger.WithPrefix("auth"),
	}
}

// Login exchanges the password for an access token and its lifetime in seconds.
func (s *Service) Login(_ context.Context, password string) (string, int, error) {
	if s.passwordHash == "" || !VerifyPassword(s.passwordHash, password) {
		s.logger.Warn("login rejected")
		return "", 0, ErrUnauthorized
	}
	token, jti, err := GenerateToken(s.secret, Subject, s.ttl)
	if err != nil {
		return "", 0, err
	}
	s.logger.Info("login", "jti", jti)
	return token, int(s.ttl.Seconds()), nil
}

// VerifyToken checks signature, expiry and revocation.
func (s *Service) VerifyToken(_ context.Context, token string) (string, string, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return "", "", ErrUnauthorized
	}
	if s.revoked.IsRevoked(claims.ID) {
		return "", "", ErrUnauthorized
	}
	return claims.Sub, claims.ID, nil
}

// Logout revokes the token so it can no longer be used.
func (s *Service) Logout(_ context.Context, token string) error {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.revoked.Revoke(claims.ID, expiresAt)
	s.logger.Info("logout", "sub", claims.Sub, "jti", claims.ID)
	return nil
}

// RevokeTokenID revokes an already verified token by id. The entry is kept for a full
// token lifetime, which outlives any token issued before now.
func (s *Service) RevokeTokenID(_ context.Context, subject, jti string) error {
	if jti == "" {
		return ErrUnauthorized
	}
	s.revoked.Revoke(jti, time.Now().Add(s.ttl))
	s.logger.Info("logout", "sub", subject, "jti", jti)
	return nil
}
