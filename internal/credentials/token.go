package credentials

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("missing bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
)

// Token is a signed bearer token. ExpiresAt is zero when the token
// never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256 bearer tokens whose subject is
// the user ID.
type TokenManager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager creates a TokenManager. A ttl of zero disables expiry.
func NewTokenManager(signingKey []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token signing key must not be empty")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid token ttl: %s", ttl)
	}

	m := &TokenManager{
		signingKey: signingKey,
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Expires reports whether issued tokens carry an expiry.
func (m *TokenManager) Expires() bool {
	return m.ttl > 0
}

func (m *TokenManager) Issue(userID uint64) (Token, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return Token{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    m.issuer,
		Subject:   strconv.FormatUint(userID, 10),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	var expiresAt time.Time
	if m.Expires() {
		expiresAt = now.Add(m.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the token's signature, issuer and expiry and returns
// the user ID it was issued for.
func (m *TokenManager) Verify(tokenString string) (uint64, error) {
	if tokenString == "" {
		return 0, ErrUnauthenticated
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}
	if m.Expires() {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return m.signingKey, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return userID, nil
}
