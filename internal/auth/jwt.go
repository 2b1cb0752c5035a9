// Package auth issues and verifies the bearer tokens used by agency operators.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "agency-web"

// ErrEmptySecret is returned when tokens are requested without a signing secret.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// Claims defines the payload encoded for authenticated operators.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HasRole reports whether the claims carry one of the given roles.
func (c *Claims) HasRole(roles ...string) bool {
	return c.Role != "" && slices.Contains(roles, c.Role)
}

// JWTManager handles issuing and verifying HMAC signed tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager constructs a manager with the given secret and token lifetime.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates an access token for the operator identified by subject.
func (m *JWTManager) GenerateToken(subject, email, role string) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}

	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken verifies the signature, issuer and expiry of a token.
func (m *JWTManager) ParseToken(token string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrEmptySecret
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
