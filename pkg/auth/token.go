// Package auth issues and verifies storefront bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"checkout/config"
	"checkout/domain/shared"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = fmt.Errorf("%w: missing bearer token", shared.ErrUnauthorized)
	ErrInvalidToken = fmt.Errorf("%w: invalid bearer token", shared.ErrUnauthorized)
	ErrNotAdmin     = fmt.Errorf("%w: admin access required", shared.ErrForbidden)
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID    int64
	Name      string
	LoginType string
	Admin     bool
}

// Claims keeps the short claim names the storefront clients already send.
type Claims struct {
	UserID    int64  `json:"i"`
	Name      string `json:"u,omitempty"`
	LoginType string `json:"t,omitempty"`
	Admin     bool   `json:"a,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs with HS512.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth: jwt secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for id.
func (m *TokenManager) Issue(id Identity) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    id.UserID,
		Name:      id.Name,
		LoginType: id.LoginType,
		Admin:     id.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
}

// Parse verifies the signature, algorithm, expiry and issuer of raw.
func (m *TokenManager) Parse(raw string) (*Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:    claims.UserID,
		Name:      claims.Name,
		LoginType: claims.LoginType,
		Admin:     claims.Admin,
	}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
