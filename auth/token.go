package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/user/todolist-go/config"
)

// Claims is the JWT payload: the user id plus the registered claims
// (`exp`, `iat`, `jti`, `sub`).
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens. Tokens are
// stateless: validity is signature plus expiry, nothing is stored.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService builds the service from auth configuration. The secret
// must be present; it is loaded once at startup and never compiled in.
func NewTokenService(cfg config.AuthConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth: empty JWT secret")
	}
	if cfg.AccessTokenDuration <= 0 {
		return nil, errors.New("auth: access token duration must be positive")
	}
	s := &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.AccessTokenDuration,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the configured lifetime for access tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID that expires ttl from now.
func (s *TokenService) Issue(userID int64, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("auth: invalid token ttl %s", ttl)
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate returns the claims of a well-formed, correctly signed, unexpired
// token. Every failure collapses to (nil, false); callers must not try to
// tell a bad signature from an expired token.
func (s *TokenService) Validate(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	if claims.UserID <= 0 {
		return nil, false
	}
	return claims, true
}
