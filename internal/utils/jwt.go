package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quick-cart-101/AuthService/internal/model"
)

// TokenIssuer is the issuer tag embedded in every token.
const TokenIssuer = "quick-cart"

// ErrInvalidToken is returned when a token fails signature, parse or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims custom claims for issued tokens
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Scope  []string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a process-wide HS256 secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService around the given secret and token TTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// NewSigningSecret generates a fresh random 256-bit signing key. The key lives
// only for the current process: tokens issued before a restart become
// unverifiable, which is an accepted limitation of this service.
func NewSigningSecret() ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return secret, nil
}

// Issue builds and signs a token for the user. Claims carry the issue time,
// expiry (issue time + TTL), subject email, user ID, role scope and issuer tag.
// A random jti keeps every token string unique: iat/exp have second resolution,
// so without it two issuances for the same user inside one second would collide
// on the sessions table's unique token column.
func (ts *TokenService) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID: user.ID.String(),
		Scope:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses and validates a token string, returning its claims.
// Any signature, format or expiry failure is reported as ErrInvalidToken.
func (ts *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
