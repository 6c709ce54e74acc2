package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/gobooks/internal/domain"
)

const issuer = "gobooks"

// Claims carries the actor a request acts on behalf of.
type Claims struct {
	UserID    string      `json:"user_id"`
	CompanyID string      `json:"company_id"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the engine actor encoded in the claims.
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{UserID: c.UserID, CompanyID: c.CompanyID, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate issues a token for actor. Used by the CLI to mint service tokens.
func (m *JWTManager) Generate(actor domain.Actor) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:    actor.UserID,
		CompanyID: actor.CompanyID,
		Role:      actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	if err := claims.Actor().Validate(); err != nil {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
