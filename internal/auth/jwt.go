package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService signs and verifies JWT bearer tokens with HS256 and a
// process-wide secret, loaded once at startup.
type JWTService struct {
	secret []byte
}

func NewJWTService(secret []byte) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	return &JWTService{secret: secret}, nil
}

// CreateToken signs a token carrying the identity claims. A duration of 0
// omits the expiry claim entirely.
func (s *JWTService) CreateToken(userID uuid.UUID, email, name string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"id":    userID.String(),
		"email": email,
		"name":  name,
		"iat":   jwt.NewNumericDate(now),
	}
	if duration > 0 {
		claims["exp"] = jwt.NewNumericDate(now.Add(duration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates the signature and structure and returns the claims.
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	name, ok := mapClaims["name"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &TokenClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
	}

	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = &exp.Time
	}

	return claims, nil
}
