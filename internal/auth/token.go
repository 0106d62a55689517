package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims represents the identity claims carried inside a signed token.
type TokenClaims struct {
	UserID    string     `json:"id"` // UUID stored as string in token
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IssuedAt  time.Time  `json:"iat"`
	ExpiresAt *time.Time `json:"exp,omitempty"` // nil when the token never expires
}
