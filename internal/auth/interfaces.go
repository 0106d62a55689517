package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO
// v4.local); the provider is selected by configuration at startup.
type TokenService interface {
	CreateToken(userID uuid.UUID, email, name string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// UserStore is the credential store the auth flows depend on. Implemented by
// user.Repository; faked in tests.
type UserStore interface {
	Create(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByResetToken(ctx context.Context, token string) (*user.User, error)
	SetResetToken(ctx context.Context, userID uuid.UUID, token string, issuedAt time.Time) error
	ClearResetToken(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, name, code string) error
}

// RateLimiter guards the public auth endpoints. Implemented by the redis
// fixed-window limiter in internal/ratelimit.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequest(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
}
