package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/mail"
	"time"

	"github.com/expeditoe/backend/internal/httputil"
	"github.com/expeditoe/backend/internal/logging"
	"github.com/expeditoe/backend/internal/user"
)

// Client-facing auth errors, pre-classified for the API boundary.
var (
	ErrInvalidCredentials = httputil.Unauthorized("Invalid email or password")
	ErrInvalidOldPassword = httputil.Unauthorized("Invalid old password")
	ErrInvalidResetToken  = httputil.BadRequest("Invalid token")
	ErrLinkExpired        = httputil.BadRequest("Link has expired")
	ErrEmailRequired      = httputil.BadRequest("Email is required")
	ErrPasswordRequired   = httputil.BadRequest("Password is required")
	ErrNameRequired       = httputil.BadRequest("Name is required")
	ErrInvalidEmailFormat = httputil.BadRequest("Invalid email format")
	ErrDuplicateEmail     = httputil.BadRequest("Email already used")
)

// resetLinkValidMinutes is the reset code validity window. Elapsed time is
// rounded to the nearest whole minute: a code at exactly 120 minutes is
// still valid, at 121 it is expired.
const resetLinkValidMinutes = 120

// Service handles authentication business logic. Read-then-write sequences
// are not wrapped in transactions; concurrent password changes for the same
// user are last-write-wins.
type Service struct {
	users         UserStore
	tokens        TokenService
	emailService  EmailService
	logger        *logging.Logger
	tokenDuration time.Duration
	now           func() time.Time
}

func NewService(
	users UserStore,
	tokens TokenService,
	emailService EmailService,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		emailService:  emailService,
		logger:        logger,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// RegisterParams is the registration input.
type RegisterParams struct {
	Name     string
	Email    string
	Username *string
	Password string
}

// Register creates a new account and returns it with a signed bearer token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*user.User, string, error) {
	if params.Email == "" {
		return nil, "", ErrEmailRequired
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if params.Password == "" {
		return nil, "", ErrPasswordRequired
	}
	if params.Name == "" {
		return nil, "", ErrNameRequired
	}

	passwordHash, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, user.CreateParams{
		Name:         params.Name,
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID, newUser.Email, newUser.Name, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return newUser, token, nil
}

// Login authenticates a user and returns the account with a bearer token.
// Unknown e-mail and wrong password collapse to the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, existingUser.Email, existingUser.Name, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return existingUser, token, nil
}

// RequestPasswordReset stores a fresh one-time code for the account and
// mails it out. Always returns nil so callers cannot probe which e-mails
// exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("failed to get user for password reset", "error", err.Error())
		}
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		s.logger.Warn("failed to generate reset code", "error", err.Error())
		return nil
	}

	if err := s.users.SetResetToken(ctx, existingUser.ID, code, s.now()); err != nil {
		s.logger.Warn("failed to store reset code", "error", err.Error())
		return nil
	}

	// Send in a goroutine so a slow SMTP server does not hold the request.
	go func() {
		emailCtx := logging.WithLogger(context.Background(), s.logger)
		if err := s.emailService.SendPasswordResetEmail(emailCtx, existingUser.Email, existingUser.Name, code); err != nil {
			s.logger.Warn("failed to send password reset email", "email", existingUser.Email, "error", err.Error())
		}
	}()

	return nil
}

// ResetLinkIdentity is the minimal identity a valid reset code resolves to;
// it never exposes the code or the password hash.
type ResetLinkIdentity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ValidateResetLink resolves a reset code to the owning account, enforcing
// the validity window.
func (s *Service) ValidateResetLink(ctx context.Context, token string) (*ResetLinkIdentity, error) {
	u, err := s.lookupResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &ResetLinkIdentity{
		ID:   u.ID.String(),
		Name: u.Name,
	}, nil
}

// ResetPassword consumes a valid reset code: the new hash is persisted and
// both reset columns are cleared in the same statement, so a second attempt
// with the same code fails as invalid.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	u, err := s.lookupResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.ResetPassword(ctx, u.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// ChangePassword re-hashes and persists a new password for an
// already-authenticated caller after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, identity Identity, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	existingUser, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidOldPassword
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existingUser.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, existingUser.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// lookupResetToken finds the user holding the code and checks the window.
func (s *Service) lookupResetToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	u, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	if u.ResetTokenCreatedAt == nil {
		return nil, ErrInvalidResetToken
	}

	minutes := int(math.Round(s.now().Sub(*u.ResetTokenCreatedAt).Minutes()))
	if minutes > resetLinkValidMinutes {
		// An expired code is dead either way; null it so it does not
		// linger on the row.
		if err := s.users.ClearResetToken(ctx, u.ID); err != nil {
			s.logger.Warn("failed to clear expired reset code", "error", err.Error())
		}
		return nil, ErrLinkExpired
	}

	return u, nil
}

// generateResetCode creates a random 6-digit one-time code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
