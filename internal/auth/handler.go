package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/expeditoe/backend/internal/httputil"
	"github.com/expeditoe/backend/internal/logging"
	"github.com/expeditoe/backend/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter RateLimiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Password string  `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the reset code and the new password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ChangePasswordRequest carries the old and new passwords; the caller
// identity comes from the verified bearer token.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	User    RegisteredUser `json:"user"`
	Message string         `json:"message"`
	Token   string         `json:"token"`
}

// RegisteredUser is the account subset returned on registration.
type RegisteredUser struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Status   string  `json:"status"`
}

// LoginResponse is the full account plus a signed bearer token.
type LoginResponse struct {
	*user.User
	Token string `json:"token"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account and return it with a signed bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      200 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields or duplicate email"
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /v1/users [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.checkIPLimit(w, r, "register") {
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	newUser, token, err := h.service.Register(r.Context(), RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logger.Warn("registration failed", "email", req.Email, "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, RegisterResponse{
		User: RegisteredUser{
			ID:       newUser.ID.String(),
			Name:     newUser.Name,
			Email:    newUser.Email,
			Username: newUser.Username,
			Status:   newUser.Status(),
		},
		Message: "Account Created Successfully",
		Token:   token,
	}, http.StatusOK)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with email and password and receive a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} httputil.ErrorResponse "Invalid email or password"
// @Router       /v1/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.checkIPLimit(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	loggedIn, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "email", req.Email, "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("user logged in successfully", "user_id", loggedIn.ID)

	httputil.RespondJSON(w, LoginResponse{
		User:  loggedIn,
		Token: token,
	}, http.StatusOK)
}

// ForgotPassword handles password reset requests
// @Summary      Request a password reset code
// @Description  Send a one-time reset code to the user's email. Always returns success to prevent email enumeration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Email address"
// @Success      200 {object} map[string]any
// @Failure      429 {object} httputil.ErrorResponse "Too many requests"
// @Router       /v1/forgot-password [post]
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot password request body", "error", err.Error())
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	if h.checkIPLimit(w, r, "forgot-password") {
		return
	}

	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
		// Continue despite error to avoid blocking legitimate requests
	} else if onCooldown {
		logger.Warn("email on cooldown", "email", req.Email)
		httputil.RespondErrorWithCode(w, "please wait before requesting another reset", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return
	}

	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	// Always success-shaped, whether or not the account exists
	_ = h.service.RequestPasswordReset(r.Context(), req.Email)

	httputil.RespondJSON(w, map[string]any{
		"success": true,
		"message": "An email with your One Time Password has been sent, Kindly copy the code to reset your password.",
	}, http.StatusOK)
}

// ValidateResetLink resolves a reset code to the owning account.
// @Summary      Validate a reset code
// @Tags         auth
// @Produce      json
// @Param        token query string true "Reset code"
// @Success      200 {object} ResetLinkIdentity
// @Failure      400 {object} httputil.ErrorResponse "Invalid token or expired link"
// @Router       /v1/reset-password/validate-link [get]
func (h *Handler) ValidateResetLink(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, err := h.service.ValidateResetLink(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		logger.Warn("reset link validation failed", "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, identity, http.StatusOK)
}

// ResetPassword handles password reset with a one-time code.
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset code and new password"
// @Success      200 {object} map[string]any
// @Failure      400 {object} httputil.ErrorResponse "Invalid token or expired link"
// @Router       /v1/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset password request body", "error", err.Error())
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		logger.Warn("password reset failed", "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("password reset successfully")

	httputil.RespondJSON(w, map[string]any{
		"success": true,
		"message": "User password updated successfully",
	}, http.StatusOK)
}

// ChangePassword rotates the password of the authenticated caller.
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new passwords"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      401 {object} httputil.ErrorResponse "Invalid old password"
// @Router       /v1/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid change password request body", "error", err.Error())
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity, req.OldPassword, req.Password); err != nil {
		logger.Warn("password change failed", "user_id", identity.ID, "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	logger.Info("password changed successfully", "user_id", identity.ID)

	httputil.RespondJSON(w, map[string]any{
		"success": true,
		"message": "User password updated successfully",
	}, http.StatusOK)
}

// checkIPLimit applies the per-IP fixed window for a public endpoint and
// records the request. Reports true when the caller was rejected.
func (h *Handler) checkIPLimit(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return false
}

// getClientIP extracts the client IP from RemoteAddr. Forwarding headers are
// resolved upstream by the router's RealIP middleware, so they are not
// consulted here where a direct client could rotate them to dodge the limit.
func getClientIP(r *http.Request) string {
	// RemoteAddr format is "IP:port", extract just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
