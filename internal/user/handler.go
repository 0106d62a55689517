package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/httputil"
	"github.com/expeditoe/backend/internal/logging"
)

// Handler contains HTTP handlers for user profile and role management.
type Handler struct {
	userRepo *Repository
	roleRepo *RoleRepository
}

func NewHandler(userRepo *Repository, roleRepo *RoleRepository) *Handler {
	return &Handler{userRepo: userRepo, roleRepo: roleRepo}
}

// UpdateUserRequest carries the caller-editable profile fields.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Country  *string `json:"country"`
	ImageURL *string `json:"imageUrl"`
}

// RoleRequest is the create/update body for roles.
type RoleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AssignRoleRequest links a role to a user.
type AssignRoleRequest struct {
	UserID    uuid.UUID `json:"userId"`
	IsPrimary bool      `json:"isPrimary"`
}

// GetUser returns a user with their roles.
// @Summary      Fetch a user
// @Tags         users
// @Produce      json
// @Param        userId path string true "User ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /v1/users/{userId} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid user id"))
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		httputil.RespondAppError(w, classify(err))
		return
	}

	roles, err := h.roleRepo.RolesForUser(r.Context(), userID)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"user":  u,
		"roles": roles,
	}, http.StatusOK)
}

// UpdateUser applies the editable profile fields.
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID"
// @Param        request body UpdateUserRequest true "Editable fields"
// @Security     BearerAuth
// @Success      200 {object} map[string]bool
// @Router       /v1/users/{userId} [put]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid user id"))
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	err = h.userRepo.Update(r.Context(), userID, UpdateParams{
		Name:     req.Name,
		Country:  req.Country,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		logger.Warn("user update failed", "user_id", userID, "error", err.Error())
		httputil.RespondAppError(w, classify(err))
		return
	}

	httputil.RespondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// ToggleSuspension flips a user's suspension flag.
// @Summary      Toggle user suspension
// @Tags         users
// @Produce      json
// @Param        userId path string true "User ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]bool
// @Router       /v1/users/suspend/{userId} [put]
func (h *Handler) ToggleSuspension(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid user id"))
		return
	}

	if err := h.userRepo.ToggleSuspension(r.Context(), userID); err != nil {
		httputil.RespondAppError(w, classify(err))
		return
	}

	httputil.RespondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// CreateRole creates a role.
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body RoleRequest true "Role"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /v1/roles [post]
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.RespondAppError(w, httputil.BadRequest("Name is required"))
		return
	}

	role, err := h.roleRepo.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"message": "Role created successfully",
		"role":    role,
	}, http.StatusOK)
}

// ListRoles returns all roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleRepo.List(r.Context())
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{"roles": roles}, http.StatusOK)
}

// GetRole returns one role by id.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := roleIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	role, err := h.roleRepo.Get(r.Context(), roleID)
	if err != nil {
		httputil.RespondAppError(w, classify(err))
		return
	}

	httputil.RespondJSON(w, map[string]any{"role": role}, http.StatusOK)
}

// UpdateRole updates a role's fields.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := roleIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	if err := h.roleRepo.Update(r.Context(), roleID, req.Name, req.Description); err != nil {
		httputil.RespondAppError(w, classify(err))
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Role updated successfully"}, http.StatusOK)
}

// DeleteRole removes a role.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := roleIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	if err := h.roleRepo.Delete(r.Context(), roleID); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Role deleted successfully"}, http.StatusOK)
}

// AssignRole attaches a role to a user.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := roleIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	var req AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.UserID == uuid.Nil {
		httputil.RespondAppError(w, httputil.BadRequest("userId is required"))
		return
	}

	if err := h.roleRepo.AssignRole(r.Context(), req.UserID, roleID, req.IsPrimary); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func roleIDParam(r *http.Request) (int64, error) {
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleId"), 10, 64)
	if err != nil {
		return 0, httputil.BadRequest("Invalid role id")
	}
	return roleID, nil
}

// classify maps repository sentinels onto the client-facing error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.NotFound("User not found")
	case errors.Is(err, ErrRoleNotFound):
		return httputil.NotFound("Role not found")
	default:
		return err
	}
}
