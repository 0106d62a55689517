package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/expeditoe/backend/internal/database"
)

var ErrRoleNotFound = errors.New("role not found")

// RoleRepository handles role persistence
type RoleRepository struct {
	db *bun.DB
}

func NewRoleRepository(db *bun.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, name string, description *string) (*Role, error) {
	dbRole := &database.Role{
		Name:        name,
		Description: description,
	}

	_, err := r.db.NewInsert().
		Model(dbRole).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return mapDBRoleToModel(dbRole), nil
}

func (r *RoleRepository) Get(ctx context.Context, id int64) (*Role, error) {
	dbRole := new(database.Role)
	err := r.db.NewSelect().
		Model(dbRole).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return mapDBRoleToModel(dbRole), nil
}

func (r *RoleRepository) List(ctx context.Context) ([]*Role, error) {
	var dbRoles []*database.Role
	err := r.db.NewSelect().
		Model(&dbRoles).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*Role, 0, len(dbRoles))
	for _, dbRole := range dbRoles {
		roles = append(roles, mapDBRoleToModel(dbRole))
	}
	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, id int64, name string, description *string) error {
	q := r.db.NewUpdate().
		Model((*database.Role)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	if name != "" {
		q = q.Set("name = ?", name)
	}
	if description != nil {
		q = q.Set("description = ?", *description)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// Delete removes a role. Deleting an absent role is not an error, matching
// the rest of the delete endpoints.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*database.Role)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// AssignRole links a role to a user.
func (r *RoleRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleID int64, isPrimary bool) error {
	dbUserRole := &database.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		IsPrimary: isPrimary,
	}

	_, err := r.db.NewInsert().
		Model(dbUserRole).
		On("CONFLICT (user_id, role_id) DO UPDATE").
		Set("is_primary = EXCLUDED.is_primary").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RolesForUser lists the roles attached to a user.
func (r *RoleRepository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]*Role, error) {
	var dbRoles []*database.Role
	err := r.db.NewSelect().
		Model(&dbRoles).
		Join("JOIN user_roles AS ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}

	roles := make([]*Role, 0, len(dbRoles))
	for _, dbRole := range dbRoles {
		roles = append(roles, mapDBRoleToModel(dbRole))
	}
	return roles, nil
}

func mapDBRoleToModel(dbr *database.Role) *Role {
	return &Role{
		ID:          dbr.ID,
		Name:        dbr.Name,
		Description: dbr.Description,
		CreatedAt:   dbr.CreatedAt,
		UpdatedAt:   dbr.UpdatedAt,
	}
}
