package database

import (
	"context"
	"errors"
	"fmt"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgRoleRepository implements RoleRepository
var _ interfaces.RoleRepository = (*pgRoleRepository)(nil)

type pgRoleRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgRoleRepository creates a new PostgreSQL-backed RoleRepository.
func NewPgRoleRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.RoleRepository {
	return &pgRoleRepository{
		db:     db,
		logger: logger.Named("PgRoleRepo"),
	}
}

// SeedRoles upserts the canonical roles by name. Each role's flag set is
// reset and reapplied from the canonical map, so stale flags from earlier
// deployments are cleared. Exactly one role ends up as default.
func (r *pgRoleRepository) SeedRoles(ctx context.Context) error {
	query := `INSERT INTO roles (name, is_default, permissions) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET is_default = EXCLUDED.is_default, permissions = EXCLUDED.permissions`

	for name, perms := range models.SeededRolePermissions() {
		role := models.Role{Name: name, IsDefault: name == models.RoleNameUser}
		role.ResetPermissions()
		for _, perm := range perms {
			role.AddPermission(perm)
		}

		r.logger.Debug("Seeding role", zap.String("name", name), zap.Int("permissions", int(role.Permissions)))
		if _, err := r.db.Exec(ctx, query, role.Name, role.IsDefault, int(role.Permissions)); err != nil {
			r.logger.Error("Failed to seed role", zap.Error(err), zap.String("name", name))
			return fmt.Errorf("failed to seed role %q: %w", name, err)
		}
	}

	r.logger.Info("Roles seeded successfully")
	return nil
}

// GetRoleByName retrieves a role by its unique name.
func (r *pgRoleRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	query := `SELECT id, name, is_default, permissions FROM roles WHERE name = $1`
	role := &models.Role{}
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.IsDefault, &role.Permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Role not found by name", zap.String("name", name))
			return nil, models.ErrRoleNotFound
		}
		r.logger.Error("Failed to get role by name from postgres", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return role, nil
}

// GetDefaultRole retrieves the single role flagged as default.
func (r *pgRoleRepository) GetDefaultRole(ctx context.Context) (*models.Role, error) {
	query := `SELECT id, name, is_default, permissions FROM roles WHERE is_default = TRUE LIMIT 1`
	role := &models.Role{}
	err := r.db.QueryRow(ctx, query).Scan(&role.ID, &role.Name, &role.IsDefault, &role.Permissions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("No default role configured")
			return nil, models.ErrRoleNotFound
		}
		r.logger.Error("Failed to get default role from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to get default role: %w", err)
	}
	return role, nil
}
