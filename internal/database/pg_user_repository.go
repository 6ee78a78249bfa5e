package database

import (
	"context"
	"errors"
	"fmt"

	"recipe-server/internal/interfaces"
	"recipe-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

// userColumns is the select list shared by every single-user query. The
// role is joined in so callers always get User.Role populated.
const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.image_file, u.confirmed,
	u.role_id, u.location, u.about_me, u.last_seen, u.created_at, u.updated_at,
	r.id, r.name, r.is_default, r.permissions`

const userFromJoin = ` FROM users u LEFT JOIN roles r ON r.id = u.role_id`

func scanUserRow(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var roleID *int64
	var roleName *string
	var roleDefault *bool
	var rolePerms *int

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.ImageFile,
		&user.Confirmed, &user.RoleID, &user.Location, &user.AboutMe,
		&user.LastSeen, &user.CreatedAt, &user.UpdatedAt,
		&roleID, &roleName, &roleDefault, &rolePerms,
	)
	if err != nil {
		return nil, err
	}
	if roleID != nil {
		user.Role = &models.Role{
			ID:          *roleID,
			Name:        *roleName,
			IsDefault:   *roleDefault,
			Permissions: models.Permission(*rolePerms),
		}
	}
	return user, nil
}

// CreateUser inserts a new user into the database.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, image_file, confirmed, role_id, location, about_me)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("username", user.Username), zap.String("email", user.Email))
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.ImageFile,
		user.Confirmed, user.RoleID, user.Location, user.AboutMe,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			logFields := []zap.Field{zap.String("username", user.Username), zap.String("email", user.Email)}
			switch pgErr.ConstraintName {
			case "users_username_key":
				r.logger.Warn("Attempted to create duplicate user by username", logFields...)
				return models.ErrUserAlreadyExists
			case "users_email_key":
				r.logger.Warn("Attempted to create duplicate user by email", logFields...)
				return models.ErrEmailAlreadyExists
			default:
				r.logger.Warn("Attempted to create user with unique constraint violation", append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
				return models.ErrUserAlreadyExists
			}
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("username", user.Username))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return nil
}

// GetUserByID retrieves a user (with role) by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + userFromJoin + ` WHERE u.id = $1`
	r.logger.Debug("Executing query", zap.String("query", "GetUserByID"), zap.String("id", id.String()))
	user, err := scanUserRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("id", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user (with role) by their username.
func (r *pgUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT` + userColumns + userFromJoin + ` WHERE u.username = $1`
	r.logger.Debug("Executing query", zap.String("query", "GetUserByUsername"), zap.String("username", username))
	user, err := scanUserRow(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by username", zap.String("username", username))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by username from postgres", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username from postgres: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user (with role) by their email.
func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + userFromJoin + ` WHERE u.email = $1`
	r.logger.Debug("Executing query", zap.String("query", "GetUserByEmail"), zap.String("email", email))
	user, err := scanUserRow(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by email", zap.String("email", email))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by email from postgres", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from postgres: %w", err)
	}
	return user, nil
}

// ListUsers retrieves one page of users ordered by username plus the total count.
func (r *pgUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	query := `SELECT` + userColumns + userFromJoin + ` ORDER BY u.username ASC LIMIT $1 OFFSET $2`
	r.logger.Debug("Executing query", zap.String("query", "ListUsers"), zap.Int("limit", limit), zap.Int("offset", offset))

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query users from postgres", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			r.logger.Error("Failed to scan user row", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating user rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	count, err := r.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// UpdateProfile updates username, location, about_me and image_file.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET username = $1, location = $2, about_me = $3, image_file = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", user.ID.String()))

	cmdTag, err := r.db.Exec(ctx, query, user.Username, user.Location, user.AboutMe, user.ImageFile, user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_username_key" {
			r.logger.Warn("Attempted to update user with duplicate username", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to update user profile in postgres", zap.Error(err), zap.String("userID", user.ID.String()))
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update profile of non-existent user", zap.String("userID", user.ID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User profile updated successfully", zap.String("userID", user.ID.String()))
	return nil
}

// UpdateEmail sets a new email address for the user.
func (r *pgUserRepository) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	query := `UPDATE users SET email = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()))

	cmdTag, err := r.db.Exec(ctx, query, email, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
			r.logger.Warn("Attempted to update user with duplicate email", zap.String("userID", userID.String()), zap.String("email", email))
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to update user email in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update user email: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update email of non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User email updated successfully", zap.String("userID", userID.String()))
	return nil
}

// UpdatePasswordHash replaces the stored password hash.
func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()))

	cmdTag, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		r.logger.Error("Failed to update user password hash in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update password hash for non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User password hash updated successfully", zap.String("userID", userID.String()))
	return nil
}

// SetConfirmed marks the account as confirmed or unconfirmed.
func (r *pgUserRepository) SetConfirmed(ctx context.Context, userID uuid.UUID, confirmed bool) error {
	query := `UPDATE users SET confirmed = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()), zap.Bool("confirmed", confirmed))

	cmdTag, err := r.db.Exec(ctx, query, confirmed, userID)
	if err != nil {
		r.logger.Error("Failed to update confirmed flag in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update confirmed flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to set confirmed flag for non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User confirmed flag updated", zap.String("userID", userID.String()), zap.Bool("confirmed", confirmed))
	return nil
}

// SetRole assigns a role by id.
func (r *pgUserRepository) SetRole(ctx context.Context, userID uuid.UUID, roleID int64) error {
	query := `UPDATE users SET role_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()), zap.Int64("roleID", roleID))

	cmdTag, err := r.db.Exec(ctx, query, roleID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Attempted to assign non-existent role", zap.String("userID", userID.String()), zap.Int64("roleID", roleID))
			return models.ErrRoleNotFound
		}
		r.logger.Error("Failed to update user role in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to set role for non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User role updated", zap.String("userID", userID.String()), zap.Int64("roleID", roleID))
	return nil
}

// TouchLastSeen bumps last_seen to the current time.
func (r *pgUserRepository) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET last_seen = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to touch last_seen in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to touch last_seen: %w", err)
	}
	return nil
}

// DeleteUser removes the user. Dependent rows go with the cascade.
func (r *pgUserRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()))

	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to delete user from postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}
	r.logger.Info("User deleted successfully", zap.String("userID", userID.String()))
	return nil
}

// CountUsers retrieves the total number of users.
func (r *pgUserRepository) CountUsers(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users`
	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to get user count from postgres", zap.Error(err))
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}
