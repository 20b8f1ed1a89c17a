package store

import (
	"context"
	"database/sql"

	"shop-service/internal/errs"
	"shop-service/internal/models"
)

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.db.GetContext(ctx, user, query,
		user.ID, user.Username, user.Email, user.Password)
	if isUniqueViolation(err) {
		return errs.Conflict("User already exists")
	}
	return err
}

// GetUserByID retrieves a user with roles attached
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user with roles attached
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByUsername retrieves a user with roles attached
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE "+column+" = $1 AND deleted_at IS NULL", value)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	roles, err := s.GetRolesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

// ListUsers retrieves all users with their roles
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE deleted_at IS NULL ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	for i := range users {
		roles, err := s.GetRolesByUserID(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}

// UpdateUser updates username and email
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = $1, email = $2, updated_at = NOW()
		 WHERE id = $3 AND deleted_at IS NULL`,
		user.Username, user.Email, user.ID)
	if isUniqueViolation(err) {
		return errs.Conflict("User already exists")
	}
	if err != nil {
		return err
	}
	return requireRow(res, "User not found")
}

// UpdateUserPassword updates the stored password hash
func (s *Store) UpdateUserPassword(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL",
		hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, "User not found")
}

// DeleteUser removes the user's role links and soft-deletes the user
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM users_role WHERE user_id = $1", id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, "User not found"); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateRole inserts a new role
func (s *Store) CreateRole(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (id, name, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.db.GetContext(ctx, role, query,
		role.ID, role.Name, role.Description, role.IsActive)
	if isUniqueViolation(err) {
		return errs.Conflict("Role already exists")
	}
	return err
}

// ListRoles retrieves all roles
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.SelectContext(ctx, &roles,
		"SELECT * FROM roles WHERE deleted_at IS NULL ORDER BY name")
	return roles, err
}

// GetRoleByName retrieves a role by name
func (s *Store) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := s.db.GetContext(ctx, &role,
		"SELECT * FROM roles WHERE name = $1 AND deleted_at IS NULL", name)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("Role not found")
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole soft-deletes a role
func (s *Store) DeleteRole(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE roles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return requireRow(res, "Role not found")
}

// LinkUserRole creates a user-role join row
func (s *Store) LinkUserRole(ctx context.Context, link *models.UserRole) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users_role (id, user_id, role_id) VALUES ($1, $2, $3)",
		link.ID, link.UserID, link.RoleID)
	return err
}

// GetRolesByUserID retrieves the roles linked to a user
func (s *Store) GetRolesByUserID(ctx context.Context, userID string) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.SelectContext(ctx, &roles,
		`SELECT r.* FROM roles r
		 JOIN users_role ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1 AND r.deleted_at IS NULL`, userID)
	return roles, err
}
