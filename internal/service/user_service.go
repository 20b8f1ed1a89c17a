package service

import (
	"context"
	"strings"

	"shop-service/internal/auth"
	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserStore is the storage surface identity management needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, id, hash string) error
	DeleteUser(ctx context.Context, id string) error

	CreateRole(ctx context.Context, role *models.Role) error
	ListRoles(ctx context.Context) ([]models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	DeleteRole(ctx context.Context, id string) error
	LinkUserRole(ctx context.Context, link *models.UserRole) error
}

// UserService handles users, roles and their links
type UserService struct {
	store  UserStore
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, logger: util.GetLogger()}
}

// CreateUserRequest carries new user data with the role to link
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserRequest is a partial user update
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// ChangePasswordRequest swaps a user's password after verifying the old one
type ChangePasswordRequest struct {
	Password    string `json:"password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Create hashes the password, persists the user and links the named role.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	role, err := s.store.GetRoleByName(ctx, req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	link := &models.UserRole{
		ID:     uuid.New().String(),
		UserID: user.ID,
		RoleID: role.ID,
	}
	if err := s.store.LinkUserRole(ctx, link); err != nil {
		return nil, err
	}
	user.Roles = []models.Role{*role}

	s.logger.Info("User created",
		zap.String("user_id", user.ID),
		zap.String("role", role.Name))
	return user, nil
}

// Get retrieves a user with roles
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// List retrieves all users with roles
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

// Update merges partial fields into an existing user
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id string, req ChangePasswordRequest) error {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return errs.Invalid("Password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateUserPassword(ctx, id, hash)
}

// Delete unlinks the user's roles and removes the user
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

// CreateRole persists a role named after the request, description capitalized.
func (s *UserService) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	if name != models.RoleAdmin && name != models.RoleSeller {
		return nil, errs.Invalid("Unknown role: %s", name)
	}

	role := &models.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Description: capitalize(name),
		IsActive:    true,
	}
	if err := s.store.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles retrieves all roles
func (s *UserService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.store.ListRoles(ctx)
}

// DeleteRole removes a role
func (s *UserService) DeleteRole(ctx context.Context, id string) error {
	return s.store.DeleteRole(ctx, id)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
