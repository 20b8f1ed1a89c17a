package service

import (
	"context"
	"net/mail"

	"shop-service/internal/auth"
	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// AuthService handles login and token renewal
type AuthService struct {
	store  UserStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: util.GetLogger()}
}

// LoginRequest authenticates by email or username
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies the credentials and issues a bearer token carrying the
// user's roles.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" && req.Username == "" {
		return nil, errs.Invalid("Email or username is required")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, errs.Invalid("Email is invalid")
		}
	}
	if req.Password == "" {
		return nil, errs.Invalid("Password is required")
	}

	var user *models.User
	var err error
	if req.Email != "" {
		user, err = s.store.GetUserByEmail(ctx, req.Email)
	} else {
		user, err = s.store.GetUserByUsername(ctx, req.Username)
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, errs.Invalid("Login or Password is incorrect")
	}

	token, err := s.tokens.Generate(actorFor(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return &LoginResponse{Token: token, User: user}, nil
}

// Renew exchanges an authentic-but-expired token for a fresh one. A token
// that is still valid is returned unchanged.
func (s *AuthService) Renew(ctx context.Context, tokenString string) (*LoginResponse, error) {
	expired, err := s.tokens.Expired(tokenString)
	if err != nil {
		return nil, err
	}

	actor, err := s.tokens.VerifyAllowExpired(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !expired {
		return &LoginResponse{Token: tokenString, User: user}, nil
	}

	token, err := s.tokens.Generate(actorFor(user))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}

func actorFor(user *models.User) models.Actor {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}
	return models.Actor{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
	}
}
