package service

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/errs"
	"shop-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T, ttl time.Duration) (*AuthService, *auth.TokenManager, *models.User) {
	t.Helper()
	ctx := context.Background()
	m := newMemStore()
	users := NewUserService(m)
	seedRolesFor(t, users)

	user, err := users.Create(ctx, CreateUserRequest{
		Username: "John Doe",
		Email:    "john.doe@example.com",
		Password: "Password@123",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", ttl)
	return NewAuthService(m, tokens), tokens, user
}

func TestLoginWithEmail(t *testing.T) {
	svc, tokens, user := newAuthFixture(t, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "Password@123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	actor, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Contains(t, actor.Roles, models.RoleAdmin)
}

func TestLoginWithUsername(t *testing.T) {
	svc, _, user := newAuthFixture(t, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Username: user.Username,
		Password: "Password@123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLoginRejections(t *testing.T) {
	svc, _, user := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Password: "Password@123"})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = svc.Login(ctx, LoginRequest{Email: "not-an-email", Password: "Password@123"})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = svc.Login(ctx, LoginRequest{Email: user.Email})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = svc.Login(ctx, LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Login or Password is incorrect")

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "Password@123"})
	assert.True(t, errs.IsNotFound(err))
}

func TestRenewValidTokenUnchanged(t *testing.T) {
	svc, _, user := newAuthFixture(t, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "Password@123",
	})
	require.NoError(t, err)

	renewed, err := svc.Renew(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Token, renewed.Token, "a still-valid token is returned as is")
}

func TestRenewExpiredToken(t *testing.T) {
	svc, tokens, user := newAuthFixture(t, -time.Minute)

	expired, err := tokens.Generate(models.Actor{ID: user.ID, Username: user.Username, Email: user.Email})
	require.NoError(t, err)

	_, err = tokens.Verify(expired)
	require.Error(t, err, "sanity: the token really is expired")

	renewed, err := svc.Renew(context.Background(), expired)
	require.NoError(t, err)
	assert.NotEqual(t, expired, renewed.Token)
	assert.Equal(t, user.ID, renewed.User.ID)
}

func TestRenewForgedToken(t *testing.T) {
	svc, _, user := newAuthFixture(t, time.Hour)

	forger := auth.NewTokenManager("other-secret", time.Hour)
	forged, err := forger.Generate(models.Actor{ID: user.ID})
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), forged)
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}
