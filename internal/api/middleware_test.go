package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(tokens *auth.TokenManager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected", AuthMiddleware(tokens))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("", func(c *gin.Context) {
		respond(c, http.StatusOK, "Success", CurrentActor(c))
	})
	return router
}

func doRequest(t *testing.T, router *gin.Engine, authHeader string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	rec, envelope := doRequest(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization header is missing", envelope.Message)
	assert.Equal(t, http.StatusUnauthorized, envelope.StatusCode)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	rec, envelope := doRequest(t, router, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication token format", envelope.Message)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	rec, _ := doRequest(t, router, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareAttachesActor(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens)

	token, err := tokens.Generate(models.Actor{
		ID:       "user-1",
		Username: "John Doe",
		Roles:    []string{models.RoleSeller},
	})
	require.NoError(t, err)

	rec, envelope := doRequest(t, router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", envelope.Message)

	actor, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", actor["id"])
}

func TestRequireRolesDenied(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens, models.RoleAdmin)

	token, err := tokens.Generate(models.Actor{
		ID:    "user-1",
		Roles: []string{models.RoleSeller},
	})
	require.NoError(t, err)

	rec, envelope := doRequest(t, router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, envelope.Message, "Access denied")
	assert.Contains(t, envelope.Message, models.RoleAdmin)
}

func TestRequireRolesAnyOfGrants(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := newTestRouter(tokens, models.RoleAdmin, models.RoleSeller)

	token, err := tokens.Generate(models.Actor{
		ID:    "user-1",
		Roles: []string{models.RoleSeller},
	})
	require.NoError(t, err)

	rec, _ := doRequest(t, router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
