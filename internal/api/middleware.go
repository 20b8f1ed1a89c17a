package api

import (
	"strconv"
	"strings"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/errs"
	"shop-service/internal/models"
	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware validates the bearer token and attaches the actor to the
// request context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondErr(c, errs.Unauthorized("Authorization header is missing"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondErr(c, errs.Unauthorized("Invalid authentication token format"))
			return
		}

		actor, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			respondErr(c, err)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles denies the request unless the actor carries one of the given
// roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		for _, role := range roles {
			if actor.HasRole(role) {
				c.Next()
				return
			}
		}
		respondErr(c, errs.Forbidden(
			"Access denied: You need one of the following roles: [%s]",
			strings.Join(roles, ", ")))
	}
}

// CurrentActor returns the actor attached by AuthMiddleware.
func CurrentActor(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
