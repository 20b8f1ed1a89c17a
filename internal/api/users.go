package api

import (
	"net/http"

	"shop-service/internal/errs"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
)

// login handles POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// renewToken handles POST /auth/renew-token
func (h *Handler) renewToken(c *gin.Context) {
	data, err := h.auth.Renew(c.Request.Context(), bearerToken(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// listUsers handles GET /users
func (h *Handler) listUsers(c *gin.Context) {
	data, err := h.users.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// getUser handles GET /users/:id
func (h *Handler) getUser(c *gin.Context) {
	data, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// createUser handles POST /users
func (h *Handler) createUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Success", data)
}

// updateUser handles PATCH /users/:id
func (h *Handler) updateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Updated", data)
}

// changePassword handles PATCH /users/:id/change-password
func (h *Handler) changePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), c.Param("id"), req); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Password updated successfully", nil)
}

// deleteUser handles DELETE /users/:id
func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Deleted", nil)
}

// listRoles handles GET /roles
func (h *Handler) listRoles(c *gin.Context) {
	data, err := h.users.ListRoles(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Roles retrieved", data)
}

// createRole handles POST /roles
func (h *Handler) createRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.users.CreateRole(c.Request.Context(), req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Role created", data)
}

// deleteRole handles DELETE /roles/:id
func (h *Handler) deleteRole(c *gin.Context) {
	if err := h.users.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Role deleted successfully", nil)
}
