package api

import (
	"net/http"

	"shop-service/internal/errs"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listClients handles GET /clients
func (h *Handler) listClients(c *gin.Context) {
	data, err := h.clients.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// getClient handles GET /clients/:id
func (h *Handler) getClient(c *gin.Context) {
	data, err := h.clients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// createClient handles POST /clients
func (h *Handler) createClient(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Client created successfully", data)
}

// updateClient handles PUT /clients/:id
func (h *Handler) updateClient(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.clients.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Client updated successfully", data)
}

// deleteClient handles DELETE /clients/:id
func (h *Handler) deleteClient(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Client deleted successfully", nil)
}
