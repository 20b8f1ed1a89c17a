package api

import (
	"net/http"

	"shop-service/internal/errs"
	"shop-service/internal/service"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
)

// listOrders handles GET /orders with optional status/clientId/userId filters
func (h *Handler) listOrders(c *gin.Context) {
	filter := store.OrderFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("clientId"),
		UserID:   c.Query("userId"),
	}

	data, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// listOrderLines handles GET /order-products
func (h *Handler) listOrderLines(c *gin.Context) {
	data, err := h.orders.ListLines(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// getOrder handles GET /orders/:id
func (h *Handler) getOrder(c *gin.Context) {
	data, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// listOrdersByClient handles GET /orders/client/:id
func (h *Handler) listOrdersByClient(c *gin.Context) {
	data, err := h.orders.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// createOrder handles POST /orders
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.orders.Create(c.Request.Context(), CurrentActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Order created", data)
}

// updateOrder handles PUT /orders/:id (line replacement)
func (h *Handler) updateOrder(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.orders.UpdateLines(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Order updated", data)
}

// updateOrderStatus handles PATCH /orders/:id/update-status
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Order updated", data)
}

// deleteOrder handles DELETE /orders/:id
func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Order deleted", nil)
}
