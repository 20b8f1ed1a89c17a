package api

import (
	"net/http"

	"shop-service/internal/errs"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listCartItems handles GET /shopping-cart
func (h *Handler) listCartItems(c *gin.Context) {
	data, err := h.carts.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// addToCart handles POST /shopping-cart
func (h *Handler) addToCart(c *gin.Context) {
	var req service.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.carts.AddToCart(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Added to cart", data)
}

// updateCartItem handles PUT /shopping-cart/:id
func (h *Handler) updateCartItem(c *gin.Context) {
	var req service.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.carts.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Updated cart item", data)
}

// deleteCartItem handles DELETE /shopping-cart/:id
func (h *Handler) deleteCartItem(c *gin.Context) {
	if err := h.carts.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Removed from cart", nil)
}
