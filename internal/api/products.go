package api

import (
	"net/http"

	"shop-service/internal/errs"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// listProducts handles GET /products
func (h *Handler) listProducts(c *gin.Context) {
	data, err := h.products.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// getProduct handles GET /products/:id
func (h *Handler) getProduct(c *gin.Context) {
	data, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Success", data)
}

// createProduct handles POST /products
func (h *Handler) createProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.products.Create(c.Request.Context(), CurrentActor(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product created", data)
}

// updateProduct handles PUT /products/:id
func (h *Handler) updateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.products.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated", data)
}

// applyDiscount handles PATCH /products/:id/discount
func (h *Handler) applyDiscount(c *gin.Context) {
	var req struct {
		Discount decimal.Decimal `json:"discount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, errs.Invalid("Invalid request body: %s", err.Error()))
		return
	}

	data, err := h.products.ApplyDiscount(c.Request.Context(), c.Param("id"), req.Discount)
	if err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Discount applied", data)
}

// deleteProduct handles DELETE /products/:id
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respond(c, http.StatusOK, "Product deleted", nil)
}
