package api

import (
	"net/http"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	orders   *service.OrderService
	products *service.ProductService
	carts    *service.CartService
	clients  *service.ClientService
	users    *service.UserService
	auth     *service.AuthService
	tokens   *auth.TokenManager
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	products *service.ProductService,
	carts *service.CartService,
	clients *service.ClientService,
	users *service.UserService,
	authService *service.AuthService,
	tokens *auth.TokenManager,
) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		carts:    carts,
		clients:  clients,
		users:    users,
		auth:     authService,
		tokens:   tokens,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := AuthMiddleware(h.tokens)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/renew-token", authn, h.renewToken)
	}

	clients := router.Group("/clients", authn, RequireRoles(models.RoleAdmin))
	{
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.POST("", h.createClient)
		clients.PUT("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
	}

	products := router.Group("/products", authn)
	{
		products.GET("", RequireRoles(models.RoleAdmin, models.RoleSeller), h.listProducts)
		products.GET("/:id", RequireRoles(models.RoleAdmin, models.RoleSeller), h.getProduct)
		products.POST("", RequireRoles(models.RoleAdmin), h.createProduct)
		products.PUT("/:id", RequireRoles(models.RoleAdmin), h.updateProduct)
		products.PATCH("/:id/discount", RequireRoles(models.RoleAdmin), h.applyDiscount)
		products.DELETE("/:id", RequireRoles(models.RoleAdmin), h.deleteProduct)
	}

	orders := router.Group("/orders", authn, RequireRoles(models.RoleSeller))
	{
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.GET("/client/:id", h.listOrdersByClient)
		orders.POST("", h.createOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.PATCH("/:id/update-status", h.updateOrderStatus)
		orders.DELETE("/:id", h.deleteOrder)
	}

	router.GET("/order-products", authn, RequireRoles(models.RoleSeller), h.listOrderLines)

	carts := router.Group("/shopping-cart", authn)
	{
		carts.GET("", h.listCartItems)
		carts.POST("", h.addToCart)
		carts.PUT("/:id", h.updateCartItem)
		carts.DELETE("/:id", h.deleteCartItem)
	}

	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", authn, RequireRoles(models.RoleAdmin), h.listUsers)
		users.GET("/:id", authn, RequireRoles(models.RoleAdmin), h.getUser)
		users.PUT("/:id", authn, RequireRoles(models.RoleAdmin), h.updateUser)
		users.PATCH("/:id", authn, RequireRoles(models.RoleAdmin), h.updateUser)
		users.PATCH("/:id/change-password", authn, RequireRoles(models.RoleAdmin), h.changePassword)
		users.DELETE("/:id", authn, RequireRoles(models.RoleAdmin), h.deleteUser)
	}

	roles := router.Group("/roles", authn, RequireRoles(models.RoleAdmin))
	{
		roles.GET("", h.listRoles)
		roles.POST("", h.createRole)
		roles.DELETE("/:id", h.deleteRole)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
