package api

import (
	"time" // Cache lifetimes

	"pizza_delivery/internal/middleware" // Custom package for middleware
	"pizza_delivery/internal/store"      // Credential and order stores
	"pizza_delivery/internal/utils"      // Token service

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators shared by every handler
type Deps struct {
	DB       *gorm.DB            // Database handle
	Redis    *redis.Client       // Optional order list cache
	Tokens   *utils.TokenService // Access and refresh tokens
	CacheTTL time.Duration       // Lifetime of cached order lists
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(deps Deps) *gin.Engine {
	users := store.NewUserStore(deps.DB)
	orders := store.NewOrderStore(deps.DB)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.MetricsMiddleware())

	r.GET("/metrics", middleware.MetricsHandler())

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.GET("/", middleware.AccessTokenMiddleware(deps.Tokens), AuthStatusHandler())
	authGroup.POST("/signup", SignUpHandler(users))
	authGroup.POST("/login", LoginHandler(users, deps.Tokens))
	authGroup.GET("/refresh", middleware.RefreshTokenMiddleware(deps.Tokens), RefreshHandler(deps.Tokens))

	// Order routes (protected by JWT, caller resolved from the token subject)
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.AccessTokenMiddleware(deps.Tokens), middleware.CurrentUserMiddleware(users))
	orderGroup.GET("/", OrdersStatusHandler())
	orderGroup.POST("/order", CreateOrderHandler(orders, deps.Redis))
	orderGroup.GET("/user/order", ListMyOrdersHandler(orders, deps.Redis, deps.CacheTTL))
	orderGroup.GET("/user/order/:id/", GetMyOrderHandler(orders))
	orderGroup.PUT("/order/update/:id/", UpdateOrderHandler(orders, deps.Redis))
	orderGroup.DELETE("/order/delete/:id/", DeleteOrderHandler(orders, deps.Redis))

	// Staff only
	staff := middleware.StaffOnlyMiddleware()
	orderGroup.GET("/orders", staff, ListOrdersHandler(orders, deps.Redis, deps.CacheTTL))
	orderGroup.GET("/orders/:id", staff, GetOrderHandler(orders))
	orderGroup.PATCH("/order/update/:id/", staff, UpdateOrderStatusHandler(orders, deps.Redis))

	return r
}
