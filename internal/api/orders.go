package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache lifetimes

	"pizza_delivery/internal/domain"     // Importing domain models
	"pizza_delivery/internal/middleware" // Current user lookup
	"pizza_delivery/internal/store"      // Order store
	"pizza_delivery/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Request struct for placing or updating an order
type OrderRequest struct {
	Quantity  int    `json:"quantity" binding:"required,gt=0"` // Number of pizzas, must be positive
	PizzaSize string `json:"pizza_size"`                       // SMALL, MEDIUM or LARGE, defaults to SMALL
}

// Request struct for a status change
type OrderStatusRequest struct {
	OrderStatus string `json:"order_status"` // PENDING, IN_TRANSIT or DELIVERED, defaults to PENDING
}

const allOrdersCacheKey = "orders:all" // Staff order list cache key

// userOrdersCacheKey is the cache key of one user's order list
func userOrdersCacheKey(userID uint) string {
	return "orders:user:" + strconv.FormatUint(uint64(userID), 10)
}

// invalidateOrderCaches drops the cached lists an order appears in
func invalidateOrderCaches(ctx context.Context, rdb *redis.Client, ownerID uint) {
	if err := utils.DeleteCache(ctx, rdb, allOrdersCacheKey, userOrdersCacheKey(ownerID)); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to invalidate order cache")
	}
}

// OrdersStatusHandler confirms the order routes are reachable with a valid access token
func OrdersStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Order route"})
	}
}

// CreateOrderHandler places an order owned by the caller
func CreateOrderHandler(orders *store.OrderStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get user from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req OrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		size, err := domain.ParsePizzaSize(req.PizzaSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order := domain.Order{
			Quantity:    req.Quantity,
			PizzaSize:   size,
			OrderStatus: domain.OrderStatusPending, // New orders always start pending
			UserID:      user.ID,
		}
		if err := orders.Create(c.Request.Context(), &order); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}
		// Log successful order placement
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,        // User ID
			"order_id": order.ID,       // Order ID
			"quantity": order.Quantity, // Number of pizzas
			"type":     "create_order", // Event type
		}).Info("Order created")
		invalidateOrderCaches(c.Request.Context(), rdb, user.ID)
		c.JSON(http.StatusCreated, order)
	}
}

// ListOrdersHandler returns every order, staff only
func ListOrdersHandler(orders *store.OrderStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		listCached(c, rdb, allOrdersCacheKey, ttl, func(ctx context.Context) ([]domain.Order, error) {
			return orders.List(ctx)
		})
	}
}

// ListMyOrdersHandler returns the caller's orders
func ListMyOrdersHandler(orders *store.OrderStore, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		listCached(c, rdb, userOrdersCacheKey(user.ID), ttl, func(ctx context.Context) ([]domain.Order, error) {
			return orders.ListByUser(ctx, user.ID)
		})
	}
}

// listCached serves an order list from Redis when present, else loads and caches it
func listCached(c *gin.Context, rdb *redis.Client, key string, ttl time.Duration, load func(context.Context) ([]domain.Order, error)) {
	ctx := c.Request.Context()
	var list []domain.Order
	found, err := utils.GetCache(ctx, rdb, key, &list) // Try to get from cache
	if err == nil && found {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, list)
		return
	}
	list, err = load(ctx)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Failed to fetch orders")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	_ = utils.SetCache(ctx, rdb, key, list, ttl) // Cache the list
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, list)
}

// GetOrderHandler returns any order by id, staff only. An unknown id yields null.
func GetOrderHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		order, err := orders.FindByID(c.Request.Context(), id)
		if errors.Is(err, store.ErrOrderNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"order_id": id, "error": err.Error()}).Error("Failed to fetch order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetMyOrderHandler returns one of the caller's orders by id
func GetMyOrderHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := orderID(c)
		if !ok {
			return
		}
		mine, err := orders.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to fetch orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		// Orders of other users are invisible here, even to staff
		order := findOrder(mine, id)
		if order == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found with such id"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderHandler changes quantity and size, owner or staff only
func UpdateOrderHandler(orders *store.OrderStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		size, err := domain.ParsePizzaSize(req.PizzaSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, order, ok := loadModifiableOrder(c, orders)
		if !ok {
			return
		}
		order.Quantity = req.Quantity
		order.PizzaSize = size
		if !saveOrder(c, orders, rdb, order) {
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,        // Caller
			"order_id": order.ID,       // Order ID
			"type":     "update_order", // Event type
		}).Info("Order updated")
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler sets an order's status, staff only
func UpdateOrderStatusHandler(orders *store.OrderStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		status, err := domain.ParseOrderStatus(req.OrderStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, order, ok := loadModifiableOrder(c, orders)
		if !ok {
			return
		}
		// Any status may follow any other
		order.OrderStatus = status
		if !saveOrder(c, orders, rdb, order) {
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":      user.ID,         // Staff member
			"order_id":     order.ID,        // Order ID
			"order_status": status,          // New status
			"type":         "update_status", // Event type
		}).Info("Order status updated")
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrderHandler removes an order, owner or staff only
func DeleteOrderHandler(orders *store.OrderStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, order, ok := loadModifiableOrder(c, orders)
		if !ok {
			return
		}
		err := orders.Delete(c.Request.Context(), order.ID)
		if errors.Is(err, store.ErrOrderNotFound) {
			// Lost a race with another delete
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found with such id"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"order_id": order.ID, "error": err.Error()}).Error("Failed to delete order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,        // Caller
			"order_id": order.ID,       // Order ID
			"type":     "delete_order", // Event type
		}).Info("Order deleted")
		invalidateOrderCaches(c.Request.Context(), rdb, order.UserID)
		c.Status(http.StatusNoContent)
	}
}

// orderID parses the :id path parameter, answering 400 when it is malformed
func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}

// findOrder scans orders for id
func findOrder(orders []domain.Order, id uint) *domain.Order {
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i]
		}
	}
	return nil
}

// canModify reports whether user may change or delete order
func canModify(user *domain.User, order *domain.Order) bool {
	return user.IsStaff || order.UserID == user.ID
}

// loadModifiableOrder fetches the :id order and checks the caller may modify it.
// On failure the response has been written and ok is false.
func loadModifiableOrder(c *gin.Context, orders *store.OrderStore) (*domain.User, *domain.Order, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, nil, false
	}
	id, ok := orderID(c)
	if !ok {
		return nil, nil, false
	}
	order, err := orders.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found with such id"})
		return nil, nil, false
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"order_id": id, "error": err.Error()}).Error("Failed to fetch order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return nil, nil, false
	}
	if !canModify(user, order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this order"})
		return nil, nil, false
	}
	return user, order, true
}

// saveOrder commits order and drops the stale cached lists
func saveOrder(c *gin.Context, orders *store.OrderStore, rdb *redis.Client, order *domain.Order) bool {
	if err := orders.Save(c.Request.Context(), order); err != nil {
		logrus.WithFields(logrus.Fields{"order_id": order.ID, "error": err.Error()}).Error("Failed to update order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return false
	}
	invalidateOrderCaches(c.Request.Context(), rdb, order.UserID)
	return true
}
