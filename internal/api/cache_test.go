package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"pizza_delivery/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listOrders fetches an order list and reports the X-Cache header
func (s *testServer) listOrders(path, token string) ([]domain.Order, string) {
	s.t.Helper()
	w := s.do(http.MethodGet, path, token, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var list []domain.Order
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &list))
	return list, w.Header().Get("X-Cache")
}

func TestOrderListsAreCached(t *testing.T) {
	s, mr := newCachedTestServer(t)
	customer := s.register("customer", false)
	staff := s.register("staff", true)
	order := s.placeOrder(customer, 2, "LARGE")

	all, cache := s.listOrders("/orders/orders", staff)
	assert.Equal(t, "MISS", cache)
	require.Len(t, all, 1)

	all, cache = s.listOrders("/orders/orders", staff)
	assert.Equal(t, "HIT", cache)
	require.Len(t, all, 1)
	assert.Equal(t, order, all[0])

	mine, cache := s.listOrders("/orders/user/order", customer)
	assert.Equal(t, "MISS", cache)
	require.Len(t, mine, 1)
	_, cache = s.listOrders("/orders/user/order", customer)
	assert.Equal(t, "HIT", cache)

	assert.True(t, mr.Exists(allOrdersCacheKey))
	assert.True(t, mr.Exists(userOrdersCacheKey(order.UserID)))
}

func TestOrderWritesInvalidateCachedLists(t *testing.T) {
	s, mr := newCachedTestServer(t)
	customer := s.register("customer", false)
	staff := s.register("staff", true)
	order := s.placeOrder(customer, 2, "LARGE")

	// warm fills both lists and checks they are served from cache
	warm := func() {
		t.Helper()
		s.listOrders("/orders/orders", staff)
		s.listOrders("/orders/user/order", customer)
		_, cache := s.listOrders("/orders/orders", staff)
		require.Equal(t, "HIT", cache)
		_, cache = s.listOrders("/orders/user/order", customer)
		require.Equal(t, "HIT", cache)
	}
	// fresh lists both orders and asserts the cache was bypassed
	fresh := func() (all, mine []domain.Order) {
		t.Helper()
		assert.False(t, mr.Exists(allOrdersCacheKey))
		assert.False(t, mr.Exists(userOrdersCacheKey(order.UserID)))
		all, cache := s.listOrders("/orders/orders", staff)
		assert.Equal(t, "MISS", cache)
		mine, cache = s.listOrders("/orders/user/order", customer)
		assert.Equal(t, "MISS", cache)
		return all, mine
	}

	warm()
	w := s.do(http.MethodPatch, fmt.Sprintf("/orders/order/update/%d/", order.ID), staff, gin.H{"order_status": "DELIVERED"})
	require.Equal(t, http.StatusOK, w.Code)
	all, mine := fresh()
	require.Len(t, all, 1)
	assert.Equal(t, domain.OrderStatusDelivered, all[0].OrderStatus)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.OrderStatusDelivered, mine[0].OrderStatus)

	warm()
	w = s.do(http.MethodPut, fmt.Sprintf("/orders/order/update/%d/", order.ID), customer, gin.H{"quantity": 7, "pizza_size": "MEDIUM"})
	require.Equal(t, http.StatusOK, w.Code)
	all, mine = fresh()
	require.Len(t, all, 1)
	assert.Equal(t, 7, all[0].Quantity)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.PizzaSizeMedium, mine[0].PizzaSize)

	warm()
	second := s.placeOrder(customer, 1, "SMALL")
	all, mine = fresh()
	assert.Len(t, all, 2)
	assert.Len(t, mine, 2)

	warm()
	w = s.do(http.MethodDelete, fmt.Sprintf("/orders/order/delete/%d/", order.ID), staff, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	all, mine = fresh()
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)
}

func TestOrderWriteKeepsOtherUsersCache(t *testing.T) {
	s, mr := newCachedTestServer(t)
	alice := s.register("alice", false)
	bob := s.register("bob", false)
	bobOrder := s.placeOrder(bob, 1, "SMALL")

	s.listOrders("/orders/user/order", bob)
	s.placeOrder(alice, 3, "LARGE")

	assert.True(t, mr.Exists(userOrdersCacheKey(bobOrder.UserID)))
	mine, cache := s.listOrders("/orders/user/order", bob)
	assert.Equal(t, "HIT", cache)
	require.Len(t, mine, 1)
	assert.Equal(t, bobOrder.ID, mine[0].ID)
}
