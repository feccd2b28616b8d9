package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
	"github.com/wrx61527/PapuGO/services"
)

// setupCartBackend wires the cart, checkout and catalog services onto a
// fresh database and in-memory store, seeded with one restaurant and dishes.
func setupCartBackend(t *testing.T) (*services.MemoryCartStore, *gorm.DB, []models.Dish) {
	db := setupTestDB(t)
	config.SetDB(db)

	restaurant := models.Restaurant{Name: "Trattoria Ro"}
	db.Create(&restaurant)
	dishes := []models.Dish{
		{RestaurantID: restaurant.ID, Name: "Margherita", Price: 12.50},
		{RestaurantID: restaurant.ID, Name: "Garlic bread", Price: 2.00},
	}
	db.Create(&dishes)

	store := services.NewMemoryCartStore()
	catalog := services.InitCatalogService()
	services.InitCartService(store, catalog, zerolog.Nop())
	services.InitCheckoutService(store, zerolog.Nop())

	return store, db, dishes
}

func setupCartRouter(sessionID string) *gin.Engine {
	router := setupTestRouter()
	auth := mockAuthMiddleware(1, "alice", false, sessionID)
	router.GET("/cart", auth, ViewCart)
	router.POST("/cart/items/:dishId", auth, AddToCart)
	router.DELETE("/cart/items/:dishId", auth, RemoveFromCart)
	router.POST("/orders", auth, Checkout)
	return router
}

func addDish(t *testing.T, router *gin.Engine, dishID string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/cart/items/"+dishID, bytes.NewBuffer(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddToCart(t *testing.T) {
	_, _, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	dishID := uintToStr(dishes[0].ID)

	// Explicit quantity.
	body, _ := json.Marshal(map[string]interface{}{"quantity": 2})
	w := addDish(t, router, dishID, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Margherita", data["name"])
	assert.Equal(t, float64(2), data["quantity"])

	// No body means quantity 1, and it stacks on top of the existing 2.
	w = addDish(t, router, dishID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data = response["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["quantity"])
}

func TestAddToCart_Errors(t *testing.T) {
	_, _, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	tests := []struct {
		name           string
		dishID         string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Fail with zero quantity",
			dishID:         uintToStr(dishes[0].ID),
			requestBody:    map[string]interface{}{"quantity": 0},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_QUANTITY",
		},
		{
			name:           "Fail with negative quantity",
			dishID:         uintToStr(dishes[0].ID),
			requestBody:    map[string]interface{}{"quantity": -2},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_QUANTITY",
		},
		{
			name:           "Fail with unknown dish",
			dishID:         "99999",
			requestBody:    map[string]interface{}{"quantity": 1},
			expectedStatus: http.StatusNotFound,
			expectedError:  "DISH_NOT_FOUND",
		},
		{
			name:           "Fail with non-numeric dish id",
			dishID:         "margherita",
			requestBody:    map[string]interface{}{"quantity": 1},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			w := addDish(t, router, tt.dishID, body)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.False(t, response["success"].(bool))
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, tt.expectedError, errorData["code"])
		})
	}
}

func TestViewCart(t *testing.T) {
	_, _, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	body, _ := json.Marshal(map[string]interface{}{"quantity": 2})
	addDish(t, router, uintToStr(dishes[0].ID), body)
	body, _ = json.Marshal(map[string]interface{}{"quantity": 3})
	addDish(t, router, uintToStr(dishes[1].ID), body)

	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)
	assert.Equal(t, 31.00, data["total_price"])

	first := items[0].(map[string]interface{})
	assert.Equal(t, "Margherita", first["name"])
	assert.Equal(t, float64(2), first["quantity"])
	assert.Equal(t, 25.00, first["line_total"])
}

func TestViewCart_ReportsDroppedEntries(t *testing.T) {
	store, _, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	body, _ := json.Marshal(map[string]interface{}{"quantity": 1})
	addDish(t, router, uintToStr(dishes[0].ID), body)

	// Sneak a corrupted entry into the stored cart.
	cart, err := store.Get(context.Background(), "session-1")
	assert.NoError(t, err)
	cart["42"] = json.RawMessage(`{"name":"Ghost","price":5,"quantity":-1}`)
	assert.NoError(t, store.Set(context.Background(), "session-1", cart))

	req, _ := http.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Len(t, data["items"].([]interface{}), 1)
	assert.Equal(t, []interface{}{"42"}, data["dropped"].([]interface{}))
}

func TestRemoveFromCart(t *testing.T) {
	_, _, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	body, _ := json.Marshal(map[string]interface{}{"quantity": 1})
	addDish(t, router, uintToStr(dishes[0].ID), body)

	remove := func(dishID string) map[string]interface{} {
		req, _ := http.NewRequest(http.MethodDelete, "/cart/items/"+dishID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response["data"].(map[string]interface{})
	}

	data := remove(uintToStr(dishes[0].ID))
	assert.True(t, data["removed"].(bool))

	// Removing again is a successful no-op.
	data = remove(uintToStr(dishes[0].ID))
	assert.False(t, data["removed"].(bool))
}

func TestCheckout(t *testing.T) {
	store, db, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	body, _ := json.Marshal(map[string]interface{}{"quantity": 2})
	addDish(t, router, uintToStr(dishes[0].ID), body)

	req, _ := http.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	orderID := response["data"].(map[string]interface{})["order_id"].(float64)
	assert.NotZero(t, orderID)

	var order models.Order
	assert.NoError(t, db.First(&order, uint(orderID)).Error)
	assert.Equal(t, uint(1), order.UserID)
	assert.Equal(t, 25.00, order.TotalPrice)

	// The cart is gone.
	cart, err := store.Get(context.Background(), "session-1")
	assert.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCheckout_EmptyCart(t *testing.T) {
	setupCartBackend(t)
	router := setupCartRouter("session-1")

	req, _ := http.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "CART_EMPTY", errorData["code"])
}

func TestCheckout_InvalidCart(t *testing.T) {
	store, db, dishes := setupCartBackend(t)
	router := setupCartRouter("session-1")

	body, _ := json.Marshal(map[string]interface{}{"quantity": 1})
	addDish(t, router, uintToStr(dishes[0].ID), body)

	cart, err := store.Get(context.Background(), "session-1")
	assert.NoError(t, err)
	cart["42"] = json.RawMessage(`{"name":"Ghost","price":"five","quantity":1}`)
	assert.NoError(t, store.Set(context.Background(), "session-1", cart))

	req, _ := http.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "CART_INVALID", errorData["code"])
	assert.Contains(t, errorData["message"], "42")

	// Nothing was ordered and the cart still holds both entries.
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	cart, err = store.Get(context.Background(), "session-1")
	assert.NoError(t, err)
	assert.Len(t, cart, 2)
}

func uintToStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
