package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wrx61527/PapuGO/middleware"
	"github.com/wrx61527/PapuGO/services"
)

// AddToCartRequest represents the request body for adding a dish to the cart
type AddToCartRequest struct {
	Quantity int `json:"quantity"`
}

// AddToCart handles POST /api/v1/cart/items/:dishId - puts a dish into the
// session cart
func AddToCart(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	dishID, err := strconv.ParseUint(c.Param("dishId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid dish id",
			},
		})
		return
	}

	// Quantity defaults to 1 when the body is empty, like a plain
	// "add to cart" button.
	req := AddToCartRequest{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid request data",
				},
			})
			return
		}
	}

	entry, err := services.GetCartService().Add(c.Request.Context(), sessionID, uint(dishID), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_QUANTITY",
					"message": "Quantity must be a positive integer",
				},
			})
		case errors.Is(err, services.ErrDishNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DISH_NOT_FOUND",
					"message": "Dish not found",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STORE_UNAVAILABLE",
					"message": "Failed to update cart",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"dish_id":  dishID,
			"name":     entry.Name,
			"quantity": entry.Quantity,
		},
	})
}

// ViewCart handles GET /api/v1/cart - validated cart contents with totals.
// Invalid entries are dropped from the stored cart and reported.
func ViewCart(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	view, err := services.GetCartService().View(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// RemoveFromCart handles DELETE /api/v1/cart/items/:dishId - removes a dish
// from the cart. Removing an absent dish is a no-op, not an error.
func RemoveFromCart(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}

	dishID, err := strconv.ParseUint(c.Param("dishId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid dish id",
			},
		})
		return
	}

	removed, err := services.GetCartService().Remove(c.Request.Context(), sessionID, uint(dishID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORE_UNAVAILABLE",
				"message": "Failed to update cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"removed": removed,
		},
	})
}

// Checkout handles POST /api/v1/orders - places an order from the session
// cart and returns the new order id for the confirmation redirect
func Checkout(c *gin.Context) {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract session information",
			},
		})
		return
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	orderID, err := services.GetCheckoutService().PlaceOrder(c.Request.Context(), sessionID, userID)
	if err != nil {
		var cartErr *services.CartInvalidError
		switch {
		case errors.Is(err, services.ErrCartEmpty):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CART_EMPTY",
					"message": "Cart is empty",
				},
			})
		case errors.As(err, &cartErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CART_INVALID",
					"message": "Cart entry for dish " + cartErr.DishID + " is invalid; fix it in the cart view",
				},
			})
		case errors.Is(err, services.ErrOrderPlacementFailed):
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_PLACEMENT_FAILED",
					"message": "Order could not be placed; your cart is unchanged",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "STORE_UNAVAILABLE",
					"message": "Order could not be placed; your cart is unchanged",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": orderID,
		},
	})
}
