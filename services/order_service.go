package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
)

// OrderItemDetail is one order line joined with the current dish record for
// display. DishName and DishImageKey reflect the catalog as it is now; only
// Quantity and PricePerItem are historical.
type OrderItemDetail struct {
	DishID       uint    `json:"dish_id"`
	DishName     string  `json:"dish_name"`
	DishImageKey string  `json:"dish_image_key"`
	Quantity     int     `json:"quantity"`
	PricePerItem float64 `json:"price_per_item"`
}

// OrderDetail is a full order for the confirmation and tracking views.
type OrderDetail struct {
	models.Order
	ItemDetails []OrderItemDetail `json:"item_details"`
}

// AdminOrderRow is one row of the admin order list, joined with the owning
// user's name.
type AdminOrderRow struct {
	models.Order
	Username string `json:"username"`
}

// OrderService exposes order history and per-order detail, enforcing
// ownership, and lets admins move orders through their lifecycle.
type OrderService struct{}

var orderServiceInstance *OrderService

// InitOrderService initializes the order service
func InitOrderService() *OrderService {
	orderServiceInstance = &OrderService{}
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// ListOrders returns the given user's orders, newest first, without item
// detail.
func (s *OrderService) ListOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := config.GetDB().Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("%w: listing orders for user %d: %v", ErrStoreUnavailable, userID, err)
	}
	return orders, nil
}

// ListAllOrders returns every order, newest first, joined with the owning
// username. Orders of deleted users show "[deleted]".
func (s *OrderService) ListAllOrders() ([]AdminOrderRow, error) {
	var rows []AdminOrderRow
	err := config.GetDB().Model(&models.Order{}).
		Select("orders.*, COALESCE(users.username, '[deleted]') AS username").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: listing all orders: %v", ErrStoreUnavailable, err)
	}
	return rows, nil
}

// GetOrderDetail fetches one order with its items. Only the owning user or an
// admin may read it.
func (s *OrderService) GetOrderDetail(orderID, requesterID uint, isAdmin bool) (*OrderDetail, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: loading order %d: %v", ErrStoreUnavailable, orderID, err)
	}

	if order.UserID != requesterID && !isAdmin {
		return nil, ErrForbidden
	}

	var items []OrderItemDetail
	err := db.Model(&models.OrderItem{}).
		Select("order_items.dish_id, order_items.quantity, order_items.price_per_item, COALESCE(dishes.name, '') AS dish_name, COALESCE(dishes.image_key, '') AS dish_image_key").
		Joins("LEFT JOIN dishes ON dishes.id = order_items.dish_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%w: loading items for order %d: %v", ErrStoreUnavailable, orderID, err)
	}

	return &OrderDetail{Order: order, ItemDetails: items}, nil
}

// UpdateStatus sets an order's status to one of the fixed values. Transitions
// are deliberately unconstrained beyond enum membership, matching the
// observed admin behavior; swap the ValidStatus check for
// models.CanTransition to enforce the state machine.
func (s *OrderService) UpdateStatus(orderID uint, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}

	res := config.GetDB().Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("%w: updating status of order %d: %v", ErrStoreUnavailable, orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
