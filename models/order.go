package models

import "time"

// Order statuses. An order starts as placed and is moved through the
// remaining statuses by an admin.
const (
	StatusPlaced     = "placed"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order represents a completed checkout. TotalPrice is fixed at creation time
// and always equals the sum of quantity*price_per_item over the order's items.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	TotalPrice float64     `gorm:"not null" json:"total_price"`
	Status     string      `gorm:"not null;default:'placed'" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Quantity and PricePerItem are snapshots
// taken at checkout and never change, so historical orders keep their pricing
// even when the dish is later edited or deleted.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	DishID       uint    `gorm:"not null" json:"dish_id"`
	Quantity     int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PricePerItem float64 `gorm:"not null" json:"price_per_item"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// ValidStatus reports whether s is one of the fixed order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlaced, StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another:
// placed -> in_progress/cancelled, in_progress -> delivered/cancelled,
// delivered and cancelled are terminal. Admin status updates currently allow
// any valid status regardless of this check; see OrderService.UpdateStatus.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPlaced:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusDelivered || to == StatusCancelled
	}
	return false
}
