package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services. Controllers match on these and turn
// them into user-facing responses; anything wrapped in ErrStoreUnavailable or
// ErrOrderPlacementFailed is an infrastructure failure and is logged with its
// cause before being converted to a generic message.
var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrDishNotFound         = errors.New("dish not found")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("access denied")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrOrderPlacementFailed = errors.New("order placement failed")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// CartInvalidError reports a cart entry that failed strict checkout
// validation. The cart is left untouched so the user can repair it through
// the cart view.
type CartInvalidError struct {
	DishID string
	Reason string
}

func (e *CartInvalidError) Error() string {
	return fmt.Sprintf("invalid cart entry for dish %s: %s", e.DishID, e.Reason)
}
