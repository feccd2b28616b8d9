package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
)

// CheckoutService converts a validated cart into a durable order with its
// line items, exactly once, with all-or-nothing persistence.
type CheckoutService struct {
	store CartStore
	log   zerolog.Logger

	// Striped per-session locks. Two concurrent checkouts on the same
	// session serialize; the loser finds an empty cart and fails with
	// ErrCartEmpty instead of committing a duplicate order.
	locks [64]sync.Mutex
}

var checkoutServiceInstance *CheckoutService

// InitCheckoutService initializes the checkout service
func InitCheckoutService(store CartStore, log zerolog.Logger) *CheckoutService {
	checkoutServiceInstance = &CheckoutService{store: store, log: log}
	return checkoutServiceInstance
}

// GetCheckoutService returns the initialized checkout service instance
func GetCheckoutService() *CheckoutService {
	return checkoutServiceInstance
}

func (s *CheckoutService) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

// PlaceOrder validates every cart entry, persists an order header plus one
// item row per entry in a single transaction, and clears the cart only after
// the commit succeeded. On any validation failure the cart is left untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, userID uint) (uint, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if len(cart) == 0 {
		return 0, ErrCartEmpty
	}

	// Strict validation: the same rules the cart view repairs silently are
	// fatal here. The first violation aborts the whole checkout.
	items := make([]models.OrderItem, 0, len(cart))
	total := 0.0
	for key, raw := range cart {
		dishID, entry, reason := decodeEntry(key, raw)
		if reason != "" {
			return 0, &CartInvalidError{DishID: key, Reason: reason}
		}
		total += entry.Price * float64(entry.Quantity)
		items = append(items, models.OrderItem{
			DishID:       dishID,
			Quantity:     entry.Quantity,
			PricePerItem: entry.Price,
		})
	}
	total = roundToCents(total)

	order := models.Order{
		UserID:     userID,
		TotalPrice: total,
		Status:     models.StatusPlaced,
	}

	// One atomic unit of work: the header insert must complete (so its
	// generated id is known) before the item inserts, and all of them
	// commit or roll back together.
	err = config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("inserting order header: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).
			Uint("user_id", userID).
			Int("items", len(items)).
			Msg("checkout transaction failed")
		return 0, fmt.Errorf("%w: %v", ErrOrderPlacementFailed, err)
	}

	// Only after the commit. A failed clear leaves a stale cart behind but
	// the order stands; the next view still shows what was ordered.
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Uint("order_id", order.ID).Msg("failed to clear cart after checkout")
	}

	s.log.Info().Uint("order_id", order.ID).Uint("user_id", userID).
		Float64("total_price", total).Int("items", len(items)).
		Msg("order placed")
	return order.ID, nil
}

// roundToCents rounds a money amount to two decimal places.
func roundToCents(x float64) float64 {
	return math.Round(x*100) / 100
}
