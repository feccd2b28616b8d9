package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrx61527/PapuGO/config"
	"github.com/wrx61527/PapuGO/models"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupCheckoutService(t *testing.T) (*CheckoutService, *MemoryCartStore, *gorm.DB) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)

	store := NewMemoryCartStore()
	svc := InitCheckoutService(store, zerolog.Nop())
	return svc, store, db
}

// seedCart writes raw entries straight into the store, bypassing the cart
// service, so tests control exactly what checkout reads.
func seedCart(t *testing.T, store *MemoryCartStore, sessionID string, entries map[string]string) {
	cart := make(models.RawCart, len(entries))
	for k, v := range entries {
		cart[k] = json.RawMessage(v)
	}
	if err := store.Set(context.Background(), sessionID, cart); err != nil {
		t.Fatalf("Failed to seed cart: %v", err)
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, store, db := setupCheckoutService(t)
	ctx := context.Background()

	seedCart(t, store, "session-1", map[string]string{
		"1": `{"name":"Margherita","price":12.5,"quantity":2}`,
		"2": `{"name":"Garlic bread","price":2,"quantity":3}`,
	})

	orderID, err := svc.PlaceOrder(ctx, "session-1", 7)
	assert.NoError(t, err)
	assert.NotZero(t, orderID)

	// The order header carries the computed total and the initial status.
	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, 31.00, order.TotalPrice)
	assert.Equal(t, models.StatusPlaced, order.Status)

	// One item row per cart entry, with the snapshot pricing.
	var items []models.OrderItem
	assert.NoError(t, db.Where("order_id = ?", orderID).Order("dish_id").Find(&items).Error)
	assert.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].DishID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 12.50, items[0].PricePerItem)
	assert.Equal(t, uint(2), items[1].DishID)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, 2.00, items[1].PricePerItem)

	// The cart was cleared after the commit.
	cart, err := store.Get(ctx, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, cart)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc, _, db := setupCheckoutService(t)

	_, err := svc.PlaceOrder(context.Background(), "session-1", 7)
	assert.ErrorIs(t, err, ErrCartEmpty)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPlaceOrder_InvalidCartEntry(t *testing.T) {
	svc, store, db := setupCheckoutService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		entries map[string]string
		badDish string
	}{
		{
			name: "undecodable price",
			entries: map[string]string{
				"1": `{"name":"Margherita","price":12.5,"quantity":2}`,
				"2": `{"name":"Garlic bread","price":"two","quantity":3}`,
			},
			badDish: "2",
		},
		{
			name: "non-positive quantity",
			entries: map[string]string{
				"3": `{"name":"Margherita","price":12.5,"quantity":0}`,
			},
			badDish: "3",
		},
		{
			name: "negative price",
			entries: map[string]string{
				"4": `{"name":"Margherita","price":-1,"quantity":1}`,
			},
			badDish: "4",
		},
		{
			name: "non-numeric dish id",
			entries: map[string]string{
				"margherita": `{"name":"Margherita","price":12.5,"quantity":1}`,
			},
			badDish: "margherita",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seedCart(t, store, "session-1", tt.entries)

			_, err := svc.PlaceOrder(ctx, "session-1", 7)

			var cartErr *CartInvalidError
			assert.ErrorAs(t, err, &cartErr)
			assert.Equal(t, tt.badDish, cartErr.DishID)

			// No order was written and the cart is untouched, bad
			// entry included, so the user can fix it.
			var count int64
			db.Model(&models.Order{}).Count(&count)
			assert.Equal(t, int64(0), count)

			cart, err := store.Get(ctx, "session-1")
			assert.NoError(t, err)
			assert.Len(t, cart, len(tt.entries))
		})
	}
}

func TestPlaceOrder_RollsBackOnItemInsertFailure(t *testing.T) {
	svc, store, db := setupCheckoutService(t)
	ctx := context.Background()

	// Break the item insert: the header insert succeeds inside the
	// transaction, then the items fail, and the whole thing must roll back.
	if err := db.Migrator().DropTable(&models.OrderItem{}); err != nil {
		t.Fatalf("Failed to drop order_items table: %v", err)
	}

	seedCart(t, store, "session-1", map[string]string{
		"1": `{"name":"Margherita","price":12.5,"quantity":2}`,
	})

	_, err := svc.PlaceOrder(ctx, "session-1", 7)
	assert.ErrorIs(t, err, ErrOrderPlacementFailed)

	// No orphan order header survived the rollback.
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// The cart is still there for a retry.
	cart, err := store.Get(ctx, "session-1")
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestPlaceOrder_ConcurrentSameSession(t *testing.T) {
	svc, store, db := setupCheckoutService(t)
	ctx := context.Background()

	seedCart(t, store, "session-1", map[string]string{
		"1": `{"name":"Margherita","price":12.5,"quantity":2}`,
	})

	// Two checkouts race on the same session. The per-session lock
	// serializes them: exactly one commits, the other finds the cart
	// already cleared.
	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(ctx, "session-1", 7)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrCartEmpty)
		}
	}
	assert.Equal(t, 1, successes)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, 31.00, roundToCents(12.5*2+2.0*3))
	assert.Equal(t, 0.3, roundToCents(0.1+0.2))
	assert.Equal(t, 20.0, roundToCents(19.999))
	assert.Equal(t, 0.0, roundToCents(0))
}
