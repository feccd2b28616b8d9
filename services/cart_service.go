package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wrx61527/PapuGO/models"
)

// CartLine is one validated cart entry prepared for display.
type CartLine struct {
	DishID    uint    `json:"dish_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// CartView is the validated cart. Dropped lists the dish ids of entries that
// failed validation and were removed from the stored cart (read-repair).
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalPrice float64    `json:"total_price"`
	Dropped    []string   `json:"dropped,omitempty"`
}

// CartService maintains the per-session cart: a working set of dishes and
// quantities pending purchase.
type CartService struct {
	store   CartStore
	catalog *CatalogService
	log     zerolog.Logger
}

var cartServiceInstance *CartService

// InitCartService initializes the cart service
func InitCartService(store CartStore, catalog *CatalogService, log zerolog.Logger) *CartService {
	cartServiceInstance = &CartService{store: store, catalog: catalog, log: log}
	return cartServiceInstance
}

// GetCartService returns the initialized cart service instance
func GetCartService() *CartService {
	return cartServiceInstance
}

// Add puts quantity units of a dish into the session cart, snapshotting the
// dish name and price. Adding a dish that is already present increments its
// quantity.
func (s *CartService) Add(ctx context.Context, sessionID string, dishID uint, quantity int) (*models.CartEntry, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	dish, err := s.catalog.GetDish(dishID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(dishID), 10)
	current := 0
	if raw, ok := cart[key]; ok {
		var existing models.CartEntry
		// An undecodable or invalid existing entry is treated as absent;
		// the fresh snapshot replaces it.
		if err := json.Unmarshal(raw, &existing); err == nil && existing.Valid() {
			current = existing.Quantity
		}
	}

	entry := models.CartEntry{
		Name:     dish.Name,
		Price:    dish.Price,
		Quantity: current + quantity,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	cart[key] = raw

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove takes a dish out of the cart. Removing a dish that is not in the
// cart is not an error; the returned bool reports whether anything changed.
func (s *CartService) Remove(ctx context.Context, sessionID string, dishID uint) (bool, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}

	key := strconv.FormatUint(uint64(dishID), 10)
	if _, ok := cart[key]; !ok {
		return false, nil
	}
	delete(cart, key)

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return false, err
	}
	return true, nil
}

// View validates the stored cart and returns its lines with a running total.
// Entries that fail validation are dropped from the stored cart and reported
// in CartView.Dropped; a corrupted entry never blocks viewing the rest.
func (s *CartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartLine{}}
	for key, raw := range cart {
		dishID, entry, reason := decodeEntry(key, raw)
		if reason != "" {
			s.log.Warn().Str("dish_id", key).Str("reason", reason).Msg("dropping invalid cart entry")
			view.Dropped = append(view.Dropped, key)
			delete(cart, key)
			continue
		}
		lineTotal := entry.Price * float64(entry.Quantity)
		view.Items = append(view.Items, CartLine{
			DishID:    dishID,
			Name:      entry.Name,
			Price:     entry.Price,
			Quantity:  entry.Quantity,
			LineTotal: lineTotal,
		})
		view.TotalPrice += lineTotal
	}
	view.TotalPrice = roundToCents(view.TotalPrice)

	sort.Slice(view.Items, func(i, j int) bool { return view.Items[i].DishID < view.Items[j].DishID })

	if len(view.Dropped) > 0 {
		sort.Strings(view.Dropped)
		if err := s.store.Set(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Clear empties the cart. Used after a successful checkout.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// decodeEntry validates one raw cart entry. It returns a non-empty reason if
// the key is not a positive integer, the value does not decode, or the entry
// violates the quantity/price invariants.
func decodeEntry(key string, raw json.RawMessage) (uint, models.CartEntry, string) {
	var entry models.CartEntry
	id, err := strconv.ParseUint(key, 10, 32)
	if err != nil || id == 0 {
		return 0, entry, "dish id is not a positive integer"
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return 0, entry, "entry does not decode"
	}
	if entry.Quantity <= 0 {
		return 0, entry, "quantity is not positive"
	}
	if entry.Price < 0 {
		return 0, entry, "price is negative"
	}
	return uint(id), entry, ""
}
