package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"storefront/internal/identity"
	"storefront/internal/models"
)

// GuestKey is the persistence slot used while no identity is present.
const GuestKey = "cart:guest"

// SlotKey returns the persistence key for the given identity.
func SlotKey(id *identity.Identity) string {
	if id == nil {
		return GuestKey
	}
	return "cart:" + id.ID
}

// Store is the single source of truth for a session's active cart. All
// mutations go through it; readers only ever receive copies. Each identity
// has its own persisted cart, and switching identity swaps the active line
// items wholesale — carts are never merged.
type Store struct {
	mu    sync.Mutex
	slot  Slot
	key   string
	items []models.CartItem
	subs  []func([]models.CartItem)
}

// NewStore loads the guest cart from slot and returns a store bound to it.
func NewStore(ctx context.Context, slot Slot) *Store {
	s := &Store{slot: slot, key: GuestKey}
	s.items = s.readSlot(ctx, GuestKey)
	return s
}

// Bind subscribes the store to identity changes. Every change re-keys the
// persistence slot and replaces the in-memory cart with whatever was
// persisted for the new identity. The returned function unsubscribes.
func (s *Store) Bind(obs *identity.Observer) func() {
	return obs.Subscribe(func(id *identity.Identity) {
		s.switchKey(context.Background(), SlotKey(id))
	})
}

// Subscribe registers fn to run after every cart change with a snapshot of
// the new line items. The returned function unsubscribes.
func (s *Store) Subscribe(fn func([]models.CartItem)) func() {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs[idx] = nil
		s.mu.Unlock()
	}
}

// Items returns a snapshot of the current line items in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItemsLocked()
}

// Count returns the total quantity across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Key returns the persistence key the store is currently writing to.
func (s *Store) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// AddItem appends a new line, or bumps the quantity of the line already
// holding the same (product, size, color) variant. An existing line's name,
// price and image snapshot is not refreshed.
func (s *Store) AddItem(ctx context.Context, item models.CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].SameVariant(item) {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// RemoveItem drops every line for the given product. Removal is by product
// only: all size and color variants of the product go at once.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// UpdateQuantity sets the quantity for every line matching productID. A
// quantity below 1 removes the lines instead; no line is ever stored with a
// non-positive quantity.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
		}
	}
	snapshot := s.commitLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Clear empties the cart and erases the persisted slot for the current
// identity.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	if err := s.slot.Delete(ctx, s.key); err != nil {
		log.Println("[CART] [WARN] slot delete failed:", err)
	}
	s.mu.Unlock()

	s.notify(nil)
}

func (s *Store) switchKey(ctx context.Context, key string) {
	s.mu.Lock()
	if s.key == key {
		s.mu.Unlock()
		return
	}
	s.key = key
	s.items = s.readSlot(ctx, key)
	snapshot := s.copyItemsLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

// readSlot never fails: a missing or corrupt slot yields an empty cart.
func (s *Store) readSlot(ctx context.Context, key string) []models.CartItem {
	data, err := s.slot.Read(ctx, key)
	if errors.Is(err, ErrSlotMiss) {
		return nil
	}
	if err != nil {
		log.Println("[CART] [WARN] slot read failed:", err)
		return nil
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[CART] [WARN] discarding corrupt cart under %s: %v", key, err)
		return nil
	}
	return items
}

// commitLocked persists the current line items and returns a snapshot of
// them. A write failure is logged but does not fail the mutation: the
// in-memory cart stays correct for the session.
func (s *Store) commitLocked(ctx context.Context) []models.CartItem {
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Println("[CART] [WARN] cart serialization failed:", err)
		return s.copyItemsLocked()
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		log.Printf("[CART] [WARN] slot write failed for %s: %v", s.key, err)
	}
	return s.copyItemsLocked()
}

func (s *Store) copyItemsLocked() []models.CartItem {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) notify(snapshot []models.CartItem) {
	s.mu.Lock()
	subs := make([]func([]models.CartItem), 0, len(s.subs))
	for _, fn := range s.subs {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
