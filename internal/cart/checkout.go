package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"storefront/internal/identity"
	"storefront/internal/models"
)

var (
	// ErrUnauthenticated rejects checkout while no identity is present.
	ErrUnauthenticated = errors.New("checkout: not authenticated")
	// ErrEmptyCart rejects checkout of a cart with no line items.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrCheckoutInFlight rejects a submission while another one is pending.
	ErrCheckoutInFlight = errors.New("checkout: submission already in flight")
)

// OrderStore is the remote document store orders are submitted to. Creation
// is a single atomic document write; the store assigns the id and the
// created/updated timestamps.
type OrderStore interface {
	Create(ctx context.Context, order models.Order) (string, error)
}

// OrderStatusProcessing is the initial status every submitted order carries.
const OrderStatusProcessing = "processing"

// Orchestrator drives a session's checkout. It sits idle between
// submissions and allows only one submission in flight at a time.
type Orchestrator struct {
	store    *Store
	identity *identity.Observer
	orders   OrderStore
	pricing  Pricing

	mu         sync.Mutex
	submitting bool
}

func NewOrchestrator(store *Store, obs *identity.Observer, orders OrderStore, pricing Pricing) *Orchestrator {
	return &Orchestrator{
		store:    store,
		identity: obs,
		orders:   orders,
		pricing:  pricing,
	}
}

// InFlight reports whether a submission is currently pending.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitting
}

// Submit snapshots the cart into an immutable order and creates it in the
// remote store. On success the cart is cleared for the current identity; on
// any failure the cart is left untouched so the user can retry, and remote
// errors are returned to the caller verbatim.
func (o *Orchestrator) Submit(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return "", ErrCheckoutInFlight
	}
	o.submitting = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	id := o.identity.Current()
	if id == nil {
		return "", ErrUnauthenticated
	}

	items := o.store.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	order := buildOrder(id, items, o.pricing)
	orderID, err := o.orders.Create(ctx, order)
	if err != nil {
		log.Println("[CHECKOUT] [ERROR] order submission failed:", err)
		return "", err
	}

	o.store.Clear(ctx)
	log.Printf("[CHECKOUT] [INFO] order %s created for %s", orderID, id.Email)
	return orderID, nil
}

// buildOrder cleans every line item so the stored document carries no
// missing fields, and derives the price breakdown from the cart as it is at
// submission time.
func buildOrder(id *identity.Identity, items []models.CartItem, pricing Pricing) models.Order {
	cleaned := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		cleaned = append(cleaned, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	breakdown := pricing.Breakdown(items)

	return models.Order{
		UserEmail: id.Email,
		Items:     cleaned,
		Subtotal:  breakdown.Subtotal,
		Shipping:  breakdown.Shipping,
		Tax:       breakdown.Tax,
		Total:     breakdown.Total,
		Status:    OrderStatusProcessing,
	}
}
