package cart

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"storefront/internal/identity"
	"storefront/internal/models"
)

type fakeOrderStore struct {
	mu      sync.Mutex
	err     error
	created []models.Order
	block   chan struct{}
}

func (f *fakeOrderStore) Create(_ context.Context, order models.Order) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, order)
	return "order-1", nil
}

func (f *fakeOrderStore) lastOrder(t *testing.T) models.Order {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		t.Fatal("no order was created")
	}
	return f.created[len(f.created)-1]
}

func checkoutFixture(t *testing.T, remote *fakeOrderStore) (*Orchestrator, *Store, *identity.Observer, *MemorySlot) {
	t.Helper()
	slot := NewMemorySlot()
	obs := identity.NewObserver()
	store := NewStore(context.Background(), slot)
	store.Bind(obs)
	return NewOrchestrator(store, obs, remote, DefaultPricing), store, obs, slot
}

func TestSubmitUnauthenticatedLeavesCartUntouched(t *testing.T) {
	remote := &fakeOrderStore{}
	o, store, _, _ := checkoutFixture(t, remote)
	ctx := context.Background()

	store.AddItem(ctx, item("p1", 10, 2))

	_, err := o.Submit(ctx)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(store.Items()) != 1 {
		t.Fatalf("cart must be untouched, got %+v", store.Items())
	}
	if len(remote.created) != 0 {
		t.Fatal("no order should have been submitted")
	}
}

func TestSubmitEmptyCartFails(t *testing.T) {
	remote := &fakeOrderStore{}
	o, _, obs, slot := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})

	_, err := o.Submit(ctx)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := slot.Read(ctx, "cart:u1"); !errors.Is(err, ErrSlotMiss) {
		t.Fatalf("persisted cart must be unchanged, got err=%v", err)
	}
}

func TestSubmitSuccessClearsCartAndSlot(t *testing.T) {
	remote := &fakeOrderStore{}
	o, store, obs, slot := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})
	store.AddItem(ctx, item("p1", 10, 3))
	second := item("p2", 5, 2)
	second.Size = "M"
	store.AddItem(ctx, second)

	orderID, err := o.Submit(ctx)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if orderID != "order-1" {
		t.Fatalf("unexpected order id %q", orderID)
	}

	if len(store.Items()) != 0 {
		t.Fatalf("cart must be cleared after success, got %+v", store.Items())
	}
	if _, err := slot.Read(ctx, "cart:u1"); !errors.Is(err, ErrSlotMiss) {
		t.Fatalf("slot must be erased after success, got err=%v", err)
	}

	order := remote.lastOrder(t)
	if order.UserEmail != "u1@example.com" {
		t.Fatalf("unexpected order email %q", order.UserEmail)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected both lines submitted, got %+v", order.Items)
	}
	if order.Status != OrderStatusProcessing {
		t.Fatalf("unexpected initial status %q", order.Status)
	}
}

func TestSubmitCleansOptionalFields(t *testing.T) {
	remote := &fakeOrderStore{}
	o, store, obs, _ := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})
	store.AddItem(ctx, models.CartItem{ProductID: "p1", Name: "Bare", Price: 12, Quantity: 1})

	if _, err := o.Submit(ctx); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	line := remote.lastOrder(t).Items[0]
	if line.Size != "" || line.Color != "" || line.Image != "" {
		t.Fatalf("optional fields must be defaulted to empty values, got %+v", line)
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}
}

func TestSubmitComputesBreakdownAtSubmissionTime(t *testing.T) {
	remote := &fakeOrderStore{}
	o, store, obs, _ := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})
	store.AddItem(ctx, item("p1", 10, 3))
	store.AddItem(ctx, item("p2", 5, 2))

	if _, err := o.Submit(ctx); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	order := remote.lastOrder(t)
	if order.Subtotal != 40 || order.Shipping != 15 || order.Tax != 3 || order.Total != 58 {
		t.Fatalf("unexpected breakdown: %+v", order)
	}
}

func TestSubmitRemoteFailurePreservesCart(t *testing.T) {
	remoteErr := errors.New("permission denied")
	remote := &fakeOrderStore{err: remoteErr}
	o, store, obs, slot := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})
	store.AddItem(ctx, item("p1", 10, 1))
	store.AddItem(ctx, item("p2", 5, 1))

	_, err := o.Submit(ctx)
	if !errors.Is(err, remoteErr) {
		t.Fatalf("remote error must be surfaced verbatim, got %v", err)
	}

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("cart must retain its lines after failure, got %+v", items)
	}
	if data, err := slot.Read(ctx, "cart:u1"); err != nil || !containsProduct(data, "p1") {
		t.Fatalf("persisted cart must survive failure: data=%s err=%v", data, err)
	}
	if o.InFlight() {
		t.Fatal("orchestrator must settle back to idle after failure")
	}
}

func TestSubmitRejectsSecondAttemptWhileInFlight(t *testing.T) {
	remote := &fakeOrderStore{block: make(chan struct{})}
	o, store, obs, _ := checkoutFixture(t, remote)
	ctx := context.Background()

	obs.Set(&identity.Identity{ID: "u1", Email: "u1@example.com"})
	store.AddItem(ctx, item("p1", 10, 1))

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.Submit(ctx)
		firstDone <- err
	}()

	for !o.InFlight() {
		runtime.Gosched()
	}

	_, err := o.Submit(ctx)
	if !errors.Is(err, ErrCheckoutInFlight) {
		t.Fatalf("expected ErrCheckoutInFlight, got %v", err)
	}

	close(remote.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission should have succeeded: %v", err)
	}
	if len(remote.created) != 1 {
		t.Fatalf("exactly one order must exist, got %d", len(remote.created))
	}
}
