package cart

import (
	"testing"

	"storefront/internal/models"
)

func TestBreakdownBelowFreeShippingThreshold(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 10, Quantity: 3},
		{ProductID: "p2", Price: 5, Quantity: 2},
	}

	b := DefaultPricing.Breakdown(items)

	if b.Subtotal != 40 {
		t.Fatalf("expected subtotal 40, got %v", b.Subtotal)
	}
	if b.Shipping != 15 {
		t.Fatalf("expected flat shipping 15, got %v", b.Shipping)
	}
	if b.Tax != 3 {
		t.Fatalf("expected tax 3.0, got %v", b.Tax)
	}
	if b.Total != 58 {
		t.Fatalf("expected grand total 58.0, got %v", b.Total)
	}
}

func TestBreakdownAboveFreeShippingThreshold(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 40, Quantity: 3},
	}

	b := DefaultPricing.Breakdown(items)

	if b.Subtotal != 120 {
		t.Fatalf("expected subtotal 120, got %v", b.Subtotal)
	}
	if b.Shipping != 0 {
		t.Fatalf("expected free shipping, got %v", b.Shipping)
	}
	if b.Total != b.Subtotal+b.Tax {
		t.Fatalf("expected total = subtotal + tax, got %v", b.Total)
	}
}

func TestBreakdownAtExactThresholdStillChargesShipping(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 100, Quantity: 1},
	}

	b := DefaultPricing.Breakdown(items)
	if b.Shipping != 15 {
		t.Fatalf("shipping is waived only above the threshold, got %v", b.Shipping)
	}
}

func TestBreakdownRoundsDecimally(t *testing.T) {
	// 19.99 * 3 = 59.97; 59.97 * 0.075 = 4.49775 → 4.50.
	items := []models.CartItem{
		{ProductID: "p1", Price: 19.99, Quantity: 3},
	}

	b := DefaultPricing.Breakdown(items)
	if b.Subtotal != 59.97 {
		t.Fatalf("expected subtotal 59.97, got %v", b.Subtotal)
	}
	if b.Tax != 4.5 {
		t.Fatalf("expected tax 4.50, got %v", b.Tax)
	}
}

func TestBreakdownIsPure(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 10.10, Quantity: 7},
		{ProductID: "p2", Price: 0.35, Quantity: 9},
	}

	first := DefaultPricing.Breakdown(items)
	for i := 0; i < 100; i++ {
		if got := DefaultPricing.Breakdown(items); got != first {
			t.Fatalf("breakdown not stable: %+v vs %+v", got, first)
		}
	}
}
