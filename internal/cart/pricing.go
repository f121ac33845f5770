package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Pricing holds the fixed rates a price breakdown is derived from.
type Pricing struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64
}

// DefaultPricing matches the storefront's rates: flat 15 shipping, waived
// once the subtotal exceeds 100, and 7.5% tax.
var DefaultPricing = Pricing{
	FreeShippingThreshold: 100,
	FlatShippingFee:       15,
	TaxRate:               0.075,
}

// Breakdown derives the totals for the given line items. It is a pure
// function of its input: the same lines always yield the same breakdown.
// All arithmetic is decimal, rounded to two places.
func (p Pricing) Breakdown(items []models.CartItem) models.PriceBreakdown {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	shipping := decimal.NewFromFloat(p.FlatShippingFee)
	if subtotal.GreaterThan(decimal.NewFromFloat(p.FreeShippingThreshold)) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(decimal.NewFromFloat(p.TaxRate)).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	return models.PriceBreakdown{
		Subtotal: toFloat(subtotal),
		Shipping: toFloat(shipping),
		Tax:      toFloat(tax),
		Total:    toFloat(total),
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
